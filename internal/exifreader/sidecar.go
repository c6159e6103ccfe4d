package exifreader

import (
	"encoding/json"
	"fmt"
	"io"
)

// Sidecar is the optional JSON file next to a photo carrying the editorial
// fields and the IPTC-style descriptive location that a CMS would normally
// supply.
type Sidecar struct {
	Title    string   `json:"title,omitempty"`
	Content  string   `json:"content,omitempty"`
	Excerpt  string   `json:"excerpt,omitempty"`
	Caption  string   `json:"caption,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Location string   `json:"location,omitempty"`
	City     string   `json:"city,omitempty"`
	State    string   `json:"state,omitempty"`
	Country  string   `json:"country,omitempty"`
}

// ReadSidecar decodes a sidecar JSON document.
func ReadSidecar(r io.Reader) (*Sidecar, error) {
	var sc Sidecar
	if err := json.NewDecoder(r).Decode(&sc); err != nil {
		return nil, fmt.Errorf("failed to decode sidecar metadata: %w", err)
	}
	return &sc, nil
}

// IPTCFields returns the descriptive location fields of the sidecar in the
// shape the extractor expects. A nil sidecar yields an empty set.
func (s *Sidecar) IPTCFields() map[string]string {
	if s == nil {
		return map[string]string{}
	}
	return map[string]string{
		TagSubLocation: s.Location,
		TagCity:        s.City,
		TagState:       s.State,
		TagCountry:     s.Country,
	}
}
