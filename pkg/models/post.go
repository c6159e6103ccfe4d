package models

import "time"

// Post is a content item carrying one photograph plus the editorial text the
// SEO engine scores tags against.
type Post struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	Excerpt   string    `json:"excerpt,omitempty"`
	PhotoPath string    `json:"photo_path"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CorrectionEntry is a row in one of the three correction tables. RawName is
// the unique lookup key; Pretty is the replacement value (the full location
// name for the location table).
type CorrectionEntry struct {
	ID        int64     `json:"id"`
	RawName   string    `json:"raw_name"`
	Pretty    string    `json:"pretty_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlaceNode is a node in the location taxonomy forest. ParentID of zero means
// the node sits at the root level (a country).
type PlaceNode struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID int64  `json:"parent_id"`
}

// WeatherAttempt is per-post bookkeeping for the weather fetch cooldown.
// Timestamps are unix seconds; zero means "never".
type WeatherAttempt struct {
	PostID       int64
	LastAttempt  int64
	LastFailure  int64
	LastSuccess  int64
	GPSUsed      string
	DateTimeUsed string
}

// ScoredTag pairs a surviving free-form tag with its relevance score. Ephemeral:
// computed per SEO generation call, never persisted.
type ScoredTag struct {
	Text  string
	Score int
}
