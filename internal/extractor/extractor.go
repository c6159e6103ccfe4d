// Package extractor derives the structured metadata fields for a post from
// its raw EXIF tag map, image dimensions and IPTC-style location fields,
// applying the user-curated correction tables along the way. Every source tag
// is optional: a missing tag skips its fields and nothing else.
package extractor

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bstardust/photo-seo-enricher/internal/convert"
	"github.com/bstardust/photo-seo-enricher/internal/corrections"
	"github.com/bstardust/photo-seo-enricher/internal/exifreader"
	"github.com/bstardust/photo-seo-enricher/internal/logger"
	"github.com/bstardust/photo-seo-enricher/pkg/models"
)

// UnknownCamera is stored when a camera tag exists but resolves to nothing.
const UnknownCamera = "Unknown Camera"

// genericIPhone is the corrected name some iPhone models collapse to; the
// lens description then distinguishes the actual device.
const genericIPhone = "Apple iPhone"

// defaultLensByCamera maps fixed-lens devices to their built-in lens, used
// when the file carries no lens description of its own.
var defaultLensByCamera = map[string]string{
	"Fujifilm X100V":          "23mm ƒ/2",
	"Apple iPhone 6s":         "iPhone 6s back camera",
	"Ricoh GR III":            "18.3mm ƒ/2.8",
	"Panasonic LX100 II":      "Leica DC Vario-Summilux 24-75mm",
	"Sony RX100 VII":          "Zeiss 24-200mm ƒ/2.8-4.5",
	"Fujifilm X100F":          "23mm ƒ/2",
	"Apple iPhone 15 Pro Max": "iPhone 15 Pro Max main camera",
}

// MetadataSink receives extracted fields with set-if-absent semantics.
type MetadataSink interface {
	SetMetaIfAbsent(postID int64, key, value string) (bool, error)
}

// Input bundles the raw sources for one photo.
type Input struct {
	Tags   exifreader.RawTags
	IPTC   map[string]string
	Width  int
	Height int
}

// Extractor turns raw photo metadata into the per-post field bag.
type Extractor struct {
	sink   MetadataSink
	tables *corrections.Tables
}

// New creates an Extractor writing to sink and consulting the given
// correction tables.
func New(sink MetadataSink, tables *corrections.Tables) *Extractor {
	return &Extractor{sink: sink, tables: tables}
}

// Extract runs the full field derivation for one post. Fields are computed in
// memory first, then written through the sink so each key is stored at most
// once per pass.
func (e *Extractor) Extract(postID int64, in Input) error {
	fields := make(map[string]string)

	e.dimensions(fields, in.Width, in.Height)
	e.cameraAndLens(fields, in.Tags)
	e.exposure(fields, in.Tags)
	e.dateTime(fields, in.Tags)
	e.gps(fields, in.Tags)
	e.altitude(fields, in.Tags)
	e.iptcLocation(fields, in.IPTC)

	for _, key := range models.GeneratedKeys {
		value, ok := fields[key]
		if !ok || value == "" {
			continue
		}
		if _, err := e.sink.SetMetaIfAbsent(postID, key, value); err != nil {
			return fmt.Errorf("failed to store %s: %w", key, err)
		}
	}
	return nil
}

func (e *Extractor) dimensions(fields map[string]string, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	fields[models.MetaPhotoWidth] = strconv.Itoa(w)
	fields[models.MetaPhotoHeight] = strconv.Itoa(h)
	fields[models.MetaDimensions] = fmt.Sprintf("%dx%d", w, h)
	fields[models.MetaMegapixels] = strconv.FormatFloat(
		math.Round(float64(w)*float64(h)/1e6*100)/100, 'f', -1, 64)
	fields[models.MetaAspectRatio] = convert.AspectRatio(w, h)
}

func (e *Extractor) cameraAndLens(fields map[string]string, tags exifreader.RawTags) {
	lensDesc := tags.GetString(exifreader.TagLensModel)

	if _, present := tags[exifreader.TagModel]; present {
		camera := e.resolveName(e.tables.Cameras, tags.GetString(exifreader.TagModel))
		if camera == "" {
			camera = UnknownCamera
		}
		// Some devices correct to a generic name; the lens description
		// carries the specific model.
		if camera == genericIPhone {
			switch {
			case strings.Contains(lensDesc, "15 Pro Max"):
				camera = "Apple iPhone 15 Pro Max"
			case strings.Contains(lensDesc, "iPhone 6s"):
				camera = "Apple iPhone 6s"
			}
		}
		fields[models.MetaCamera] = camera

		if _, haveLens := fields[models.MetaLens]; !haveLens {
			if defaultLens, ok := defaultLensByCamera[camera]; ok && lensDesc == "" {
				fields[models.MetaLens] = defaultLens
			}
		}
	}

	if lensDesc != "" && fields[models.MetaLens] == "" {
		fields[models.MetaLens] = e.resolveName(e.tables.Lenses, lensDesc)
	}
}

// resolveName applies a correction table, falling back to the raw value.
func (e *Extractor) resolveName(table *corrections.Table, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	pretty, ok, err := table.Lookup(raw)
	if err != nil {
		logger.Warn("correction lookup for %q failed: %v", raw, err)
		return raw
	}
	if ok {
		return pretty
	}
	return raw
}

func (e *Extractor) exposure(fields map[string]string, tags exifreader.RawTags) {
	if v := tags.GetString(exifreader.TagAperture); v != "" {
		if rendered := convert.ApexToFNumber(convert.FractionToFloat(v)); rendered != convert.NoValue {
			fields[models.MetaFStop] = rendered
		}
	}
	if v := tags.GetString(exifreader.TagShutterSpeed); v != "" {
		if rendered := convert.ApexToShutter(convert.FractionToFloat(v)); rendered != convert.NoValue {
			fields[models.MetaShutter] = rendered
		}
	}
	if v := tags.GetString(exifreader.TagISO); v != "" {
		fields[models.MetaISO] = v + " ISO"
	}
	if v := tags.GetString(exifreader.TagFocalLength); v != "" {
		if mm := convert.FractionToFloat(v); mm > 0 {
			fields[models.MetaFocalLength] = fmt.Sprintf("%dmm", int(math.Round(mm)))
		}
	}
}

func (e *Extractor) dateTime(fields map[string]string, tags exifreader.RawTags) {
	raw := tags.GetString(exifreader.TagDateTimeOriginal)
	if raw == "" {
		return
	}
	t, err := time.Parse("2006:01:02 15:04:05", raw)
	if err != nil {
		// Malformed timestamps are skipped, never fatal.
		logger.Debug("unparseable DateTimeOriginal %q: %v", raw, err)
		return
	}

	fields[models.MetaDateTimeOriginal] = raw
	fields[models.MetaDate] = t.Format("2006-01-02")
	fields[models.MetaYear] = t.Format("2006")
	fields[models.MetaMonth] = strconv.Itoa(int(t.Month()))
	fields[models.MetaMonthName] = t.Month().String()
	fields[models.MetaDay] = strconv.Itoa(t.Day())
	fields[models.MetaWeekday] = t.Weekday().String()
	fields[models.MetaHour] = strconv.Itoa(t.Hour())
	fields[models.MetaMinute] = strconv.Itoa(t.Minute())
	fields[models.MetaTime] = t.Format("15:04")
	fields[models.MetaTimeOfDay] = timeOfDay(t.Hour())

	// Wall-clock instant; the timezone enrichment shifts it to UTC later.
	utc := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
	fields[models.MetaUnixTime] = strconv.FormatInt(utc.Unix(), 10)
}

func timeOfDay(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "Morning"
	case hour >= 12 && hour < 17:
		return "Afternoon"
	case hour >= 17 && hour < 21:
		return "Evening"
	default:
		return "Night"
	}
}

func (e *Extractor) gps(fields map[string]string, tags exifreader.RawTags) {
	lat := tags.GetFloats(exifreader.TagGPSLatitude)
	lon := tags.GetFloats(exifreader.TagGPSLongitude)
	latRef := tags.GetString(exifreader.TagGPSLatitudeRef)
	lonRef := tags.GetString(exifreader.TagGPSLongitudeRef)
	if len(lat) < 3 || len(lon) < 3 || latRef == "" || lonRef == "" {
		return
	}

	latDec := round4(convert.DMSToDecimal(lat[0], lat[1], lat[2], latRef))
	lonDec := round4(convert.DMSToDecimal(lon[0], lon[1], lon[2], lonRef))
	if latDec == 0 && lonDec == 0 {
		// Null island means the camera had no fix.
		return
	}

	latStr := strconv.FormatFloat(latDec, 'f', 4, 64)
	lonStr := strconv.FormatFloat(lonDec, 'f', 4, 64)
	fields[models.MetaGPS] = latStr + "," + lonStr
	fields[models.MetaGPSLat] = latStr
	fields[models.MetaGPSLon] = lonStr
	fields[models.MetaGeoHash] = convert.Geohash(latDec, lonDec, 12)
	fields[models.MetaGPCode] = convert.PlusCode(latDec, lonDec)
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}

func (e *Extractor) altitude(fields map[string]string, tags exifreader.RawTags) {
	raw := tags.GetString(exifreader.TagGPSAltitude)
	if raw == "" {
		return
	}
	parts := strings.SplitN(raw, "/", 2)
	if len(parts) == 2 && strings.TrimSpace(parts[1]) == "0" {
		return
	}
	meters := convert.FractionToFloat(raw)
	fields[models.MetaGPSAlt] = strconv.FormatFloat(math.Round(meters*100)/100, 'f', -1, 64)
}

func (e *Extractor) iptcLocation(fields map[string]string, iptc map[string]string) {
	if iptc == nil {
		return
	}
	if loc := strings.TrimSpace(iptc[exifreader.TagSubLocation]); loc != "" {
		fields[models.MetaLocation] = e.resolveName(e.tables.Locations, loc)
	}
	if city := strings.TrimSpace(iptc[exifreader.TagCity]); city != "" {
		// City normalizations live in the location table too (e.g. the
		// seeded "Las Vegas Valley" row).
		fields[models.MetaCity] = e.resolveName(e.tables.Locations, city)
	}
	if state := strings.TrimSpace(iptc[exifreader.TagState]); state != "" {
		fields[models.MetaState] = state
	}
	if country := strings.TrimSpace(iptc[exifreader.TagCountry]); country != "" {
		fields[models.MetaCountry] = country
	}
}
