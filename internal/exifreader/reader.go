// Package exifreader adapts goexif output into the raw tag map the extractor
// consumes. Parsing stays here so the extractor only ever sees plain strings,
// fraction strings and float slices.
package exifreader

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
)

func init() {
	// Vendor maker-note parsers so some manufacturer fields decode correctly.
	exif.RegisterParsers(mknote.All...)
}

// RawTags is the tag map handed to the extractor. Values are strings
// (including "num/den" fraction strings) or []float64 for the GPS DMS triples.
type RawTags map[string]interface{}

// GetString returns a string tag, empty when absent or of another type.
func (r RawTags) GetString(name string) string {
	if v, ok := r[name].(string); ok {
		return v
	}
	return ""
}

// GetFloats returns a float-slice tag, nil when absent.
func (r RawTags) GetFloats(name string) []float64 {
	if v, ok := r[name].([]float64); ok {
		return v
	}
	return nil
}

// Tag names produced by Read. These mirror the EXIF/IPTC field names so the
// extractor reads the same vocabulary a raw dump shows.
const (
	TagModel            = "Model"
	TagLensModel        = "LensModel"
	TagAperture         = "ApertureValue"
	TagShutterSpeed     = "ShutterSpeedValue"
	TagISO              = "ISOSpeedRatings"
	TagFocalLength      = "FocalLength"
	TagDateTimeOriginal = "DateTimeOriginal"
	TagGPSLatitude      = "GPSLatitude"
	TagGPSLatitudeRef   = "GPSLatitudeRef"
	TagGPSLongitude     = "GPSLongitude"
	TagGPSLongitudeRef  = "GPSLongitudeRef"
	TagGPSAltitude      = "GPSAltitude"
	TagSubLocation      = "Sub-location"
	TagCity             = "City"
	TagState            = "Province-State"
	TagCountry          = "Country-PrimaryLocationName"
)

// Read decodes the EXIF block of an image into a raw tag map. A file without
// EXIF yields an empty map, not an error; the pipeline treats every tag as
// optional.
func Read(r io.Reader) (RawTags, error) {
	tags := make(RawTags)

	x, err := exif.Decode(r)
	if err != nil {
		if exif.IsCriticalError(err) {
			return tags, nil
		}
	}
	if x == nil {
		return tags, nil
	}

	putString(tags, x, exif.Model, TagModel)
	putString(tags, x, exif.LensModel, TagLensModel)
	putString(tags, x, exif.DateTimeOriginal, TagDateTimeOriginal)
	putString(tags, x, exif.GPSLatitudeRef, TagGPSLatitudeRef)
	putString(tags, x, exif.GPSLongitudeRef, TagGPSLongitudeRef)

	putRational(tags, x, exif.ApertureValue, TagAperture)
	putRational(tags, x, exif.ShutterSpeedValue, TagShutterSpeed)
	putRational(tags, x, exif.FocalLength, TagFocalLength)
	putRational(tags, x, exif.GPSAltitude, TagGPSAltitude)

	if tag, err := x.Get(exif.ISOSpeedRatings); err == nil {
		if iso, err := tag.Int(0); err == nil {
			tags[TagISO] = fmt.Sprintf("%d", iso)
		}
	}

	putDMS(tags, x, exif.GPSLatitude, TagGPSLatitude)
	putDMS(tags, x, exif.GPSLongitude, TagGPSLongitude)

	return tags, nil
}

func putString(tags RawTags, x *exif.Exif, field exif.FieldName, name string) {
	tag, err := x.Get(field)
	if err != nil {
		return
	}
	if s, err := tag.StringVal(); err == nil && s != "" {
		tags[name] = s
	}
}

func putRational(tags RawTags, x *exif.Exif, field exif.FieldName, name string) {
	tag, err := x.Get(field)
	if err != nil {
		return
	}
	num, den, err := tag.Rat2(0)
	if err != nil {
		return
	}
	tags[name] = fmt.Sprintf("%d/%d", num, den)
}

func putDMS(tags RawTags, x *exif.Exif, field exif.FieldName, name string) {
	tag, err := x.Get(field)
	if err != nil || tag == nil {
		return
	}
	dms := make([]float64, 0, 3)
	for i := 0; i < 3; i++ {
		num, den, err := tag.Rat2(i)
		if err != nil || den == 0 {
			return
		}
		dms = append(dms, float64(num)/float64(den))
	}
	tags[name] = dms
}

// Dimensions reads pixel width and height from the image header.
func Dimensions(r io.Reader) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
