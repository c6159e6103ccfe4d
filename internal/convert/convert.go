// Package convert holds the unit conversions used by the metadata extractor:
// EXIF rational parsing, APEX exposure math, GPS coordinate encoding and
// temperature conversion. The converters never return errors; on malformed
// input they fall back to a sentinel or the input value, and callers rely on
// that graceful degradation.
package convert

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	olc "github.com/google/open-location-code/go"
)

// NoValue is returned by the APEX renderers when the decoded value is zero.
const NoValue = "no value"

const geohashBase32 = "0123456789bcdefghjkmnpqrstuvwxyz"

// FractionToFloat parses an EXIF rational of the form "a/b". A plain number
// parses directly. Division by zero returns the numerator unchanged rather
// than failing; anything unparseable returns 0.
func FractionToFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "/") {
		f, _ := strconv.ParseFloat(s, 64)
		return f
	}
	parts := strings.SplitN(s, "/", 2)
	num, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	den, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil {
		return 0
	}
	if err2 != nil || den == 0 {
		return num
	}
	return num / den
}

// ApexToShutter decodes an APEX shutter speed value into a display string,
// "4s" for exposures of a second or longer and "1/250s" below that.
func ApexToShutter(apex float64) string {
	shutter := math.Pow(2, -apex)
	if shutter == 0 {
		return NoValue
	}
	if shutter >= 1 {
		return fmt.Sprintf("%ds", int(math.Round(shutter)))
	}
	return fmt.Sprintf("1/%ds", int(math.Round(1/shutter)))
}

// ApexToFNumber decodes an APEX aperture value into an "ƒ/8.0" display string.
func ApexToFNumber(apex float64) string {
	fstop := math.Pow(2, apex/2)
	if fstop == 0 {
		return NoValue
	}
	return fmt.Sprintf("ƒ/%.1f", math.Round(fstop*10)/10)
}

// DMSToDecimal converts degree/minute/second GPS components to a decimal
// coordinate, negated for the southern and western hemispheres.
func DMSToDecimal(degrees, minutes, seconds float64, hemisphere string) float64 {
	decimal := degrees + minutes/60 + seconds/3600
	switch strings.ToUpper(strings.TrimSpace(hemisphere)) {
	case "S", "W":
		decimal = -decimal
	}
	return decimal
}

// Geohash encodes a coordinate as a base-32 geohash of the given precision,
// interleaving longitude and latitude bits starting with longitude.
func Geohash(lat, lon float64, precision int) string {
	if precision <= 0 {
		precision = 12
	}
	latRange := [2]float64{-90, 90}
	lonRange := [2]float64{-180, 180}

	var sb strings.Builder
	var ch, bit int
	evenBit := true

	for sb.Len() < precision {
		if evenBit {
			mid := (lonRange[0] + lonRange[1]) / 2
			if lon >= mid {
				ch = ch<<1 | 1
				lonRange[0] = mid
			} else {
				ch <<= 1
				lonRange[1] = mid
			}
		} else {
			mid := (latRange[0] + latRange[1]) / 2
			if lat >= mid {
				ch = ch<<1 | 1
				latRange[0] = mid
			} else {
				ch <<= 1
				latRange[1] = mid
			}
		}
		evenBit = !evenBit

		bit++
		if bit == 5 {
			sb.WriteByte(geohashBase32[ch])
			bit, ch = 0, 0
		}
	}
	return sb.String()
}

// PlusCode encodes a coordinate as a standard Open Location Code.
func PlusCode(lat, lon float64) string {
	return olc.Encode(lat, lon, 11)
}

// FahrenheitToCelsius converts and rounds to two decimals.
func FahrenheitToCelsius(f float64) float64 {
	return math.Round((f-32)*5/9*100) / 100
}

// AspectRatio reduces width x height to its simplest "w:h" form.
func AspectRatio(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	d := gcd(width, height)
	return fmt.Sprintf("%d:%d", width/d, height/d)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
