package models

// Metadata keys for the per-post key-value bag. Keys are stable strings: they
// are what the store persists and what templates/operators see, so they never
// get renamed.
const (
	MetaCamera      = "camera"
	MetaLens        = "lens"
	MetaFStop       = "fstop"
	MetaShutter     = "shutterspeed"
	MetaISO         = "iso"
	MetaFocalLength = "focallength"

	MetaGPS     = "GPS"
	MetaGPSLat  = "GPSLat"
	MetaGPSLon  = "GPSLon"
	MetaGPSAlt  = "GPSAlt"
	MetaGeoHash = "geoHash"
	MetaGPCode  = "GPCode"

	MetaPhotoWidth  = "photo_width"
	MetaPhotoHeight = "photo_height"
	MetaDimensions  = "dimensions"
	MetaMegapixels  = "megapixels"
	MetaAspectRatio = "aspect_ratio"

	MetaDateTimeOriginal = "dateTimeOriginal"
	MetaDate             = "dateOriginal"
	MetaYear             = "year"
	MetaMonth            = "month"
	MetaMonthName        = "monthName"
	MetaDay              = "day"
	MetaWeekday          = "dayOfWeek"
	MetaHour             = "hour"
	MetaMinute           = "minute"
	MetaTime             = "time"
	MetaTimeOfDay        = "timeOfDayContext"
	MetaUnixTime         = "unixTime"
	MetaGMTOffset        = "gmtOffset"
	MetaTimeZone         = "timeZone"

	MetaLocation = "location"
	MetaCity     = "city"
	MetaState    = "state"
	MetaCountry  = "country"

	MetaWeatherSummary = "wXSummary"
	MetaTemperature    = "temperature"

	MetaSEODescription = "seo_description"
	MetaCaption        = "caption"
)

// GeneratedKeys lists every key the pipeline writes, in the order the extractor
// produces them. The clear-before-regenerate policy deletes exactly this set.
var GeneratedKeys = []string{
	MetaCamera, MetaLens, MetaFStop, MetaShutter, MetaISO, MetaFocalLength,
	MetaGPS, MetaGPSLat, MetaGPSLon, MetaGPSAlt, MetaGeoHash, MetaGPCode,
	MetaPhotoWidth, MetaPhotoHeight, MetaDimensions, MetaMegapixels, MetaAspectRatio,
	MetaDateTimeOriginal, MetaDate, MetaYear, MetaMonth, MetaMonthName,
	MetaDay, MetaWeekday, MetaHour, MetaMinute, MetaTime, MetaTimeOfDay,
	MetaUnixTime, MetaGMTOffset, MetaTimeZone,
	MetaLocation, MetaCity, MetaState, MetaCountry,
	MetaWeatherSummary, MetaTemperature,
	MetaSEODescription, MetaCaption,
}
