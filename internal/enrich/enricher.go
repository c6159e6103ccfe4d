package enrich

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/bstardust/photo-seo-enricher/internal/logger"
	"github.com/bstardust/photo-seo-enricher/internal/store"
	"github.com/bstardust/photo-seo-enricher/pkg/models"
)

// FailureCooldown is how long after a failed weather fetch new attempts are
// suppressed, acting as the rate limiter against a flaky or quota-limited API.
const FailureCooldown = time.Hour

// User-facing errors for the manual refresh path. The background path logs
// and swallows these; the sync path surfaces them verbatim.
var (
	ErrNoGPS         = errors.New("No GPS coordinates found")
	ErrNoCaptureTime = errors.New("No capture time found")
	ErrWeatherFetch  = errors.New("Failed to retrieve weather data from API")
	ErrOnCooldown    = errors.New("Weather fetch is cooling down after a recent failure")
)

// Enricher runs the timezone and weather stages for a post.
type Enricher struct {
	store    *store.Store
	timezone *TimezoneClient
	weather  *WeatherClient
	now      func() time.Time
}

// New builds an Enricher over the given store and API clients.
func New(s *store.Store, tz *TimezoneClient, wx *WeatherClient) *Enricher {
	return &Enricher{store: s, timezone: tz, weather: wx, now: time.Now}
}

// ResolveTimezone fills gmtOffset and timeZone when they are absent and the
// post has valid GPS plus a capture time. Failures leave the fields absent so
// a later pass can retry; this method never returns a lookup error.
func (e *Enricher) ResolveTimezone(ctx context.Context, postID int64) error {
	if has, err := e.store.MetaExists(postID, models.MetaGMTOffset); err != nil || has {
		return err
	}
	lat, lon, ok, err := e.gps(postID)
	if err != nil || !ok {
		return err
	}
	unixTime, ok, err := e.unixTime(postID)
	if err != nil || !ok {
		return err
	}

	result := e.timezone.Resolve(ctx, lat, lon, unixTime)
	if !result.Resolved {
		return nil
	}

	offset := strconv.FormatFloat(result.OffsetHours, 'f', -1, 64)
	if _, err := e.store.SetMetaIfAbsent(postID, models.MetaGMTOffset, offset); err != nil {
		return err
	}
	_, err = e.store.SetMetaIfAbsent(postID, models.MetaTimeZone, result.ZoneName)
	return err
}

// RefreshWeather fetches and stores weather for a post. Preconditions that
// are not met return a specific user-facing error. A failure within the
// cooldown window suppresses new attempts unless force is set.
func (e *Enricher) RefreshWeather(ctx context.Context, postID int64, force bool) error {
	lat, lon, ok, err := e.gps(postID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoGPS
	}
	unixTime, ok, err := e.unixTime(postID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoCaptureTime
	}

	attempt, err := e.store.WeatherAttempt(postID)
	if err != nil {
		return err
	}
	now := e.now().Unix()
	if !force && attempt.LastFailure > 0 && now-attempt.LastFailure < int64(FailureCooldown.Seconds()) {
		return ErrOnCooldown
	}

	utc := e.toUTC(postID, unixTime)
	gpsUsed, _, _ := e.store.GetMeta(postID, models.MetaGPS)

	cond, fetchErr := e.weather.Fetch(ctx, lat, lon, utc)
	if fetchErr != nil {
		logger.Info("weather fetch for post %d failed: %v", postID, fetchErr)
		// Only the failure bookkeeping changes; a prior success stays on
		// the record.
		record := attempt
		record.PostID = postID
		record.LastAttempt = now
		record.LastFailure = now
		record.GPSUsed = gpsUsed
		if err := e.store.SaveWeatherAttempt(record); err != nil {
			return err
		}
		return ErrWeatherFetch
	}

	if err := e.store.SetMeta(postID, models.MetaWeatherSummary, cond.Summary); err != nil {
		return err
	}
	celsius := strconv.FormatFloat((cond.TemperatureF-32)*5/9, 'f', 2, 64)
	if err := e.store.SetMeta(postID, models.MetaTemperature, celsius); err != nil {
		return err
	}

	return e.store.SaveWeatherAttempt(models.WeatherAttempt{
		PostID:       postID,
		LastAttempt:  now,
		LastSuccess:  now,
		GPSUsed:      gpsUsed,
		DateTimeUsed: strconv.FormatInt(utc, 10),
	})
}

// toUTC shifts a wall-clock unix value by the resolved GMT offset. Without an
// offset the local value passes through unchanged.
func (e *Enricher) toUTC(postID, unixTime int64) int64 {
	offsetStr, ok, err := e.store.GetMeta(postID, models.MetaGMTOffset)
	if err != nil || !ok {
		return unixTime
	}
	offset, err := strconv.ParseFloat(offsetStr, 64)
	if err != nil {
		return unixTime
	}
	return unixTime - int64(offset*3600)
}

// gps reads the split coordinates; (0,0) counts as absent.
func (e *Enricher) gps(postID int64) (lat, lon float64, ok bool, err error) {
	latStr, haveLat, err := e.store.GetMeta(postID, models.MetaGPSLat)
	if err != nil || !haveLat {
		return 0, 0, false, err
	}
	lonStr, haveLon, err := e.store.GetMeta(postID, models.MetaGPSLon)
	if err != nil || !haveLon {
		return 0, 0, false, err
	}
	lat, errLat := strconv.ParseFloat(latStr, 64)
	lon, errLon := strconv.ParseFloat(lonStr, 64)
	if errLat != nil || errLon != nil || (lat == 0 && lon == 0) {
		return 0, 0, false, nil
	}
	return lat, lon, true, nil
}

func (e *Enricher) unixTime(postID int64) (int64, bool, error) {
	s, ok, err := e.store.GetMeta(postID, models.MetaUnixTime)
	if err != nil || !ok {
		return 0, false, err
	}
	t, parseErr := strconv.ParseInt(s, 10, 64)
	if parseErr != nil {
		return 0, false, nil
	}
	return t, true, nil
}
