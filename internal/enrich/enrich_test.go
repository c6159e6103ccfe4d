package enrich

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bstardust/photo-seo-enricher/internal/config"
	"github.com/bstardust/photo-seo-enricher/internal/store"
	"github.com/bstardust/photo-seo-enricher/pkg/models"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedGPSAndTime(t *testing.T, s *store.Store, postID int64) {
	t.Helper()
	s.SetMeta(postID, models.MetaGPS, "38.8897,-77.0333")
	s.SetMeta(postID, models.MetaGPSLat, "38.8897")
	s.SetMeta(postID, models.MetaGPSLon, "-77.0333")
	s.SetMeta(postID, models.MetaUnixTime, "1686839400")
}

func tzConfig(url string) config.TimezoneConfig {
	return config.TimezoneConfig{Enabled: true, APIKey: "k", BaseURL: url, Timeout: time.Second}
}

func wxConfig(historical, current string) config.WeatherConfig {
	return config.WeatherConfig{
		Enabled: true, APIKey: "k",
		HistoricalURL: historical, CurrentURL: current,
		Timeout: time.Second,
	}
}

func TestResolveTimezone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "position", r.URL.Query().Get("by"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "OK", "zoneName": "America/New_York", "gmtOffset": -14400,
		})
	}))
	defer srv.Close()

	s := newStore(t)
	seedGPSAndTime(t, s, 1)

	e := New(s, NewTimezoneClient(tzConfig(srv.URL)), nil)
	assert.NoError(t, e.ResolveTimezone(context.Background(), 1))

	offset, ok, _ := s.GetMeta(1, models.MetaGMTOffset)
	assert.True(t, ok)
	assert.Equal(t, "-4", offset)
	zone, _, _ := s.GetMeta(1, models.MetaTimeZone)
	assert.Equal(t, "America/New_York", zone)
}

func TestResolveTimezoneFailureLeavesFieldAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := newStore(t)
	seedGPSAndTime(t, s, 1)

	e := New(s, NewTimezoneClient(tzConfig(srv.URL)), nil)
	assert.NoError(t, e.ResolveTimezone(context.Background(), 1))

	_, ok, _ := s.GetMeta(1, models.MetaGMTOffset)
	assert.False(t, ok)
}

func TestResolveTimezoneSkipsWithoutGPS(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	s := newStore(t)
	e := New(s, NewTimezoneClient(tzConfig(srv.URL)), nil)
	assert.NoError(t, e.ResolveTimezone(context.Background(), 1))
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestRefreshWeatherSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"currently": map[string]interface{}{"summary": "Partly Cloudy", "temperature": 70.0},
		})
	}))
	defer srv.Close()

	s := newStore(t)
	seedGPSAndTime(t, s, 1)
	s.SetMeta(1, models.MetaGMTOffset, "-4")

	e := New(s, nil, NewWeatherClient(wxConfig(srv.URL, srv.URL)))
	assert.NoError(t, e.RefreshWeather(context.Background(), 1, false))

	summary, _, _ := s.GetMeta(1, models.MetaWeatherSummary)
	assert.Equal(t, "Partly Cloudy", summary)
	temp, _, _ := s.GetMeta(1, models.MetaTemperature)
	assert.Equal(t, "21.11", temp)

	attempt, _ := s.WeatherAttempt(1)
	assert.NotZero(t, attempt.LastSuccess)
	assert.Zero(t, attempt.LastFailure)
	assert.Equal(t, "38.8897,-77.0333", attempt.GPSUsed)
	// Wall clock shifted to UTC by the -4h offset before the fetch.
	assert.Equal(t, "1686853800", attempt.DateTimeUsed)
}

func TestRefreshWeatherFallsBackToSecondEndpoint(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer bad.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"currently": map[string]interface{}{"summary": "Clear", "temperature": 32.0},
		})
	}))
	defer good.Close()

	s := newStore(t)
	seedGPSAndTime(t, s, 1)

	e := New(s, nil, NewWeatherClient(wxConfig(bad.URL, good.URL)))
	assert.NoError(t, e.RefreshWeather(context.Background(), 1, false))

	temp, _, _ := s.GetMeta(1, models.MetaTemperature)
	assert.Equal(t, "0.00", temp)
}

func TestRefreshWeatherNoGPS(t *testing.T) {
	s := newStore(t)
	e := New(s, nil, NewWeatherClient(wxConfig("http://unused", "http://unused")))
	err := e.RefreshWeather(context.Background(), 1, false)
	assert.ErrorIs(t, err, ErrNoGPS)
}

func TestRefreshWeatherNoCaptureTime(t *testing.T) {
	s := newStore(t)
	s.SetMeta(1, models.MetaGPSLat, "38.8897")
	s.SetMeta(1, models.MetaGPSLon, "-77.0333")

	e := New(s, nil, NewWeatherClient(wxConfig("http://unused", "http://unused")))
	err := e.RefreshWeather(context.Background(), 1, false)
	assert.ErrorIs(t, err, ErrNoCaptureTime)
}

func TestRefreshWeatherCooldown(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := newStore(t)
	seedGPSAndTime(t, s, 1)

	e := New(s, nil, NewWeatherClient(wxConfig(srv.URL, srv.URL)))
	base := time.Unix(1700000000, 0)
	e.now = func() time.Time { return base }

	// Initial attempt fails against both endpoints.
	err := e.RefreshWeather(context.Background(), 1, false)
	assert.ErrorIs(t, err, ErrWeatherFetch)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	// Half an hour later the retry is a no-op: no HTTP call made.
	e.now = func() time.Time { return base.Add(30 * time.Minute) }
	err = e.RefreshWeather(context.Background(), 1, false)
	assert.ErrorIs(t, err, ErrOnCooldown)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	// Past the window a new attempt is allowed again.
	e.now = func() time.Time { return base.Add(3700 * time.Second) }
	err = e.RefreshWeather(context.Background(), 1, false)
	assert.ErrorIs(t, err, ErrWeatherFetch)
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))

	// Force bypasses the fresh cooldown entirely.
	e.now = func() time.Time { return base.Add(3800 * time.Second) }
	err = e.RefreshWeather(context.Background(), 1, true)
	assert.ErrorIs(t, err, ErrWeatherFetch)
	assert.Equal(t, int32(6), atomic.LoadInt32(&calls))
}

func TestFailedAttemptKeepsPriorSuccess(t *testing.T) {
	var fail int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.LoadInt32(&fail) != 0 {
			http.Error(w, "quota", http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"currently": map[string]interface{}{"summary": "Clear", "temperature": 50.0},
		})
	}))
	defer srv.Close()

	s := newStore(t)
	seedGPSAndTime(t, s, 1)

	e := New(s, nil, NewWeatherClient(wxConfig(srv.URL, srv.URL)))
	base := time.Unix(1700000000, 0)
	e.now = func() time.Time { return base }

	assert.NoError(t, e.RefreshWeather(context.Background(), 1, false))
	before, err := s.WeatherAttempt(1)
	assert.NoError(t, err)
	assert.NotZero(t, before.LastSuccess)
	assert.NotEmpty(t, before.DateTimeUsed)

	atomic.StoreInt32(&fail, 1)
	e.now = func() time.Time { return base.Add(2 * time.Hour) }
	err = e.RefreshWeather(context.Background(), 1, true)
	assert.ErrorIs(t, err, ErrWeatherFetch)

	after, err := s.WeatherAttempt(1)
	assert.NoError(t, err)
	assert.Equal(t, before.LastSuccess, after.LastSuccess)
	assert.Equal(t, before.DateTimeUsed, after.DateTimeUsed)
	assert.Equal(t, base.Add(2*time.Hour).Unix(), after.LastFailure)
}

func TestZeroCoordinatesAreNoGPS(t *testing.T) {
	s := newStore(t)
	s.SetMeta(1, models.MetaGPSLat, "0")
	s.SetMeta(1, models.MetaGPSLon, "0")
	s.SetMeta(1, models.MetaUnixTime, "1686839400")

	e := New(s, nil, NewWeatherClient(wxConfig("http://unused", "http://unused")))
	err := e.RefreshWeather(context.Background(), 1, false)
	assert.ErrorIs(t, err, ErrNoGPS)
}
