package store

import (
	"database/sql"

	"github.com/bstardust/photo-seo-enricher/pkg/models"
)

// WeatherAttempt returns the bookkeeping row for a post; a zero-valued record
// when no attempt has been made yet.
func (s *Store) WeatherAttempt(postID int64) (models.WeatherAttempt, error) {
	a := models.WeatherAttempt{PostID: postID}
	err := s.db.QueryRow(
		`SELECT last_attempt, last_failure, last_success, gps_used, datetime_used
         FROM weather_attempts WHERE post_id = ?`, postID,
	).Scan(&a.LastAttempt, &a.LastFailure, &a.LastSuccess, &a.GPSUsed, &a.DateTimeUsed)
	if err == sql.ErrNoRows {
		return a, nil
	}
	return a, err
}

// SaveWeatherAttempt rewrites the bookkeeping row wholesale; every weather
// attempt replaces the previous record.
func (s *Store) SaveWeatherAttempt(a models.WeatherAttempt) error {
	_, err := s.db.Exec(
		`INSERT INTO weather_attempts (post_id, last_attempt, last_failure, last_success, gps_used, datetime_used)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT (post_id) DO UPDATE SET
            last_attempt = excluded.last_attempt,
            last_failure = excluded.last_failure,
            last_success = excluded.last_success,
            gps_used = excluded.gps_used,
            datetime_used = excluded.datetime_used`,
		a.PostID, a.LastAttempt, a.LastFailure, a.LastSuccess, a.GPSUsed, a.DateTimeUsed,
	)
	return err
}
