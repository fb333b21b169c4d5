package helpers

import (
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog/log"
)

// ClockLayout is the wire format of exam start and end times.
const ClockLayout = "15:04"

// DateLayout is the wire format of exam and period dates.
const DateLayout = "2006-01-02"

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// ParseClock parses "HH:MM" (seconds are tolerated) into minutes since midnight.
func ParseClock(value string) (int, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{ClockLayout, "15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Hour()*60 + t.Minute(), nil
		}
	}
	return 0, fmt.Errorf("invalid time %q, expected HH:MM", value)
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ClockToPG converts an optional "HH:MM" value into a pgtype.Time.
func ClockToPG(value *string) (pgtype.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return pgtype.Time{}, nil
	}
	minutes, err := ParseClock(*value)
	if err != nil {
		return pgtype.Time{}, err
	}
	return pgtype.Time{Microseconds: int64(minutes) * 60 * 1_000_000, Valid: true}, nil
}

// ClockFromPG converts a pgtype.Time into an optional "HH:MM" value.
func ClockFromPG(t pgtype.Time) *string {
	if !t.Valid {
		return nil
	}
	s := FormatClock(int(t.Microseconds / 60_000_000))
	return &s
}

// ParseDate parses a "YYYY-MM-DD" date, also accepting RFC3339 timestamps.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
}

// FormatDate renders an optional date as "YYYY-MM-DD".
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

// Overlaps reports whether [startA, endA) and [startB, endB) intersect.
// Touching endpoints do not overlap.
func Overlaps(startA, endA, startB, endB int) bool {
	return startA < endB && endA > startB
}
