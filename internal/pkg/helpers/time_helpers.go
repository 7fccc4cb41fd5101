package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a duration string, returns the default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// ParseDateOnly parses a YYYY-MM-DD date string.
func ParseDateOnly(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

// FormatDateOnly formats a time as YYYY-MM-DD.
func FormatDateOnly(t time.Time) string {
	return t.Format("2006-01-02")
}
