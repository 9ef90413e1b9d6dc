// Package duration parses and validates the STS session duration
// setting.
package duration

import (
	"fmt"
	"strconv"
	"time"
)

// STS bounds for SAML sessions
const (
	MinDuration = 15 * time.Minute
	MaxDuration = 12 * time.Hour
	// DefaultDuration matches the sts_duration default of 3600 seconds
	DefaultDuration = time.Hour
)

// Parse parses the sts_duration setting. Plain integers are seconds
// ("3600"); Go duration forms ("1h", "30m") are also accepted. An
// empty value yields DefaultDuration.
func Parse(durationStr string) (time.Duration, error) {
	if durationStr == "" {
		return DefaultDuration, nil
	}

	if seconds, err := strconv.ParseInt(durationStr, 10, 64); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}

	if d, err := time.ParseDuration(durationStr); err == nil {
		return d, nil
	}

	return 0, fmt.Errorf("invalid duration format: %s (use seconds like '3600', or '1h', '30m')", durationStr)
}

// Validate checks that d is within the limits STS accepts for SAML
// sessions.
func Validate(d time.Duration) error {
	if d < MinDuration {
		return fmt.Errorf("duration cannot be less than 15 minutes (specified: %s)", Format(d))
	}
	if d > MaxDuration {
		return fmt.Errorf("duration cannot exceed 12 hours (specified: %s)", Format(d))
	}
	return nil
}

// Format formats d for diagnostics ("1h 30m", "45m", "90s")
func Format(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	case minutes > 0 && seconds > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm", minutes)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
