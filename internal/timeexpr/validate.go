package timeexpr

import (
	"fmt"
	"time"

	domerrors "github.com/telcoinsight/keluhan-bot-go/internal/errors"
)

// Validation bounds for resolved windows.
const (
	maxFuture = 24 * time.Hour
	maxAge    = 30 * 24 * time.Hour
)

// ValidateRange rejects windows that are inverted, start in the future, or
// ended too long ago. Each rejection wraps ErrInvalidTimeRange with a
// distinct reason.
func ValidateRange(start, end, now time.Time) error {
	if !start.Before(end) {
		return fmt.Errorf("%w: start time must be before end time", domerrors.ErrInvalidTimeRange)
	}
	if start.After(now.Add(maxFuture)) {
		return fmt.Errorf("%w: time range cannot be in the future", domerrors.ErrInvalidTimeRange)
	}
	if end.Before(now.Add(-maxAge)) {
		return fmt.Errorf("%w: time range is too old (max 30 days ago)", domerrors.ErrInvalidTimeRange)
	}
	return nil
}

// FormatDuration renders a window length for user-facing messages.
func FormatDuration(d time.Duration) string {
	total := int(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%d jam %d menit", hours, minutes)
	}
	return fmt.Sprintf("%d menit", minutes)
}
