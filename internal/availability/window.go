package availability

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

var (
	// ErrInvalidClock is returned when a time-of-day string is not HH:MM.
	ErrInvalidClock = errors.New("availability: invalid clock value")
	// ErrCrossesMidnight is returned when start plus duration would pass 24:00.
	// The reference front end wrapped such windows modulo 1440 and missed
	// conflicts; requests like this are rejected instead.
	ErrCrossesMidnight = errors.New("availability: window crosses midnight")
	// ErrInvalidDuration is returned for zero or negative durations.
	ErrInvalidDuration = errors.New("availability: duration must be positive")
)

// ParseClock converts an HH:MM wall-clock string into minutes since midnight.
// No timezone or DST handling applies; bookings are plain local wall-clock
// values within a single calendar date.
func ParseClock(value string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}

	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}

	return hours*60 + minutes, nil
}

// FormatClock renders minutes since midnight as a zero-padded HH:MM string.
// The value 1440 formats as 24:00 so a day-closing end time survives a
// round trip through booking rows.
func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// Window is a half-open [Start, End) interval in minutes since midnight.
type Window struct {
	Start int
	End   int
}

// NewWindow builds a window from a start minute and a duration. Windows that
// would extend past midnight are rejected rather than wrapped.
func NewWindow(startMinute, durationMinutes int) (Window, error) {
	if startMinute < 0 || startMinute >= minutesPerDay {
		return Window{}, fmt.Errorf("%w: start minute %d", ErrInvalidClock, startMinute)
	}
	if durationMinutes <= 0 {
		return Window{}, ErrInvalidDuration
	}

	end := startMinute + durationMinutes
	if end > minutesPerDay {
		return Window{}, ErrCrossesMidnight
	}

	return Window{Start: startMinute, End: end}, nil
}

// ParseWindow builds a window from HH:MM start and end strings, requiring
// end strictly after start on the same date.
func ParseWindow(start, end string) (Window, error) {
	startMinute, err := ParseClock(start)
	if err != nil {
		return Window{}, err
	}
	endMinute, err := ParseClock(end)
	if err != nil {
		// A booking closing out the day stores its end as 24:00.
		if strings.TrimSpace(end) != "24:00" {
			return Window{}, err
		}
		endMinute = minutesPerDay
	}
	if endMinute <= startMinute {
		return Window{}, fmt.Errorf("%w: end %q not after start %q", ErrInvalidClock, end, start)
	}
	return Window{Start: startMinute, End: endMinute}, nil
}

// Duration returns the window length in minutes.
func (w Window) Duration() int {
	return w.End - w.Start
}

// Overlaps reports whether two half-open windows share at least one instant.
// A window ending exactly when the other starts does not overlap.
func (w Window) Overlaps(other Window) bool {
	return w.Start < other.End && w.End > other.Start
}
