package booking

import (
	"fmt"
	"time"
)

// Rules are the scheduling constants of the engine. They are built
// once from config and passed in at construction so the booking logic
// itself carries no literals.
type Rules struct {
	// OpenMinute/CloseMinute are minutes since midnight on the
	// booking's date. A booking must fit entirely inside
	// [open, close).
	OpenMinute  int
	CloseMinute int

	// Duration is the fixed length of every booking.
	Duration time.Duration

	// CancelCutoff is how long before the start a booking may still
	// be cancelled. Cancelling at exactly start-CancelCutoff is
	// allowed, any later is not.
	CancelCutoff time.Duration
}

// DefaultRules matches the reference deployment: 12:00-22:00 operating
// window, two-hour slots, one-hour cancellation cutoff.
func DefaultRules() Rules {
	return Rules{
		OpenMinute:   12 * 60,
		CloseMinute:  22 * 60,
		Duration:     2 * time.Hour,
		CancelCutoff: time.Hour,
	}
}

func (r Rules) Validate() error {
	if r.OpenMinute < 0 || r.CloseMinute > 24*60 || r.OpenMinute >= r.CloseMinute {
		return fmt.Errorf("operating window %d-%d out of order", r.OpenMinute, r.CloseMinute)
	}
	if r.Duration <= 0 {
		return fmt.Errorf("duration must be positive")
	}
	if r.CancelCutoff < 0 {
		return fmt.Errorf("cancel cutoff must not be negative")
	}
	return nil
}

func atMinute(day time.Time, minute int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, minute/60, minute%60, 0, 0, day.Location())
}

// OpenAt returns the opening instant on the calendar date of t.
func (r Rules) OpenAt(t time.Time) time.Time { return atMinute(t, r.OpenMinute) }

// CloseAt returns the closing instant on the calendar date of t.
func (r Rules) CloseAt(t time.Time) time.Time { return atMinute(t, r.CloseMinute) }

// WithinHours reports whether [start, end) fits entirely inside the
// operating window on start's date.
func (r Rules) WithinHours(start, end time.Time) bool {
	return !start.Before(r.OpenAt(start)) && !end.After(r.CloseAt(start))
}

// InstantWithinHours reports whether the instant t falls inside the
// operating window: open <= t < close.
func (r Rules) InstantWithinHours(t time.Time) bool {
	return !t.Before(r.OpenAt(t)) && t.Before(r.CloseAt(t))
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) share any instant.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
