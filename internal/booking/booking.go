// Package booking holds the reservation engine: the rules that decide
// whether a table may be booked, rescheduled or cancelled for a given
// time slot.
package booking

import "time"

// Table is a physical table on the floor plan. Tables are provisioned
// once (see the seed command) and never change afterwards.
type Table struct {
	Number   int
	Capacity int
}

// Booking is a claim on one table for a fixed-length interval
// [StartTime, EndTime) by one user. Table and user never change after
// creation; the interval may be moved by Reschedule.
type Booking struct {
	ID          string
	TableNumber int
	UserID      string
	StartTime   time.Time
	EndTime     time.Time
}

// UserBooking is the projection returned when listing a user's
// bookings: date and time range as the API presents them.
type UserBooking struct {
	ID          string
	TableNumber int
	Date        string // 2006-01-02
	TimeRange   string // "HH:MM-HH:MM"
}

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

func (b Booking) view() UserBooking {
	return UserBooking{
		ID:          b.ID,
		TableNumber: b.TableNumber,
		Date:        b.StartTime.Format(dateLayout),
		TimeRange:   b.StartTime.Format(timeLayout) + "-" + b.EndTime.Format(timeLayout),
	}
}
