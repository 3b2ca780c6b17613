package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TableStore is the durable set of tables.
type TableStore interface {
	ByNumber(ctx context.Context, number int) (Table, error)
	All(ctx context.Context) ([]Table, error)
}

// BookingStore is the durable set of bookings. Implementations return
// ErrNotFound (possibly wrapped) when an id does not resolve.
type BookingStore interface {
	ByID(ctx context.Context, id string) (Booking, error)
	ByUser(ctx context.Context, userID string) ([]Booking, error)
	// CoveringInstant returns every booking whose interval covers t
	// (start <= t < end), across all tables.
	CoveringInstant(ctx context.Context, t time.Time) ([]Booking, error)
	// OverlappingOnTable returns bookings on the given table whose
	// interval overlaps [start, end), skipping excludeID if non-empty.
	OverlappingOnTable(ctx context.Context, tableNumber int, start, end time.Time, excludeID string) ([]Booking, error)
	Insert(ctx context.Context, b Booking) error
	UpdateTimes(ctx context.Context, id string, start, end time.Time) error
	Delete(ctx context.Context, id string) error
}

// AvailabilityCache is an optional read-through cache for the
// availability query. Get misses and Set/Bump failures must be soft:
// the engine never depends on the cache for correctness.
type AvailabilityCache interface {
	// Get returns the booked table numbers covering t, if cached. On a
	// miss it also returns the version token the entry must be stored
	// under; a write committed between Get and Set bumps the version
	// and leaves the stored entry unreachable rather than stale.
	Get(ctx context.Context, t time.Time) (bookedTables []int, ver string, ok bool)
	// Set stores the entry under the version captured at Get time. An
	// empty ver means the version could not be read; Set is a no-op.
	Set(ctx context.Context, t time.Time, bookedTables []int, ver string)
	// Bump invalidates all cached entries after a booking write.
	Bump(ctx context.Context)
}

// Engine owns all scheduling decisions. Stores are the only shared
// state; a per-table lock keeps conflict checks and writes exclusive.
type Engine struct {
	Tables   TableStore
	Bookings BookingStore
	Rules    Rules

	// Cache is optional; nil disables availability caching.
	Cache AvailabilityCache

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time

	locks tableLocks
}

func New(tables TableStore, bookings BookingStore, rules Rules) *Engine {
	return &Engine{Tables: tables, Bookings: bookings, Rules: rules}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// AvailableTables returns the tables with no booking covering the
// instant t. The result has set semantics; callers must not rely on
// order.
func (e *Engine) AvailableTables(ctx context.Context, t time.Time) ([]Table, error) {
	if !e.Rules.InstantWithinHours(t) {
		return nil, fmt.Errorf("outside operating hours: %w", ErrConstraint)
	}

	var (
		booked []int
		ver    string
		hit    bool
	)
	if e.Cache != nil {
		booked, ver, hit = e.Cache.Get(ctx, t)
	}
	if !hit {
		covering, err := e.Bookings.CoveringInstant(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("query bookings: %w", err)
		}
		booked = make([]int, 0, len(covering))
		for _, b := range covering {
			booked = append(booked, b.TableNumber)
		}
		if e.Cache != nil {
			e.Cache.Set(ctx, t, booked, ver)
		}
	}

	taken := make(map[int]bool, len(booked))
	for _, n := range booked {
		taken[n] = true
	}

	all, err := e.Tables.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	free := make([]Table, 0, len(all))
	for _, tbl := range all {
		if !taken[tbl.Number] {
			free = append(free, tbl)
		}
	}
	return free, nil
}

// Create books the table for [start, start+Duration) on behalf of
// userID and returns the new booking's id.
func (e *Engine) Create(ctx context.Context, userID string, tableNumber int, start time.Time) (string, error) {
	end := start.Add(e.Rules.Duration)
	if !e.Rules.WithinHours(start, end) {
		return "", fmt.Errorf("outside operating hours: %w", ErrConstraint)
	}

	tbl, err := e.Tables.ByNumber(ctx, tableNumber)
	if err != nil {
		return "", fmt.Errorf("table %d: %w", tableNumber, err)
	}

	unlock := e.locks.acquire(tbl.Number)
	defer unlock()

	overlapping, err := e.Bookings.OverlappingOnTable(ctx, tbl.Number, start, end, "")
	if err != nil {
		return "", fmt.Errorf("overlap check: %w", err)
	}
	if len(overlapping) > 0 {
		return "", fmt.Errorf("table already booked: %w", ErrConflict)
	}

	b := Booking{
		ID:          uuid.NewString(),
		TableNumber: tbl.Number,
		UserID:      userID,
		StartTime:   start,
		EndTime:     end,
	}
	if err := e.Bookings.Insert(ctx, b); err != nil {
		return "", fmt.Errorf("insert booking: %w", err)
	}
	e.bumpCache(ctx)
	return b.ID, nil
}

// ListByUser returns the user's bookings projected for display.
func (e *Engine) ListByUser(ctx context.Context, userID string) ([]UserBooking, error) {
	bs, err := e.Bookings.ByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	out := make([]UserBooking, 0, len(bs))
	for _, b := range bs {
		out = append(out, b.view())
	}
	return out, nil
}

// Cancel removes the booking permanently. Only the owner may cancel,
// and only up to CancelCutoff before the start.
func (e *Engine) Cancel(ctx context.Context, userID, bookingID string) error {
	b, err := e.Bookings.ByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("booking %s: %w", bookingID, err)
	}
	if b.UserID != userID {
		return fmt.Errorf("booking belongs to another user: %w", ErrForbidden)
	}

	cutoff := b.StartTime.Add(-e.Rules.CancelCutoff)
	if e.now().After(cutoff) {
		return fmt.Errorf("too late to cancel: %w", ErrConstraint)
	}

	if err := e.Bookings.Delete(ctx, b.ID); err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	e.bumpCache(ctx)
	return nil
}

// Reschedule moves the booking to [newStart, newStart+Duration) on its
// original table. Ownership and operating hours are enforced here the
// same as on creation.
func (e *Engine) Reschedule(ctx context.Context, userID, bookingID string, newStart time.Time) error {
	newEnd := newStart.Add(e.Rules.Duration)

	b, err := e.Bookings.ByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("booking %s: %w", bookingID, err)
	}
	if b.UserID != userID {
		return fmt.Errorf("booking belongs to another user: %w", ErrForbidden)
	}
	if !e.Rules.WithinHours(newStart, newEnd) {
		return fmt.Errorf("outside operating hours: %w", ErrConstraint)
	}

	unlock := e.locks.acquire(b.TableNumber)
	defer unlock()

	overlapping, err := e.Bookings.OverlappingOnTable(ctx, b.TableNumber, newStart, newEnd, b.ID)
	if err != nil {
		return fmt.Errorf("overlap check: %w", err)
	}
	if len(overlapping) > 0 {
		return fmt.Errorf("new time unavailable: %w", ErrConflict)
	}

	if err := e.Bookings.UpdateTimes(ctx, b.ID, newStart, newEnd); err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	e.bumpCache(ctx)
	return nil
}

func (e *Engine) bumpCache(ctx context.Context) {
	if e.Cache != nil {
		e.Cache.Bump(ctx)
	}
}
