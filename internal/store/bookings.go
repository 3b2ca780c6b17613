package store

import (
	"context"
	"fmt"
	"time"

	"github.com/example/tablebook/internal/booking"
	"github.com/example/tablebook/internal/db"
)

type BookingRepo struct{ db *db.DB }

func NewBookingRepo(d *db.DB) *BookingRepo { return &BookingRepo{db: d} }

const bookingCols = `id, table_number, user_id, start_time, end_time`

func (r *BookingRepo) ByID(ctx context.Context, id string) (booking.Booking, error) {
	var b booking.Booking
	err := r.db.QueryRow(ctx, `SELECT `+bookingCols+` FROM bookings WHERE id=$1`, id).
		Scan(&b.ID, &b.TableNumber, &b.UserID, &b.StartTime, &b.EndTime)
	if err != nil {
		if db.NoRows(err) {
			return booking.Booking{}, booking.ErrNotFound
		}
		return booking.Booking{}, fmt.Errorf("booking by id: %w", err)
	}
	return b, nil
}

func (r *BookingRepo) ByUser(ctx context.Context, userID string) ([]booking.Booking, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+bookingCols+` FROM bookings
		WHERE user_id=$1
		ORDER BY start_time`, userID)
	if err != nil {
		return nil, fmt.Errorf("bookings by user: %w", err)
	}
	return scanBookings(rows)
}

func (r *BookingRepo) CoveringInstant(ctx context.Context, t time.Time) ([]booking.Booking, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+bookingCols+` FROM bookings
		WHERE start_time <= $1 AND end_time > $1`, t)
	if err != nil {
		return nil, fmt.Errorf("bookings covering instant: %w", err)
	}
	return scanBookings(rows)
}

func (r *BookingRepo) OverlappingOnTable(ctx context.Context, tableNumber int, start, end time.Time, excludeID string) ([]booking.Booking, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+bookingCols+` FROM bookings
		WHERE table_number=$1 AND start_time < $3 AND end_time > $2 AND id <> $4`,
		tableNumber, start, end, excludeID)
	if err != nil {
		return nil, fmt.Errorf("overlapping bookings: %w", err)
	}
	return scanBookings(rows)
}

func (r *BookingRepo) Insert(ctx context.Context, b booking.Booking) error {
	return r.db.Exec(ctx, `
		INSERT INTO bookings (id, table_number, user_id, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)`,
		b.ID, b.TableNumber, b.UserID, b.StartTime, b.EndTime)
}

func (r *BookingRepo) UpdateTimes(ctx context.Context, id string, start, end time.Time) error {
	return r.db.Exec(ctx, `
		UPDATE bookings SET start_time=$2, end_time=$3, updated_at=now()
		WHERE id=$1`, id, start, end)
}

func (r *BookingRepo) Delete(ctx context.Context, id string) error {
	return r.db.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, id)
}

func scanBookings(rows db.Rows) ([]booking.Booking, error) {
	defer rows.Close()
	var out []booking.Booking
	for rows.Next() {
		var b booking.Booking
		if err := rows.Scan(&b.ID, &b.TableNumber, &b.UserID, &b.StartTime, &b.EndTime); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
