// Package store implements the engine's table and booking stores on
// Postgres.
package store

import (
	"context"
	"fmt"

	"github.com/example/tablebook/internal/booking"
	"github.com/example/tablebook/internal/db"
)

type TableRepo struct{ db *db.DB }

func NewTableRepo(d *db.DB) *TableRepo { return &TableRepo{db: d} }

func (r *TableRepo) ByNumber(ctx context.Context, number int) (booking.Table, error) {
	var t booking.Table
	err := r.db.QueryRow(ctx, `SELECT number, capacity FROM tables WHERE number=$1`, number).
		Scan(&t.Number, &t.Capacity)
	if err != nil {
		if db.NoRows(err) {
			return booking.Table{}, booking.ErrNotFound
		}
		return booking.Table{}, fmt.Errorf("table by number: %w", err)
	}
	return t, nil
}

func (r *TableRepo) All(ctx context.Context) ([]booking.Table, error) {
	rows, err := r.db.Query(ctx, `SELECT number, capacity FROM tables ORDER BY number`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var out []booking.Table
	for rows.Next() {
		var t booking.Table
		if err := rows.Scan(&t.Number, &t.Capacity); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Upsert provisions a table, updating capacity if the number already
// exists. Used by the seed command only.
func (r *TableRepo) Upsert(ctx context.Context, t booking.Table) error {
	return r.db.Exec(ctx, `
		INSERT INTO tables (number, capacity) VALUES ($1, $2)
		ON CONFLICT (number) DO UPDATE SET capacity = EXCLUDED.capacity
	`, t.Number, t.Capacity)
}
