package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestNoRows(t *testing.T) {
	if !NoRows(pgx.ErrNoRows) {
		t.Fatal("pgx.ErrNoRows should classify as no rows")
	}
	if !NoRows(fmt.Errorf("user by id: %w", pgx.ErrNoRows)) {
		t.Fatal("wrapped pgx.ErrNoRows should classify as no rows")
	}
	if NoRows(errors.New("boom")) {
		t.Fatal("unrelated error classified as no rows")
	}
}

func TestUniqueViolation(t *testing.T) {
	uniq := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	if !UniqueViolation(uniq) {
		t.Fatal("23505 should classify as unique violation")
	}
	if !UniqueViolation(fmt.Errorf("insert user: %w", uniq)) {
		t.Fatal("wrapped 23505 should classify as unique violation")
	}
	if UniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatal("foreign key violation classified as unique violation")
	}
	if UniqueViolation(errors.New("boom")) {
		t.Fatal("unrelated error classified as unique violation")
	}
}
