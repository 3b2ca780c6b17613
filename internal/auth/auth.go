// Package auth resolves request credentials to a stable user id. It is
// a collaborator of the booking engine, not part of it.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/tablebook/internal/db"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
)

type User struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
}

type Store struct {
	db     *db.DB
	sc     *securecookie.SecureCookie
	secret []byte
	ttl    time.Duration
}

func NewStore(d *db.DB, hashKey, blockKey, jwtSecret []byte, tokenTTL time.Duration) *Store {
	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(int(tokenTTL.Seconds()))
	return &Store{db: d, sc: sc, secret: jwtSecret, ttl: tokenTTL}
}

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// Register creates a user and returns it. Fails with ErrEmailTaken if
// the email is already registered.
func (s *Store) Register(ctx context.Context, name, email, password, phone string) (User, error) {
	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email=$1)`, email).Scan(&exists); err != nil {
		return User{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return User{}, ErrEmailTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return User{}, err
	}

	u := User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		CreatedAt: time.Now().UTC(),
	}
	err = s.db.Exec(ctx,
		`INSERT INTO users (id, name, email, phone, password_bcrypt, created_at) VALUES ($1,$2,$3,$4,$5,$6)`,
		u.ID, u.Name, u.Email, u.Phone, hash, u.CreatedAt,
	)
	if err != nil {
		// Two concurrent registrations can pass the exists check; the
		// email unique index decides the loser.
		if db.UniqueViolation(err) {
			return User{}, ErrEmailTaken
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// Authenticate verifies email+password and returns the user.
func (s *Store) Authenticate(ctx context.Context, email, password string) (User, error) {
	var u User
	var hash string
	err := s.db.QueryRow(ctx,
		`SELECT id, name, email, phone, password_bcrypt, created_at FROM users WHERE email=$1`, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &hash, &u.CreatedAt)
	if err != nil {
		if db.NoRows(err) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, fmt.Errorf("user by email: %w", err)
	}
	if !CheckPassword(hash, password) {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Store) ByID(ctx context.Context, id string) (User, error) {
	var u User
	err := s.db.QueryRow(ctx,
		`SELECT id, name, email, phone, created_at FROM users WHERE id=$1`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.CreatedAt)
	if err != nil {
		if db.NoRows(err) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("user by id: %w", err)
	}
	return u, nil
}
