package auth

import (
	"testing"
	"time"
)

func testStore(ttl time.Duration) *Store {
	hash := make([]byte, 32)
	block := make([]byte, 32)
	return NewStore(nil, hash, block, []byte("test-secret"), ttl)
}

func TestTokenRoundTrip(t *testing.T) {
	s := testStore(time.Hour)
	u := User{ID: "user-1", Email: "a@example.com"}

	token, err := s.IssueToken(u)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	uid, err := s.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if uid != u.ID {
		t.Fatalf("got user %q, want %q", uid, u.ID)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	s := testStore(-time.Minute)
	token, err := s.IssueToken(User{ID: "user-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := s.ParseToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestWrongSecretRejected(t *testing.T) {
	s := testStore(time.Hour)
	token, err := s.IssueToken(User{ID: "user-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := NewStore(nil, make([]byte, 32), make([]byte, 32), []byte("other-secret"), time.Hour)
	if _, err := other.ParseToken(token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	s := testStore(time.Hour)
	if _, err := s.ParseToken("not.a.token"); err == nil {
		t.Fatal("expected garbage token to be rejected")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pw")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "s3cret-pw") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "wrong-pw") {
		t.Fatal("wrong password accepted")
	}
}
