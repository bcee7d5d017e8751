package security

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptEncoder(t *testing.T) {
	enc := NewBcryptEncoder(bcrypt.MinCost)

	hash, err := enc.Encode("pass123")
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if hash == "pass123" {
		t.Fatal("expected password to be hashed")
	}
	if !enc.Matches(hash, "pass123") {
		t.Fatal("expected hash to match")
	}
	if enc.Matches(hash, "wrong") {
		t.Fatal("expected mismatch for wrong password")
	}
	if enc.Matches("not-a-hash", "pass123") {
		t.Fatal("malformed hashes must never match")
	}
}

func TestNewBcryptEncoder_DefaultCost(t *testing.T) {
	if enc := NewBcryptEncoder(0); enc.cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", enc.cost)
	}
}
