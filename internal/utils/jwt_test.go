package utils

import (
	"testing"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	t.Parallel()

	secret := "super-secret"
	tok, err := NewSessionToken(secret, 42)
	if err != nil {
		t.Fatalf("NewSessionToken error: %v", err)
	}
	if tok.Token == "" {
		t.Fatal("expected non-empty token")
	}

	got, err := ParseSessionToken(secret, tok.Token)
	if err != nil {
		t.Fatalf("ParseSessionToken error: %v", err)
	}
	if got != 42 {
		t.Fatalf("user id mismatch: got %d want 42", got)
	}
}

func TestParseSessionToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewSessionToken("right-secret", 7)
	if err != nil {
		t.Fatalf("NewSessionToken error: %v", err)
	}
	if _, err := ParseSessionToken("wrong-secret", tok.Token); err == nil {
		t.Fatal("expected error for invalid signature, got nil")
	}
}

func TestParseSessionToken_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := ParseSessionToken("k", "not.a.jwt"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestSessionTokenExpirySet(t *testing.T) {
	t.Parallel()

	tok, err := NewSessionToken("s", 1)
	if err != nil {
		t.Fatalf("NewSessionToken error: %v", err)
	}
	if tok.Exp.IsZero() {
		t.Fatal("expected expiry to be set")
	}
}
