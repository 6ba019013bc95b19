package application_test

import (
	"errors"
	"testing"

	"github.com/victorstella/desafio-mailerweb-ino/internal/application"
)

func TestNewTokenVerifier(t *testing.T) {
	t.Run("rejects missing credential", func(t *testing.T) {
		if _, err := application.NewTokenVerifier("", ""); err == nil {
			t.Fatal("expected error for missing credential")
		}
	})

	t.Run("rejects both credentials configured", func(t *testing.T) {
		hash, err := application.HashToken("secret", []byte("0123456789abcdef"))
		if err != nil {
			t.Fatalf("HashToken returned error: %v", err)
		}
		if _, err := application.NewTokenVerifier("secret", hash); err == nil {
			t.Fatal("expected error for both credentials")
		}
	})

	t.Run("rejects malformed hash on construction", func(t *testing.T) {
		_, err := application.NewTokenVerifier("", "$argon2id$not-a-hash")
		if !errors.Is(err, application.ErrInvalidTokenHash) {
			t.Fatalf("expected ErrInvalidTokenHash, got %v", err)
		}
	})

	t.Run("rejects unsupported argon2 version", func(t *testing.T) {
		_, err := application.NewTokenVerifier("", "$argon2id$v=18$m=65536,t=3,p=2$c2FsdHNhbHQ$aGFzaGhhc2g")
		if !errors.Is(err, application.ErrIncompatibleTokenVersion) {
			t.Fatalf("expected ErrIncompatibleTokenVersion, got %v", err)
		}
	})
}

func TestTokenVerifier_Authorize(t *testing.T) {
	t.Run("accepts the plaintext token", func(t *testing.T) {
		verifier, err := application.NewTokenVerifier("secret", "")
		if err != nil {
			t.Fatalf("NewTokenVerifier returned error: %v", err)
		}
		if err := verifier.Authorize("secret"); err != nil {
			t.Errorf("Authorize returned error: %v", err)
		}
	})

	t.Run("rejects a wrong plaintext token", func(t *testing.T) {
		verifier, err := application.NewTokenVerifier("secret", "")
		if err != nil {
			t.Fatalf("NewTokenVerifier returned error: %v", err)
		}
		if err := verifier.Authorize("guess"); !errors.Is(err, application.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("accepts the token against its hash", func(t *testing.T) {
		hash, err := application.HashToken("secret", []byte("0123456789abcdef"))
		if err != nil {
			t.Fatalf("HashToken returned error: %v", err)
		}
		verifier, err := application.NewTokenVerifier("", hash)
		if err != nil {
			t.Fatalf("NewTokenVerifier returned error: %v", err)
		}
		if err := verifier.Authorize("secret"); err != nil {
			t.Errorf("Authorize returned error: %v", err)
		}
	})

	t.Run("rejects a wrong token against its hash", func(t *testing.T) {
		hash, err := application.HashToken("secret", []byte("0123456789abcdef"))
		if err != nil {
			t.Fatalf("HashToken returned error: %v", err)
		}
		verifier, err := application.NewTokenVerifier("", hash)
		if err != nil {
			t.Fatalf("NewTokenVerifier returned error: %v", err)
		}
		if err := verifier.Authorize("guess"); !errors.Is(err, application.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("nil verifier rejects everything", func(t *testing.T) {
		var verifier *application.TokenVerifier
		if err := verifier.Authorize("secret"); !errors.Is(err, application.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})
}
