package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/meetingroom-booking/internal/persistence"
	"github.com/example/meetingroom-booking/internal/testfixtures"
)

func plainVerifier(hashedPassword, password string) error {
	if hashedPassword == "hash:"+password {
		return nil
	}
	return ErrInvalidCredentials
}

func seedAccount(t *testing.T, store *persistence.MemoryStore, id, email string, disabled bool) {
	t.Helper()
	err := store.CreateUser(context.Background(), persistence.User{
		ID:           id,
		Email:        email,
		DisplayName:  "Test User",
		PasswordHash: "hash:secret",
		Disabled:     disabled,
		CreatedAt:    fixedNow(),
		UpdatedAt:    fixedNow(),
	})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
}

func TestAuthServiceAuthenticate(t *testing.T) {
	t.Run("issues a session for valid credentials", func(t *testing.T) {
		store := persistence.NewMemoryStore()
		seedAccount(t, store, "user-1", "alice@example.com", false)
		svc := NewAuthService(store, store, plainVerifier, sequentialIDs("tok"), fixedNow, time.Hour)

		result, err := svc.Authenticate(context.Background(), AuthenticateParams{
			Email:    " Alice@Example.com ",
			Password: "secret",
		})
		if err != nil {
			t.Fatalf("Authenticate returned error: %v", err)
		}
		if result.User.ID != "user-1" {
			t.Fatalf("unexpected user: %+v", result.User)
		}
		if result.Session.Token == "" {
			t.Fatal("expected a session token")
		}
		if got, want := result.Session.ExpiresAt, fixedNow().Add(time.Hour); !got.Equal(want) {
			t.Fatalf("unexpected expiry: got %v want %v", got, want)
		}
	})

	t.Run("rejects wrong passwords and unknown accounts alike", func(t *testing.T) {
		store := persistence.NewMemoryStore()
		seedAccount(t, store, "user-1", "alice@example.com", false)
		svc := NewAuthService(store, store, plainVerifier, sequentialIDs("tok"), fixedNow, time.Hour)

		if _, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: "alice@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
		if _, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: "nobody@example.com", Password: "secret"}); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("rejects disabled accounts", func(t *testing.T) {
		store := persistence.NewMemoryStore()
		seedAccount(t, store, "user-1", "alice@example.com", true)
		svc := NewAuthService(store, store, plainVerifier, sequentialIDs("tok"), fixedNow, time.Hour)

		if _, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: "alice@example.com", Password: "secret"}); !errors.Is(err, ErrAccountDisabled) {
			t.Fatalf("expected ErrAccountDisabled, got %v", err)
		}
	})
}

func TestAuthServiceValidateSession(t *testing.T) {
	store := persistence.NewMemoryStore()
	seedAccount(t, store, "user-1", "alice@example.com", false)
	clock := testfixtures.NewClock(fixedNow())
	svc := NewAuthService(store, store, plainVerifier, sequentialIDs("tok"), clock.NowFunc(), time.Hour)

	result, err := svc.Authenticate(context.Background(), AuthenticateParams{
		Email:    "alice@example.com",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	token := result.Session.Token

	principal, err := svc.ValidateSession(context.Background(), token)
	if err != nil {
		t.Fatalf("ValidateSession returned error: %v", err)
	}
	if principal.UserID != "user-1" {
		t.Fatalf("unexpected principal: %+v", principal)
	}

	t.Run("expired sessions are rejected", func(t *testing.T) {
		clock.Advance(2 * time.Hour)
		if _, err := svc.ValidateSession(context.Background(), token); !errors.Is(err, ErrSessionExpired) {
			t.Fatalf("expected ErrSessionExpired, got %v", err)
		}
		clock.Set(fixedNow())
	})

	t.Run("revoked sessions are rejected", func(t *testing.T) {
		if err := svc.RevokeSession(context.Background(), token); err != nil {
			t.Fatalf("RevokeSession returned error: %v", err)
		}
		if _, err := svc.ValidateSession(context.Background(), token); !errors.Is(err, ErrSessionRevoked) {
			t.Fatalf("expected ErrSessionRevoked, got %v", err)
		}
	})

	t.Run("unknown tokens are unauthorized", func(t *testing.T) {
		if _, err := svc.ValidateSession(context.Background(), "missing"); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}
