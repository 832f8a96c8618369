package auth

import (
	"strings"
	"testing"
	"time"

	"orghub/internal/platform/config"
)

func newTestTokenService(ttl time.Duration) *TokenService {
	return NewTokenService(config.JWTConfig{
		Secret:         "test-secret",
		AccessTokenTTL: ttl,
	})
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(30 * time.Minute)

	token, err := svc.Generate("admin123", "org456", "a@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.AdminID != "admin123" {
		t.Errorf("expected admin123, got %s", claims.AdminID)
	}
	if claims.OrganizationID != "org456" {
		t.Errorf("expected org456, got %s", claims.OrganizationID)
	}
	if claims.Email != "a@x.com" {
		t.Errorf("expected a@x.com, got %s", claims.Email)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) > 30*time.Minute {
		t.Error("expiry not bounded by TTL")
	}
}

func TestTokenExpired(t *testing.T) {
	svc := newTestTokenService(-1 * time.Minute)

	token, err := svc.Generate("admin123", "org456", "a@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Validate(token); err == nil {
		t.Error("expired token validated")
	}
}

func TestTokenTampered(t *testing.T) {
	svc := newTestTokenService(30 * time.Minute)

	token, err := svc.Generate("admin123", "org456", "a@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("Altered payload", func(t *testing.T) {
		parts := strings.Split(token, ".")
		tampered := parts[0] + ".eyJhZG1pbl9pZCI6ImV2aWwifQ." + parts[2]
		if _, err := svc.Validate(tampered); err == nil {
			t.Error("tampered token validated")
		}
	})

	t.Run("Wrong secret", func(t *testing.T) {
		other := NewTokenService(config.JWTConfig{Secret: "other-secret", AccessTokenTTL: 30 * time.Minute})
		if _, err := other.Validate(token); err == nil {
			t.Error("token validated under a different secret")
		}
	})

	t.Run("Garbage", func(t *testing.T) {
		if _, err := svc.Validate("not.a.token"); err == nil {
			t.Error("garbage validated")
		}
	})
}
