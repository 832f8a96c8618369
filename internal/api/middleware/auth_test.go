package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apiContext "orghub/internal/api/context"
	"orghub/internal/platform/auth"
	"orghub/internal/platform/config"
	"orghub/internal/platform/models"
)

type fakeAdminFinder struct {
	admins map[string]*models.Admin
}

func (f *fakeAdminFinder) FindAdminByID(ctx context.Context, id string) (*models.Admin, error) {
	return f.admins[id], nil
}

func TestAuthMiddleware(t *testing.T) {
	tokenSvc := auth.NewTokenService(config.JWTConfig{
		Secret:         "test-secret",
		AccessTokenTTL: 30 * time.Minute,
	})

	admin := &models.Admin{ID: primitive.NewObjectID(), Email: "a@x.com"}
	orgID := primitive.NewObjectID().Hex()
	store := &fakeAdminFinder{admins: map[string]*models.Admin{admin.ID.Hex(): admin}}
	mw := NewAuthMiddleware(tokenSvc, store)

	serve := func(t *testing.T, authHeader string, next http.HandlerFunc) *httptest.ResponseRecorder {
		t.Helper()
		req, _ := http.NewRequest("DELETE", "/api/v1/orgs", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		rr := httptest.NewRecorder()
		mw.Handle(next)(rr, req)
		return rr
	}

	notCalled := func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}

	t.Run("Valid token", func(t *testing.T) {
		token, err := tokenSvc.Generate(admin.ID.Hex(), orgID, admin.Email)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		called := false
		rr := serve(t, "Bearer "+token, func(w http.ResponseWriter, r *http.Request) {
			called = true
			identity, ok := r.Context().Value(apiContext.Identity).(*Identity)
			if !ok {
				t.Fatal("no identity in context")
			}
			if identity.AdminID != admin.ID.Hex() {
				t.Errorf("expected admin %s, got %s", admin.ID.Hex(), identity.AdminID)
			}
			if identity.OrganizationID != orgID {
				t.Errorf("expected org %s, got %s", orgID, identity.OrganizationID)
			}
			if identity.Email != "a@x.com" {
				t.Errorf("expected email a@x.com, got %s", identity.Email)
			}
			w.WriteHeader(http.StatusOK)
		})

		if !called {
			t.Error("handler was not called")
		}
		if rr.Code != http.StatusOK {
			t.Errorf("got status %d, want %d", rr.Code, http.StatusOK)
		}
	})

	t.Run("Missing header", func(t *testing.T) {
		rr := serve(t, "", notCalled)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("got status %d, want %d", rr.Code, http.StatusUnauthorized)
		}
	})

	t.Run("Bad header format", func(t *testing.T) {
		rr := serve(t, "Basic abc123", notCalled)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("got status %d, want %d", rr.Code, http.StatusUnauthorized)
		}
	})

	t.Run("Invalid token", func(t *testing.T) {
		rr := serve(t, "Bearer not.a.token", notCalled)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("got status %d, want %d", rr.Code, http.StatusUnauthorized)
		}
	})

	t.Run("Expired token", func(t *testing.T) {
		expiredSvc := auth.NewTokenService(config.JWTConfig{
			Secret:         "test-secret",
			AccessTokenTTL: -1 * time.Minute,
		})
		token, _ := expiredSvc.Generate(admin.ID.Hex(), orgID, admin.Email)

		rr := serve(t, "Bearer "+token, notCalled)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("got status %d, want %d", rr.Code, http.StatusUnauthorized)
		}
	})

	t.Run("Missing org claim", func(t *testing.T) {
		token, _ := tokenSvc.Generate(admin.ID.Hex(), "", admin.Email)

		rr := serve(t, "Bearer "+token, notCalled)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("got status %d, want %d", rr.Code, http.StatusUnauthorized)
		}
	})

	t.Run("Unknown admin", func(t *testing.T) {
		token, _ := tokenSvc.Generate(primitive.NewObjectID().Hex(), orgID, "ghost@x.com")

		rr := serve(t, "Bearer "+token, notCalled)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("got status %d, want %d", rr.Code, http.StatusUnauthorized)
		}
	})
}
