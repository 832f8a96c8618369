package middleware

import (
	"context"
	"net/http"
	"strings"

	apiContext "orghub/internal/api/context"
	"orghub/internal/pkg/errors"
	"orghub/internal/platform/auth"
	"orghub/internal/platform/models"
)

// AdminFinder resolves a token's admin id to a live admin record.
type AdminFinder interface {
	FindAdminByID(ctx context.Context, id string) (*models.Admin, error)
}

// Identity is the authenticated admin/org pair handed to protected
// handlers for authorization checks.
type Identity struct {
	AdminID        string
	OrganizationID string
	Email          string
}

// AuthMiddleware is the gate in front of protected routes: it extracts the
// bearer token, verifies it, requires both identity claims, and resolves
// the admin to a live record before letting the request through.
type AuthMiddleware struct {
	tokenSvc *auth.TokenService
	store    AdminFinder
}

func NewAuthMiddleware(tokenSvc *auth.TokenService, store AdminFinder) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, store: store}
}

func (m *AuthMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Missing authorization header", nil)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid authorization header format", nil)
			return
		}

		claims, err := m.tokenSvc.Validate(parts[1])
		if err != nil {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid or expired token", nil)
			return
		}

		if claims.AdminID == "" || claims.OrganizationID == "" {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid token", nil)
			return
		}

		admin, err := m.store.FindAdminByID(r.Context(), claims.AdminID)
		if err != nil {
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to load admin", nil)
			return
		}
		if admin == nil {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Admin not found", nil)
			return
		}

		ctx := context.WithValue(r.Context(), apiContext.Identity, &Identity{
			AdminID:        admin.ID.Hex(),
			OrganizationID: claims.OrganizationID,
			Email:          admin.Email,
		})
		next(w, r.WithContext(ctx))
	}
}
