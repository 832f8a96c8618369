package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"orghub/internal/pkg/errors"
	"orghub/internal/platform/auth"
	"orghub/internal/platform/models"
)

// AdminStore is what login needs: the admin by email and its org.
type AdminStore interface {
	FindAdminByEmail(ctx context.Context, email string) (*models.Admin, error)
	FindOrgByAdminID(ctx context.Context, adminID string) (*models.Organization, error)
}

type AuthHandler struct {
	store    AdminStore
	tokenSvc *auth.TokenService
}

func NewAuthHandler(store AdminStore, tokenSvc *auth.TokenService) *AuthHandler {
	return &AuthHandler{store: store, tokenSvc: tokenSvc}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	AdminID          string `json:"admin_id"`
	OrganizationID   string `json:"organization_id"`
	OrganizationName string `json:"organization_name"`
}

// Login authenticates an org admin and issues a bearer token. Unknown email
// and wrong password get the same response so neither can be probed apart.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	admin, err := h.store.FindAdminByEmail(r.Context(), req.Email)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Internal server error", nil)
		return
	}
	if admin == nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid credentials", nil)
		return
	}

	if !auth.CheckPassword(req.Password, admin.PasswordHash) {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid credentials", nil)
		return
	}

	org, err := h.store.FindOrgByAdminID(r.Context(), admin.ID.Hex())
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Internal server error", nil)
		return
	}
	if org == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "No org found", nil)
		return
	}

	token, err := h.tokenSvc.Generate(admin.ID.Hex(), org.ID.Hex(), admin.Email)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to generate token", nil)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		AccessToken:      token,
		TokenType:        "bearer",
		AdminID:          admin.ID.Hex(),
		OrganizationID:   org.ID.Hex(),
		OrganizationName: org.OrganizationName,
	})
}
