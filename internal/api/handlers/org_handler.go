package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	apiContext "orghub/internal/api/context"
	"orghub/internal/api/middleware"
	"orghub/internal/engine/tenants"
	"orghub/internal/pkg/errors"
	"orghub/internal/pkg/validator"
)

// TenantService is the lifecycle surface the org endpoints sit on,
// implemented by tenants.Service.
type TenantService interface {
	Create(ctx context.Context, orgName, email, password string) (*tenants.OrgView, error)
	Get(ctx context.Context, orgName string) (*tenants.OrgView, error)
	Rename(ctx context.Context, oldName, newName, email, password string) (*tenants.RenameResult, error)
	Delete(ctx context.Context, orgName, actorAdminID string) (*tenants.DeleteResult, error)
}

type OrgHandler struct {
	svc TenantService
}

func NewOrgHandler(svc TenantService) *OrgHandler {
	return &OrgHandler{svc: svc}
}

type CreateOrgRequest struct {
	OrganizationName string `json:"organization_name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
}

func (h *OrgHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrgRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if err := validator.OrgName(req.OrganizationName); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}
	if err := validator.Email(req.Email); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}
	if err := validator.Password(req.Password); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}

	view, err := h.svc.Create(r.Context(), req.OrganizationName, req.Email, req.Password)
	if err != nil {
		errors.Write(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, envelope{
		Success: true,
		Message: "Org created",
		Data:    view,
	})
}

func (h *OrgHandler) Get(w http.ResponseWriter, r *http.Request) {
	orgName := r.URL.Query().Get("organization_name")
	if orgName == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "organization_name is required", nil)
		return
	}

	view, err := h.svc.Get(r.Context(), orgName)
	if err != nil {
		errors.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Data: view})
}

type UpdateOrgRequest struct {
	OrganizationName    string `json:"organization_name"`
	NewOrganizationName string `json:"new_organization_name"`
	Email               string `json:"email,omitempty"`
	Password            string `json:"password,omitempty"`
}

func (h *OrgHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateOrgRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if req.OrganizationName == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "organization_name is required", nil)
		return
	}
	if err := validator.OrgName(req.NewOrganizationName); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}
	if req.Email != "" {
		if err := validator.Email(req.Email); err != nil {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
			return
		}
	}
	if req.Password != "" {
		if err := validator.Password(req.Password); err != nil {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
			return
		}
	}

	result, err := h.svc.Rename(r.Context(), req.OrganizationName, req.NewOrganizationName, req.Email, req.Password)
	if err != nil {
		errors.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Data: result})
}

type DeleteOrgRequest struct {
	OrganizationName string `json:"organization_name"`
}

func (h *OrgHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := r.Context().Value(apiContext.Identity).(*middleware.Identity)
	if !ok {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "No authenticated identity", nil)
		return
	}

	var req DeleteOrgRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.OrganizationName == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "organization_name is required", nil)
		return
	}

	result, err := h.svc.Delete(r.Context(), req.OrganizationName, identity.AdminID)
	if err != nil {
		errors.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Data: result})
}
