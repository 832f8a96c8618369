package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apiContext "orghub/internal/api/context"
	"orghub/internal/api/middleware"
	"orghub/internal/engine/tenants"
	apperrors "orghub/internal/pkg/errors"
)

type fakeTenantService struct {
	createFn func(orgName, email, password string) (*tenants.OrgView, error)
	getFn    func(orgName string) (*tenants.OrgView, error)
	renameFn func(oldName, newName, email, password string) (*tenants.RenameResult, error)
	deleteFn func(orgName, actorAdminID string) (*tenants.DeleteResult, error)
}

func (f *fakeTenantService) Create(ctx context.Context, orgName, email, password string) (*tenants.OrgView, error) {
	return f.createFn(orgName, email, password)
}

func (f *fakeTenantService) Get(ctx context.Context, orgName string) (*tenants.OrgView, error) {
	return f.getFn(orgName)
}

func (f *fakeTenantService) Rename(ctx context.Context, oldName, newName, email, password string) (*tenants.RenameResult, error) {
	return f.renameFn(oldName, newName, email, password)
}

func (f *fakeTenantService) Delete(ctx context.Context, orgName, actorAdminID string) (*tenants.DeleteResult, error) {
	return f.deleteFn(orgName, actorAdminID)
}

func TestOrgCreate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := &fakeTenantService{
			createFn: func(orgName, email, password string) (*tenants.OrgView, error) {
				return &tenants.OrgView{
					OrganizationID:   "abc123",
					OrganizationName: orgName,
					CollectionName:   "org_acme_corp",
					AdminEmail:       email,
					CreatedAt:        time.Now().UTC(),
				}, nil
			},
		}
		handler := NewOrgHandler(svc)

		req, _ := http.NewRequest("POST", "/api/v1/orgs",
			strings.NewReader(`{"organization_name":"Acme Corp","email":"a@x.com","password":"secret1"}`))
		rr := httptest.NewRecorder()
		handler.Create(rr, req)

		if rr.Code != http.StatusCreated {
			t.Fatalf("got status %d, want %d: %s", rr.Code, http.StatusCreated, rr.Body.String())
		}

		var resp struct {
			Success bool            `json:"success"`
			Message string          `json:"message"`
			Data    tenants.OrgView `json:"data"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if !resp.Success {
			t.Error("expected success envelope")
		}
		if resp.Data.CollectionName != "org_acme_corp" {
			t.Errorf("expected org_acme_corp, got %s", resp.Data.CollectionName)
		}
	})

	t.Run("Conflict maps to 400", func(t *testing.T) {
		svc := &fakeTenantService{
			createFn: func(orgName, email, password string) (*tenants.OrgView, error) {
				return nil, apperrors.Conflict("Organization name taken")
			},
		}
		handler := NewOrgHandler(svc)

		req, _ := http.NewRequest("POST", "/api/v1/orgs",
			strings.NewReader(`{"organization_name":"Acme Corp","email":"a@x.com","password":"secret1"}`))
		rr := httptest.NewRecorder()
		handler.Create(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("got status %d, want %d", rr.Code, http.StatusBadRequest)
		}
		var resp apperrors.ErrorResponse
		json.Unmarshal(rr.Body.Bytes(), &resp)
		if resp.Code != apperrors.ErrCodeConflict {
			t.Errorf("expected code %s, got %s", apperrors.ErrCodeConflict, resp.Code)
		}
	})

	t.Run("Invalid input rejected before the service", func(t *testing.T) {
		svc := &fakeTenantService{
			createFn: func(orgName, email, password string) (*tenants.OrgView, error) {
				t.Error("service should not be reached")
				return nil, nil
			},
		}
		handler := NewOrgHandler(svc)

		cases := map[string]string{
			"short org name": `{"organization_name":"ab","email":"a@x.com","password":"secret1"}`,
			"bad email":      `{"organization_name":"Acme Corp","email":"nope","password":"secret1"}`,
			"short password": `{"organization_name":"Acme Corp","email":"a@x.com","password":"123"}`,
			"garbage body":   `{`,
		}
		for name, body := range cases {
			t.Run(name, func(t *testing.T) {
				req, _ := http.NewRequest("POST", "/api/v1/orgs", strings.NewReader(body))
				rr := httptest.NewRecorder()
				handler.Create(rr, req)
				if rr.Code != http.StatusBadRequest {
					t.Errorf("got status %d, want %d", rr.Code, http.StatusBadRequest)
				}
			})
		}
	})
}

func TestOrgGet(t *testing.T) {
	svc := &fakeTenantService{
		getFn: func(orgName string) (*tenants.OrgView, error) {
			if orgName == "Acme Corp" {
				return &tenants.OrgView{OrganizationName: orgName, CollectionName: "org_acme_corp"}, nil
			}
			return nil, apperrors.NotFound("Organization not found")
		},
	}
	handler := NewOrgHandler(svc)

	t.Run("Found", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/v1/orgs?organization_name=Acme+Corp", nil)
		rr := httptest.NewRecorder()
		handler.Get(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("got status %d, want %d", rr.Code, http.StatusOK)
		}
	})

	t.Run("Not found", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/v1/orgs?organization_name=Nope", nil)
		rr := httptest.NewRecorder()
		handler.Get(rr, req)
		if rr.Code != http.StatusNotFound {
			t.Errorf("got status %d, want %d", rr.Code, http.StatusNotFound)
		}
	})

	t.Run("Missing name", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/v1/orgs", nil)
		rr := httptest.NewRecorder()
		handler.Get(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("got status %d, want %d", rr.Code, http.StatusBadRequest)
		}
	})
}

func TestOrgDelete(t *testing.T) {
	identity := &middleware.Identity{AdminID: "admin123", OrganizationID: "org456", Email: "a@x.com"}

	deleteReq := func(body string, withIdentity bool) *http.Request {
		req, _ := http.NewRequest("DELETE", "/api/v1/orgs", strings.NewReader(body))
		if withIdentity {
			ctx := context.WithValue(req.Context(), apiContext.Identity, identity)
			req = req.WithContext(ctx)
		}
		return req
	}

	t.Run("Passes acting admin to the service", func(t *testing.T) {
		var gotAdminID string
		svc := &fakeTenantService{
			deleteFn: func(orgName, actorAdminID string) (*tenants.DeleteResult, error) {
				gotAdminID = actorAdminID
				return &tenants.DeleteResult{Message: "Organization deleted", OrganizationName: orgName}, nil
			},
		}
		handler := NewOrgHandler(svc)

		rr := httptest.NewRecorder()
		handler.Delete(rr, deleteReq(`{"organization_name":"Acme Corp"}`, true))

		if rr.Code != http.StatusOK {
			t.Fatalf("got status %d, want %d", rr.Code, http.StatusOK)
		}
		if gotAdminID != "admin123" {
			t.Errorf("expected acting admin admin123, got %s", gotAdminID)
		}
	})

	t.Run("Forbidden maps to 403", func(t *testing.T) {
		svc := &fakeTenantService{
			deleteFn: func(orgName, actorAdminID string) (*tenants.DeleteResult, error) {
				return nil, apperrors.Forbidden("Not authorized")
			},
		}
		handler := NewOrgHandler(svc)

		rr := httptest.NewRecorder()
		handler.Delete(rr, deleteReq(`{"organization_name":"Acme Corp"}`, true))

		if rr.Code != http.StatusForbidden {
			t.Errorf("got status %d, want %d", rr.Code, http.StatusForbidden)
		}
	})

	t.Run("No identity", func(t *testing.T) {
		svc := &fakeTenantService{
			deleteFn: func(orgName, actorAdminID string) (*tenants.DeleteResult, error) {
				t.Error("service should not be reached")
				return nil, nil
			},
		}
		handler := NewOrgHandler(svc)

		rr := httptest.NewRecorder()
		handler.Delete(rr, deleteReq(`{"organization_name":"Acme Corp"}`, false))

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("got status %d, want %d", rr.Code, http.StatusUnauthorized)
		}
	})
}
