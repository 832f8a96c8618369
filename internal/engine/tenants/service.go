package tenants

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "orghub/internal/pkg/errors"
	"orghub/internal/platform/auth"
	"orghub/internal/platform/database"
	"orghub/internal/platform/models"
)

// Store is the persistence surface the lifecycle service needs. The mongo
// implementation lives in platform/database; tests supply fakes.
type Store interface {
	FindOrgByName(ctx context.Context, name string) (*models.Organization, error)
	FindOrgByAdminID(ctx context.Context, adminID string) (*models.Organization, error)
	FindAdminByEmail(ctx context.Context, email string) (*models.Admin, error)
	FindAdminByID(ctx context.Context, id string) (*models.Admin, error)
	FindAdminByEmailExcluding(ctx context.Context, email, excludeID string) (*models.Admin, error)
	InsertAdmin(ctx context.Context, admin *models.Admin) (string, error)
	InsertOrg(ctx context.Context, org *models.Organization) (string, error)
	UpdateAdmin(ctx context.Context, adminID string, patch database.AdminPatch) error
	UpdateOrg(ctx context.Context, orgID primitive.ObjectID, patch database.OrgPatch) error
	DeleteAdmin(ctx context.Context, adminID string) error
	DeleteOrg(ctx context.Context, orgID primitive.ObjectID) error
	CreateCollection(ctx context.Context, name string) bool
	DropCollection(ctx context.Context, name string) error
	CopyAllDocuments(ctx context.Context, from, to string) error
}

type OrgView struct {
	OrganizationID    string                    `json:"organization_id"`
	OrganizationName  string                    `json:"organization_name"`
	CollectionName    string                    `json:"collection_name"`
	AdminEmail        string                    `json:"admin_email"`
	CreatedAt         time.Time                 `json:"created_at"`
	ConnectionDetails *models.ConnectionDetails `json:"connection_details,omitempty"`
}

type RenameResult struct {
	Message          string `json:"message"`
	OrganizationName string `json:"organization_name"`
	CollectionName   string `json:"collection_name"`
}

type DeleteResult struct {
	Message          string `json:"message"`
	OrganizationName string `json:"organization_name"`
}

// Service orchestrates the tenant lifecycle: provisioning an org with its
// admin and backing collection, renames with data migration, and owner-only
// deletion. Multi-record steps are best-effort, not transactional; partial
// failures are logged and surfaced where the policy allows.
type Service struct {
	store    Store
	database string
}

func NewService(store Store, databaseName string) *Service {
	return &Service{store: store, database: databaseName}
}

func (s *Service) Create(ctx context.Context, orgName, email, password string) (*OrgView, error) {
	existing, err := s.store.FindOrgByName(ctx, orgName)
	if err != nil {
		return nil, fmt.Errorf("check organization name: %w", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("Organization name taken")
	}

	dupAdmin, err := s.store.FindAdminByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check admin email: %w", err)
	}
	if dupAdmin != nil {
		return nil, apperrors.Conflict("Email already registered")
	}

	collName := DeriveCollectionName(orgName)
	if !s.store.CreateCollection(ctx, collName) {
		// Best-effort: the org record still gets written so the tenant is
		// usable; the gap is observable in the logs.
		log.Warn().Str("org", orgName).Str("collection", collName).
			Msg("org collection not provisioned")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	adminID, err := s.store.InsertAdmin(ctx, &models.Admin{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, database.ErrDuplicateKey) {
			return nil, apperrors.Conflict("Email already registered")
		}
		return nil, fmt.Errorf("insert admin: %w", err)
	}

	org := &models.Organization{
		OrganizationName: orgName,
		CollectionName:   collName,
		AdminID:          adminID,
		AdminEmail:       email,
		CreatedAt:        now,
		ConnectionDetails: models.ConnectionDetails{
			Database:   s.database,
			Collection: collName,
		},
	}
	orgID, err := s.store.InsertOrg(ctx, org)
	if err != nil {
		if errors.Is(err, database.ErrDuplicateKey) {
			return nil, apperrors.Conflict("Organization name taken")
		}
		return nil, fmt.Errorf("insert organization: %w", err)
	}

	log.Info().Str("org", orgName).Str("collection", collName).Msg("organization created")

	return &OrgView{
		OrganizationID:   orgID,
		OrganizationName: orgName,
		CollectionName:   collName,
		AdminEmail:       email,
		CreatedAt:        now,
	}, nil
}

func (s *Service) Get(ctx context.Context, orgName string) (*OrgView, error) {
	org, err := s.store.FindOrgByName(ctx, orgName)
	if err != nil {
		return nil, fmt.Errorf("load organization: %w", err)
	}
	if org == nil {
		return nil, apperrors.NotFound("Organization not found")
	}

	details := org.ConnectionDetails
	return &OrgView{
		OrganizationID:    org.ID.Hex(),
		OrganizationName:  org.OrganizationName,
		CollectionName:    org.CollectionName,
		AdminEmail:        org.AdminEmail,
		CreatedAt:         org.CreatedAt,
		ConnectionDetails: &details,
	}, nil
}

// Rename updates an organization's name, migrating its backing collection
// when the name actually changes, and optionally updates the admin's email
// or password. The collection migration and the record updates are not one
// atomic step: a crash after the copy-and-drop leaves the org record
// pointing at the old collection name until the final update lands.
func (s *Service) Rename(ctx context.Context, oldName, newName, email, password string) (*RenameResult, error) {
	org, err := s.store.FindOrgByName(ctx, oldName)
	if err != nil {
		return nil, fmt.Errorf("load organization: %w", err)
	}
	if org == nil {
		return nil, apperrors.NotFound("Organization not found")
	}

	if newName != oldName {
		taken, err := s.store.FindOrgByName(ctx, newName)
		if err != nil {
			return nil, fmt.Errorf("check new name: %w", err)
		}
		if taken != nil {
			return nil, apperrors.Conflict("New name already exists")
		}
	}

	collName := org.CollectionName
	// Names differing only in punctuation derive the same collection; a
	// self-copy followed by a drop would destroy the data, so migration only
	// runs when the derived name actually changes.
	if newName != oldName && DeriveCollectionName(newName) != org.CollectionName {
		collName = DeriveCollectionName(newName)
		if err := s.store.CopyAllDocuments(ctx, org.CollectionName, collName); err != nil {
			return nil, fmt.Errorf("migrate collection %s to %s: %w", org.CollectionName, collName, err)
		}
		if err := s.store.DropCollection(ctx, org.CollectionName); err != nil {
			return nil, fmt.Errorf("drop old collection %s: %w", org.CollectionName, err)
		}
		log.Info().Str("from", org.CollectionName).Str("to", collName).Msg("org collection migrated")
	}

	var patch database.AdminPatch
	if email != "" {
		inUse, err := s.store.FindAdminByEmailExcluding(ctx, email, org.AdminID)
		if err != nil {
			return nil, fmt.Errorf("check admin email: %w", err)
		}
		if inUse != nil {
			return nil, apperrors.Conflict("Email in use")
		}
		patch.Email = email
	}
	if password != "" {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		patch.PasswordHash = hash
	}

	if patch != (database.AdminPatch{}) {
		if err := s.store.UpdateAdmin(ctx, org.AdminID, patch); err != nil {
			if errors.Is(err, database.ErrDuplicateKey) {
				return nil, apperrors.Conflict("Email in use")
			}
			return nil, fmt.Errorf("update admin: %w", err)
		}
	}

	orgPatch := database.OrgPatch{
		OrganizationName: newName,
		CollectionName:   collName,
		UpdatedAt:        time.Now().UTC(),
	}
	if email != "" {
		orgPatch.AdminEmail = email
	}
	if err := s.store.UpdateOrg(ctx, org.ID, orgPatch); err != nil {
		if errors.Is(err, database.ErrDuplicateKey) {
			return nil, apperrors.Conflict("New name already exists")
		}
		return nil, fmt.Errorf("update organization: %w", err)
	}

	return &RenameResult{
		Message:          "Organization updated",
		OrganizationName: newName,
		CollectionName:   collName,
	}, nil
}

// Delete removes an org, its admin and its backing collection. Only the
// org's own admin may delete it. Admin deletion is best-effort: a failure
// there is logged and the org record is removed regardless.
func (s *Service) Delete(ctx context.Context, orgName, actorAdminID string) (*DeleteResult, error) {
	org, err := s.store.FindOrgByName(ctx, orgName)
	if err != nil {
		return nil, fmt.Errorf("load organization: %w", err)
	}
	if org == nil {
		return nil, apperrors.NotFound("Organization not found")
	}

	if org.AdminID != actorAdminID {
		return nil, apperrors.Forbidden("Not authorized")
	}

	if err := s.store.DropCollection(ctx, org.CollectionName); err != nil {
		return nil, fmt.Errorf("drop collection %s: %w", org.CollectionName, err)
	}

	if err := s.store.DeleteAdmin(ctx, org.AdminID); err != nil {
		log.Error().Err(err).Str("admin_id", org.AdminID).Msg("failed to delete admin")
	}

	if err := s.store.DeleteOrg(ctx, org.ID); err != nil {
		return nil, fmt.Errorf("delete organization: %w", err)
	}

	log.Info().Str("org", orgName).Msg("organization deleted")

	return &DeleteResult{
		Message:          "Organization deleted",
		OrganizationName: orgName,
	}, nil
}
