package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"orghub/internal/platform/models"
)

const (
	OrgCollection   = "organizations"
	AdminCollection = "admins"
)

// ErrDuplicateKey surfaces a unique-index violation so callers can map a
// lost insert race to a clean conflict instead of a store failure.
var ErrDuplicateKey = errors.New("duplicate key")

// AdminPatch stages admin field updates. Empty fields are left untouched.
type AdminPatch struct {
	Email        string
	PasswordHash string
}

// OrgPatch is applied to an organization record after a rename.
type OrgPatch struct {
	OrganizationName string
	CollectionName   string
	AdminEmail       string
	UpdatedAt        time.Time
}

type Store struct {
	db *mongo.Database
}

func NewStore(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) FindOrgByName(ctx context.Context, name string) (*models.Organization, error) {
	org := &models.Organization{}
	err := s.db.Collection(OrgCollection).FindOne(ctx, bson.M{"organization_name": name}).Decode(org)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return org, nil
}

func (s *Store) FindOrgByAdminID(ctx context.Context, adminID string) (*models.Organization, error) {
	org := &models.Organization{}
	err := s.db.Collection(OrgCollection).FindOne(ctx, bson.M{"admin_id": adminID}).Decode(org)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return org, nil
}

func (s *Store) FindAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	admin := &models.Admin{}
	err := s.db.Collection(AdminCollection).FindOne(ctx, bson.M{"email": email}).Decode(admin)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return admin, nil
}

// FindAdminByID looks up an admin by the hex form of its ObjectID. A
// malformed id behaves like a miss rather than a store failure.
func (s *Store) FindAdminByID(ctx context.Context, id string) (*models.Admin, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	admin := &models.Admin{}
	err = s.db.Collection(AdminCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(admin)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return admin, nil
}

// FindAdminByEmailExcluding reports whether another admin already owns
// email, ignoring the admin identified by excludeID.
func (s *Store) FindAdminByEmailExcluding(ctx context.Context, email, excludeID string) (*models.Admin, error) {
	filter := bson.M{"email": email}
	if oid, err := primitive.ObjectIDFromHex(excludeID); err == nil {
		filter["_id"] = bson.M{"$ne": oid}
	}

	admin := &models.Admin{}
	err := s.db.Collection(AdminCollection).FindOne(ctx, filter).Decode(admin)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return admin, nil
}

func (s *Store) InsertAdmin(ctx context.Context, admin *models.Admin) (string, error) {
	result, err := s.db.Collection(AdminCollection).InsertOne(ctx, admin)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicateKey
		}
		return "", err
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (s *Store) InsertOrg(ctx context.Context, org *models.Organization) (string, error) {
	result, err := s.db.Collection(OrgCollection).InsertOne(ctx, org)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicateKey
		}
		return "", err
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (s *Store) UpdateAdmin(ctx context.Context, adminID string, patch AdminPatch) error {
	oid, err := primitive.ObjectIDFromHex(adminID)
	if err != nil {
		return fmt.Errorf("invalid admin id %q: %w", adminID, err)
	}

	set := bson.M{}
	if patch.Email != "" {
		set["email"] = patch.Email
	}
	if patch.PasswordHash != "" {
		set["password"] = patch.PasswordHash
	}
	if len(set) == 0 {
		return nil
	}

	_, err = s.db.Collection(AdminCollection).UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	return err
}

func (s *Store) UpdateOrg(ctx context.Context, orgID primitive.ObjectID, patch OrgPatch) error {
	set := bson.M{
		"organization_name":             patch.OrganizationName,
		"collection_name":               patch.CollectionName,
		"connection_details.collection": patch.CollectionName,
		"updated_at":                    patch.UpdatedAt,
	}
	if patch.AdminEmail != "" {
		set["admin_email"] = patch.AdminEmail
	}

	_, err := s.db.Collection(OrgCollection).UpdateOne(ctx, bson.M{"_id": orgID}, bson.M{"$set": set})
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	return err
}

func (s *Store) DeleteAdmin(ctx context.Context, adminID string) error {
	oid, err := primitive.ObjectIDFromHex(adminID)
	if err != nil {
		return fmt.Errorf("invalid admin id %q: %w", adminID, err)
	}
	_, err = s.db.Collection(AdminCollection).DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

func (s *Store) DeleteOrg(ctx context.Context, orgID primitive.ObjectID) error {
	_, err := s.db.Collection(OrgCollection).DeleteOne(ctx, bson.M{"_id": orgID})
	return err
}

// CreateCollection provisions an org's backing collection and seeds it with
// a single marker document. Failures are reported, not raised; provisioning
// is best-effort by policy.
func (s *Store) CreateCollection(ctx context.Context, name string) bool {
	if err := s.db.CreateCollection(ctx, name); err != nil {
		log.Warn().Err(err).Str("collection", name).Msg("failed to create org collection")
		return false
	}

	_, err := s.db.Collection(name).InsertOne(ctx, bson.M{
		"initialized": true,
		"created_at":  time.Now().UTC(),
		"note":        "Org data goes here",
	})
	if err != nil {
		log.Warn().Err(err).Str("collection", name).Msg("failed to seed org collection")
		return false
	}
	return true
}

func (s *Store) DropCollection(ctx context.Context, name string) error {
	return s.db.Collection(name).Drop(ctx)
}

// CopyAllDocuments bulk-copies every document from one collection to
// another. The destination is created explicitly first so an empty source
// still leaves a real collection behind.
func (s *Store) CopyAllDocuments(ctx context.Context, from, to string) error {
	if err := s.db.CreateCollection(ctx, to); err != nil {
		// NamespaceExists is fine; the insert below decides everything else.
		log.Debug().Err(err).Str("collection", to).Msg("create destination collection")
	}

	cursor, err := s.db.Collection(from).Find(ctx, bson.M{})
	if err != nil {
		return err
	}

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}

	batch := make([]interface{}, 0, len(docs))
	for _, doc := range docs {
		batch = append(batch, doc)
	}

	_, err = s.db.Collection(to).InsertMany(ctx, batch)
	return err
}
