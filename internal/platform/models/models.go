package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConnectionDetails tells an org where its backing collection lives.
type ConnectionDetails struct {
	Database   string `bson:"database" json:"database"`
	Collection string `bson:"collection" json:"collection"`
}

type Organization struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationName string             `bson:"organization_name" json:"organization_name"`
	CollectionName   string             `bson:"collection_name" json:"collection_name"`
	// AdminID is the hex form of the owning admin's ObjectID. Stored as a
	// string, not a DBRef; the lifecycle service keeps the pair consistent.
	AdminID           string            `bson:"admin_id" json:"admin_id"`
	AdminEmail        string            `bson:"admin_email" json:"admin_email"`
	CreatedAt         time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt         *time.Time        `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	ConnectionDetails ConnectionDetails `bson:"connection_details" json:"connection_details"`
}

type Admin struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}
