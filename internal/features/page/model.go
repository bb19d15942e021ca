package page

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Page is a server-registered navigable route with an associated module label
type Page struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Path      string             `bson:"path" json:"path"`
	Module    string             `bson:"module" json:"module"`
	Label     string             `bson:"label,omitempty" json:"label,omitempty"`
	SortOrder int                `bson:"sort_order" json:"sort_order"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// PermissionGrant overrides the default view-only access of a page for one user.
// Flag fields are numeric so any truthy value from legacy clients counts as set.
type PermissionGrant struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PageID    primitive.ObjectID `bson:"page_id" json:"page_id"`
	UserNo    int64              `bson:"user_no" json:"user_no"`
	CanView   int                `bson:"can_view" json:"can_view"`
	CanCreate int                `bson:"can_create" json:"can_create"`
	CanEdit   int                `bson:"can_edit" json:"can_edit"`
	CanDelete int                `bson:"can_delete" json:"can_delete"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
