package sync

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SyncSetting describes a pull from a legacy Postgres item master into the
// local items collection. Mapping translates source columns to item fields.
type SyncSetting struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name"`
	SourceTable    string             `json:"source_table" bson:"source_table"`
	Mapping        map[string]string  `json:"mapping" bson:"mapping"` // item field -> source column
	SourceDBConfig map[string]string  `json:"source_db_config" bson:"source_db_config"`
	LastSyncAt     time.Time          `json:"last_sync_at" bson:"last_sync_at"`
	IsActive       bool               `json:"is_active" bson:"is_active"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

type SyncLog struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SyncSettingID  primitive.ObjectID `json:"sync_setting_id" bson:"sync_setting_id"`
	StartTime      time.Time          `json:"start_time" bson:"start_time"`
	EndTime        time.Time          `json:"end_time" bson:"end_time"`
	Status         string             `json:"status" bson:"status"` // "success", "failed", "in_progress"
	ProcessedCount int                `json:"processed_count" bson:"processed_count"`
	Error          string             `json:"error,omitempty" bson:"error,omitempty"`
}

// Item is a row of the synced item master, referenced by document lines
type Item struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ItemCode  string             `json:"item_code" bson:"item_code"`
	Name      string             `json:"name" bson:"name"`
	Unit      string             `json:"unit,omitempty" bson:"unit,omitempty"`
	UnitPrice float64            `json:"unit_price" bson:"unit_price"`
	IsActive  bool               `json:"is_active" bson:"is_active"`
	SyncedAt  time.Time          `json:"synced_at" bson:"synced_at"`
}
