package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
	AuditActionStatus AuditAction = "status"
	AuditActionSync   AuditAction = "sync"
)

// Change captures a single field transition for auditing
type Change struct {
	Old interface{} `bson:"old,omitempty" json:"old,omitempty"`
	New interface{} `bson:"new,omitempty" json:"new,omitempty"`
}

type AuditLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Action    AuditAction        `bson:"action" json:"action"`
	Entity    string             `bson:"entity" json:"entity"`
	RecordID  string             `bson:"record_id" json:"record_id"`
	ActorNo   int64              `bson:"actor_no" json:"actor_no"`
	ActorName string             `bson:"-" json:"actor_name,omitempty"`
	Changes   map[string]Change  `bson:"changes" json:"changes"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// Log is the shape of application log entries persisted by the zap tee core
type Log struct {
	AppId        string    `bson:"app_id"`
	Message      string    `bson:"message"`
	Caller       string    `bson:"caller,omitempty"`
	IpAddress    string    `bson:"ip_address,omitempty"`
	UserNo       int64     `bson:"user_no,omitempty"`
	LogLevelId   int       `bson:"log_level_id"`
	CreatedOnUtc time.Time `bson:"created_on_utc"`
}
