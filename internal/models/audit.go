package models

import (
	"encoding/json"
	"time"
)

// AuditAction labels the kind of change recorded.
type AuditAction string

const (
	AuditActionSettingUpdate  AuditAction = "SETTING_UPDATE"
	AuditActionStatusChange   AuditAction = "STATUS_CHANGE"
	AuditActionLogin          AuditAction = "LOGIN"
	AuditActionLogout         AuditAction = "LOGOUT"
	AuditActionPasswordChange AuditAction = "PASSWORD_CHANGE"
)

// AuditLog records an administrative change for traceability.
type AuditLog struct {
	ID         string          `db:"id" json:"id"`
	UserID     *string         `db:"user_id" json:"user_id,omitempty"`
	Action     AuditAction     `db:"action" json:"action"`
	Resource   string          `db:"resource" json:"resource"`
	ResourceID *string         `db:"resource_id" json:"resource_id,omitempty"`
	OldValues  json.RawMessage `db:"old_values" json:"old_values,omitempty"`
	NewValues  json.RawMessage `db:"new_values" json:"new_values,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}
