package models

import (
	"encoding/json"
	"time"
)

// Setting is a persisted key-value entry. Values are stored as JSON so a key
// can hold a boolean, a string or an array. Last write wins; rows are created
// on first write and never deleted.
type Setting struct {
	Key       string          `db:"key" json:"key"`
	Value     json.RawMessage `db:"value" json:"value"`
	UpdatedBy *string         `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}
