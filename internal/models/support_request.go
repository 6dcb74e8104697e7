package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SupportType enumerates the kinds of assistance a request can ask for.
type SupportType string

const (
	SupportConsultancy SupportType = "Consultancy"
	SupportTechnical   SupportType = "Technical"
	SupportTraining    SupportType = "Training"
	SupportFunding     SupportType = "Funding"
)

// ValidSupportType reports whether the literal is a known support type.
func ValidSupportType(t SupportType) bool {
	switch t {
	case SupportConsultancy, SupportTechnical, SupportTraining, SupportFunding:
		return true
	}
	return false
}

// StatusGroup is the canonical lifecycle state. Several literal status strings
// map onto each group; business logic must decide on groups, never on
// literals, or requests vanish from both the ongoing and completed views.
type StatusGroup string

const (
	GroupPending  StatusGroup = "PENDING"
	GroupActive   StatusGroup = "ACTIVE"
	GroupDeclined StatusGroup = "DECLINED"
	GroupResolved StatusGroup = "RESOLVED"
	GroupUnknown  StatusGroup = "UNKNOWN"
)

// Literal request statuses accepted on the wire. The stored literal is
// whatever the transition supplied; grouping happens on read.
const (
	RequestStatusPending   = "pending"
	RequestStatusApproved  = "approved"
	RequestStatusOngoing   = "ongoing"
	RequestStatusDeclined  = "declined"
	RequestStatusCompleted = "completed"
	RequestStatusResolved  = "resolved"
	RequestStatusClosed    = "closed"
)

// GroupOf maps a literal status onto its canonical group.
func GroupOf(status string) StatusGroup {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case RequestStatusPending:
		return GroupPending
	case RequestStatusApproved, RequestStatusOngoing:
		return GroupActive
	case RequestStatusDeclined:
		return GroupDeclined
	case RequestStatusCompleted, RequestStatusResolved, RequestStatusClosed:
		return GroupResolved
	}
	return GroupUnknown
}

// Terminal reports whether the group admits no further transitions.
func (g StatusGroup) Terminal() bool {
	return g == GroupDeclined || g == GroupResolved
}

// WorkUpdate is one immutable entry in a request's progress log.
type WorkUpdate struct {
	Date         time.Time `json:"date"`
	Message      string    `json:"message"`
	StatusChange *string   `json:"status_change,omitempty"`
	Progress     *int      `json:"progress,omitempty"`
}

// WorkUpdates maps the append-only jsonb log column.
type WorkUpdates []WorkUpdate

// Value implements driver.Valuer.
func (w WorkUpdates) Value() (driver.Value, error) {
	if w == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]WorkUpdate(w))
	if err != nil {
		return nil, fmt.Errorf("marshal work updates: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (w *WorkUpdates) Scan(src interface{}) error {
	if src == nil {
		*w = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported work updates source %T", src)
	}
	return json.Unmarshal(raw, (*[]WorkUpdate)(w))
}

// SupportRequest tracks a citizen's ask for project assistance from submission
// through resolution. A nil ProjectID means general support. Requests from
// unauthenticated guests carry the captured name and email instead of a user.
type SupportRequest struct {
	ID          string      `db:"id" json:"id"`
	Title       string      `db:"title" json:"title"`
	ProjectID   *string     `db:"project_id" json:"project_id,omitempty"`
	SupportType SupportType `db:"support_type" json:"support_type"`
	Duration    string      `db:"duration" json:"duration,omitempty"`
	Impact      string      `db:"impact" json:"impact"`
	Status      string      `db:"status" json:"status"`
	Progress    int         `db:"progress" json:"progress"`
	WorkUpdates WorkUpdates `db:"work_updates" json:"work_updates"`
	CreatedBy   *string     `db:"created_by" json:"created_by,omitempty"`
	GuestName   *string     `db:"guest_name" json:"guest_name,omitempty"`
	GuestEmail  *string     `db:"guest_email" json:"guest_email,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

// Group returns the request's canonical lifecycle group.
func (r *SupportRequest) Group() StatusGroup {
	return GroupOf(r.Status)
}
