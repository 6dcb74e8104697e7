package dto

import "github.com/dtp-gov/portal-api/internal/models"

// CreateSupportRequestRequest is the POST /support-requests body. The status
// field is intentionally absent: new requests always start pending.
type CreateSupportRequestRequest struct {
	Title       string             `json:"title" validate:"required"`
	ProjectID   *string            `json:"project_id,omitempty"`
	SupportType models.SupportType `json:"support_type" validate:"required"`
	Duration    string             `json:"duration,omitempty"`
	Impact      string             `json:"impact" validate:"required"`
	GuestName   string             `json:"guest_name,omitempty"`
	GuestEmail  string             `json:"guest_email,omitempty" validate:"omitempty,email"`
}

// UpdateStatusRequest is the PATCH /support-requests/:id/status body.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AppendWorkUpdateRequest is the PATCH /support-requests/:id/progress body.
// Progress and status, when present, are persisted in the same write as the
// appended log entry.
type AppendWorkUpdateRequest struct {
	Message      string  `json:"message" validate:"required"`
	Progress     *int    `json:"progress,omitempty" validate:"omitempty,min=0,max=100"`
	StatusChange *string `json:"status_change,omitempty"`
}

// GroupedSupportRequests partitions a project's requests into the two tabs
// rendered on the public project page. Every request lands in exactly one.
type GroupedSupportRequests struct {
	Ongoing   []models.SupportRequest `json:"ongoing"`
	Completed []models.SupportRequest `json:"completed"`
}
