package dto

// AssignmentRequest is the POST/DELETE /project-assignments body.
type AssignmentRequest struct {
	UserID    string `json:"user_id" validate:"required"`
	ProjectID string `json:"project_id" validate:"required"`
}
