package models

import "time"

// ProjectAssignment links a user to a project, gating support requests.
// The (user, project) pair is unique.
type ProjectAssignment struct {
	UserID    string    `db:"user_id" json:"user_id"`
	ProjectID string    `db:"project_id" json:"project_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AssignedProject is a reverse-lookup row joined with project display fields.
type AssignedProject struct {
	ProjectID    string        `db:"project_id" json:"project_id"`
	ProjectTitle string        `db:"project_title" json:"project_title"`
	Status       ContentStatus `db:"status" json:"status"`
	AssignedAt   time.Time     `db:"assigned_at" json:"assigned_at"`
}

// AssignedUser is a reverse-lookup row joined with user display fields.
type AssignedUser struct {
	UserID     string    `db:"user_id" json:"user_id"`
	FullName   string    `db:"full_name" json:"full_name"`
	Email      string    `db:"email" json:"email"`
	AssignedAt time.Time `db:"assigned_at" json:"assigned_at"`
}
