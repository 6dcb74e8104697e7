package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dtp-gov/portal-api/internal/models"
)

// AssignmentRepository persists user-project assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Assign links a user to a project. Re-assigning an existing pair is a no-op.
func (r *AssignmentRepository) Assign(ctx context.Context, userID, projectID string) error {
	const query = `INSERT INTO project_assignments (user_id, project_id, created_at)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, project_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, userID, projectID, time.Now().UTC()); err != nil {
		return fmt.Errorf("assign project: %w", err)
	}
	return nil
}

// Unassign removes the pair. Removing a pair that does not exist is a no-op.
func (r *AssignmentRepository) Unassign(ctx context.Context, userID, projectID string) error {
	const query = `DELETE FROM project_assignments WHERE user_id = $1 AND project_id = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, projectID); err != nil {
		return fmt.Errorf("unassign project: %w", err)
	}
	return nil
}

// Exists checks whether the (user, project) pair is assigned.
func (r *AssignmentRepository) Exists(ctx context.Context, userID, projectID string) (bool, error) {
	const query = `SELECT 1 FROM project_assignments WHERE user_id = $1 AND project_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, userID, projectID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check assignment: %w", err)
	}
	return true, nil
}

// ListProjectsForUser returns the user's assigned projects with display fields.
func (r *AssignmentRepository) ListProjectsForUser(ctx context.Context, userID string) ([]models.AssignedProject, error) {
	const query = `
SELECT pa.project_id, p.title AS project_title, p.status, pa.created_at AS assigned_at
FROM project_assignments pa
JOIN projects p ON p.id = pa.project_id
WHERE pa.user_id = $1
ORDER BY pa.created_at DESC`
	var projects []models.AssignedProject
	if err := r.db.SelectContext(ctx, &projects, query, userID); err != nil {
		return nil, fmt.Errorf("list assigned projects: %w", err)
	}
	return projects, nil
}

// ListUsersForProject returns the project's assigned users with display fields.
func (r *AssignmentRepository) ListUsersForProject(ctx context.Context, projectID string) ([]models.AssignedUser, error) {
	const query = `
SELECT pa.user_id, u.full_name, u.email, pa.created_at AS assigned_at
FROM project_assignments pa
JOIN users u ON u.id = pa.user_id
WHERE pa.project_id = $1
ORDER BY pa.created_at DESC`
	var users []models.AssignedUser
	if err := r.db.SelectContext(ctx, &users, query, projectID); err != nil {
		return nil, fmt.Errorf("list assigned users: %w", err)
	}
	return users, nil
}
