package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dtp-gov/portal-api/internal/models"
)

// TeamRepository persists team member profiles.
type TeamRepository struct {
	db *sqlx.DB
}

// NewTeamRepository constructs the repository.
func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// List returns team members, optionally narrowed by status.
func (r *TeamRepository) List(ctx context.Context, filter models.ContentFilter) ([]models.TeamMember, error) {
	query := `SELECT id, name, title, bio, photo_url, status, created_by, created_at, updated_at FROM team_members`
	args := []interface{}{}
	if filter.Status != nil {
		query += ` WHERE status = $1`
		args = append(args, *filter.Status)
	}
	query += ` ORDER BY created_at ASC`
	var items []models.TeamMember
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	return items, nil
}

// FindByID fetches one member.
func (r *TeamRepository) FindByID(ctx context.Context, id string) (*models.TeamMember, error) {
	const query = `SELECT id, name, title, bio, photo_url, status, created_by, created_at, updated_at FROM team_members WHERE id = $1`
	var item models.TeamMember
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a new member.
func (r *TeamRepository) Create(ctx context.Context, item *models.TeamMember) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	const query = `INSERT INTO team_members (id, name, title, bio, photo_url, status, created_by, created_at, updated_at)
VALUES (:id, :name, :title, :bio, :photo_url, :status, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create team member: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields.
func (r *TeamRepository) Update(ctx context.Context, item *models.TeamMember) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE team_members SET name = :name, title = :title, bio = :bio, photo_url = :photo_url, status = :status, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, item)
	if err != nil {
		return fmt.Errorf("update team member: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated member rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a member.
func (r *TeamRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM team_members WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete team member: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted member rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
