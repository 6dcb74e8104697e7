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

// InitiativeRepository persists program initiatives.
type InitiativeRepository struct {
	db *sqlx.DB
}

// NewInitiativeRepository constructs the repository.
func NewInitiativeRepository(db *sqlx.DB) *InitiativeRepository {
	return &InitiativeRepository{db: db}
}

// List returns initiatives, optionally narrowed by status.
func (r *InitiativeRepository) List(ctx context.Context, filter models.ContentFilter) ([]models.Initiative, error) {
	query := `SELECT id, title, description, category, image_url, status, created_by, created_at, updated_at FROM initiatives`
	args := []interface{}{}
	if filter.Status != nil {
		query += ` WHERE status = $1`
		args = append(args, *filter.Status)
	}
	query += ` ORDER BY created_at DESC`
	var items []models.Initiative
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list initiatives: %w", err)
	}
	return items, nil
}

// FindByID fetches one initiative.
func (r *InitiativeRepository) FindByID(ctx context.Context, id string) (*models.Initiative, error) {
	const query = `SELECT id, title, description, category, image_url, status, created_by, created_at, updated_at FROM initiatives WHERE id = $1`
	var item models.Initiative
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a new initiative.
func (r *InitiativeRepository) Create(ctx context.Context, item *models.Initiative) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	const query = `INSERT INTO initiatives (id, title, description, category, image_url, status, created_by, created_at, updated_at)
VALUES (:id, :title, :description, :category, :image_url, :status, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create initiative: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields.
func (r *InitiativeRepository) Update(ctx context.Context, item *models.Initiative) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE initiatives SET title = :title, description = :description, category = :category, image_url = :image_url, status = :status, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, item)
	if err != nil {
		return fmt.Errorf("update initiative: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated initiative rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an initiative.
func (r *InitiativeRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM initiatives WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete initiative: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted initiative rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
