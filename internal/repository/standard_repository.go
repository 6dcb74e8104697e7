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

// StandardRepository persists published standards.
type StandardRepository struct {
	db *sqlx.DB
}

// NewStandardRepository constructs the repository.
func NewStandardRepository(db *sqlx.DB) *StandardRepository {
	return &StandardRepository{db: db}
}

// List returns standards, optionally narrowed by status.
func (r *StandardRepository) List(ctx context.Context, filter models.ContentFilter) ([]models.Standard, error) {
	query := `SELECT id, title, description, category, document_url, status, created_by, created_at, updated_at FROM standards`
	args := []interface{}{}
	if filter.Status != nil {
		query += ` WHERE status = $1`
		args = append(args, *filter.Status)
	}
	query += ` ORDER BY created_at DESC`
	var items []models.Standard
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list standards: %w", err)
	}
	return items, nil
}

// FindByID fetches one standard.
func (r *StandardRepository) FindByID(ctx context.Context, id string) (*models.Standard, error) {
	const query = `SELECT id, title, description, category, document_url, status, created_by, created_at, updated_at FROM standards WHERE id = $1`
	var item models.Standard
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a new standard.
func (r *StandardRepository) Create(ctx context.Context, item *models.Standard) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	const query = `INSERT INTO standards (id, title, description, category, document_url, status, created_by, created_at, updated_at)
VALUES (:id, :title, :description, :category, :document_url, :status, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create standard: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields.
func (r *StandardRepository) Update(ctx context.Context, item *models.Standard) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE standards SET title = :title, description = :description, category = :category, document_url = :document_url, status = :status, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, item)
	if err != nil {
		return fmt.Errorf("update standard: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated standard rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a standard.
func (r *StandardRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM standards WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete standard: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted standard rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
