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

// LearningRepository persists learning modules.
type LearningRepository struct {
	db *sqlx.DB
}

// NewLearningRepository constructs the repository.
func NewLearningRepository(db *sqlx.DB) *LearningRepository {
	return &LearningRepository{db: db}
}

// List returns learning modules, optionally narrowed by status.
func (r *LearningRepository) List(ctx context.Context, filter models.ContentFilter) ([]models.LearningModule, error) {
	query := `SELECT id, title, description, file_url, downloads, status, created_by, created_at, updated_at FROM learning_modules`
	args := []interface{}{}
	if filter.Status != nil {
		query += ` WHERE status = $1`
		args = append(args, *filter.Status)
	}
	query += ` ORDER BY created_at DESC`
	var items []models.LearningModule
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list learning modules: %w", err)
	}
	return items, nil
}

// FindByID fetches one module.
func (r *LearningRepository) FindByID(ctx context.Context, id string) (*models.LearningModule, error) {
	const query = `SELECT id, title, description, file_url, downloads, status, created_by, created_at, updated_at FROM learning_modules WHERE id = $1`
	var item models.LearningModule
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a new module.
func (r *LearningRepository) Create(ctx context.Context, item *models.LearningModule) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	const query = `INSERT INTO learning_modules (id, title, description, file_url, downloads, status, created_by, created_at, updated_at)
VALUES (:id, :title, :description, :file_url, :downloads, :status, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create learning module: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields. The downloads counter is excluded here;
// it only moves through IncrementDownloads.
func (r *LearningRepository) Update(ctx context.Context, item *models.LearningModule) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE learning_modules SET title = :title, description = :description, file_url = :file_url, status = :status, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, item)
	if err != nil {
		return fmt.Errorf("update learning module: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated module rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// IncrementDownloads bumps the counter in the store so concurrent downloads
// never lose updates. Returns the new value.
func (r *LearningRepository) IncrementDownloads(ctx context.Context, id string) (int, error) {
	const query = `UPDATE learning_modules SET downloads = downloads + 1, updated_at = $2 WHERE id = $1 RETURNING downloads`
	var downloads int
	if err := r.db.GetContext(ctx, &downloads, query, id, time.Now().UTC()); err != nil {
		return 0, err
	}
	return downloads, nil
}

// Delete removes a module.
func (r *LearningRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM learning_modules WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete learning module: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted module rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
