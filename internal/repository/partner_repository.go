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

// PartnerRepository persists partner organisations.
type PartnerRepository struct {
	db *sqlx.DB
}

// NewPartnerRepository constructs the repository.
func NewPartnerRepository(db *sqlx.DB) *PartnerRepository {
	return &PartnerRepository{db: db}
}

// List returns partners, optionally narrowed by status, ordered by the
// admin-controlled display order.
func (r *PartnerRepository) List(ctx context.Context, filter models.ContentFilter) ([]models.Partner, error) {
	query := `SELECT id, name, category, description, logo_url, focus_areas, is_featured, display_order, status, created_by, created_at, updated_at FROM partners`
	args := []interface{}{}
	if filter.Status != nil {
		query += ` WHERE status = $1`
		args = append(args, *filter.Status)
	}
	query += ` ORDER BY display_order ASC, created_at DESC`
	var items []models.Partner
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	return items, nil
}

// FindByID fetches one partner.
func (r *PartnerRepository) FindByID(ctx context.Context, id string) (*models.Partner, error) {
	const query = `SELECT id, name, category, description, logo_url, focus_areas, is_featured, display_order, status, created_by, created_at, updated_at FROM partners WHERE id = $1`
	var item models.Partner
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a new partner.
func (r *PartnerRepository) Create(ctx context.Context, item *models.Partner) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	if item.FocusAreas == nil {
		item.FocusAreas = models.StringSlice{}
	}
	const query = `INSERT INTO partners (id, name, category, description, logo_url, focus_areas, is_featured, display_order, status, created_by, created_at, updated_at)
VALUES (:id, :name, :category, :description, :logo_url, :focus_areas, :is_featured, :display_order, :status, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create partner: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields. The featured flag is excluded here; it
// only moves through ToggleFeatured.
func (r *PartnerRepository) Update(ctx context.Context, item *models.Partner) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE partners SET name = :name, category = :category, description = :description, logo_url = :logo_url, focus_areas = :focus_areas, display_order = :display_order, status = :status, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, item)
	if err != nil {
		return fmt.Errorf("update partner: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated partner rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ToggleFeatured flips the featured flag in the store, so concurrent admin
// sessions cannot lose each other's toggles. Returns the new value.
func (r *PartnerRepository) ToggleFeatured(ctx context.Context, id string) (bool, error) {
	const query = `UPDATE partners SET is_featured = NOT is_featured, updated_at = $2 WHERE id = $1 RETURNING is_featured`
	var featured bool
	if err := r.db.GetContext(ctx, &featured, query, id, time.Now().UTC()); err != nil {
		return false, err
	}
	return featured, nil
}

// Delete removes a partner.
func (r *PartnerRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM partners WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete partner: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted partner rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
