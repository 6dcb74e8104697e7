package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dtp-gov/portal-api/internal/models"
)

// SupportRequestRepository persists support requests and their update logs.
type SupportRequestRepository struct {
	db *sqlx.DB
}

// NewSupportRequestRepository constructs the repository.
func NewSupportRequestRepository(db *sqlx.DB) *SupportRequestRepository {
	return &SupportRequestRepository{db: db}
}

const supportRequestColumns = `id, title, project_id, support_type, duration, impact, status, progress, work_updates, created_by, guest_name, guest_email, created_at, updated_at`

// Create inserts a new request.
func (r *SupportRequestRepository) Create(ctx context.Context, req *models.SupportRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = now
	}
	req.UpdatedAt = now
	if req.WorkUpdates == nil {
		req.WorkUpdates = models.WorkUpdates{}
	}
	const query = `INSERT INTO support_requests (id, title, project_id, support_type, duration, impact, status, progress, work_updates, created_by, guest_name, guest_email, created_at, updated_at)
VALUES (:id, :title, :project_id, :support_type, :duration, :impact, :status, :progress, :work_updates, :created_by, :guest_name, :guest_email, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, req); err != nil {
		return fmt.Errorf("create support request: %w", err)
	}
	return nil
}

// FindByID fetches one request.
func (r *SupportRequestRepository) FindByID(ctx context.Context, id string) (*models.SupportRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM support_requests WHERE id = $1`, supportRequestColumns)
	var req models.SupportRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		return nil, err
	}
	return &req, nil
}

// ListAll returns every request, newest first. Admin read path.
func (r *SupportRequestRepository) ListAll(ctx context.Context) ([]models.SupportRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM support_requests ORDER BY created_at DESC`, supportRequestColumns)
	var requests []models.SupportRequest
	if err := r.db.SelectContext(ctx, &requests, query); err != nil {
		return nil, fmt.Errorf("list support requests: %w", err)
	}
	return requests, nil
}

// ListForUser returns requests created by the given user.
func (r *SupportRequestRepository) ListForUser(ctx context.Context, userID string) ([]models.SupportRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM support_requests WHERE created_by = $1 ORDER BY created_at DESC`, supportRequestColumns)
	var requests []models.SupportRequest
	if err := r.db.SelectContext(ctx, &requests, query, userID); err != nil {
		return nil, fmt.Errorf("list user support requests: %w", err)
	}
	return requests, nil
}

// ListForProject returns requests scoped to a project.
func (r *SupportRequestRepository) ListForProject(ctx context.Context, projectID string) ([]models.SupportRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM support_requests WHERE project_id = $1 ORDER BY created_at DESC`, supportRequestColumns)
	var requests []models.SupportRequest
	if err := r.db.SelectContext(ctx, &requests, query, projectID); err != nil {
		return nil, fmt.Errorf("list project support requests: %w", err)
	}
	return requests, nil
}

// UpdateStatus persists the supplied status literal verbatim.
func (r *SupportRequestRepository) UpdateStatus(ctx context.Context, id, status string) error {
	const query = `UPDATE support_requests SET status = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update support request status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated request rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// AppendWorkUpdate appends one log entry and optionally sets progress and
// status within the same statement, so readers never observe one without the
// other. The jsonb concatenation keeps prior entries untouched.
func (r *SupportRequestRepository) AppendWorkUpdate(ctx context.Context, id string, entry models.WorkUpdate, progress *int, status *string) error {
	raw, err := json.Marshal([]models.WorkUpdate{entry})
	if err != nil {
		return fmt.Errorf("marshal work update: %w", err)
	}
	const query = `UPDATE support_requests
SET work_updates = work_updates || $2::jsonb,
    progress = COALESCE($3, progress),
    status = COALESCE($4, status),
    updated_at = $5
WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, string(raw), progress, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("append work update: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check appended request rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
