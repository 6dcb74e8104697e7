package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dtp-gov/portal-api/internal/dto"
	"github.com/dtp-gov/portal-api/internal/models"
	appErrors "github.com/dtp-gov/portal-api/pkg/errors"
)

type supportRequestRepository interface {
	Create(ctx context.Context, req *models.SupportRequest) error
	FindByID(ctx context.Context, id string) (*models.SupportRequest, error)
	ListAll(ctx context.Context) ([]models.SupportRequest, error)
	ListForUser(ctx context.Context, userID string) ([]models.SupportRequest, error)
	ListForProject(ctx context.Context, projectID string) ([]models.SupportRequest, error)
	UpdateStatus(ctx context.Context, id, status string) error
	AppendWorkUpdate(ctx context.Context, id string, entry models.WorkUpdate, progress *int, status *string) error
}

type assignmentChecker interface {
	Exists(ctx context.Context, userID, projectID string) (bool, error)
}

type projectReader interface {
	FindByID(ctx context.Context, id string) (*models.Project, error)
}

type requestAuditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// SupportRequestService drives the request lifecycle: submission, status
// transitions and the append-only progress log.
type SupportRequestService struct {
	repo        supportRequestRepository
	assignments assignmentChecker
	projects    projectReader
	audit       requestAuditLogger
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewSupportRequestService constructs a SupportRequestService.
func NewSupportRequestService(repo supportRequestRepository, assignments assignmentChecker, projects projectReader, audit requestAuditLogger, validate *validator.Validate, logger *zap.Logger) *SupportRequestService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupportRequestService{
		repo:        repo,
		assignments: assignments,
		projects:    projects,
		audit:       audit,
		validator:   validate,
		logger:      logger,
	}
}

// Create files a new request. Status is always pending regardless of what the
// caller supplies. Guests must leave contact details; authenticated non-admins
// may only reference projects they are assigned to. A nil project means
// general support and is open to everyone.
func (s *SupportRequestService) Create(ctx context.Context, req dto.CreateSupportRequestRequest, actor *models.JWTClaims) (*models.SupportRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid support request payload")
	}
	if !models.ValidSupportType(req.SupportType) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported support type %q", req.SupportType))
	}

	request := &models.SupportRequest{
		Title:       strings.TrimSpace(req.Title),
		SupportType: req.SupportType,
		Duration:    strings.TrimSpace(req.Duration),
		Impact:      strings.TrimSpace(req.Impact),
		Status:      models.RequestStatusPending,
		Progress:    0,
		WorkUpdates: models.WorkUpdates{},
	}

	if actor != nil {
		request.CreatedBy = &actor.UserID
	} else {
		name := strings.TrimSpace(req.GuestName)
		email := strings.TrimSpace(req.GuestEmail)
		if name == "" || email == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "guest name and email are required for anonymous requests")
		}
		request.GuestName = &name
		request.GuestEmail = &email
	}

	if req.ProjectID != nil && *req.ProjectID != "" {
		projectID := *req.ProjectID
		if _, err := s.projects.FindByID(ctx, projectID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify project")
		}
		if err := s.authorizeProject(ctx, actor, projectID); err != nil {
			return nil, err
		}
		request.ProjectID = &projectID
	}

	if err := s.repo.Create(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create support request")
	}
	return request, nil
}

// Get fetches one request, restricted to its creator unless the actor is an
// admin.
func (s *SupportRequestService) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.SupportRequest, error) {
	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "support request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get support request")
	}
	if !actor.IsAdmin() {
		if actor == nil || request.CreatedBy == nil || *request.CreatedBy != actor.UserID {
			return nil, appErrors.ErrForbidden
		}
	}
	return request, nil
}

// List returns all requests for admins and the actor's own otherwise.
func (s *SupportRequestService) List(ctx context.Context, actor *models.JWTClaims) ([]models.SupportRequest, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	var (
		requests []models.SupportRequest
		err      error
	)
	if actor.IsAdmin() {
		requests, err = s.repo.ListAll(ctx)
	} else {
		requests, err = s.repo.ListForUser(ctx, actor.UserID)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list support requests")
	}
	return requests, nil
}

// ListForProject partitions a project's requests into the ongoing and
// completed tabs using canonical groups. Pending counts as ongoing so every
// request lands in exactly one tab.
func (s *SupportRequestService) ListForProject(ctx context.Context, projectID string) (*dto.GroupedSupportRequests, error) {
	requests, err := s.repo.ListForProject(ctx, projectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list project support requests")
	}
	grouped := &dto.GroupedSupportRequests{
		Ongoing:   []models.SupportRequest{},
		Completed: []models.SupportRequest{},
	}
	for _, request := range requests {
		if request.Group().Terminal() {
			grouped.Completed = append(grouped.Completed, request)
		} else {
			grouped.Ongoing = append(grouped.Ongoing, request)
		}
	}
	return grouped, nil
}

// UpdateStatus transitions a request. The supplied literal is persisted
// verbatim, but legality is judged on canonical groups: pending may move to
// active or declined, active to declined or resolved, and a rewrite within
// the same group is allowed. Terminal states admit no further transitions.
func (s *SupportRequestService) UpdateStatus(ctx context.Context, id, status string, actor *models.JWTClaims) (*models.SupportRequest, error) {
	target := models.GroupOf(status)
	if target == models.GroupUnknown {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported status %q", status))
	}

	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "support request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get support request")
	}

	current := request.Group()
	if !transitionAllowed(current, target) {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("cannot transition from %s to %s", current, target))
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "support request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update status")
	}

	s.emitStatusAudit(ctx, actor, id, request.Status, status)
	request.Status = status
	return request, nil
}

// AppendWorkUpdate appends one immutable log entry, optionally moving
// progress and status in the same persisted write.
func (s *SupportRequestService) AppendWorkUpdate(ctx context.Context, id string, req dto.AppendWorkUpdateRequest, actor *models.JWTClaims) (*models.SupportRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid work update payload")
	}

	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "support request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get support request")
	}

	var statusChange *string
	if req.StatusChange != nil && *req.StatusChange != "" {
		target := models.GroupOf(*req.StatusChange)
		if target == models.GroupUnknown {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported status %q", *req.StatusChange))
		}
		if !transitionAllowed(request.Group(), target) {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("cannot transition from %s to %s", request.Group(), target))
		}
		statusChange = req.StatusChange
	}

	entry := models.WorkUpdate{
		Date:         time.Now().UTC(),
		Message:      strings.TrimSpace(req.Message),
		StatusChange: statusChange,
		Progress:     req.Progress,
	}
	if err := s.repo.AppendWorkUpdate(ctx, id, entry, req.Progress, statusChange); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "support request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to append work update")
	}

	if statusChange != nil {
		s.emitStatusAudit(ctx, actor, id, request.Status, *statusChange)
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload support request")
	}
	return updated, nil
}

func (s *SupportRequestService) authorizeProject(ctx context.Context, actor *models.JWTClaims, projectID string) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor == nil {
		// Guests may only file general requests.
		return appErrors.Clone(appErrors.ErrForbidden, "project-scoped requests require an account")
	}
	assigned, err := s.assignments.Exists(ctx, actor.UserID, projectID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check project assignment")
	}
	if !assigned {
		return appErrors.Clone(appErrors.ErrForbidden, "not assigned to this project")
	}
	return nil
}

// transitionAllowed encodes the lifecycle on canonical groups. A same-group
// transition rewrites the stored literal (e.g. approved -> ongoing) and is
// always permitted.
func transitionAllowed(from, to models.StatusGroup) bool {
	if from == to {
		return true
	}
	switch from {
	case models.GroupPending:
		return to == models.GroupActive || to == models.GroupDeclined
	case models.GroupActive:
		return to == models.GroupDeclined || to == models.GroupResolved
	}
	return false
}

func (s *SupportRequestService) emitStatusAudit(ctx context.Context, actor *models.JWTClaims, id, oldStatus, newStatus string) {
	if s.audit == nil {
		return
	}
	oldRaw, _ := json.Marshal(map[string]string{"status": oldStatus})
	newRaw, _ := json.Marshal(map[string]string{"status": newStatus})
	log := &models.AuditLog{
		UserID:     actorID(actor),
		Action:     models.AuditActionStatusChange,
		Resource:   "support_request",
		ResourceID: &id,
		OldValues:  oldRaw,
		NewValues:  newRaw,
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record status audit", zap.Error(err))
	}
}
