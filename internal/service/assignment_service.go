package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dtp-gov/portal-api/internal/dto"
	"github.com/dtp-gov/portal-api/internal/models"
	appErrors "github.com/dtp-gov/portal-api/pkg/errors"
)

type assignmentRepository interface {
	Assign(ctx context.Context, userID, projectID string) error
	Unassign(ctx context.Context, userID, projectID string) error
	Exists(ctx context.Context, userID, projectID string) (bool, error)
	ListProjectsForUser(ctx context.Context, userID string) ([]models.AssignedProject, error)
	ListUsersForProject(ctx context.Context, projectID string) ([]models.AssignedUser, error)
}

type assignmentUserReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// AssignmentService manages the user-project registry that gates
// project-scoped support requests. It has no notion of roles; callers apply
// authorization at the API boundary.
type AssignmentService struct {
	repo      assignmentRepository
	users     assignmentUserReader
	projects  projectReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService constructs an AssignmentService.
func NewAssignmentService(repo assignmentRepository, users assignmentUserReader, projects projectReader, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{repo: repo, users: users, projects: projects, validator: validate, logger: logger}
}

// Assign links a user to a project. Re-assigning is a no-op, not an error.
func (s *AssignmentService) Assign(ctx context.Context, req dto.AssignmentRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	if err := s.ensureExists(ctx, req); err != nil {
		return err
	}
	if err := s.repo.Assign(ctx, req.UserID, req.ProjectID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign project")
	}
	return nil
}

// Unassign removes the pair. Removing a missing pair is a no-op.
func (s *AssignmentService) Unassign(ctx context.Context, req dto.AssignmentRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	if err := s.repo.Unassign(ctx, req.UserID, req.ProjectID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unassign project")
	}
	return nil
}

// ListProjectsForUser returns the user's assigned projects.
func (s *AssignmentService) ListProjectsForUser(ctx context.Context, userID string) ([]models.AssignedProject, error) {
	projects, err := s.repo.ListProjectsForUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assigned projects")
	}
	return projects, nil
}

// ListUsersForProject returns the project's assigned users.
func (s *AssignmentService) ListUsersForProject(ctx context.Context, projectID string) ([]models.AssignedUser, error) {
	users, err := s.repo.ListUsersForProject(ctx, projectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assigned users")
	}
	return users, nil
}

func (s *AssignmentService) ensureExists(ctx context.Context, req dto.AssignmentRequest) error {
	if _, err := s.users.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify user")
	}
	if _, err := s.projects.FindByID(ctx, req.ProjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "project not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify project")
	}
	return nil
}
