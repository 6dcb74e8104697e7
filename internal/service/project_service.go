package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dtp-gov/portal-api/internal/dto"
	"github.com/dtp-gov/portal-api/internal/models"
	appErrors "github.com/dtp-gov/portal-api/pkg/errors"
)

type projectRepository interface {
	List(ctx context.Context, filter models.ContentFilter) ([]models.Project, error)
	FindByID(ctx context.Context, id string) (*models.Project, error)
	Create(ctx context.Context, item *models.Project) error
	Update(ctx context.Context, item *models.Project) error
	Delete(ctx context.Context, id string) error
}

// ProjectService manages program projects. Projects carry the same
// publish workflow as the content collections and additionally anchor
// user assignments and support requests.
type ProjectService struct {
	repo      projectRepository
	cache     cacheStore
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProjectService constructs a ProjectService.
func NewProjectService(repo projectRepository, cache cacheStore, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *ProjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns projects visible to the actor.
func (s *ProjectService) List(ctx context.Context, actor *models.JWTClaims, requested *models.ContentStatus) ([]models.Project, error) {
	filter := listFilter(actor, requested)
	cacheable := !actor.IsAdmin() && s.cache != nil

	if cacheable {
		var cached []models.Project
		if err := s.cache.Get(ctx, publishedCacheKey("projects"), &cached); err == nil {
			return cached, nil
		}
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list projects")
	}

	if cacheable {
		if err := s.cache.Set(ctx, publishedCacheKey("projects"), items, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache project listing", zap.Error(err))
		}
	}
	return items, nil
}

// Get fetches one project. Unpublished projects read as missing for
// non-admin callers.
func (s *ProjectService) Get(ctx context.Context, actor *models.JWTClaims, id string) (*models.Project, error) {
	item, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, item.Status) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
	}
	return item, nil
}

func (s *ProjectService) fetch(ctx context.Context, id string) (*models.Project, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get project")
	}
	return item, nil
}

// Create stores a new project.
func (s *ProjectService) Create(ctx context.Context, req dto.CreateProjectRequest, actor *models.JWTClaims) (*models.Project, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid project payload")
	}
	item := &models.Project{
		Title:       req.Title,
		Description: req.Description,
		Sector:      req.Sector,
		Status:      InitialStatus(actor, models.CollectionProjects),
		CreatedBy:   actorID(actor),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create project")
	}
	s.invalidate(ctx)
	return item, nil
}

// Update patches the supplied fields.
func (s *ProjectService) Update(ctx context.Context, id string, req dto.UpdateProjectRequest) (*models.Project, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid project payload")
	}
	item, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Sector != nil {
		item.Sector = *req.Sector
	}
	if req.Status != nil {
		item.Status = models.ContentStatus(*req.Status)
	}
	if err := s.repo.Update(ctx, item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update project")
	}
	s.invalidate(ctx)
	return item, nil
}

// Delete hard-deletes a project. Assignments referencing it are removed
// by the store's cascade rule.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "project not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete project")
	}
	s.invalidate(ctx)
	return nil
}

func (s *ProjectService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, publishedCacheKey("projects")); err != nil {
		s.logger.Warn("failed to invalidate project listing cache", zap.Error(err))
	}
}
