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

type standardRepository interface {
	List(ctx context.Context, filter models.ContentFilter) ([]models.Standard, error)
	FindByID(ctx context.Context, id string) (*models.Standard, error)
	Create(ctx context.Context, item *models.Standard) error
	Update(ctx context.Context, item *models.Standard) error
	Delete(ctx context.Context, id string) error
}

// StandardService manages published technical and policy standards.
type StandardService struct {
	repo      standardRepository
	cache     cacheStore
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStandardService constructs a StandardService.
func NewStandardService(repo standardRepository, cache cacheStore, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *StandardService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StandardService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns standards visible to the actor.
func (s *StandardService) List(ctx context.Context, actor *models.JWTClaims, requested *models.ContentStatus) ([]models.Standard, error) {
	filter := listFilter(actor, requested)
	cacheable := !actor.IsAdmin() && s.cache != nil

	if cacheable {
		var cached []models.Standard
		if err := s.cache.Get(ctx, publishedCacheKey("standards"), &cached); err == nil {
			return cached, nil
		}
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list standards")
	}

	if cacheable {
		if err := s.cache.Set(ctx, publishedCacheKey("standards"), items, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache standard listing", zap.Error(err))
		}
	}
	return items, nil
}

// Get fetches one standard. Unpublished standards read as missing for
// non-admin callers.
func (s *StandardService) Get(ctx context.Context, actor *models.JWTClaims, id string) (*models.Standard, error) {
	item, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, item.Status) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "standard not found")
	}
	return item, nil
}

func (s *StandardService) fetch(ctx context.Context, id string) (*models.Standard, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "standard not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get standard")
	}
	return item, nil
}

// Create stores a new standard.
func (s *StandardService) Create(ctx context.Context, req dto.CreateStandardRequest, actor *models.JWTClaims) (*models.Standard, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid standard payload")
	}
	item := &models.Standard{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		DocumentURL: req.DocumentURL,
		Status:      InitialStatus(actor, models.CollectionStandards),
		CreatedBy:   actorID(actor),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create standard")
	}
	s.invalidate(ctx)
	return item, nil
}

// Update patches the supplied fields.
func (s *StandardService) Update(ctx context.Context, id string, req dto.UpdateStandardRequest) (*models.Standard, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid standard payload")
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
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.DocumentURL != nil {
		item.DocumentURL = req.DocumentURL
	}
	if req.Status != nil {
		item.Status = models.ContentStatus(*req.Status)
	}
	if err := s.repo.Update(ctx, item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "standard not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update standard")
	}
	s.invalidate(ctx)
	return item, nil
}

// Delete hard-deletes a standard.
func (s *StandardService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "standard not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete standard")
	}
	s.invalidate(ctx)
	return nil
}

func (s *StandardService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, publishedCacheKey("standards")); err != nil {
		s.logger.Warn("failed to invalidate standard listing cache", zap.Error(err))
	}
}
