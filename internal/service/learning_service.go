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

type learningRepository interface {
	List(ctx context.Context, filter models.ContentFilter) ([]models.LearningModule, error)
	FindByID(ctx context.Context, id string) (*models.LearningModule, error)
	Create(ctx context.Context, item *models.LearningModule) error
	Update(ctx context.Context, item *models.LearningModule) error
	IncrementDownloads(ctx context.Context, id string) (int, error)
	Delete(ctx context.Context, id string) error
}

// LearningService manages downloadable learning modules.
type LearningService struct {
	repo      learningRepository
	cache     cacheStore
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLearningService constructs a LearningService.
func NewLearningService(repo learningRepository, cache cacheStore, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *LearningService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LearningService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns modules visible to the actor.
func (s *LearningService) List(ctx context.Context, actor *models.JWTClaims, requested *models.ContentStatus) ([]models.LearningModule, error) {
	filter := listFilter(actor, requested)
	cacheable := !actor.IsAdmin() && s.cache != nil

	if cacheable {
		var cached []models.LearningModule
		if err := s.cache.Get(ctx, publishedCacheKey("learning"), &cached); err == nil {
			return cached, nil
		}
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list learning modules")
	}

	if cacheable {
		if err := s.cache.Set(ctx, publishedCacheKey("learning"), items, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache learning listing", zap.Error(err))
		}
	}
	return items, nil
}

// Get fetches one module. Unpublished modules read as missing for non-admin
// callers.
func (s *LearningService) Get(ctx context.Context, actor *models.JWTClaims, id string) (*models.LearningModule, error) {
	item, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, item.Status) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "learning module not found")
	}
	return item, nil
}

func (s *LearningService) fetch(ctx context.Context, id string) (*models.LearningModule, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "learning module not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get learning module")
	}
	return item, nil
}

// Create stores a new module.
func (s *LearningService) Create(ctx context.Context, req dto.CreateLearningModuleRequest, actor *models.JWTClaims) (*models.LearningModule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid learning module payload")
	}
	item := &models.LearningModule{
		Title:       req.Title,
		Description: req.Description,
		FileURL:     req.FileURL,
		Status:      InitialStatus(actor, models.CollectionLearning),
		CreatedBy:   actorID(actor),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create learning module")
	}
	s.invalidate(ctx)
	return item, nil
}

// Update patches the supplied fields.
func (s *LearningService) Update(ctx context.Context, id string, req dto.UpdateLearningModuleRequest) (*models.LearningModule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid learning module payload")
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
	if req.FileURL != nil {
		item.FileURL = req.FileURL
	}
	if req.Status != nil {
		item.Status = models.ContentStatus(*req.Status)
	}
	if err := s.repo.Update(ctx, item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "learning module not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update learning module")
	}
	s.invalidate(ctx)
	return item, nil
}

// RecordDownload bumps the download counter with a store-level increment so
// concurrent downloads are all counted. Returns the new total.
func (s *LearningService) RecordDownload(ctx context.Context, id string) (int, error) {
	downloads, err := s.repo.IncrementDownloads(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, appErrors.Clone(appErrors.ErrNotFound, "learning module not found")
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record download")
	}
	s.invalidate(ctx)
	return downloads, nil
}

// Delete hard-deletes a module.
func (s *LearningService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "learning module not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete learning module")
	}
	s.invalidate(ctx)
	return nil
}

func (s *LearningService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, publishedCacheKey("learning")); err != nil {
		s.logger.Warn("failed to invalidate learning listing cache", zap.Error(err))
	}
}
