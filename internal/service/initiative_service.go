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

type initiativeRepository interface {
	List(ctx context.Context, filter models.ContentFilter) ([]models.Initiative, error)
	FindByID(ctx context.Context, id string) (*models.Initiative, error)
	Create(ctx context.Context, item *models.Initiative) error
	Update(ctx context.Context, item *models.Initiative) error
	Delete(ctx context.Context, id string) error
}

// InitiativeService manages program initiatives.
type InitiativeService struct {
	repo      initiativeRepository
	cache     cacheStore
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInitiativeService constructs an InitiativeService.
func NewInitiativeService(repo initiativeRepository, cache cacheStore, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *InitiativeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InitiativeService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns initiatives visible to the actor.
func (s *InitiativeService) List(ctx context.Context, actor *models.JWTClaims, requested *models.ContentStatus) ([]models.Initiative, error) {
	filter := listFilter(actor, requested)
	cacheable := !actor.IsAdmin() && s.cache != nil

	if cacheable {
		var cached []models.Initiative
		if err := s.cache.Get(ctx, publishedCacheKey("initiatives"), &cached); err == nil {
			return cached, nil
		}
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list initiatives")
	}

	if cacheable {
		if err := s.cache.Set(ctx, publishedCacheKey("initiatives"), items, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache initiative listing", zap.Error(err))
		}
	}
	return items, nil
}

// Get fetches one initiative. Unpublished initiatives read as missing for
// non-admin callers.
func (s *InitiativeService) Get(ctx context.Context, actor *models.JWTClaims, id string) (*models.Initiative, error) {
	item, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, item.Status) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "initiative not found")
	}
	return item, nil
}

func (s *InitiativeService) fetch(ctx context.Context, id string) (*models.Initiative, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "initiative not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get initiative")
	}
	return item, nil
}

// Create stores a new initiative.
func (s *InitiativeService) Create(ctx context.Context, req dto.CreateInitiativeRequest, actor *models.JWTClaims) (*models.Initiative, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid initiative payload")
	}
	item := &models.Initiative{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Status:      InitialStatus(actor, models.CollectionInitiatives),
		CreatedBy:   actorID(actor),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create initiative")
	}
	s.invalidate(ctx)
	return item, nil
}

// Update patches the supplied fields.
func (s *InitiativeService) Update(ctx context.Context, id string, req dto.UpdateInitiativeRequest) (*models.Initiative, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid initiative payload")
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
	if req.ImageURL != nil {
		item.ImageURL = req.ImageURL
	}
	if req.Status != nil {
		item.Status = models.ContentStatus(*req.Status)
	}
	if err := s.repo.Update(ctx, item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "initiative not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update initiative")
	}
	s.invalidate(ctx)
	return item, nil
}

// Delete hard-deletes an initiative.
func (s *InitiativeService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "initiative not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete initiative")
	}
	s.invalidate(ctx)
	return nil
}

func (s *InitiativeService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, publishedCacheKey("initiatives")); err != nil {
		s.logger.Warn("failed to invalidate initiative listing cache", zap.Error(err))
	}
}
