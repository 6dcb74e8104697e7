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

type partnerRepository interface {
	List(ctx context.Context, filter models.ContentFilter) ([]models.Partner, error)
	FindByID(ctx context.Context, id string) (*models.Partner, error)
	Create(ctx context.Context, item *models.Partner) error
	Update(ctx context.Context, item *models.Partner) error
	ToggleFeatured(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// PartnerService manages partner organisations.
type PartnerService struct {
	repo      partnerRepository
	cache     cacheStore
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPartnerService constructs a PartnerService.
func NewPartnerService(repo partnerRepository, cache cacheStore, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *PartnerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PartnerService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns partners visible to the actor. The public published listing is
// served read-through from cache.
func (s *PartnerService) List(ctx context.Context, actor *models.JWTClaims, requested *models.ContentStatus) ([]models.Partner, error) {
	filter := listFilter(actor, requested)
	cacheable := !actor.IsAdmin() && s.cache != nil

	if cacheable {
		var cached []models.Partner
		if err := s.cache.Get(ctx, publishedCacheKey("partners"), &cached); err == nil {
			return cached, nil
		}
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list partners")
	}

	if cacheable {
		if err := s.cache.Set(ctx, publishedCacheKey("partners"), items, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache partner listing", zap.Error(err))
		}
	}
	return items, nil
}

// Get fetches one partner. Unpublished partners read as missing for
// non-admin callers.
func (s *PartnerService) Get(ctx context.Context, actor *models.JWTClaims, id string) (*models.Partner, error) {
	item, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, item.Status) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "partner not found")
	}
	return item, nil
}

func (s *PartnerService) fetch(ctx context.Context, id string) (*models.Partner, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "partner not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get partner")
	}
	return item, nil
}

// Create stores a new partner with the policy-derived initial status.
func (s *PartnerService) Create(ctx context.Context, req dto.CreatePartnerRequest, actor *models.JWTClaims) (*models.Partner, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid partner payload")
	}
	item := &models.Partner{
		Name:         req.Name,
		Category:     req.Category,
		Description:  req.Description,
		LogoURL:      req.LogoURL,
		FocusAreas:   models.StringSlice(req.FocusAreas),
		DisplayOrder: req.DisplayOrder,
		Status:       InitialStatus(actor, models.CollectionPartners),
		CreatedBy:    actorID(actor),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create partner")
	}
	s.invalidate(ctx)
	return item, nil
}

// Update patches the supplied fields.
func (s *PartnerService) Update(ctx context.Context, id string, req dto.UpdatePartnerRequest) (*models.Partner, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid partner payload")
	}
	item, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.LogoURL != nil {
		item.LogoURL = req.LogoURL
	}
	if req.FocusAreas != nil {
		item.FocusAreas = models.StringSlice(req.FocusAreas)
	}
	if req.DisplayOrder != nil {
		item.DisplayOrder = *req.DisplayOrder
	}
	if req.Status != nil {
		item.Status = models.ContentStatus(*req.Status)
	}
	if err := s.repo.Update(ctx, item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "partner not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update partner")
	}
	s.invalidate(ctx)
	return item, nil
}

// ToggleFeatured flips the featured flag without touching other fields.
func (s *PartnerService) ToggleFeatured(ctx context.Context, id string) (*models.Partner, error) {
	if _, err := s.repo.ToggleFeatured(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "partner not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to toggle featured flag")
	}
	s.invalidate(ctx)
	return s.fetch(ctx, id)
}

// Delete hard-deletes a partner.
func (s *PartnerService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "partner not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete partner")
	}
	s.invalidate(ctx)
	return nil
}

func (s *PartnerService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, publishedCacheKey("partners")); err != nil {
		s.logger.Warn("failed to invalidate partner listing cache", zap.Error(err))
	}
}
