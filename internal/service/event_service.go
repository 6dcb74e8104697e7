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

type eventRepository interface {
	List(ctx context.Context, filter models.ContentFilter) ([]models.Event, error)
	FindByID(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, item *models.Event) error
	Update(ctx context.Context, item *models.Event) error
	Delete(ctx context.Context, id string) error
}

// EventService manages program events.
type EventService struct {
	repo      eventRepository
	cache     cacheStore
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEventService constructs an EventService.
func NewEventService(repo eventRepository, cache cacheStore, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *EventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns events visible to the actor.
func (s *EventService) List(ctx context.Context, actor *models.JWTClaims, requested *models.ContentStatus) ([]models.Event, error) {
	filter := listFilter(actor, requested)
	cacheable := !actor.IsAdmin() && s.cache != nil

	if cacheable {
		var cached []models.Event
		if err := s.cache.Get(ctx, publishedCacheKey("events"), &cached); err == nil {
			return cached, nil
		}
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}

	if cacheable {
		if err := s.cache.Set(ctx, publishedCacheKey("events"), items, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache event listing", zap.Error(err))
		}
	}
	return items, nil
}

// Get fetches one event. Unpublished events read as missing for non-admin
// callers.
func (s *EventService) Get(ctx context.Context, actor *models.JWTClaims, id string) (*models.Event, error) {
	item, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, item.Status) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	return item, nil
}

func (s *EventService) fetch(ctx context.Context, id string) (*models.Event, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get event")
	}
	return item, nil
}

// Create stores a new event.
func (s *EventService) Create(ctx context.Context, req dto.CreateEventRequest, actor *models.JWTClaims) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	item := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
		Outcome:     req.Outcome,
		ImageURL:    req.ImageURL,
		Status:      InitialStatus(actor, models.CollectionEvents),
		CreatedBy:   actorID(actor),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create event")
	}
	s.invalidate(ctx)
	return item, nil
}

// Update patches the supplied fields.
func (s *EventService) Update(ctx context.Context, id string, req dto.UpdateEventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
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
	if req.Date != nil {
		item.Date = req.Date
	}
	if req.Location != nil {
		item.Location = *req.Location
	}
	if req.Outcome != nil {
		item.Outcome = *req.Outcome
	}
	if req.ImageURL != nil {
		item.ImageURL = req.ImageURL
	}
	if req.Status != nil {
		item.Status = models.ContentStatus(*req.Status)
	}
	if err := s.repo.Update(ctx, item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event")
	}
	s.invalidate(ctx)
	return item, nil
}

// Delete hard-deletes an event.
func (s *EventService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete event")
	}
	s.invalidate(ctx)
	return nil
}

func (s *EventService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, publishedCacheKey("events")); err != nil {
		s.logger.Warn("failed to invalidate event listing cache", zap.Error(err))
	}
}
