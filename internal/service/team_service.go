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

type teamRepository interface {
	List(ctx context.Context, filter models.ContentFilter) ([]models.TeamMember, error)
	FindByID(ctx context.Context, id string) (*models.TeamMember, error)
	Create(ctx context.Context, item *models.TeamMember) error
	Update(ctx context.Context, item *models.TeamMember) error
	Delete(ctx context.Context, id string) error
}

// TeamService manages program team member profiles.
type TeamService struct {
	repo      teamRepository
	cache     cacheStore
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeamService constructs a TeamService.
func NewTeamService(repo teamRepository, cache cacheStore, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *TeamService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeamService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns team members visible to the actor.
func (s *TeamService) List(ctx context.Context, actor *models.JWTClaims, requested *models.ContentStatus) ([]models.TeamMember, error) {
	filter := listFilter(actor, requested)
	cacheable := !actor.IsAdmin() && s.cache != nil

	if cacheable {
		var cached []models.TeamMember
		if err := s.cache.Get(ctx, publishedCacheKey("team"), &cached); err == nil {
			return cached, nil
		}
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list team members")
	}

	if cacheable {
		if err := s.cache.Set(ctx, publishedCacheKey("team"), items, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache team listing", zap.Error(err))
		}
	}
	return items, nil
}

// Get fetches one team member. Unpublished profiles read as missing for
// non-admin callers.
func (s *TeamService) Get(ctx context.Context, actor *models.JWTClaims, id string) (*models.TeamMember, error) {
	item, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, item.Status) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "team member not found")
	}
	return item, nil
}

func (s *TeamService) fetch(ctx context.Context, id string) (*models.TeamMember, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "team member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get team member")
	}
	return item, nil
}

// Create stores a new team member profile.
func (s *TeamService) Create(ctx context.Context, req dto.CreateTeamMemberRequest, actor *models.JWTClaims) (*models.TeamMember, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid team member payload")
	}
	item := &models.TeamMember{
		Name:      req.Name,
		Title:     req.Title,
		Bio:       req.Bio,
		PhotoURL:  req.PhotoURL,
		Status:    InitialStatus(actor, models.CollectionTeam),
		CreatedBy: actorID(actor),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create team member")
	}
	s.invalidate(ctx)
	return item, nil
}

// Update patches the supplied fields.
func (s *TeamService) Update(ctx context.Context, id string, req dto.UpdateTeamMemberRequest) (*models.TeamMember, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid team member payload")
	}
	item, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Bio != nil {
		item.Bio = *req.Bio
	}
	if req.PhotoURL != nil {
		item.PhotoURL = req.PhotoURL
	}
	if req.Status != nil {
		item.Status = models.ContentStatus(*req.Status)
	}
	if err := s.repo.Update(ctx, item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "team member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update team member")
	}
	s.invalidate(ctx)
	return item, nil
}

// Delete hard-deletes a team member profile.
func (s *TeamService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "team member not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete team member")
	}
	s.invalidate(ctx)
	return nil
}

func (s *TeamService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, publishedCacheKey("team")); err != nil {
		s.logger.Warn("failed to invalidate team listing cache", zap.Error(err))
	}
}
