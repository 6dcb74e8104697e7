package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dtp-gov/portal-api/internal/dto"
	"github.com/dtp-gov/portal-api/internal/models"
	appErrors "github.com/dtp-gov/portal-api/pkg/errors"
)

type settingRepository interface {
	Get(ctx context.Context, key string) (*models.Setting, error)
	ListByKeys(ctx context.Context, keys []string) ([]models.Setting, error)
	Upsert(ctx context.Context, setting *models.Setting) error
}

type settingAuditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// SettingService owns the key-value settings store and the section
// visibility/ordering conventions layered on top of it.
type SettingService struct {
	repo   settingRepository
	audit  settingAuditLogger
	logger *zap.Logger
}

// NewSettingService constructs a SettingService.
func NewSettingService(repo settingRepository, audit settingAuditLogger, logger *zap.Logger) *SettingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingService{repo: repo, audit: audit, logger: logger}
}

// Get returns the raw stored value for a key. A key that was never written is
// not an error; the response carries a JSON null so callers can apply their
// own default.
func (s *SettingService) Get(ctx context.Context, key string) (*dto.SettingResponse, error) {
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &dto.SettingResponse{Key: key, Value: json.RawMessage("null")}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get setting")
	}
	return &dto.SettingResponse{Key: setting.Key, Value: setting.Value}, nil
}

// Put upserts the raw value for a key.
func (s *SettingService) Put(ctx context.Context, key string, value json.RawMessage, actor *models.JWTClaims) (*dto.SettingResponse, error) {
	if !json.Valid(value) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "value must be valid JSON")
	}
	prev, err := s.repo.Get(ctx, key)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch setting")
	}

	setting := &models.Setting{Key: key, Value: value, UpdatedBy: actorID(actor)}
	if err := s.repo.Upsert(ctx, setting); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update setting")
	}

	s.emitAudit(ctx, actor, key, prev, value)
	return &dto.SettingResponse{Key: key, Value: value}, nil
}

// ResolveVisibility reports whether each catalogued section is shown. A
// missing key means visible: sections that predate the feature must never be
// hidden by accident.
func (s *SettingService) ResolveVisibility(ctx context.Context) (map[models.Section]bool, error) {
	keys := make([]string, 0, len(models.SectionCatalogue))
	for _, section := range models.SectionCatalogue {
		keys = append(keys, section.VisibilityKey())
	}
	rows, err := s.repo.ListByKeys(ctx, keys)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load visibility settings")
	}
	stored := make(map[string]json.RawMessage, len(rows))
	for _, row := range rows {
		stored[row.Key] = row.Value
	}

	visibility := make(map[models.Section]bool, len(models.SectionCatalogue))
	for _, section := range models.SectionCatalogue {
		visible := true
		if raw, ok := stored[section.VisibilityKey()]; ok {
			var flag bool
			if err := json.Unmarshal(raw, &flag); err == nil {
				visible = flag
			}
		}
		visibility[section] = visible
	}
	return visibility, nil
}

// ResolveOrder returns a total order over the catalogued sections. The stored
// order may be partial, stale or garbage; unknown entries are dropped and
// missing sections appended in catalogue order, so the result is always a
// permutation of exactly the known sections.
func (s *SettingService) ResolveOrder(ctx context.Context) ([]models.Section, error) {
	var stored []string
	setting, err := s.repo.Get(ctx, models.SectionOrderKey)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section order")
		}
	} else if err := json.Unmarshal(setting.Value, &stored); err != nil {
		s.logger.Warn("stored section order is not a string array, falling back to catalogue", zap.Error(err))
		stored = nil
	}

	seen := make(map[models.Section]bool, len(models.SectionCatalogue))
	order := make([]models.Section, 0, len(models.SectionCatalogue))
	for _, key := range stored {
		section := models.Section(key)
		if !models.KnownSection(key) || seen[section] {
			continue
		}
		seen[section] = true
		order = append(order, section)
	}
	for _, section := range models.SectionCatalogue {
		if !seen[section] {
			order = append(order, section)
		}
	}
	return order, nil
}

// Sections combines resolved visibility and order for the admin UI.
func (s *SettingService) Sections(ctx context.Context) ([]models.SectionState, error) {
	visibility, err := s.ResolveVisibility(ctx)
	if err != nil {
		return nil, err
	}
	order, err := s.ResolveOrder(ctx)
	if err != nil {
		return nil, err
	}
	states := make([]models.SectionState, 0, len(order))
	for i, section := range order {
		states = append(states, models.SectionState{Key: section, Visible: visibility[section], Position: i})
	}
	return states, nil
}

// SetVisibility stores one section's visibility flag.
func (s *SettingService) SetVisibility(ctx context.Context, key string, visible bool, actor *models.JWTClaims) error {
	if !models.KnownSection(key) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown section %q", key))
	}
	raw, _ := json.Marshal(visible)
	_, err := s.Put(ctx, models.Section(key).VisibilityKey(), raw, actor)
	return err
}

// MoveSection swaps a section with its neighbour one position up or down.
// Moving the first section up (or the last down) is a no-op, not an error.
func (s *SettingService) MoveSection(ctx context.Context, key, direction string, actor *models.JWTClaims) ([]models.Section, error) {
	if !models.KnownSection(key) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown section %q", key))
	}
	if direction != "up" && direction != "down" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "direction must be up or down")
	}

	order, err := s.ResolveOrder(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, section := range order {
		if string(section) == key {
			idx = i
			break
		}
	}
	// ResolveOrder always contains every known section.
	target := idx
	switch direction {
	case "up":
		target = idx - 1
	case "down":
		target = idx + 1
	}
	if target >= 0 && target < len(order) {
		order[idx], order[target] = order[target], order[idx]
	}

	raw, _ := json.Marshal(order)
	if _, err := s.Put(ctx, models.SectionOrderKey, raw, actor); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *SettingService) emitAudit(ctx context.Context, actor *models.JWTClaims, key string, prev *models.Setting, value json.RawMessage) {
	if s.audit == nil {
		return
	}
	var oldValue json.RawMessage
	if prev != nil {
		oldValue = prev.Value
	}
	log := &models.AuditLog{
		UserID:     actorID(actor),
		Action:     models.AuditActionSettingUpdate,
		Resource:   "setting",
		ResourceID: &key,
		OldValues:  oldValue,
		NewValues:  value,
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record setting audit", zap.Error(err))
	}
}

func actorID(actor *models.JWTClaims) *string {
	if actor == nil || actor.UserID == "" {
		return nil
	}
	return &actor.UserID
}
