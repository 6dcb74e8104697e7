package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtp-gov/portal-api/internal/models"
	appErrors "github.com/dtp-gov/portal-api/pkg/errors"
)

type mockLearningRepo struct {
	modules map[string]*models.LearningModule
}

func (m *mockLearningRepo) List(ctx context.Context, filter models.ContentFilter) ([]models.LearningModule, error) {
	var items []models.LearningModule
	for _, module := range m.modules {
		if filter.Status != nil && module.Status != *filter.Status {
			continue
		}
		items = append(items, *module)
	}
	return items, nil
}

func (m *mockLearningRepo) FindByID(ctx context.Context, id string) (*models.LearningModule, error) {
	module, ok := m.modules[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *module
	return &copied, nil
}

func (m *mockLearningRepo) Create(ctx context.Context, item *models.LearningModule) error {
	item.ID = "module-new"
	if m.modules == nil {
		m.modules = make(map[string]*models.LearningModule)
	}
	m.modules[item.ID] = item
	return nil
}

func (m *mockLearningRepo) Update(ctx context.Context, item *models.LearningModule) error {
	if _, ok := m.modules[item.ID]; !ok {
		return sql.ErrNoRows
	}
	m.modules[item.ID] = item
	return nil
}

func (m *mockLearningRepo) IncrementDownloads(ctx context.Context, id string) (int, error) {
	module, ok := m.modules[id]
	if !ok {
		return 0, sql.ErrNoRows
	}
	module.Downloads++
	return module.Downloads, nil
}

func (m *mockLearningRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.modules[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.modules, id)
	return nil
}

func TestLearningRecordDownload(t *testing.T) {
	repo := &mockLearningRepo{modules: map[string]*models.LearningModule{
		"module-1": {ID: "module-1", Title: "Cloud 101", Status: models.StatusPublished, Downloads: 2},
	}}
	svc := NewLearningService(repo, nil, 0, nil, nil)

	downloads, err := svc.RecordDownload(context.Background(), "module-1")
	require.NoError(t, err)
	assert.Equal(t, 3, downloads)

	downloads, err = svc.RecordDownload(context.Background(), "module-1")
	require.NoError(t, err)
	assert.Equal(t, 4, downloads)
}

func TestLearningRecordDownloadMissing(t *testing.T) {
	svc := NewLearningService(&mockLearningRepo{}, nil, 0, nil, nil)

	_, err := svc.RecordDownload(context.Background(), "module-9")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestLearningGetHidesUnpublishedFromPublic(t *testing.T) {
	repo := &mockLearningRepo{modules: map[string]*models.LearningModule{
		"module-1": {ID: "module-1", Title: "Draft Guide", Status: models.StatusPending},
	}}
	svc := NewLearningService(repo, nil, 0, nil, nil)

	_, err := svc.Get(context.Background(), nil, "module-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	item, err := svc.Get(context.Background(), adminClaims(), "module-1")
	require.NoError(t, err)
	assert.Equal(t, "Draft Guide", item.Title)
}

func TestLearningRecordDownloadInvalidatesCache(t *testing.T) {
	repo := &mockLearningRepo{modules: map[string]*models.LearningModule{
		"module-1": {ID: "module-1", Title: "Cloud 101", Status: models.StatusPublished},
	}}
	cache := newMockCache()
	cache.entries[publishedCacheKey("learning")] = []byte(`[]`)
	svc := NewLearningService(repo, cache, time.Minute, nil, nil)

	_, err := svc.RecordDownload(context.Background(), "module-1")
	require.NoError(t, err)
	assert.Contains(t, cache.deletes, publishedCacheKey("learning"))
}
