package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtp-gov/portal-api/internal/dto"
	"github.com/dtp-gov/portal-api/internal/models"
	appErrors "github.com/dtp-gov/portal-api/pkg/errors"
)

type mockCache struct {
	entries map[string][]byte
	sets    int
	deletes []string
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	m.sets++
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.entries, key)
	m.deletes = append(m.deletes, key)
	return nil
}

type mockPartnerRepo struct {
	partners  map[string]*models.Partner
	listCalls int
	featured  map[string]bool
}

func (m *mockPartnerRepo) List(ctx context.Context, filter models.ContentFilter) ([]models.Partner, error) {
	m.listCalls++
	var items []models.Partner
	for _, partner := range m.partners {
		if filter.Status != nil && partner.Status != *filter.Status {
			continue
		}
		items = append(items, *partner)
	}
	return items, nil
}

func (m *mockPartnerRepo) FindByID(ctx context.Context, id string) (*models.Partner, error) {
	partner, ok := m.partners[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *partner
	return &copied, nil
}

func (m *mockPartnerRepo) Create(ctx context.Context, item *models.Partner) error {
	item.ID = "partner-new"
	if m.partners == nil {
		m.partners = make(map[string]*models.Partner)
	}
	m.partners[item.ID] = item
	return nil
}

func (m *mockPartnerRepo) Update(ctx context.Context, item *models.Partner) error {
	if _, ok := m.partners[item.ID]; !ok {
		return sql.ErrNoRows
	}
	m.partners[item.ID] = item
	return nil
}

func (m *mockPartnerRepo) ToggleFeatured(ctx context.Context, id string) (bool, error) {
	partner, ok := m.partners[id]
	if !ok {
		return false, sql.ErrNoRows
	}
	partner.IsFeatured = !partner.IsFeatured
	return partner.IsFeatured, nil
}

func (m *mockPartnerRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.partners[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.partners, id)
	return nil
}

func TestPartnerListServesPublicFromCache(t *testing.T) {
	repo := &mockPartnerRepo{partners: map[string]*models.Partner{
		"partner-1": {ID: "partner-1", Name: "GovLab", Status: models.StatusPublished},
		"partner-2": {ID: "partner-2", Name: "Draft Org", Status: models.StatusPending},
	}}
	cache := newMockCache()
	svc := NewPartnerService(repo, cache, time.Minute, nil, nil)

	items, err := svc.List(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "GovLab", items[0].Name)
	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, 1, cache.sets)

	// Second public read is a cache hit.
	items, err = svc.List(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, repo.listCalls)
}

func TestPartnerListAdminBypassesCache(t *testing.T) {
	repo := &mockPartnerRepo{partners: map[string]*models.Partner{
		"partner-1": {ID: "partner-1", Name: "GovLab", Status: models.StatusPublished},
		"partner-2": {ID: "partner-2", Name: "Draft Org", Status: models.StatusPending},
	}}
	cache := newMockCache()
	svc := NewPartnerService(repo, cache, time.Minute, nil, nil)

	items, err := svc.List(context.Background(), adminClaims(), nil)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Zero(t, cache.sets)
}

func TestPartnerCreateInvalidatesCache(t *testing.T) {
	repo := &mockPartnerRepo{}
	cache := newMockCache()
	cache.entries[publishedCacheKey("partners")] = []byte(`[]`)
	svc := NewPartnerService(repo, cache, time.Minute, nil, nil)

	created, err := svc.Create(context.Background(), dto.CreatePartnerRequest{
		Name:     "GovLab",
		Category: "Research",
	}, adminClaims())
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, created.Status)
	assert.Contains(t, cache.deletes, publishedCacheKey("partners"))
}

func TestPartnerCreateByUserStartsPending(t *testing.T) {
	svc := NewPartnerService(&mockPartnerRepo{}, nil, 0, nil, nil)

	created, err := svc.Create(context.Background(), dto.CreatePartnerRequest{
		Name:     "GovLab",
		Category: "Research",
	}, userClaims())
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, created.Status)
}

func TestPartnerToggleFeatured(t *testing.T) {
	repo := &mockPartnerRepo{partners: map[string]*models.Partner{
		"partner-1": {ID: "partner-1", Name: "GovLab", Status: models.StatusPublished},
	}}
	svc := NewPartnerService(repo, nil, 0, nil, nil)

	toggled, err := svc.ToggleFeatured(context.Background(), "partner-1")
	require.NoError(t, err)
	assert.True(t, toggled.IsFeatured)

	toggled, err = svc.ToggleFeatured(context.Background(), "partner-1")
	require.NoError(t, err)
	assert.False(t, toggled.IsFeatured)
}

func TestPartnerToggleFeaturedMissing(t *testing.T) {
	svc := NewPartnerService(&mockPartnerRepo{}, nil, 0, nil, nil)

	_, err := svc.ToggleFeatured(context.Background(), "partner-9")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPartnerGetHidesUnpublishedFromPublic(t *testing.T) {
	repo := &mockPartnerRepo{partners: map[string]*models.Partner{
		"partner-1": {ID: "partner-1", Name: "GovLab", Status: models.StatusPublished},
		"partner-2": {ID: "partner-2", Name: "Draft Org", Status: models.StatusPending},
	}}
	svc := NewPartnerService(repo, nil, 0, nil, nil)

	item, err := svc.Get(context.Background(), nil, "partner-1")
	require.NoError(t, err)
	assert.Equal(t, "GovLab", item.Name)

	// A pending partner reads as missing, not forbidden, for anonymous and
	// regular users alike.
	_, err = svc.Get(context.Background(), nil, "partner-2")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.Get(context.Background(), userClaims(), "partner-2")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	item, err = svc.Get(context.Background(), adminClaims(), "partner-2")
	require.NoError(t, err)
	assert.Equal(t, "Draft Org", item.Name)
}

func TestPartnerUpdatePatchesOnlySuppliedFields(t *testing.T) {
	repo := &mockPartnerRepo{partners: map[string]*models.Partner{
		"partner-1": {ID: "partner-1", Name: "GovLab", Category: "Research", Status: models.StatusPending},
	}}
	svc := NewPartnerService(repo, nil, 0, nil, nil)

	status := "published"
	updated, err := svc.Update(context.Background(), "partner-1", dto.UpdatePartnerRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "GovLab", updated.Name)
	assert.Equal(t, "Research", updated.Category)
	assert.Equal(t, models.StatusPublished, updated.Status)
}
