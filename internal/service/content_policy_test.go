package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtp-gov/portal-api/internal/models"
)

func TestInitialStatusPolicy(t *testing.T) {
	for _, collection := range []models.Collection{
		models.CollectionInitiatives,
		models.CollectionEvents,
		models.CollectionProjects,
		models.CollectionStandards,
		models.CollectionLearning,
		models.CollectionTeam,
		models.CollectionPartners,
	} {
		assert.Equal(t, models.StatusPublished, InitialStatus(adminClaims(), collection), "admin create in %s", collection)
		assert.Equal(t, models.StatusPending, InitialStatus(userClaims(), collection), "user create in %s", collection)
	}
}

func TestInitialStatusUnknownActorDefaultsPending(t *testing.T) {
	assert.Equal(t, models.StatusPending, InitialStatus(nil, models.CollectionEvents))
	assert.Equal(t, models.StatusPending, InitialStatus(&models.JWTClaims{Role: "AUDITOR"}, models.CollectionEvents))
	assert.Equal(t, models.StatusPending, InitialStatus(adminClaims(), models.Collection("unknown")))
}

func TestListFilterAdminSeesEverything(t *testing.T) {
	filter := listFilter(adminClaims(), nil)
	assert.Nil(t, filter.Status)

	pending := models.StatusPending
	filter = listFilter(adminClaims(), &pending)
	assert.Equal(t, &pending, filter.Status)
}

func TestListFilterNonAdminForcedToPublished(t *testing.T) {
	pending := models.StatusPending
	for _, actor := range []*models.JWTClaims{nil, userClaims()} {
		filter := listFilter(actor, &pending)
		assert.NotNil(t, filter.Status)
		assert.Equal(t, models.StatusPublished, *filter.Status)
	}
}
