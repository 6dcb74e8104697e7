package service

import "github.com/dtp-gov/portal-api/internal/models"

// initialStatusPolicy declares, per collection, the status newly created
// items receive for each actor role. The table replaces the implicit
// "admins publish, users submit" convention so the policy is visible in one
// place and per-collection exceptions are deliberate edits, not accidents.
var initialStatusPolicy = map[models.Collection]map[models.UserRole]models.ContentStatus{
	models.CollectionInitiatives: {models.RoleAdmin: models.StatusPublished, models.RoleUser: models.StatusPending},
	models.CollectionEvents:      {models.RoleAdmin: models.StatusPublished, models.RoleUser: models.StatusPending},
	models.CollectionProjects:    {models.RoleAdmin: models.StatusPublished, models.RoleUser: models.StatusPending},
	models.CollectionStandards:   {models.RoleAdmin: models.StatusPublished, models.RoleUser: models.StatusPending},
	models.CollectionLearning:    {models.RoleAdmin: models.StatusPublished, models.RoleUser: models.StatusPending},
	models.CollectionTeam:        {models.RoleAdmin: models.StatusPublished, models.RoleUser: models.StatusPending},
	models.CollectionPartners:    {models.RoleAdmin: models.StatusPublished, models.RoleUser: models.StatusPending},
}

// InitialStatus resolves the status a new item starts in. Unknown roles and
// collections fall back to pending, the safe non-public default.
func InitialStatus(actor *models.JWTClaims, collection models.Collection) models.ContentStatus {
	role := models.RoleUser
	if actor != nil {
		role = actor.Role
	}
	if byRole, ok := initialStatusPolicy[collection]; ok {
		if status, ok := byRole[role]; ok {
			return status
		}
	}
	return models.StatusPending
}

// canView reports whether the actor may read an item in the given status.
// Hidden items must read as missing, never as forbidden.
func canView(actor *models.JWTClaims, status models.ContentStatus) bool {
	return status == models.StatusPublished || actor.IsAdmin()
}

// listFilter narrows a collection listing to what the actor may see: admins
// get every status (optionally filtered), everyone else only published rows.
// The published filter is applied server-side because it is a trust boundary.
func listFilter(actor *models.JWTClaims, requested *models.ContentStatus) models.ContentFilter {
	if actor.IsAdmin() {
		return models.ContentFilter{Status: requested}
	}
	published := models.StatusPublished
	return models.ContentFilter{Status: &published}
}
