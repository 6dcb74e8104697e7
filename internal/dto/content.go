package dto

import "time"

// CreateInitiativeRequest creates an initiative.
type CreateInitiativeRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Category    string  `json:"category,omitempty"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,uri"`
}

// UpdateInitiativeRequest updates an initiative in place.
type UpdateInitiativeRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=pending published"`
}

// CreateEventRequest creates an event.
type CreateEventRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description" validate:"required"`
	Date        *time.Time `json:"date,omitempty"`
	Location    string     `json:"location,omitempty"`
	Outcome     string     `json:"outcome,omitempty"`
	ImageURL    *string    `json:"image_url,omitempty" validate:"omitempty,uri"`
}

// UpdateEventRequest updates an event in place.
type UpdateEventRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	Location    *string    `json:"location,omitempty"`
	Outcome     *string    `json:"outcome,omitempty"`
	ImageURL    *string    `json:"image_url,omitempty"`
	Status      *string    `json:"status,omitempty" validate:"omitempty,oneof=pending published"`
}

// CreateStandardRequest creates a standard.
type CreateStandardRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Category    string  `json:"category,omitempty"`
	DocumentURL *string `json:"document_url,omitempty" validate:"omitempty,uri"`
}

// UpdateStandardRequest updates a standard in place.
type UpdateStandardRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	DocumentURL *string `json:"document_url,omitempty"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=pending published"`
}

// CreateLearningModuleRequest creates a learning module.
type CreateLearningModuleRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	FileURL     *string `json:"file_url,omitempty" validate:"omitempty,uri"`
}

// UpdateLearningModuleRequest updates a learning module in place.
type UpdateLearningModuleRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	FileURL     *string `json:"file_url,omitempty"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=pending published"`
}

// CreateTeamMemberRequest creates a team member profile.
type CreateTeamMemberRequest struct {
	Name     string  `json:"name" validate:"required"`
	Title    string  `json:"title" validate:"required"`
	Bio      string  `json:"bio,omitempty"`
	PhotoURL *string `json:"photo_url,omitempty" validate:"omitempty,uri"`
}

// UpdateTeamMemberRequest updates a team member profile in place.
type UpdateTeamMemberRequest struct {
	Name     *string `json:"name,omitempty"`
	Title    *string `json:"title,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	PhotoURL *string `json:"photo_url,omitempty"`
	Status   *string `json:"status,omitempty" validate:"omitempty,oneof=pending published"`
}

// CreatePartnerRequest creates a partner organisation.
type CreatePartnerRequest struct {
	Name         string   `json:"name" validate:"required"`
	Category     string   `json:"category" validate:"required"`
	Description  string   `json:"description,omitempty"`
	LogoURL      *string  `json:"logo_url,omitempty" validate:"omitempty,uri"`
	FocusAreas   []string `json:"focus_areas,omitempty"`
	DisplayOrder int      `json:"display_order,omitempty"`
}

// UpdatePartnerRequest updates a partner in place.
type UpdatePartnerRequest struct {
	Name         *string  `json:"name,omitempty"`
	Category     *string  `json:"category,omitempty"`
	Description  *string  `json:"description,omitempty"`
	LogoURL      *string  `json:"logo_url,omitempty"`
	FocusAreas   []string `json:"focus_areas,omitempty"`
	DisplayOrder *int     `json:"display_order,omitempty"`
	Status       *string  `json:"status,omitempty" validate:"omitempty,oneof=pending published"`
}

// CreateProjectRequest creates a project.
type CreateProjectRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Sector      string `json:"sector,omitempty"`
}

// UpdateProjectRequest updates a project in place.
type UpdateProjectRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Sector      *string `json:"sector,omitempty"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=pending published"`
}
