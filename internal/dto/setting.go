package dto

import "encoding/json"

// UpdateSettingRequest is the PUT /settings/:key body.
type UpdateSettingRequest struct {
	Value json.RawMessage `json:"value" validate:"required"`
}

// SettingResponse echoes a stored setting.
type SettingResponse struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// SetVisibilityRequest toggles one section's visibility flag.
type SetVisibilityRequest struct {
	Visible *bool `json:"visible" validate:"required"`
}

// MoveSectionRequest nudges a section one position up or down.
type MoveSectionRequest struct {
	Direction string `json:"direction" validate:"required,oneof=up down"`
}
