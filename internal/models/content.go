package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ContentStatus flags whether an item is publicly visible.
type ContentStatus string

const (
	StatusPending   ContentStatus = "pending"
	StatusPublished ContentStatus = "published"
)

// Collection names a content collection for policy lookups.
type Collection string

const (
	CollectionInitiatives Collection = "initiatives"
	CollectionEvents      Collection = "events"
	CollectionProjects    Collection = "projects"
	CollectionStandards   Collection = "standards"
	CollectionLearning    Collection = "learning"
	CollectionTeam        Collection = "team"
	CollectionPartners    Collection = "partners"
)

// ContentFilter narrows collection listings.
type ContentFilter struct {
	Status *ContentStatus
	Search string
}

// StringSlice maps a jsonb array column onto []string.
type StringSlice []string

// Value implements driver.Valuer.
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]string(s))
	if err != nil {
		return nil, fmt.Errorf("marshal string slice: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (s *StringSlice) Scan(src interface{}) error {
	if src == nil {
		*s = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported string slice source %T", src)
	}
	return json.Unmarshal(raw, (*[]string)(s))
}

// Initiative is a program initiative shown on the public site.
type Initiative struct {
	ID          string        `db:"id" json:"id"`
	Title       string        `db:"title" json:"title"`
	Description string        `db:"description" json:"description"`
	Category    string        `db:"category" json:"category,omitempty"`
	ImageURL    *string       `db:"image_url" json:"image_url,omitempty"`
	Status      ContentStatus `db:"status" json:"status"`
	CreatedBy   *string       `db:"created_by" json:"created_by,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// Event is a program event with schedule details.
type Event struct {
	ID          string        `db:"id" json:"id"`
	Title       string        `db:"title" json:"title"`
	Description string        `db:"description" json:"description"`
	Date        *time.Time    `db:"date" json:"date,omitempty"`
	Location    string        `db:"location" json:"location,omitempty"`
	Outcome     string        `db:"outcome" json:"outcome,omitempty"`
	ImageURL    *string       `db:"image_url" json:"image_url,omitempty"`
	Status      ContentStatus `db:"status" json:"status"`
	CreatedBy   *string       `db:"created_by" json:"created_by,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// Standard is a published technical or policy standard.
type Standard struct {
	ID          string        `db:"id" json:"id"`
	Title       string        `db:"title" json:"title"`
	Description string        `db:"description" json:"description"`
	Category    string        `db:"category" json:"category,omitempty"`
	DocumentURL *string       `db:"document_url" json:"document_url,omitempty"`
	Status      ContentStatus `db:"status" json:"status"`
	CreatedBy   *string       `db:"created_by" json:"created_by,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// LearningModule is downloadable training material with a download counter.
type LearningModule struct {
	ID          string        `db:"id" json:"id"`
	Title       string        `db:"title" json:"title"`
	Description string        `db:"description" json:"description"`
	FileURL     *string       `db:"file_url" json:"file_url,omitempty"`
	Downloads   int           `db:"downloads" json:"downloads"`
	Status      ContentStatus `db:"status" json:"status"`
	CreatedBy   *string       `db:"created_by" json:"created_by,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// TeamMember is a program team member profile.
type TeamMember struct {
	ID        string        `db:"id" json:"id"`
	Name      string        `db:"name" json:"name"`
	Title     string        `db:"title" json:"title"`
	Bio       string        `db:"bio" json:"bio,omitempty"`
	PhotoURL  *string       `db:"photo_url" json:"photo_url,omitempty"`
	Status    ContentStatus `db:"status" json:"status"`
	CreatedBy *string       `db:"created_by" json:"created_by,omitempty"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// Partner is a collaborating organisation.
type Partner struct {
	ID           string        `db:"id" json:"id"`
	Name         string        `db:"name" json:"name"`
	Category     string        `db:"category" json:"category"`
	Description  string        `db:"description" json:"description,omitempty"`
	LogoURL      *string       `db:"logo_url" json:"logo_url,omitempty"`
	FocusAreas   StringSlice   `db:"focus_areas" json:"focus_areas"`
	IsFeatured   bool          `db:"is_featured" json:"is_featured"`
	DisplayOrder int           `db:"display_order" json:"display_order"`
	Status       ContentStatus `db:"status" json:"status"`
	CreatedBy    *string       `db:"created_by" json:"created_by,omitempty"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}
