package models

import "time"

// Project is an admin-owned program project users may be assigned to.
type Project struct {
	ID          string        `db:"id" json:"id"`
	Title       string        `db:"title" json:"title"`
	Description string        `db:"description" json:"description"`
	Sector      string        `db:"sector" json:"sector,omitempty"`
	Status      ContentStatus `db:"status" json:"status"`
	CreatedBy   *string       `db:"created_by" json:"created_by,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}
