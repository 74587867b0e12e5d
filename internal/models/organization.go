package models

import (
	"time"
)

// OrgID is the backend-assigned identifier of an organization. It is opaque to
// this tool; the backend currently mints UUIDs.
type OrgID string

func (id OrgID) String() string { return string(id) }

// Organization represents an organization (tenant) in the backend.
// The name is the external lookup key, at most one organization exists per name.
type Organization struct {
	ID        OrgID     `json:"id"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}
