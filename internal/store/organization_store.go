package store

import (
	"context"
	"errors"

	"github.com/wolfeidau/bbprovision/internal/models"
)

// Sentinel errors for organization store operations
var (
	ErrOrganizationNotFound      = errors.New("organization not found")
	ErrOrganizationAlreadyExists = errors.New("organization already exists")
)

// OrganizationStore defines the interface for organization storage operations.
// Organization names are unique, mirroring the unique constraint on orgs.name.
type OrganizationStore interface {
	// Create stores a new organization, assigning ID and CreatedAt when unset.
	// Returns ErrOrganizationAlreadyExists if the name is taken.
	Create(ctx context.Context, org *models.Organization) error

	// Get retrieves an organization by ID.
	// Returns ErrOrganizationNotFound if the organization doesn't exist.
	Get(ctx context.Context, orgID models.OrgID) (*models.Organization, error)

	// GetByName retrieves an organization by exact name.
	// Returns ErrOrganizationNotFound if no organization has that name.
	GetByName(ctx context.Context, name string) (*models.Organization, error)

	// List returns all organizations ordered by creation time.
	List(ctx context.Context) ([]*models.Organization, error)
}
