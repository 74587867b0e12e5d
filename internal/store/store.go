package store

import (
	"context"
	"errors"

	"github.com/wolfeidau/bbprovision/internal/models"
)

// Sentinel errors for common error conditions
var (
	ErrConfigNotFound = errors.New("provider config not found")
	ErrDuplicateMap   = errors.New("device already mapped")
)

// ProviderConfigStore keeps one provider configuration per organization and
// provider key.
type ProviderConfigStore interface {
	// UpsertConfig creates or wholly replaces the configuration.
	UpsertConfig(ctx context.Context, cfg *models.ProviderConfig) error

	// GetConfig returns ErrConfigNotFound if nothing is stored.
	GetConfig(ctx context.Context, orgID models.OrgID, providerKey string) (*models.ProviderConfig, error)
}

// DeviceStore holds ingested staging locations and the device mapping table.
type DeviceStore interface {
	InsertLocations(ctx context.Context, rows []models.StagingLocation) error

	// RecentLocations returns at most limit rows for the org, newest first.
	RecentLocations(ctx context.Context, orgID models.OrgID, limit int) ([]models.StagingLocation, error)

	// DistinctDeviceIDs returns every device ever observed for the org.
	DistinctDeviceIDs(ctx context.Context, orgID models.OrgID) ([]models.DeviceID, error)

	// AddMapping returns ErrDuplicateMap if the device is already mapped.
	AddMapping(ctx context.Context, m models.DeviceMapping) error

	// Mappings returns at most limit mappings for the org.
	Mappings(ctx context.Context, orgID models.OrgID, limit int) ([]models.DeviceMapping, error)
}

// BackfillLog records accepted backfill requests.
type BackfillLog interface {
	RecordBackfill(ctx context.Context, req models.BackfillRequest) error
	Backfills(ctx context.Context) ([]models.BackfillRequest, error)
}

// Store is everything the sandbox backend persists.
type Store interface {
	OrganizationStore
	ProviderConfigStore
	DeviceStore
	BackfillLog
}
