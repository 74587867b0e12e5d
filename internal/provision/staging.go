package provision

import (
	"context"
	"fmt"

	"github.com/wolfeidau/bbprovision/internal/backend"
	"github.com/wolfeidau/bbprovision/internal/models"
)

// StagingLimit is how many recent staging rows are shown per org.
const StagingLimit = 10

// StagingInspector reads the most recent raw locations ingested for an org.
type StagingInspector struct {
	backend Backend
}

func NewStagingInspector(b Backend) *StagingInspector {
	return &StagingInspector{backend: b}
}

// Recent returns up to limit rows newest first. found is false when the staging
// table does not exist yet.
func (s *StagingInspector) Recent(ctx context.Context, orgID models.OrgID, limit int) (rows []models.StagingLocation, found bool, err error) {
	query := backend.NewQuery("org_id", "external_device_id", "ts", "lat", "lon", "source", "created_at").
		Eq("org_id", orgID.String()).
		OrderDesc("created_at").
		Limit(limit)

	resp, err := s.backend.Lookup(ctx, resourceStaging, query)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read staging rows for org %s: %w", orgID, err)
	}
	if !resp.Found() {
		return nil, false, nil
	}

	if err := resp.Decode(&rows); err != nil {
		return nil, true, err
	}

	return rows, true, nil
}
