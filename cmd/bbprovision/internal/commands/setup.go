package commands

import (
	"context"

	"github.com/wolfeidau/bbprovision/internal/provision"
)

// SetupCmd performs first-time provisioning. The provider lookback is large so
// the integration's first ingest covers a long history.
type SetupCmd struct {
	BackendFlags  `embed:""`
	ProviderFlags `embed:""`
	TenantFlags   `embed:""`

	SinceDays int  `help:"Provider lookback written to the config" default:"${initial_since_days}"`
	Backfill  bool `help:"Also trigger a backfill after configuring"`
	Lookback  int  `help:"Backfill lookback in days when --backfill is set" default:"30" name:"lookback-days"`
}

func (s *SetupCmd) Run(ctx context.Context, globals *Globals) error {
	tenants, err := s.tenants(s.SinceDays, s.Lookback)
	if err != nil {
		return err
	}

	steps := provision.Steps{CreateMissing: true, Configure: true, Backfill: s.Backfill}

	results, err := run(ctx, globals, runRequest{
		cfg:   newConfig(s.BackendFlags, s.ProviderFlags, tenants, true),
		steps: steps,
	})
	if err != nil {
		return err
	}

	printf(globals, "✅ BlackBerry provider_config upserted for %d orgs.\n", len(results))
	return nil
}
