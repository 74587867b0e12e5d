package commands

import (
	"context"

	"github.com/wolfeidau/bbprovision/internal/provision"
)

// SyncCmd is the routine refresh: small provider lookback, a short backfill,
// then a look at what arrived and which devices still need mapping.
type SyncCmd struct {
	BackendFlags  `embed:""`
	ProviderFlags `embed:""`
	TenantFlags   `embed:""`

	SinceDays     int  `help:"Provider lookback written to the config" default:"${routine_since_days}"`
	LookbackDays  int  `help:"Backfill lookback in days" default:"${routine_lookback_days}"`
	SkipBackfill  bool `help:"Do not trigger backfills"`
	SkipStaging   bool `help:"Do not print recent staging rows"`
	DebugBackfill bool `help:"Ask the backfill function for a debug probe instead of a pull"`
}

func (s *SyncCmd) Run(ctx context.Context, globals *Globals) error {
	tenants, err := s.tenants(s.SinceDays, s.LookbackDays)
	if err != nil {
		return err
	}

	steps := provision.Steps{
		CreateMissing: true,
		Configure:     true,
		Backfill:      !s.SkipBackfill,
		Staging:       !s.SkipStaging,
		Reconcile:     true,
	}

	if _, err := run(ctx, globals, runRequest{
		cfg:           newConfig(s.BackendFlags, s.ProviderFlags, tenants, true),
		steps:         steps,
		debugBackfill: s.DebugBackfill,
	}); err != nil {
		return err
	}

	printf(globals, "Done.\n")
	return nil
}
