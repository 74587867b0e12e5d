package commands

import (
	"context"

	"github.com/wolfeidau/bbprovision/internal/provision"
)

// BackfillCmd triggers backfills for organizations that already exist. It never
// creates organizations or touches provider config.
type BackfillCmd struct {
	BackendFlags `embed:""`
	TenantFlags  `embed:""`

	LookbackDays int  `help:"Backfill lookback in days" default:"30"`
	Debug        bool `help:"Ask the backfill function for a debug probe instead of a pull" name:"probe"`
}

func (b *BackfillCmd) Run(ctx context.Context, globals *Globals) error {
	tenants, err := b.tenants(0, b.LookbackDays)
	if err != nil {
		return err
	}

	_, err = run(ctx, globals, runRequest{
		cfg:           newConfig(b.BackendFlags, ProviderFlags{}, tenants, false),
		steps:         provision.Steps{Backfill: true},
		debugBackfill: b.Debug,
	})
	return err
}
