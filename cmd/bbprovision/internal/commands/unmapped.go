package commands

import (
	"context"

	"github.com/wolfeidau/bbprovision/internal/provision"
)

// UnmappedCmd lists devices reported by the provider that have no asset mapping.
type UnmappedCmd struct {
	BackendFlags `embed:""`
	TenantFlags  `embed:""`

	Staging bool `help:"Also print recent staging rows"`
}

func (u *UnmappedCmd) Run(ctx context.Context, globals *Globals) error {
	tenants, err := u.tenants(0, 0)
	if err != nil {
		return err
	}

	_, err = run(ctx, globals, runRequest{
		cfg:   newConfig(u.BackendFlags, ProviderFlags{}, tenants, false),
		steps: provision.Steps{Staging: u.Staging, Reconcile: true},
	})
	return err
}
