package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/wolfeidau/bbprovision/internal/backend"
	"github.com/wolfeidau/bbprovision/internal/models"
	"github.com/wolfeidau/bbprovision/internal/telemetry"
)

// ErrConfigRejected is returned when the backend refuses the config on a
// constraint, usually because the organization id does not exist.
var ErrConfigRejected = errors.New("provider config rejected")

// ConfigUpserter writes the BlackBerry provider configuration of an organization.
type ConfigUpserter struct {
	backend Backend
}

func NewConfigUpserter(b Backend) *ConfigUpserter {
	return &ConfigUpserter{backend: b}
}

// Upsert issues exactly one upsert_blackberry_config call. The procedure creates
// or replaces the stored options wholesale, nothing is merged client side.
func (u *ConfigUpserter) Upsert(ctx context.Context, orgID models.OrgID, opts models.ProviderOptions) error {
	args := models.UpsertConfigArgs{OrgID: orgID, Options: opts}

	resp, err := u.backend.CallProcedure(ctx, procUpsertConfig, args)
	if backend.IsIntegrityViolation(err) {
		return fmt.Errorf("%w for org %s: %w", ErrConfigRejected, orgID, err)
	}
	if err != nil {
		return fmt.Errorf("failed to upsert provider config for org %s: %w", orgID, err)
	}
	if err := resp.Expect(); err != nil {
		return fmt.Errorf("failed to upsert provider config for org %s: %w", orgID, err)
	}

	telemetry.GetMetrics().ConfigsUpsertedTotal.Add(ctx, 1)

	return nil
}
