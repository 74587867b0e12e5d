package provision

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wolfeidau/bbprovision/internal/config"
	"github.com/wolfeidau/bbprovision/internal/models"
)

// Steps selects which stages run after an organization is resolved.
type Steps struct {
	// CreateMissing creates organizations that do not exist. When unset a missing
	// organization aborts the run.
	CreateMissing bool
	Configure     bool
	Backfill      bool
	Staging       bool
	Reconcile     bool
}

// TenantResult collects what happened to one tenant.
type TenantResult struct {
	Tenant         config.Tenant
	OrgID          models.OrgID
	Created        bool
	Configured     bool
	Ack            *models.BackfillAck
	StagingFound   bool
	Staging        []models.StagingLocation
	Reconciliation *Reconciliation
}

// Pipeline runs resolve, configure, backfill, staging and reconcile for each
// tenant in order. It stops at the first error: re-running is the recovery path,
// which is safe because resolving and configuring are idempotent.
type Pipeline struct {
	resolver   *OrgResolver
	upserter   *ConfigUpserter
	trigger    *BackfillTrigger
	staging    *StagingInspector
	reconciler *DeviceReconciler

	provider config.Provider
	steps    Steps
	out      io.Writer
}

// NewPipeline wires every component to the same backend. Progress lines are
// written to out.
func NewPipeline(b Backend, provider config.Provider, steps Steps, debugBackfill bool, out io.Writer) *Pipeline {
	return &Pipeline{
		resolver:   NewOrgResolver(b),
		upserter:   NewConfigUpserter(b),
		trigger:    NewBackfillTrigger(b, debugBackfill),
		staging:    NewStagingInspector(b),
		reconciler: NewDeviceReconciler(b),
		provider:   provider,
		steps:      steps,
		out:        out,
	}
}

// Run processes tenants sequentially and returns the results gathered so far
// along with the first error.
func (p *Pipeline) Run(ctx context.Context, tenants []config.Tenant) ([]*TenantResult, error) {
	results := make([]*TenantResult, 0, len(tenants))

	for _, tenant := range tenants {
		started := time.Now()

		res, err := p.runTenant(ctx, tenant)
		if res != nil {
			results = append(results, res)
		}
		if err != nil {
			return results, fmt.Errorf("tenant %q: %w", tenant.Name, err)
		}

		log.Ctx(ctx).Debug().
			Str("tenant", tenant.Name).
			Str("org_id", res.OrgID.String()).
			Dur("duration", time.Since(started)).
			Msg("tenant processed")
	}

	return results, nil
}

func (p *Pipeline) runTenant(ctx context.Context, tenant config.Tenant) (*TenantResult, error) {
	res := &TenantResult{Tenant: tenant}

	if p.steps.CreateMissing {
		id, created, err := p.resolver.ResolveOrCreate(ctx, tenant.Name)
		if err != nil {
			return nil, err
		}
		if created {
			p.printf("Created '%s' organization\n", tenant.Name)
		}
		res.OrgID, res.Created = id, created
	} else {
		id, err := p.resolver.Resolve(ctx, tenant.Name)
		if err != nil {
			return nil, err
		}
		res.OrgID = id
	}

	p.printf("%-24s %s\n", tenant.Name+":", res.OrgID)

	if p.steps.Configure {
		if err := p.upserter.Upsert(ctx, res.OrgID, p.provider.Options(tenant.SinceDays)); err != nil {
			return res, err
		}
		res.Configured = true
		p.printf("provider_config upserted for org %s (since_days=%d)\n", res.OrgID, tenant.SinceDays)
	}

	if p.steps.Backfill {
		p.printf("▶ Backfill for org %s with lookback=%d\n", res.OrgID, tenant.LookbackDays)
		ack, err := p.trigger.Trigger(ctx, res.OrgID, tenant.LookbackDays)
		if err != nil {
			return res, err
		}
		res.Ack = ack
		p.printf("%s\n", ack)
	}

	if p.steps.Staging {
		p.printf("---- recent staging rows for org %s ----\n", res.OrgID)
		rows, found, err := p.staging.Recent(ctx, res.OrgID, StagingLimit)
		if err != nil {
			return res, err
		}
		res.Staging, res.StagingFound = rows, found
		p.printStaging(rows, found)
	}

	if p.steps.Reconcile {
		p.printf("---- DISTINCT external_device_id without mapping (org %s) ----\n", res.OrgID)
		rec, err := p.reconciler.Unmapped(ctx, res.OrgID)
		if err != nil {
			return res, err
		}
		res.Reconciliation = rec
		p.printReconciliation(rec)
	}

	return res, nil
}

func (p *Pipeline) printStaging(rows []models.StagingLocation, found bool) {
	if !found {
		p.printf("    (table not found, skipping)\n")
		return
	}
	if len(rows) == 0 {
		p.printf("    (no rows)\n")
		return
	}
	for _, row := range rows {
		p.printf("  %s %-20s %10.5f %11.5f %s\n",
			row.TS.Format(time.RFC3339), row.ExternalDeviceID, row.Lat, row.Lon, row.Source)
	}
}

func (p *Pipeline) printReconciliation(rec *Reconciliation) {
	for _, id := range rec.Unmapped {
		p.printf("  - %s\n", id)
	}
	p.printf("  %d observed, %d mapped, %d unmapped\n", rec.Observed, rec.Mapped, len(rec.Unmapped))
	if rec.Truncated {
		p.printf("  warning: mapping lookup hit the %d row limit, some devices above may already be mapped\n", MappingLimit)
	}
}

func (p *Pipeline) printf(format string, args ...any) {
	if p.out == nil {
		return
	}
	fmt.Fprintf(p.out, format, args...)
}
