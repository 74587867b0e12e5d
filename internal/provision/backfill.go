package provision

import (
	"context"
	"fmt"

	"github.com/wolfeidau/bbprovision/internal/models"
	"github.com/wolfeidau/bbprovision/internal/telemetry"
)

// BackfillTrigger requests historical ingestion jobs. It only sees the
// acknowledgment, never the outcome of the job itself.
type BackfillTrigger struct {
	backend Backend
	debug   bool
}

func NewBackfillTrigger(b Backend, debug bool) *BackfillTrigger {
	return &BackfillTrigger{backend: b, debug: debug}
}

// Trigger asks the bb-backfill function to ingest lookbackDays of history for
// the organization and returns the acknowledgment exactly as received.
func (t *BackfillTrigger) Trigger(ctx context.Context, orgID models.OrgID, lookbackDays int) (*models.BackfillAck, error) {
	req := models.BackfillRequest{OrgID: orgID, LookbackDays: lookbackDays, Debug: t.debug}

	resp, err := t.backend.InvokeFunction(ctx, functionBackfill, req)
	if err != nil {
		return nil, fmt.Errorf("failed to trigger backfill for org %s: %w", orgID, err)
	}
	if err := resp.Expect(); err != nil {
		return nil, fmt.Errorf("failed to trigger backfill for org %s: %w", orgID, err)
	}

	ack := &models.BackfillAck{StatusCode: resp.StatusCode, Raw: resp.Body}
	// the payload shape belongs to the job, so unknown shapes are kept raw only
	_ = resp.Decode(ack)

	telemetry.GetMetrics().BackfillsTotal.Add(ctx, 1)

	return ack, nil
}
