package provision

import (
	"context"
	"fmt"
	"slices"

	"github.com/wolfeidau/bbprovision/internal/backend"
	"github.com/wolfeidau/bbprovision/internal/models"
	"github.com/wolfeidau/bbprovision/internal/telemetry"
)

// MappingLimit caps the device mapping lookup. Mappings beyond the cap are not
// read, so their devices are reported as unmapped. There is no pagination.
const MappingLimit = 10000

// Reconciliation is the result of comparing observed devices with mappings.
type Reconciliation struct {
	OrgID    models.OrgID
	Observed int
	Mapped   int
	// Unmapped is sorted ascending.
	Unmapped []models.DeviceID
	// Truncated is set when the mapping lookup returned MappingLimit rows, in
	// which case Unmapped may include mapped devices.
	Truncated bool
}

// DeviceReconciler finds provider devices that have no internal asset mapping.
type DeviceReconciler struct {
	backend Backend
	limit   int
}

func NewDeviceReconciler(b Backend) *DeviceReconciler {
	return &DeviceReconciler{backend: b, limit: MappingLimit}
}

// Unmapped returns every device observed for the org that is absent from the
// device map. A missing table or procedure contributes an empty set.
func (r *DeviceReconciler) Unmapped(ctx context.Context, orgID models.OrgID) (*Reconciliation, error) {
	observed, err := r.observed(ctx, orgID)
	if err != nil {
		return nil, err
	}

	mapped, err := r.mapped(ctx, orgID)
	if err != nil {
		return nil, err
	}

	unmapped := Difference(observed, mapped)

	telemetry.GetMetrics().UnmappedDevices.Record(ctx, int64(len(unmapped)))

	return &Reconciliation{
		OrgID:     orgID,
		Observed:  len(observed),
		Mapped:    len(mapped),
		Unmapped:  unmapped,
		Truncated: len(mapped) >= r.limit,
	}, nil
}

func (r *DeviceReconciler) observed(ctx context.Context, orgID models.OrgID) ([]models.DeviceID, error) {
	resp, err := r.backend.CallProcedure(ctx, procDistinctDevices, models.OrgArgs{OrgID: orgID})
	if err != nil {
		return nil, fmt.Errorf("failed to list observed devices for org %s: %w", orgID, err)
	}
	return decodeDevices(resp)
}

func (r *DeviceReconciler) mapped(ctx context.Context, orgID models.OrgID) ([]models.DeviceID, error) {
	query := backend.NewQuery("external_device_id").
		Eq("org_id", orgID.String()).
		Limit(r.limit)

	resp, err := r.backend.Lookup(ctx, resourceDeviceMap, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list mapped devices for org %s: %w", orgID, err)
	}
	return decodeDevices(resp)
}

func decodeDevices(resp *backend.Response) ([]models.DeviceID, error) {
	if resp.Outcome == backend.OutcomeNotFound {
		return nil, nil
	}

	var rows []models.DeviceRow
	if err := resp.Decode(&rows); err != nil {
		return nil, err
	}

	ids := make([]models.DeviceID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ExternalDeviceID)
	}
	return ids, nil
}

// Difference returns the distinct elements of all not present in mapped, sorted.
func Difference(all, mapped []models.DeviceID) []models.DeviceID {
	exclude := make(map[models.DeviceID]struct{}, len(mapped))
	for _, id := range mapped {
		exclude[id] = struct{}{}
	}

	seen := make(map[models.DeviceID]struct{}, len(all))
	result := []models.DeviceID{}
	for _, id := range all {
		if _, ok := exclude[id]; ok {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}

	slices.Sort(result)
	return result
}
