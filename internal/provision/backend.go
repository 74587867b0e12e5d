package provision

import (
	"context"

	"github.com/wolfeidau/bbprovision/internal/backend"
)

// Backend is the subset of *backend.Client the provisioning components use.
type Backend interface {
	Lookup(ctx context.Context, resource string, query *backend.Query) (*backend.Response, error)
	Create(ctx context.Context, resource string, body any) (*backend.Response, error)
	CallProcedure(ctx context.Context, name string, args any) (*backend.Response, error)
	InvokeFunction(ctx context.Context, name string, body any) (*backend.Response, error)
}

var _ Backend = (*backend.Client)(nil)

// Backend resource, procedure and function names.
const (
	resourceOrgs        = "orgs"
	resourceDeviceMap   = "blackberry_device_map"
	resourceStaging     = "staging_blackberry_locations"
	procUpsertConfig    = "upsert_blackberry_config"
	procDistinctDevices = "get_distinct_external_device_ids"
	functionBackfill    = "bb-backfill"
)
