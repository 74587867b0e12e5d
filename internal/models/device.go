package models

import "time"

// DeviceID is the provider-reported identifier of a tracked asset.
type DeviceID string

// DeviceRow is the row shape returned by both get_distinct_external_device_ids
// and the blackberry_device_map lookup.
type DeviceRow struct {
	ExternalDeviceID DeviceID `json:"external_device_id"`
}

// DeviceMapping links an external device to an internal asset.
type DeviceMapping struct {
	OrgID            OrgID    `json:"org_id"`
	ExternalDeviceID DeviceID `json:"external_device_id"`
	AssetID          string   `json:"asset_id,omitempty"`
}

// OrgArgs is the argument object of procedures scoped to one organization.
type OrgArgs struct {
	OrgID OrgID `json:"p_org_id"`
}

// StagingLocation is a raw position ingested by the backfill job before it is
// standardized.
type StagingLocation struct {
	OrgID            OrgID     `json:"org_id"`
	ExternalDeviceID DeviceID  `json:"external_device_id"`
	TS               time.Time `json:"ts"`
	Lat              float64   `json:"lat"`
	Lon              float64   `json:"lon"`
	Source           string    `json:"source"`
	CreatedAt        time.Time `json:"created_at"`
}
