package models

import "encoding/json"

// BackfillRequest asks the bb-backfill job to ingest lookbackDays of history.
type BackfillRequest struct {
	OrgID        OrgID `json:"org_id"`
	LookbackDays int   `json:"lookback_days"`
	Debug        bool  `json:"debug,omitempty"`
}

// BackfillAck is the acknowledgment returned by the job endpoint. Raw holds the
// payload exactly as received; the remaining fields are decoded when present.
type BackfillAck struct {
	StatusCode   int             `json:"-"`
	Raw          json.RawMessage `json:"-"`
	OK           bool            `json:"ok"`
	Mode         string          `json:"mode,omitempty"`
	Inserted     *int            `json:"inserted,omitempty"`
	LookbackDays int             `json:"lookback_days,omitempty"`
	Error        string          `json:"error,omitempty"`
}

func (a *BackfillAck) String() string {
	if len(a.Raw) == 0 {
		return "{}"
	}
	return string(a.Raw)
}
