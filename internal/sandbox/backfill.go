package sandbox

import (
	"encoding/json"
	"errors"
	"net/http"

	ihttp "github.com/wolfeidau/bbprovision/internal/http"
	"github.com/wolfeidau/bbprovision/internal/models"
	"github.com/wolfeidau/bbprovision/internal/store"
)

const defaultLookbackDays = 30

// backfill mirrors the bb-backfill edge function contract: it validates the
// stored provider config and acknowledges the job. The sandbox does not contact
// the provider, so nothing is ingested.
func (s *Server) backfill(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body struct {
		OrgID        models.OrgID `json:"org_id"`
		LookbackDays *int         `json:"lookback_days"`
		Debug        bool         `json:"debug"`
	}
	// an unreadable body is treated as empty, as the function does
	_ = json.NewDecoder(r.Body).Decode(&body)

	if body.OrgID == "" {
		ihttp.WriteJSON(w, http.StatusBadRequest, map[string]any{"error": "org_id required"})
		return
	}

	lookback := defaultLookbackDays
	if body.LookbackDays != nil {
		lookback = max(1, *body.LookbackDays)
	}

	cfg, err := s.store.GetConfig(ctx, body.OrgID, models.ProviderKeyBlackBerry)
	switch {
	case errors.Is(err, store.ErrConfigNotFound):
		ihttp.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "config_missing_for_org",
			"org_id": body.OrgID,
		})
		return
	case err != nil:
		ihttp.WriteJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "config_fetch_failed",
			"details": err.Error(),
		})
		return
	}

	opts := cfg.Options
	if !opts.Complete() {
		ihttp.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"error": "config_incomplete",
			"have": map[string]any{
				"api_base":      opts.APIBase != "",
				"client_id":     opts.ClientID != "",
				"client_secret": opts.ClientSecret != "",
				"account_ids":   len(opts.AccountIDs),
			},
		})
		return
	}

	if body.Debug {
		ihttp.WriteJSON(w, http.StatusOK, map[string]any{
			"ok":                 true,
			"mode":               "debug",
			"can_insert_staging": true,
			"org_id":             body.OrgID,
			"lookback_days":      lookback,
			"provider_key":       models.ProviderKeyBlackBerry,
			"api_base":           opts.APIBase,
			"accounts":           len(opts.AccountIDs),
		})
		return
	}

	req := models.BackfillRequest{OrgID: body.OrgID, LookbackDays: lookback}
	if err := s.store.RecordBackfill(ctx, req); err != nil {
		ihttp.WriteJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "worker_exception",
			"message": err.Error(),
		})
		return
	}

	ihttp.WriteJSON(w, http.StatusOK, map[string]any{
		"ok":            true,
		"inserted":      0,
		"lookback_days": lookback,
	})
}
