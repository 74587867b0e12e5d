package sandbox

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/rs/zerolog/hlog"

	ihttp "github.com/wolfeidau/bbprovision/internal/http"
	"github.com/wolfeidau/bbprovision/internal/models"
	"github.com/wolfeidau/bbprovision/internal/store"
)

func (s *Server) listOrgs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var orgs []*models.Organization
	if name, ok := eqFilter(q, "name"); ok {
		org, err := s.store.GetByName(ctx, name)
		switch {
		case errors.Is(err, store.ErrOrganizationNotFound):
		case err != nil:
			s.internalError(w, r, err)
			return
		default:
			orgs = append(orgs, org)
		}
	} else {
		var err error
		orgs, err = s.store.List(ctx)
		if err != nil {
			s.internalError(w, r, err)
			return
		}
	}

	s.writeRows(w, r, orgs)
}

func (s *Server) createOrg(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		ihttp.WriteJSON(w, http.StatusBadRequest, pgError{Code: "PGRST102", Message: "Empty or invalid json"})
		return
	}
	if body.Name == "" {
		ihttp.WriteJSON(w, http.StatusBadRequest, pgError{
			Code:    pgerrcode.NotNullViolation,
			Message: "null value in column \"name\" of relation \"orgs\" violates not-null constraint",
		})
		return
	}

	org := &models.Organization{Name: body.Name}
	err := s.store.Create(r.Context(), org)
	switch {
	case errors.Is(err, store.ErrOrganizationAlreadyExists):
		ihttp.WriteJSON(w, http.StatusConflict, pgError{
			Code:    pgerrcode.UniqueViolation,
			Message: "duplicate key value violates unique constraint \"orgs_name_key\"",
			Details: "Key (name)=(" + body.Name + ") already exists.",
		})
		return
	case err != nil:
		s.internalError(w, r, err)
		return
	}

	if strings.Contains(r.Header.Get("Prefer"), "return=representation") {
		ihttp.WriteJSON(w, http.StatusCreated, []*models.Organization{org})
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (s *Server) listDeviceMap(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	orgID, ok := eqFilter(q, "org_id")
	if !ok {
		badFilter(w, "org_id")
		return
	}

	rows, err := s.store.Mappings(r.Context(), models.OrgID(orgID), limitParam(q))
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	s.writeRows(w, r, rows)
}

func (s *Server) listStaging(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	orgID, ok := eqFilter(q, "org_id")
	if !ok {
		badFilter(w, "org_id")
		return
	}

	// rows come back newest first, which is the only ordering callers request
	rows, err := s.store.RecentLocations(r.Context(), models.OrgID(orgID), limitParam(q))
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	s.writeRows(w, r, rows)
}

func (s *Server) upsertConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var args models.UpsertConfigArgs
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil || args.OrgID == "" {
		ihttp.WriteJSON(w, http.StatusBadRequest, pgError{Code: "PGRST102", Message: "Empty or invalid json"})
		return
	}

	if _, err := s.store.Get(ctx, args.OrgID); err != nil {
		if errors.Is(err, store.ErrOrganizationNotFound) {
			ihttp.WriteJSON(w, http.StatusConflict, pgError{
				Code:    pgerrcode.ForeignKeyViolation,
				Message: "insert or update on table \"provider_config\" violates foreign key constraint \"provider_config_org_id_fkey\"",
			})
			return
		}
		s.internalError(w, r, err)
		return
	}

	cfg := &models.ProviderConfig{
		OrgID:       args.OrgID,
		ProviderKey: models.ProviderKeyBlackBerry,
		Options:     args.Options,
	}
	if err := s.store.UpsertConfig(ctx, cfg); err != nil {
		s.internalError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) distinctDevices(w http.ResponseWriter, r *http.Request) {
	var args models.OrgArgs
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil || args.OrgID == "" {
		ihttp.WriteJSON(w, http.StatusBadRequest, pgError{Code: "PGRST102", Message: "Empty or invalid json"})
		return
	}

	ids, err := s.store.DistinctDeviceIDs(r.Context(), args.OrgID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	rows := make([]models.DeviceRow, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, models.DeviceRow{ExternalDeviceID: id})
	}

	ihttp.WriteJSON(w, http.StatusOK, rows)
}

// writeRows applies the select projection and limit of the request and writes
// the rows as a JSON array.
func (s *Server) writeRows(w http.ResponseWriter, r *http.Request, rows any) {
	q := r.URL.Query()

	projected, err := project(rows, q.Get("select"))
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	if limit := limitParam(q); limit > 0 && len(projected) > limit {
		projected = projected[:limit]
	}

	ihttp.WriteJSON(w, http.StatusOK, projected)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	hlog.FromRequest(r).Error().Err(err).Msg("sandbox handler failed")
	ihttp.WriteJSON(w, http.StatusInternalServerError, pgError{Code: pgerrcode.InternalError, Message: err.Error()})
}

func badFilter(w http.ResponseWriter, column string) {
	ihttp.WriteJSON(w, http.StatusBadRequest, pgError{
		Code:    "PGRST100",
		Message: "an eq filter on " + column + " is required",
	})
}

func eqFilter(q url.Values, column string) (string, bool) {
	return strings.CutPrefix(q.Get(column), "eq.")
}

func limitParam(q url.Values) int {
	n, err := strconv.Atoi(q.Get("limit"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// project converts rows to JSON objects keeping only the selected columns.
// An empty select or "*" keeps every column.
func project(rows any, selectParam string) ([]map[string]any, error) {
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, err
	}

	out := []map[string]any{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []map[string]any{}
	}

	if selectParam == "" || selectParam == "*" {
		return out, nil
	}

	columns := strings.Split(selectParam, ",")
	for i, row := range out {
		kept := make(map[string]any, len(columns))
		for _, c := range columns {
			if v, ok := row[c]; ok {
				kept[c] = v
			}
		}
		out[i] = kept
	}

	return out, nil
}
