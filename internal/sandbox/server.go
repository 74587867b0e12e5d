// Package sandbox emulates the slice of the Supabase REST and edge function
// surface used by bbprovision, backed by a store.Store. It is used for dry runs
// and by tests.
package sandbox

import (
	"net/http"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	ihttp "github.com/wolfeidau/bbprovision/internal/http"
	"github.com/wolfeidau/bbprovision/internal/store"
)

// Resource and procedure names served by the sandbox.
const (
	TableOrgs           = "orgs"
	TableDeviceMap      = "blackberry_device_map"
	TableStaging        = "staging_blackberry_locations"
	ProcUpsertConfig    = "upsert_blackberry_config"
	ProcDistinctDevices = "get_distinct_external_device_ids"
	FunctionBackfill    = "bb-backfill"
)

// Server is an http.Handler emulating the backend.
type Server struct {
	store   store.Store
	key     string
	missing map[string]bool
	logger  zerolog.Logger
	counter ihttp.RequestCounter
	handler http.Handler
}

// Option customises a Server.
type Option func(*Server)

// WithMissing makes the named tables or procedures answer 404, as PostgREST does
// before a migration has created them.
func WithMissing(names ...string) Option {
	return func(s *Server) {
		for _, n := range names {
			s.missing[n] = true
		}
	}
}

// WithLogger enables access logging.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a sandbox backend accepting serviceKey.
func New(st store.Store, serviceKey string, opts ...Option) *Server {
	s := &Server{
		store:   st,
		key:     serviceKey,
		missing: make(map[string]bool),
		logger:  zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /rest/v1/orgs", s.table(TableOrgs, s.listOrgs))
	mux.Handle("POST /rest/v1/orgs", s.table(TableOrgs, s.createOrg))
	mux.Handle("GET /rest/v1/blackberry_device_map", s.table(TableDeviceMap, s.listDeviceMap))
	mux.Handle("GET /rest/v1/staging_blackberry_locations", s.table(TableStaging, s.listStaging))
	mux.Handle("POST /rest/v1/rpc/upsert_blackberry_config", s.table(ProcUpsertConfig, s.upsertConfig))
	mux.Handle("POST /rest/v1/rpc/get_distinct_external_device_ids", s.table(ProcDistinctDevices, s.distinctDevices))
	mux.Handle("POST /functions/v1/bb-backfill", s.table(FunctionBackfill, s.backfill))

	var h http.Handler = mux
	h = ihttp.ServiceKeyMiddleware(s.key)(h)
	h = s.counter.Middleware(h)
	h = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("sandbox request")
	})(h)
	h = hlog.NewHandler(s.logger)(h)

	s.handler = h

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Requests returns the number of requests received, including rejected ones.
func (s *Server) Requests() int64 {
	return s.counter.Count()
}

func (s *Server) table(name string, fn http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.missing[name] {
			ihttp.WriteJSON(w, http.StatusNotFound, pgError{
				Code:    pgerrcode.UndefinedTable,
				Message: "relation \"public." + name + "\" does not exist",
			})
			return
		}
		fn(w, r)
	})
}

// pgError is the error body shape PostgREST returns.
type pgError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
