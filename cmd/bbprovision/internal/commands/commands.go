package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wolfeidau/bbprovision/internal/backend"
	"github.com/wolfeidau/bbprovision/internal/config"
	"github.com/wolfeidau/bbprovision/internal/logger"
	"github.com/wolfeidau/bbprovision/internal/provision"
	"github.com/wolfeidau/bbprovision/internal/telemetry"
)

const serviceName = "bbprovision"

type Globals struct {
	Debug     bool
	Telemetry bool
	Version   string
	Stdout    io.Writer
}

// BackendFlags locate and authenticate against the backend.
type BackendFlags struct {
	URL        string        `help:"Backend base URL" default:"${backend_url}" env:"SUPABASE_URL"`
	ServiceKey string        `help:"Service role key" env:"SRK"`
	Timeout    time.Duration `help:"Per request timeout" default:"5m" env:"BB_TIMEOUT"`
}

// ProviderFlags are the BlackBerry Radar settings written to every tenant.
type ProviderFlags struct {
	APIBase      string `help:"BlackBerry API base URL" env:"BB_API_BASE"`
	ClientID     string `help:"BlackBerry client id" env:"BB_CLIENT_ID"`
	ClientSecret string `help:"BlackBerry client secret" env:"BB_CLIENT_SECRET"`
	AccountIDs   string `help:"Comma separated BlackBerry account ids" env:"BB_ACCOUNT_IDS"`
}

func (p ProviderFlags) provider() config.Provider {
	return config.Provider{
		APIBase:      p.APIBase,
		ClientID:     p.ClientID,
		ClientSecret: p.ClientSecret,
		AccountIDs:   p.AccountIDs,
	}
}

// TenantFlags select the organizations to process.
type TenantFlags struct {
	Orgs    []string `help:"Organization names, processed in order" default:"Forrest Transportation,Forrest Logistics" env:"BB_ORGS"`
	Tenants string   `help:"YAML file listing tenants, overrides --orgs" type:"existingfile" env:"BB_TENANTS_FILE"`
}

func (f TenantFlags) tenants(sinceDays, lookbackDays int) ([]config.Tenant, error) {
	tenants := config.TenantsFromNames(f.Orgs)
	if f.Tenants != "" {
		loaded, err := config.LoadTenants(f.Tenants)
		if err != nil {
			return nil, err
		}
		tenants = loaded
	}

	for i := range tenants {
		tenants[i] = tenants[i].WithDefaults(sinceDays, lookbackDays)
	}
	return tenants, nil
}

// KongVars are interpolated into flag defaults.
func KongVars() map[string]string {
	return map[string]string{
		"backend_url":           config.DefaultBackendURL,
		"initial_since_days":    strconv.Itoa(config.InitialSinceDays),
		"routine_since_days":    strconv.Itoa(config.RoutineSinceDays),
		"routine_lookback_days": strconv.Itoa(config.RoutineLookbackDays),
	}
}

// runRequest is what each command hands to run.
type runRequest struct {
	cfg           config.Config
	steps         provision.Steps
	debugBackfill bool
}

// run validates the configuration before anything touches the network, then
// drives the pipeline.
func run(ctx context.Context, globals *Globals, req runRequest) ([]*provision.TenantResult, error) {
	if err := req.cfg.Validate(); err != nil {
		return nil, err
	}

	log.Logger = logger.Setup(globals.Debug)
	ctx = log.Logger.WithContext(ctx)

	if globals.Telemetry {
		shutdown, err := telemetry.InitTelemetry(ctx, serviceName, globals.Version)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
		}
		defer func() {
			if err := shutdown(context.WithoutCancel(ctx)); err != nil {
				log.Warn().Err(err).Msg("telemetry shutdown failed")
			}
		}()
	}

	client, err := backend.New(backend.Config{
		BaseURL:    req.cfg.BackendURL,
		ServiceKey: req.cfg.ServiceKey,
		Timeout:    req.cfg.Timeout,
		Debug:      globals.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create backend client: %w", err)
	}

	log.Debug().
		Str("backend", req.cfg.BackendURL).
		Int("tenants", len(req.cfg.Tenants)).
		Msg("starting run")

	pipeline := provision.NewPipeline(client, req.cfg.Provider, req.steps, req.debugBackfill, globals.Stdout)

	return pipeline.Run(ctx, req.cfg.Tenants)
}

func newConfig(b BackendFlags, p ProviderFlags, tenants []config.Tenant, requireProvider bool) config.Config {
	return config.Config{
		BackendURL:      b.URL,
		ServiceKey:      b.ServiceKey,
		Timeout:         b.Timeout,
		Provider:        p.provider(),
		Tenants:         tenants,
		RequireProvider: requireProvider,
	}
}

func printf(globals *Globals, format string, args ...any) {
	if globals.Stdout == nil {
		return
	}
	fmt.Fprintf(globals.Stdout, format, args...)
}
