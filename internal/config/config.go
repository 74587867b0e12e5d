package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/wolfeidau/bbprovision/internal/models"
)

// Environment variable names for the required settings.
const (
	EnvServiceKey   = "SRK"
	EnvBackendURL   = "SUPABASE_URL"
	EnvAPIBase      = "BB_API_BASE"
	EnvClientID     = "BB_CLIENT_ID"
	EnvClientSecret = "BB_CLIENT_SECRET"
	EnvAccountIDs   = "BB_ACCOUNT_IDS"
	EnvOrgs         = "BB_ORGS"
)

const (
	DefaultBackendURL = "https://fucvkmsaappphsvuabos.supabase.co"
	DefaultTimeout    = 5 * time.Minute

	// InitialSinceDays is the provider lookback written on first setup.
	InitialSinceDays = 30
	// RoutineSinceDays is the provider lookback written on routine refresh.
	RoutineSinceDays = 1
	// RoutineLookbackDays is the backfill window requested on routine refresh.
	RoutineLookbackDays = 1
)

// Provider holds the BlackBerry Radar connection settings shared by every tenant.
type Provider struct {
	APIBase      string
	ClientID     string
	ClientSecret string
	AccountIDs   string // comma separated, as supplied
}

// Options builds the stored provider options for the given lookback default.
func (p Provider) Options(sinceDays int) models.ProviderOptions {
	return models.ProviderOptions{
		APIBase:      p.APIBase,
		ClientID:     p.ClientID,
		ClientSecret: p.ClientSecret,
		AccountIDs:   ParseAccountIDs(p.AccountIDs),
		SinceDays:    sinceDays,
	}
}

// Config is built once at process start and passed to every component.
type Config struct {
	BackendURL string
	ServiceKey string
	Timeout    time.Duration
	Provider   Provider
	Tenants    []Tenant

	// RequireProvider is set by commands that write provider configuration.
	RequireProvider bool
}

// Validate reports every missing required value at once.
func (c Config) Validate() error {
	var missing []string

	if c.ServiceKey == "" {
		missing = append(missing, EnvServiceKey)
	}
	if c.BackendURL == "" {
		missing = append(missing, EnvBackendURL)
	}
	if c.RequireProvider {
		if c.Provider.APIBase == "" {
			missing = append(missing, EnvAPIBase)
		}
		if c.Provider.ClientID == "" {
			missing = append(missing, EnvClientID)
		}
		if c.Provider.ClientSecret == "" {
			missing = append(missing, EnvClientSecret)
		}
		if strings.TrimSpace(c.Provider.AccountIDs) == "" {
			missing = append(missing, EnvAccountIDs)
		}
	}
	if len(c.Tenants) == 0 {
		missing = append(missing, EnvOrgs)
	}

	if len(missing) > 0 {
		return &MissingError{Names: missing}
	}

	for _, t := range c.Tenants {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("tenant name must not be blank")
		}
	}

	return nil
}

// MissingError lists required environment values that were not set.
type MissingError struct {
	Names []string
}

func (e *MissingError) Error() string {
	return "required environment variables are not set: " + strings.Join(e.Names, ", ")
}

// ParseAccountIDs splits a comma separated list and trims each element.
// Elements are never dropped, so " 1,,2" yields ["1", "", "2"].
func ParseAccountIDs(raw string) []string {
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		ids = append(ids, strings.TrimSpace(p))
	}
	return ids
}
