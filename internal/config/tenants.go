package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tenant is one organization to provision. Zero values fall back to the defaults
// of the command being run.
type Tenant struct {
	Name         string `yaml:"name"`
	SinceDays    int    `yaml:"since_days,omitempty"`
	LookbackDays int    `yaml:"lookback_days,omitempty"`
}

// TenantsFile is the optional YAML document listing tenants.
//
//	tenants:
//	  - name: Forrest Transportation
//	    since_days: 30
//	  - name: Forrest Logistics
type TenantsFile struct {
	Tenants []Tenant `yaml:"tenants"`
}

// TenantsFromNames builds tenants with default windows, preserving order.
func TenantsFromNames(names []string) []Tenant {
	tenants := make([]Tenant, 0, len(names))
	for _, n := range names {
		tenants = append(tenants, Tenant{Name: n})
	}
	return tenants
}

// LoadTenants reads a YAML tenants file.
func LoadTenants(path string) ([]Tenant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tenants file: %w", err)
	}

	var f TenantsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse tenants file: %w", err)
	}

	if len(f.Tenants) == 0 {
		return nil, fmt.Errorf("tenants file %s lists no tenants", path)
	}

	return f.Tenants, nil
}

// WithDefaults fills zero windows with the given defaults.
func (t Tenant) WithDefaults(sinceDays, lookbackDays int) Tenant {
	if t.SinceDays <= 0 {
		t.SinceDays = sinceDays
	}
	if t.LookbackDays <= 0 {
		t.LookbackDays = lookbackDays
	}
	return t
}
