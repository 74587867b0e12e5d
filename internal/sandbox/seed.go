package sandbox

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wolfeidau/bbprovision/internal/models"
	"github.com/wolfeidau/bbprovision/internal/store"
)

// Seed describes sandbox fixtures.
//
//	orgs:
//	  - name: Forrest Transportation
//	    devices: [A, B, C]
//	    mapped: [B]
type Seed struct {
	Orgs []SeedOrg `yaml:"orgs"`
}

// SeedOrg is one organization with the devices it has reported and the subset
// already mapped to assets.
type SeedOrg struct {
	Name    string   `yaml:"name"`
	Devices []string `yaml:"devices"`
	Mapped  []string `yaml:"mapped"`
}

// LoadSeed reads a YAML seed file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	return &seed, nil
}

// Apply writes the fixtures to st. Organizations that already exist are reused.
func (s *Seed) Apply(ctx context.Context, st store.Store) error {
	now := time.Now().UTC()

	for _, o := range s.Orgs {
		org := &models.Organization{Name: o.Name}
		if err := st.Create(ctx, org); err != nil {
			if !errors.Is(err, store.ErrOrganizationAlreadyExists) {
				return fmt.Errorf("failed to seed org %q: %w", o.Name, err)
			}
			if org, err = st.GetByName(ctx, o.Name); err != nil {
				return err
			}
		}

		rows := make([]models.StagingLocation, 0, len(o.Devices))
		for _, d := range o.Devices {
			rows = append(rows, models.StagingLocation{
				OrgID:            org.ID,
				ExternalDeviceID: models.DeviceID(d),
				TS:               now,
				Source:           "sandbox-seed",
			})
		}
		if err := st.InsertLocations(ctx, rows); err != nil {
			return fmt.Errorf("failed to seed devices for %q: %w", o.Name, err)
		}

		for _, d := range o.Mapped {
			err := st.AddMapping(ctx, models.DeviceMapping{OrgID: org.ID, ExternalDeviceID: models.DeviceID(d)})
			if err != nil && !errors.Is(err, store.ErrDuplicateMap) {
				return fmt.Errorf("failed to seed mapping %q for %q: %w", d, o.Name, err)
			}
		}
	}

	return nil
}
