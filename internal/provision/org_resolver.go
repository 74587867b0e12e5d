package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/wolfeidau/bbprovision/internal/backend"
	"github.com/wolfeidau/bbprovision/internal/models"
	"github.com/wolfeidau/bbprovision/internal/telemetry"
)

var (
	// ErrOrganizationNotFound is returned by Resolve when no organization has the name.
	ErrOrganizationNotFound = errors.New("organization not found")

	// ErrOrganizationNotCommitted is returned when a create succeeded but the
	// follow-up lookup still finds nothing.
	ErrOrganizationNotCommitted = errors.New("organization not visible after create")
)

// OrgResolver maps organization names to backend ids.
type OrgResolver struct {
	backend Backend
}

func NewOrgResolver(b Backend) *OrgResolver {
	return &OrgResolver{backend: b}
}

// Resolve looks up the organization with exactly this name.
func (r *OrgResolver) Resolve(ctx context.Context, name string) (models.OrgID, error) {
	id, found, err := r.lookup(ctx, name)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("%w: %q", ErrOrganizationNotFound, name)
	}
	return id, nil
}

// ResolveOrCreate returns the id of the named organization, creating it first if
// it does not exist. The id always comes from a lookup: the create response is
// not trusted, so repeated calls converge on the committed record and at most one
// create is issued per name.
func (r *OrgResolver) ResolveOrCreate(ctx context.Context, name string) (models.OrgID, bool, error) {
	id, found, err := r.lookup(ctx, name)
	if err != nil {
		return "", false, err
	}
	if found {
		return id, false, nil
	}

	log.Ctx(ctx).Info().Str("name", name).Msg("creating organization")

	created := true

	resp, err := r.backend.Create(ctx, resourceOrgs, map[string]string{"name": name})
	switch {
	case backend.IsUniqueViolation(err):
		// another run created it between our lookup and create
		log.Ctx(ctx).Warn().Str("name", name).Msg("organization created concurrently")
		created = false
	case err != nil:
		return "", false, fmt.Errorf("failed to create organization %q: %w", name, err)
	default:
		if err := resp.Expect(); err != nil {
			return "", false, fmt.Errorf("failed to create organization %q: %w", name, err)
		}
		telemetry.GetMetrics().OrgsCreatedTotal.Add(ctx, 1)
	}

	id, found, err = r.lookup(ctx, name)
	if err != nil {
		return "", created, err
	}
	if !found {
		return "", created, fmt.Errorf("%w: %q", ErrOrganizationNotCommitted, name)
	}

	return id, created, nil
}

func (r *OrgResolver) lookup(ctx context.Context, name string) (models.OrgID, bool, error) {
	resp, err := r.backend.Lookup(ctx, resourceOrgs, backend.NewQuery("id").Eq("name", name))
	if err != nil {
		return "", false, fmt.Errorf("failed to look up organization %q: %w", name, err)
	}

	if resp.Outcome == backend.OutcomeNotFound {
		return "", false, nil
	}

	var orgs []models.Organization
	if err := resp.Decode(&orgs); err != nil {
		return "", false, err
	}
	if len(orgs) == 0 || orgs[0].ID == "" {
		return "", false, nil
	}

	telemetry.GetMetrics().OrgsResolvedTotal.Add(ctx, 1)

	return orgs[0].ID, true, nil
}
