package commands

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"github.com/wolfeidau/bbprovision/internal/config"
	"github.com/wolfeidau/bbprovision/internal/models"
	"github.com/wolfeidau/bbprovision/internal/provision"
	"github.com/wolfeidau/bbprovision/internal/sandbox"
	"github.com/wolfeidau/bbprovision/internal/store/memory"
)

const testKey = "test-service-key"

type testBackend struct {
	store  *memory.Store
	server *sandbox.Server
	url    string
}

func newTestBackend(t *testing.T, seed *sandbox.Seed) *testBackend {
	t.Helper()

	st := memory.New()
	if seed != nil {
		require.NoError(t, seed.Apply(context.Background(), st))
	}

	srv := sandbox.New(st, testKey)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	return &testBackend{store: st, server: srv, url: ts.URL}
}

func (tb *testBackend) flags() BackendFlags {
	return BackendFlags{URL: tb.url, ServiceKey: testKey}
}

func testProvider() ProviderFlags {
	return ProviderFlags{
		APIBase:      "https://radar.example.com",
		ClientID:     "client",
		ClientSecret: "secret",
		AccountIDs:   "111, 222",
	}
}

func TestSyncCmd_MissingServiceKeyMakesNoRequests(t *testing.T) {
	tb := newTestBackend(t, nil)

	cmd := &SyncCmd{
		BackendFlags:  BackendFlags{URL: tb.url},
		ProviderFlags: ProviderFlags{APIBase: "https://radar.example.com"},
		TenantFlags:   TenantFlags{Orgs: []string{"Forrest Transportation"}},
		SinceDays:     1,
		LookbackDays:  1,
	}

	var out bytes.Buffer
	err := cmd.Run(context.Background(), &Globals{Stdout: &out})
	require.Error(t, err)

	var missing *config.MissingError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, []string{
		config.EnvServiceKey,
		config.EnvClientID,
		config.EnvClientSecret,
		config.EnvAccountIDs,
	}, missing.Names)

	require.Zero(t, tb.server.Requests())
	require.Empty(t, out.String())
}

func TestSetupCmd(t *testing.T) {
	tb := newTestBackend(t, nil)
	ctx := context.Background()

	cmd := &SetupCmd{
		BackendFlags:  tb.flags(),
		ProviderFlags: testProvider(),
		TenantFlags:   TenantFlags{Orgs: []string{"Forrest Transportation", "Forrest Logistics"}},
		SinceDays:     config.InitialSinceDays,
		Lookback:      30,
	}

	var out bytes.Buffer
	require.NoError(t, cmd.Run(ctx, &Globals{Stdout: &out}))

	require.Contains(t, out.String(), "Created 'Forrest Transportation' organization")
	require.Contains(t, out.String(), "Created 'Forrest Logistics' organization")
	require.Contains(t, out.String(), "✅ BlackBerry provider_config upserted for 2 orgs.")

	orgs, err := tb.store.List(ctx)
	require.NoError(t, err)
	require.Len(t, orgs, 2)

	for _, org := range orgs {
		cfg, err := tb.store.GetConfig(ctx, org.ID, models.ProviderKeyBlackBerry)
		require.NoError(t, err)
		require.Equal(t, 30, cfg.Options.SinceDays)
		require.Equal(t, []string{"111", "222"}, cfg.Options.AccountIDs)
	}

	backfills, err := tb.store.Backfills(ctx)
	require.NoError(t, err)
	require.Empty(t, backfills)

	// a second run creates nothing
	out.Reset()
	require.NoError(t, cmd.Run(ctx, &Globals{Stdout: &out}))
	require.NotContains(t, out.String(), "Created")

	orgs, err = tb.store.List(ctx)
	require.NoError(t, err)
	require.Len(t, orgs, 2)
}

func TestSyncCmd(t *testing.T) {
	tb := newTestBackend(t, &sandbox.Seed{Orgs: []sandbox.SeedOrg{
		{Name: "Forrest Transportation", Devices: []string{"C", "A", "B", "A"}, Mapped: []string{"B"}},
	}})
	ctx := context.Background()

	cmd := &SyncCmd{
		BackendFlags:  tb.flags(),
		ProviderFlags: testProvider(),
		TenantFlags:   TenantFlags{Orgs: []string{"Forrest Transportation", "Forrest Logistics"}},
		SinceDays:     config.RoutineSinceDays,
		LookbackDays:  config.RoutineLookbackDays,
	}

	var out bytes.Buffer
	require.NoError(t, cmd.Run(ctx, &Globals{Stdout: &out}))

	output := out.String()
	require.NotContains(t, output, "Created 'Forrest Transportation' organization")
	require.Contains(t, output, "Created 'Forrest Logistics' organization")
	require.Contains(t, output, "▶ Backfill for org")
	require.Contains(t, output, "  - A\n  - C\n")
	require.Contains(t, output, "Done.")

	backfills, err := tb.store.Backfills(ctx)
	require.NoError(t, err)
	require.Len(t, backfills, 2)
	for _, b := range backfills {
		require.Equal(t, 1, b.LookbackDays)
	}

	ft, err := tb.store.GetByName(ctx, "Forrest Transportation")
	require.NoError(t, err)
	cfg, err := tb.store.GetConfig(ctx, ft.ID, models.ProviderKeyBlackBerry)
	require.NoError(t, err)
	require.Equal(t, 1, cfg.Options.SinceDays)
}

func TestBackfillCmd_DoesNotCreateOrganizations(t *testing.T) {
	tb := newTestBackend(t, nil)
	ctx := context.Background()

	cmd := &BackfillCmd{
		BackendFlags: tb.flags(),
		TenantFlags:  TenantFlags{Orgs: []string{"Forrest Transportation"}},
		LookbackDays: 7,
	}

	err := cmd.Run(ctx, &Globals{Stdout: &bytes.Buffer{}})
	require.ErrorIs(t, err, provision.ErrOrganizationNotFound)

	orgs, err := tb.store.List(ctx)
	require.NoError(t, err)
	require.Empty(t, orgs)
}

func TestUnmappedCmd_TenantsFile(t *testing.T) {
	tb := newTestBackend(t, &sandbox.Seed{Orgs: []sandbox.SeedOrg{
		{Name: "Forrest Logistics", Devices: []string{"X", "Y"}},
	}})

	path := filepath.Join(t.TempDir(), "tenants.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tenants:\n  - name: Forrest Logistics\n"), 0o600))

	cmd := &UnmappedCmd{
		BackendFlags: tb.flags(),
		TenantFlags:  TenantFlags{Orgs: []string{"ignored"}, Tenants: path},
	}

	var out bytes.Buffer
	require.NoError(t, cmd.Run(context.Background(), &Globals{Stdout: &out}))
	require.Contains(t, out.String(), "  - X\n  - Y\n")
	require.NotContains(t, out.String(), "ignored")
}

func TestKongDefaults(t *testing.T) {
	for _, name := range []string{"SUPABASE_URL", "BB_ORGS", "BB_TENANTS_FILE"} {
		if _, ok := os.LookupEnv(name); ok {
			t.Skipf("%s is set in the environment", name)
		}
	}

	var cli struct {
		Setup SetupCmd `cmd:""`
		Sync  SyncCmd  `cmd:""`
	}

	parser, err := kong.New(&cli, kong.Vars(KongVars()))
	require.NoError(t, err)

	_, err = parser.Parse([]string{"setup"})
	require.NoError(t, err)
	require.Equal(t, config.InitialSinceDays, cli.Setup.SinceDays)
	require.Equal(t, config.DefaultBackendURL, cli.Setup.URL)
	require.Equal(t, []string{"Forrest Transportation", "Forrest Logistics"}, cli.Setup.Orgs)

	_, err = parser.Parse([]string{"sync"})
	require.NoError(t, err)
	require.Equal(t, config.RoutineSinceDays, cli.Sync.SinceDays)
	require.Equal(t, config.RoutineLookbackDays, cli.Sync.LookbackDays)
	require.Equal(t, config.DefaultTimeout, cli.Sync.Timeout)
}
