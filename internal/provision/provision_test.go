package provision

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/bbprovision/internal/backend"
	"github.com/wolfeidau/bbprovision/internal/models"
	"github.com/wolfeidau/bbprovision/internal/sandbox"
	"github.com/wolfeidau/bbprovision/internal/store/memory"
)

const testKey = "service-role-key"

type testEnv struct {
	store   *memory.Store
	sandbox *sandbox.Server
	client  *backend.Client
}

func newTestEnv(t *testing.T, opts ...sandbox.Option) *testEnv {
	t.Helper()

	st := memory.New()
	sb := sandbox.New(st, testKey, opts...)
	srv := httptest.NewServer(sb)
	t.Cleanup(srv.Close)

	client, err := backend.New(backend.Config{BaseURL: srv.URL, ServiceKey: testKey}, backend.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	return &testEnv{store: st, sandbox: sb, client: client}
}

func (e *testEnv) createOrg(t *testing.T, name string) models.OrgID {
	t.Helper()

	org := &models.Organization{Name: name}
	require.NoError(t, e.store.Create(context.Background(), org))
	return org.ID
}

func (e *testEnv) observe(t *testing.T, orgID models.OrgID, ids ...models.DeviceID) {
	t.Helper()

	rows := make([]models.StagingLocation, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, models.StagingLocation{OrgID: orgID, ExternalDeviceID: id, Source: "blackberry"})
	}
	require.NoError(t, e.store.InsertLocations(context.Background(), rows))
}

func (e *testEnv) mapDevice(t *testing.T, orgID models.OrgID, id models.DeviceID) {
	t.Helper()

	require.NoError(t, e.store.AddMapping(context.Background(), models.DeviceMapping{OrgID: orgID, ExternalDeviceID: id}))
}

func testOptions(sinceDays int) models.ProviderOptions {
	return models.ProviderOptions{
		APIBase:      "https://radar.example.com",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		AccountIDs:   []string{"123", "456"},
		SinceDays:    sinceDays,
	}
}
