package provision

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/bbprovision/internal/backend"
	"github.com/wolfeidau/bbprovision/internal/models"
)

func TestConfigUpserter_Upsert(t *testing.T) {
	t.Run("second upsert replaces the first", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		orgID := env.createOrg(t, "Forrest Transportation")
		upserter := NewConfigUpserter(env.client)

		require.NoError(t, upserter.Upsert(ctx, orgID, testOptions(30)))

		second := testOptions(1)
		second.AccountIDs = []string{"789"}
		require.NoError(t, upserter.Upsert(ctx, orgID, second))

		require.Equal(t, 1, env.store.ProviderConfigStore.Len())

		cfg, err := env.store.GetConfig(ctx, orgID, models.ProviderKeyBlackBerry)
		require.NoError(t, err)
		require.Equal(t, 1, cfg.Options.SinceDays)
		require.Equal(t, []string{"789"}, cfg.Options.AccountIDs)
	})

	t.Run("unknown org surfaces status and body", func(t *testing.T) {
		env := newTestEnv(t)

		err := NewConfigUpserter(env.client).Upsert(context.Background(), "missing-org", testOptions(30))
		require.Error(t, err)

		var httpErr *backend.HTTPError
		require.True(t, errors.As(err, &httpErr))
		require.Equal(t, http.StatusConflict, httpErr.StatusCode)
		require.Contains(t, string(httpErr.Body), "23503")
		require.ErrorIs(t, err, ErrConfigRejected)
	})

	t.Run("issues exactly one call with the procedure arguments", func(t *testing.T) {
		fake := &stubBackend{
			call: func() (*backend.Response, error) {
				return &backend.Response{Outcome: backend.OutcomeSuccess, StatusCode: http.StatusNoContent}, nil
			},
		}

		require.NoError(t, NewConfigUpserter(fake).Upsert(context.Background(), "org-1", testOptions(30)))
		require.Equal(t, 1, fake.calls)
		require.Equal(t, models.UpsertConfigArgs{OrgID: "org-1", Options: testOptions(30)}, fake.lastBody)
	})
}
