package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/bbprovision/internal/models"
	"github.com/wolfeidau/bbprovision/internal/store"
)

func TestOrganizationStore_Create(t *testing.T) {
	t.Run("assigns id and created at", func(t *testing.T) {
		st := NewOrganizationStore()
		ctx := context.Background()

		org := &models.Organization{Name: "Forrest Logistics"}
		require.NoError(t, st.Create(ctx, org))
		require.NotEmpty(t, org.ID)
		require.False(t, org.CreatedAt.IsZero())

		got, err := st.Get(ctx, org.ID)
		require.NoError(t, err)
		require.Equal(t, "Forrest Logistics", got.Name)
	})

	t.Run("duplicate name returns error", func(t *testing.T) {
		st := NewOrganizationStore()
		ctx := context.Background()

		require.NoError(t, st.Create(ctx, &models.Organization{Name: "Forrest Logistics"}))

		err := st.Create(ctx, &models.Organization{Name: "Forrest Logistics"})
		require.ErrorIs(t, err, store.ErrOrganizationAlreadyExists)
	})
}

func TestOrganizationStore_GetByName(t *testing.T) {
	st := NewOrganizationStore()
	ctx := context.Background()

	_, err := st.GetByName(ctx, "missing")
	require.ErrorIs(t, err, store.ErrOrganizationNotFound)

	org := &models.Organization{Name: "Forrest Transportation"}
	require.NoError(t, st.Create(ctx, org))

	got, err := st.GetByName(ctx, "Forrest Transportation")
	require.NoError(t, err)
	require.Equal(t, org.ID, got.ID)

	_, err = st.GetByName(ctx, "forrest transportation")
	require.ErrorIs(t, err, store.ErrOrganizationNotFound)
}

func TestOrganizationStore_List(t *testing.T) {
	st := NewOrganizationStore()
	ctx := context.Background()

	require.NoError(t, st.Create(ctx, &models.Organization{Name: "a"}))
	require.NoError(t, st.Create(ctx, &models.Organization{Name: "b"}))

	orgs, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, orgs, 2)
}
