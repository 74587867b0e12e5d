package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/bbprovision/internal/models"
	"github.com/wolfeidau/bbprovision/internal/store"
)

func TestDeviceStore_DistinctDeviceIDs(t *testing.T) {
	st := NewDeviceStore()
	ctx := context.Background()

	rows := []models.StagingLocation{
		{OrgID: "org-1", ExternalDeviceID: "A"},
		{OrgID: "org-1", ExternalDeviceID: "B"},
		{OrgID: "org-1", ExternalDeviceID: "A"},
		{OrgID: "org-2", ExternalDeviceID: "C"},
	}
	require.NoError(t, st.InsertLocations(ctx, rows))

	ids, err := st.DistinctDeviceIDs(ctx, "org-1")
	require.NoError(t, err)
	require.ElementsMatch(t, []models.DeviceID{"A", "B"}, ids)
}

func TestDeviceStore_RecentLocations(t *testing.T) {
	st := NewDeviceStore()
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, st.InsertLocations(ctx, []models.StagingLocation{
		{OrgID: "org-1", ExternalDeviceID: "old", CreatedAt: base},
		{OrgID: "org-1", ExternalDeviceID: "new", CreatedAt: base.Add(time.Hour)},
		{OrgID: "org-1", ExternalDeviceID: "mid", CreatedAt: base.Add(time.Minute)},
	}))

	rows, err := st.RecentLocations(ctx, "org-1", 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, models.DeviceID("new"), rows[0].ExternalDeviceID)
	require.Equal(t, models.DeviceID("mid"), rows[1].ExternalDeviceID)
}

func TestDeviceStore_Mappings(t *testing.T) {
	st := NewDeviceStore()
	ctx := context.Background()

	require.NoError(t, st.AddMapping(ctx, models.DeviceMapping{OrgID: "org-1", ExternalDeviceID: "A"}))
	require.NoError(t, st.AddMapping(ctx, models.DeviceMapping{OrgID: "org-1", ExternalDeviceID: "B"}))

	err := st.AddMapping(ctx, models.DeviceMapping{OrgID: "org-1", ExternalDeviceID: "A"})
	require.ErrorIs(t, err, store.ErrDuplicateMap)

	all, err := st.Mappings(ctx, "org-1", 0)
	require.NoError(t, err)
	require.Len(t, all, 2)

	capped, err := st.Mappings(ctx, "org-1", 1)
	require.NoError(t, err)
	require.Len(t, capped, 1)
}
