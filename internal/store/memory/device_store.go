package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wolfeidau/bbprovision/internal/models"
	"github.com/wolfeidau/bbprovision/internal/store"
)

// DeviceStore implements store.DeviceStore in memory.
type DeviceStore struct {
	mu sync.RWMutex

	locations map[models.OrgID][]models.StagingLocation
	mappings  map[models.OrgID][]models.DeviceMapping
}

func NewDeviceStore() *DeviceStore {
	return &DeviceStore{
		locations: make(map[models.OrgID][]models.StagingLocation),
		mappings:  make(map[models.OrgID][]models.DeviceMapping),
	}
}

func (s *DeviceStore) InsertLocations(ctx context.Context, rows []models.StagingLocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for _, row := range rows {
		if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
		s.locations[row.OrgID] = append(s.locations[row.OrgID], row)
	}

	return nil
}

func (s *DeviceStore) RecentLocations(ctx context.Context, orgID models.OrgID, limit int) ([]models.StagingLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := append([]models.StagingLocation(nil), s.locations[orgID]...)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	return rows, nil
}

func (s *DeviceStore) DistinctDeviceIDs(ctx context.Context, orgID models.OrgID) ([]models.DeviceID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[models.DeviceID]struct{})
	var ids []models.DeviceID
	for _, row := range s.locations[orgID] {
		if _, ok := seen[row.ExternalDeviceID]; ok {
			continue
		}
		seen[row.ExternalDeviceID] = struct{}{}
		ids = append(ids, row.ExternalDeviceID)
	}

	return ids, nil
}

func (s *DeviceStore) AddMapping(ctx context.Context, m models.DeviceMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.mappings[m.OrgID] {
		if existing.ExternalDeviceID == m.ExternalDeviceID {
			return store.ErrDuplicateMap
		}
	}
	s.mappings[m.OrgID] = append(s.mappings[m.OrgID], m)

	return nil
}

// Mappings returns mappings in insertion order, capped at limit like a
// PostgREST limit query.
func (s *DeviceStore) Mappings(ctx context.Context, orgID models.OrgID, limit int) ([]models.DeviceMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.mappings[orgID]
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	return append([]models.DeviceMapping(nil), rows...), nil
}
