package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/wolfeidau/bbprovision/internal/models"
	"github.com/wolfeidau/bbprovision/internal/store"
)

type configKey struct {
	orgID       models.OrgID
	providerKey string
}

// ProviderConfigStore implements store.ProviderConfigStore in memory.
type ProviderConfigStore struct {
	mu sync.RWMutex

	configs map[configKey]*models.ProviderConfig
}

func NewProviderConfigStore() *ProviderConfigStore {
	return &ProviderConfigStore{
		configs: make(map[configKey]*models.ProviderConfig),
	}
}

// UpsertConfig replaces any existing value for the org and provider wholesale.
func (s *ProviderConfigStore) UpsertConfig(ctx context.Context, cfg *models.ProviderConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.configs[configKey{cfg.OrgID, cfg.ProviderKey}] = cloneConfig(cfg)

	return nil
}

func (s *ProviderConfigStore) GetConfig(ctx context.Context, orgID models.OrgID, providerKey string) (*models.ProviderConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg, exists := s.configs[configKey{orgID, providerKey}]
	if !exists {
		return nil, store.ErrConfigNotFound
	}

	return cloneConfig(cfg), nil
}

// Len returns the number of stored configurations.
func (s *ProviderConfigStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.configs)
}

func cloneConfig(cfg *models.ProviderConfig) *models.ProviderConfig {
	clone := *cfg
	clone.Options.AccountIDs = slices.Clone(cfg.Options.AccountIDs)
	return &clone
}
