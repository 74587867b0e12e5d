package memory

import "github.com/wolfeidau/bbprovision/internal/store"

var _ store.Store = (*Store)(nil)

// Store combines the in-memory stores into a store.Store.
type Store struct {
	*OrganizationStore
	*ProviderConfigStore
	*DeviceStore
	*BackfillLog
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		OrganizationStore:   NewOrganizationStore(),
		ProviderConfigStore: NewProviderConfigStore(),
		DeviceStore:         NewDeviceStore(),
		BackfillLog:         NewBackfillLog(),
	}
}
