package manager

import (
	"context"
	"sync"

	"github.com/GPT-Engineer-App/fin-track/internal/storage"
)

// Registry hands out one Manager per authenticated user, building and
// loading it on first use. Evicting an entry is the explicit replacement for
// the old client's remount-by-user-key trick: the next request gets a fresh
// Manager with a fresh load.
type Registry struct {
	store storage.TransactionStore

	mu       sync.Mutex
	managers map[uint]*entry
}

// entry pairs a Manager with the once guarding its initial load
type entry struct {
	m    *Manager
	load sync.Once
}

// NewRegistry builds an empty registry over the given store
func NewRegistry(store storage.TransactionStore) *Registry {
	return &Registry{
		store:    store,
		managers: make(map[uint]*entry),
	}
}

// Get returns the user's Manager, creating and loading it on first access.
// The initial load runs exactly once per entry and concurrent first
// requests wait on it, so nobody is handed a list that is still mid-load.
// A failed initial load is logged by the Manager and not retried; the list
// simply stays empty, exactly as a failed first fetch behaved before.
func (r *Registry) Get(ctx context.Context, ownerID uint) *Manager {
	r.mu.Lock()
	e, ok := r.managers[ownerID]
	if !ok {
		e = &entry{m: New(ownerID, r.store)}
		r.managers[ownerID] = e
	}
	r.mu.Unlock()
	e.load.Do(func() {
		_ = e.m.Load(ctx) // Already logged inside; not retried automatically
	})
	return e.m
}

// Evict drops the user's Manager so downstream state resets on the next
// request. Wired to the session provider's change notifications.
func (r *Registry) Evict(ownerID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.managers, ownerID)
}
