package service

import "sync"

// MemoryCartIDStore keeps a cart ID in memory. The JSON API uses it for
// one-shot carts that are returned to the caller rather than persisted.
type MemoryCartIDStore struct {
	mu sync.Mutex
	id string
}

// NewMemoryCartIDStore returns a store holding id; an empty id means none.
func NewMemoryCartIDStore(id string) *MemoryCartIDStore {
	return &MemoryCartIDStore{id: id}
}

func (m *MemoryCartIDStore) Load() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.id, m.id != ""
}

func (m *MemoryCartIDStore) Save(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id = id
	return nil
}

func (m *MemoryCartIDStore) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id = ""
	return nil
}
