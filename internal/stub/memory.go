package stub

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore keeps everything in process memory. It is the default for
// gatewayd without a PG_DSN and for tests.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[string]User   // keyed by id
	byEmail     map[string]string // lower(email) → id
	collections map[string]map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[string]User),
		byEmail:     make(map[string]string),
		collections: make(map[string]map[string]Record),
	}
}

func (m *MemoryStore) CreateUser(_ context.Context, u User) error {
	key := strings.ToLower(u.Email)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.byEmail[key]; taken {
		return ErrEmailTaken
	}
	m.users[u.ID] = u
	m.byEmail[key] = u.ID
	return nil
}

func (m *MemoryStore) UserByEmail(_ context.Context, email string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return m.users[id], nil
}

func (m *MemoryStore) UserByID(_ context.Context, id string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (m *MemoryStore) UpdateUserPassword(_ context.Context, id string, hash []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = hash
	m.users[id] = u
	return nil
}

func (m *MemoryStore) DeleteUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrUserNotFound
	}
	delete(m.users, id)
	delete(m.byEmail, strings.ToLower(u.Email))
	return nil
}

func (m *MemoryStore) ListRecords(_ context.Context, collection string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	col := m.collections[collection]
	out := make([]Record, 0, len(col))
	for _, rec := range col {
		out = append(out, cloneRecord(rec))
	}
	// Map order is random; keep listings stable for clients.
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (m *MemoryStore) GetRecord(_ context.Context, collection, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.collections[collection][id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return cloneRecord(rec), nil
}

func (m *MemoryStore) CreateRecord(_ context.Context, collection string, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	col, ok := m.collections[collection]
	if !ok {
		col = make(map[string]Record)
		m.collections[collection] = col
	}
	if _, exists := col[rec.ID()]; exists {
		return ErrRecordExists
	}
	col[rec.ID()] = cloneRecord(rec)
	return nil
}

func (m *MemoryStore) UpdateRecord(_ context.Context, collection, id string, patch Record) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.collections[collection][id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	for k, v := range patch {
		if k == "id" {
			continue
		}
		rec[k] = v
	}
	return cloneRecord(rec), nil
}

func (m *MemoryStore) DeleteRecord(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[collection][id]; !ok {
		return ErrRecordNotFound
	}
	delete(m.collections[collection], id)
	return nil
}

func (m *MemoryStore) Close() {}

var _ Store = (*MemoryStore)(nil)

func cloneRecord(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}
