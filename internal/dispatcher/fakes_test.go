package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/magabrotheeeer/station-directory/internal/models"
	"github.com/magabrotheeeer/station-directory/internal/storage"
)

// memStore хранилище профилей и станций в памяти.
type memStore struct {
	mu       sync.Mutex
	profiles map[string]models.Profile
	stations map[string]models.Station
	seq      int
	writes   int
	failWith error
}

func newMemStore() *memStore {
	return &memStore{
		profiles: make(map[string]models.Profile),
		stations: make(map[string]models.Station),
	}
}

func (m *memStore) UpsertProfile(_ context.Context, p models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	for uid, existing := range m.profiles {
		if existing.Username == p.Username && uid != p.UID {
			return storage.ErrUsernameTaken
		}
	}
	m.writes++
	m.profiles[p.UID] = p
	return nil
}

func (m *memStore) GetProfile(_ context.Context, uid string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[uid]
	if !ok {
		return nil, storage.ErrProfileNotFound
	}
	return &p, nil
}

func (m *memStore) DeleteProfile(_ context.Context, uid string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	if _, ok := m.profiles[uid]; !ok {
		return 0, nil
	}
	m.writes++
	delete(m.profiles, uid)
	return 1, nil
}

func (m *memStore) CreateStation(_ context.Context, st models.Station) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return "", m.failWith
	}
	m.seq++
	m.writes++
	st.ID = fmt.Sprintf("st-%d", m.seq)
	m.stations[st.ID] = st
	return st.ID, nil
}

func (m *memStore) GetStation(_ context.Context, id string) (*models.Station, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.stations[id]
	if !ok {
		return nil, storage.ErrStationNotFound
	}
	return &st, nil
}

func (m *memStore) list(filter func(models.Station) bool) []*models.Station {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*models.Station, 0)
	for _, st := range m.stations {
		if filter(st) {
			st := st
			result = append(result, &st)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (m *memStore) ListStations(context.Context) ([]*models.Station, error) {
	return m.list(func(models.Station) bool { return true }), nil
}

func (m *memStore) ListStationsByOwner(_ context.Context, uid string) ([]*models.Station, error) {
	return m.list(func(st models.Station) bool { return st.UserID == uid }), nil
}

func (m *memStore) UpdateStation(_ context.Context, id string, patch models.StationPatch) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	st, ok := m.stations[id]
	if !ok {
		return 0, nil
	}
	if patch.Name != nil {
		st.Name = *patch.Name
	}
	if patch.Price != nil {
		st.Price = *patch.Price
	}
	if patch.Services != nil {
		st.Services = patch.Services
	}
	if patch.Type != nil {
		st.Type = *patch.Type
	}
	if patch.Coordinates != nil {
		st.Coordinates = *patch.Coordinates
	}
	st.UserID = patch.UserID
	m.writes++
	m.stations[id] = st
	return 1, nil
}

func (m *memStore) DeleteStation(_ context.Context, id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	if _, ok := m.stations[id]; !ok {
		return 0, nil
	}
	m.writes++
	delete(m.stations, id)
	return 1, nil
}

func (m *memStore) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// memCache кеш в памяти с JSON-значениями.
type memCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{items: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string, result any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, result)
}

func (c *memCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = raw
	return nil
}

func (c *memCache) Invalidate(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

// memRevoker запоминает отозванные идентификаторы.
type memRevoker struct {
	mu      sync.Mutex
	revoked []string
}

func (r *memRevoker) Revoke(_ context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked = append(r.revoked, uid)
	return nil
}

// countingObserver считает вызовы по операции и коду.
type countingObserver struct {
	mu    sync.Mutex
	calls map[string]int
}

func (o *countingObserver) Observe(operation, code string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.calls == nil {
		o.calls = make(map[string]int)
	}
	o.calls[operation+"/"+code]++
}
