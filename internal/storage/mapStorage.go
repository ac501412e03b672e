package storage

import (
	"sort"
	"sync"
)

// MapStorage is a map-backed Storage guarded by a single exclusive lock
type MapStorage struct {
	data map[string]*Entity
	mu   sync.Mutex
}

// NewMapStorage creates a new instance of MapStorage.
func NewMapStorage() *MapStorage {
	return &MapStorage{
		data: make(map[string]*Entity),
	}
}

func (m *MapStorage) Lock() {
	m.mu.Lock()
}

func (m *MapStorage) Unlock() {
	m.mu.Unlock()
}

// Get returns the entity and true if the key is found. Otherwise, nil, false
func (m *MapStorage) Get(key string) (*Entity, bool) {
	e, ok := m.data[key]
	return e, ok
}

// Put writes the entity. Empty containers are not stored: putting one deletes the key
func (m *MapStorage) Put(key string, e *Entity) {
	if e == nil || e.Empty() {
		delete(m.data, key)
		return
	}
	m.data[key] = e
}

// Remove deletes the key. Returns true if the key existed and was deleted
func (m *MapStorage) Remove(key string) bool {
	if _, ok := m.data[key]; ok {
		delete(m.data, key)
		return true
	}
	return false
}

func (m *MapStorage) Exists(key string) bool {
	_, ok := m.data[key]
	return ok
}

func (m *MapStorage) Size() int {
	return len(m.data)
}

// KeysMatching returns all keys matching the glob pattern in lexical order
func (m *MapStorage) KeysMatching(pattern string) []string {
	keys := make([]string, 0)
	for key := range m.data {
		if Match(pattern, key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

func (m *MapStorage) Flush() {
	m.data = make(map[string]*Entity)
}
