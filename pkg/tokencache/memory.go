package tokencache

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Store. It covers single-process consumers and
// tests; nothing survives a restart.
type Memory struct {
	mu   sync.RWMutex
	data map[string]memoryItem
}

type memoryItem struct {
	entry      Entry
	expiration time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]memoryItem)}
}

func (m *Memory) Get(_ context.Context, key string) (*Entry, error) {
	m.mu.RLock()
	item, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if time.Now().After(item.expiration) {
		// Expired — remove and miss
		m.mu.Lock()
		delete(m.data, key)
		m.mu.Unlock()
		return nil, nil
	}
	entry := item.entry
	return &entry, nil
}

func (m *Memory) Put(_ context.Context, key string, entry Entry, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = memoryItem{
		entry:      entry,
		expiration: time.Now().Add(ttl),
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}
