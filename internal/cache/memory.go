package cache

import (
	"context"
	"sync"

	"github.com/bilgisen/feedpress/internal/utils"
)

// MemoryCache is a process-local SlugCache used when Redis is not configured and in tests
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string]struct{}
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: make(map[string]struct{})}
}

func (m *MemoryCache) Close() error {
	return nil
}

func (m *MemoryCache) IsProcessed(ctx context.Context, slug string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.data[utils.SlugKey(slug)]
	return exists, nil
}

func (m *MemoryCache) MarkProcessed(ctx context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[utils.SlugKey(slug)] = struct{}{}
	return nil
}

func (m *MemoryCache) ClearProcessed(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]struct{})
	return nil
}
