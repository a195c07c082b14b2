package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/flexipanel/blocks/pkg/apis/blocks/v1alpha1"
)

type memoryEntry struct {
	block     *v1alpha1.HydratedBlock
	expiresAt time.Time
}

// MemoryCache is the in-process backend. Entries are deep-copied on both
// put and get so a cached block can never be mutated through an alias held
// by a previous reader.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(ctx context.Context, blockID uint, locale string) (*v1alpha1.HydratedBlock, bool, error) {
	key := entryKey(blockID, locale)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.block.DeepCopy(), true, nil
}

func (c *MemoryCache) Put(ctx context.Context, blockID uint, locale string, block *v1alpha1.HydratedBlock, ttl time.Duration) error {
	entry := memoryEntry{block: block.DeepCopy()}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[entryKey(blockID, locale)] = entry
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) InvalidateAll(ctx context.Context, blockID uint) error {
	prefix := blockPrefix(blockID)
	c.mu.Lock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
	return nil
}
