package engine

import (
	"context"
	"sync"
	"time"

	"apex-titan/models"
)

type cacheEntry struct {
	snapshot *models.AssetSnapshot
	storedAt time.Time
}

type inflightCall struct {
	done     chan struct{}
	snapshot *models.AssetSnapshot
	err      error
}

// SnapshotCache is a TTL cache over SnapshotBuilder.Build that guarantees at
// most one concurrent build per symbol. Concurrent callers for the same
// symbol share the one in-flight result instead of issuing duplicate fetches.
type SnapshotCache struct {
	mu       sync.Mutex
	builder  *SnapshotBuilder
	ttl      time.Duration
	entries  map[string]cacheEntry
	inflight map[string]*inflightCall
}

// NewSnapshotCache creates a cache over the builder. A TTL of 0 disables
// result caching but keeps the in-flight deduplication.
func NewSnapshotCache(builder *SnapshotBuilder, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		builder:  builder,
		ttl:      ttl,
		entries:  make(map[string]cacheEntry),
		inflight: make(map[string]*inflightCall),
	}
}

// Get returns a cached snapshot when fresh, otherwise builds one. Build
// errors are not cached; the next caller retries.
func (c *SnapshotCache) Get(ctx context.Context, symbol string) (*models.AssetSnapshot, error) {
	c.mu.Lock()

	if entry, ok := c.entries[symbol]; ok && time.Since(entry.storedAt) < c.ttl {
		c.mu.Unlock()
		return entry.snapshot, nil
	}

	if call, ok := c.inflight[symbol]; ok {
		c.mu.Unlock()
		select {
		case <-call.done:
			return call.snapshot, call.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	call := &inflightCall{done: make(chan struct{})}
	c.inflight[symbol] = call
	c.mu.Unlock()

	call.snapshot, call.err = c.builder.Build(ctx, symbol)
	close(call.done)

	c.mu.Lock()
	delete(c.inflight, symbol)
	if call.err == nil {
		c.entries[symbol] = cacheEntry{snapshot: call.snapshot, storedAt: time.Now()}
	}
	c.mu.Unlock()

	return call.snapshot, call.err
}

// Invalidate drops any cached snapshot for the symbol
func (c *SnapshotCache) Invalidate(symbol string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, symbol)
}
