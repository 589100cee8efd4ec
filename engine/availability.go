package engine

import (
	"context"
	"sync"
	"time"

	"apex-titan/observability"
	"apex-titan/services"
)

// AvailabilityCache caches the advisor reachability probe so frequent stream
// requests do not hammer the backend. A cached "unavailable" expires like any
// other entry, so a backend coming up is noticed after at most one TTL.
type AvailabilityCache struct {
	mu        sync.Mutex
	service   services.AdvisorService
	ttl       time.Duration
	available bool
	checkedAt time.Time
}

// NewAvailabilityCache creates a cache around the given advisor.
// A TTL of 0 re-probes on every call.
func NewAvailabilityCache(service services.AdvisorService, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{
		service: service,
		ttl:     ttl,
	}
}

// IsAvailable returns the cached probe result, refreshing it when stale.
// Any probe failure counts as unavailable.
func (c *AvailabilityCache) IsAvailable(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.checkedAt.IsZero() && time.Since(c.checkedAt) < c.ttl {
		return c.available
	}

	err := c.service.Ping(ctx)
	c.available = err == nil
	c.checkedAt = time.Now()

	if err != nil {
		observability.Warn("advisor probe failed",
			"advisor", c.service.Name(), "error", err)
	}
	return c.available
}

// Invalidate forces the next IsAvailable call to probe live
func (c *AvailabilityCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkedAt = time.Time{}
}
