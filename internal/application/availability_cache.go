package application

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// availabilityCache stores recently computed availability results to avoid
// re-running the room filter for identical queries while bookings remain
// unchanged. Any booking or room write invalidates the whole cache.
type availabilityCache struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]availabilityCacheEntry
}

type availabilityCacheEntry struct {
	rooms     []Room
	expiresAt time.Time
}

func newAvailabilityCache(ttl time.Duration, maxEntries int, now func() time.Time) *availabilityCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 128
	}
	if now == nil {
		now = time.Now
	}
	return &availabilityCache{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]availabilityCacheEntry),
	}
}

func (c *availabilityCache) Get(key string) ([]Room, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return cloneRooms(entry.rooms), true
}

func (c *availabilityCache) Store(key string, rooms []Room) {
	if c == nil {
		return
	}
	cloned := cloneRooms(rooms)
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[key] = availabilityCacheEntry{rooms: cloned, expiresAt: expiry}
}

func (c *availabilityCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]availabilityCacheEntry)
	c.mu.Unlock()
}

func (c *availabilityCache) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *availabilityCache) evictOneLocked() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}

func cloneRooms(rooms []Room) []Room {
	if len(rooms) == 0 {
		return nil
	}
	out := make([]Room, len(rooms))
	copy(out, rooms)
	return out
}

func buildAvailabilityCacheKey(query AvailabilityQuery) string {
	builder := strings.Builder{}
	builder.WriteString(query.Date)
	builder.WriteString("|")
	builder.WriteString(query.StartTime)
	builder.WriteString("|")
	builder.WriteString(strconv.Itoa(query.DurationMinutes))
	return builder.String()
}
