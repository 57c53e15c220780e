package chat

import (
	"sync"
	"time"
)

// Profile is the immutable display snapshot the aggregator needs for a
// conversation partner. Entries are overwritten wholesale, never
// partially mutated, so concurrent readers only ever see a complete
// snapshot.
type Profile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Image    string `json:"image"`

	// IsOnline is live presence, stamped by the view layer after
	// aggregation. Never cached.
	IsOnline bool `json:"isOnline"`
}

// ProfileResolver looks up a partner's display profile by id.
type ProfileResolver func(userID string) (Profile, error)

// DefaultProfileTTL bounds staleness after profile edits.
const DefaultProfileTTL = time.Hour

type cacheEntry struct {
	profile   Profile
	expiresAt time.Time
}

// ProfileCache is an injectable TTL cache for partner profiles.
// The clock is injected so tests can control time.
type ProfileCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewProfileCache creates a cache with the given TTL. A nil clock
// defaults to time.Now.
func NewProfileCache(ttl time.Duration, now func() time.Time) *ProfileCache {
	if now == nil {
		now = time.Now
	}
	return &ProfileCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     now,
	}
}

// Get returns the cached profile for userID if present and unexpired.
func (c *ProfileCache) Get(userID string) (Profile, bool) {
	c.mu.RLock()
	entry, ok := c.entries[userID]
	c.mu.RUnlock()
	if !ok || c.now().After(entry.expiresAt) {
		return Profile{}, false
	}
	return entry.profile, true
}

// Set stores a profile snapshot, resetting its TTL.
func (c *ProfileCache) Set(p Profile) {
	c.mu.Lock()
	c.entries[p.ID] = cacheEntry{profile: p, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Invalidate drops a single entry (profile edit, avatar change).
func (c *ProfileCache) Invalidate(userID string) {
	c.mu.Lock()
	delete(c.entries, userID)
	c.mu.Unlock()
}

// Resolver wraps an uncached resolver with this cache.
func (c *ProfileCache) Resolver(lookup ProfileResolver) ProfileResolver {
	return func(userID string) (Profile, error) {
		if p, ok := c.Get(userID); ok {
			return p, nil
		}
		p, err := lookup(userID)
		if err != nil {
			return Profile{}, err
		}
		c.Set(p)
		return p, nil
	}
}
