package chat

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProfileCacheSetGet(t *testing.T) {
	cache := NewProfileCache(time.Hour, nil)

	cache.Set(Profile{ID: "u1", Name: "Ann"})

	p, ok := cache.Get("u1")
	assert.True(t, ok)
	assert.Equal(t, "Ann", p.Name)

	_, ok = cache.Get("u2")
	assert.False(t, ok)
}

func TestProfileCacheTTLExpiry(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	cache := NewProfileCache(time.Hour, clock)

	cache.Set(Profile{ID: "u1", Name: "Ann"})

	_, ok := cache.Get("u1")
	assert.True(t, ok)

	// Advance past the TTL
	now = now.Add(time.Hour + time.Second)
	_, ok = cache.Get("u1")
	assert.False(t, ok)
}

func TestProfileCacheInvalidate(t *testing.T) {
	cache := NewProfileCache(time.Hour, nil)
	cache.Set(Profile{ID: "u1", Name: "Ann"})

	cache.Invalidate("u1")

	_, ok := cache.Get("u1")
	assert.False(t, ok)
}

func TestProfileCacheResolverCachesLookups(t *testing.T) {
	cache := NewProfileCache(time.Hour, nil)
	calls := 0
	resolver := cache.Resolver(func(userID string) (Profile, error) {
		calls++
		return Profile{ID: userID, Name: "Ann"}, nil
	})

	p, err := resolver("u1")
	assert.NoError(t, err)
	assert.Equal(t, "Ann", p.Name)

	_, err = resolver("u1")
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestProfileCacheResolverDoesNotCacheErrors(t *testing.T) {
	cache := NewProfileCache(time.Hour, nil)
	calls := 0
	resolver := cache.Resolver(func(userID string) (Profile, error) {
		calls++
		return Profile{}, errors.New("boom")
	})

	_, err := resolver("u1")
	assert.Error(t, err)
	_, err = resolver("u1")
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}
