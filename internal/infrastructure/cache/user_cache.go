package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CachedUser is the snapshot of a user kept in the cache. It carries
// only what request handling needs between token validation and the
// handler, so a cache hit avoids a database round trip.
type CachedUser struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Verified  bool      `json:"verified"`
	Active    bool      `json:"active"`
	Version   int64     `json:"version"`
}

// UserCache caches authenticated user snapshots keyed by user ID
type UserCache interface {
	// Get returns the cached snapshot, or (nil, nil) on a miss
	Get(ctx context.Context, userID uuid.UUID) (*CachedUser, error)

	// Set stores a snapshot with the given TTL
	Set(ctx context.Context, user *CachedUser, ttl time.Duration) error

	// Invalidate removes a user's snapshot, e.g. after a profile update
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// RedisUserCache implements UserCache on Redis
type RedisUserCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisUserCache creates a user cache backed by an existing Redis client
func NewRedisUserCache(client *redis.Client) *RedisUserCache {
	return &RedisUserCache{
		client:    client,
		keyPrefix: "user:current:",
	}
}

func (c *RedisUserCache) key(userID uuid.UUID) string {
	return c.keyPrefix + userID.String()
}

// Get returns the cached snapshot, or (nil, nil) on a miss
func (c *RedisUserCache) Get(ctx context.Context, userID uuid.UUID) (*CachedUser, error) {
	data, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user cache: %w", err)
	}

	var user CachedUser
	if err := json.Unmarshal(data, &user); err != nil {
		// Corrupt entry, treat as a miss and drop it
		_ = c.client.Del(ctx, c.key(userID)).Err()
		return nil, nil
	}

	return &user, nil
}

// Set stores a snapshot with the given TTL
func (c *RedisUserCache) Set(ctx context.Context, user *CachedUser, ttl time.Duration) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to serialize user for cache: %w", err)
	}

	if err := c.client.Set(ctx, c.key(user.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write user cache: %w", err)
	}

	return nil
}

// Invalidate removes a user's snapshot
func (c *RedisUserCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate user cache: %w", err)
	}
	return nil
}

var _ UserCache = (*RedisUserCache)(nil)

// InMemoryUserCache provides an in-memory implementation for testing
type InMemoryUserCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]inMemoryEntry
}

type inMemoryEntry struct {
	user      CachedUser
	expiresAt time.Time
}

// NewInMemoryUserCache creates a new in-memory user cache
func NewInMemoryUserCache() *InMemoryUserCache {
	return &InMemoryUserCache{
		entries: make(map[uuid.UUID]inMemoryEntry),
	}
}

// Get returns the cached snapshot, or (nil, nil) on a miss
func (c *InMemoryUserCache) Get(_ context.Context, userID uuid.UUID) (*CachedUser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[userID]
	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.entries, userID)
		return nil, nil
	}

	user := entry.user
	return &user, nil
}

// Set stores a snapshot with the given TTL
func (c *InMemoryUserCache) Set(_ context.Context, user *CachedUser, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[user.ID] = inMemoryEntry{
		user:      *user,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Invalidate removes a user's snapshot
func (c *InMemoryUserCache) Invalidate(_ context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
	return nil
}

var _ UserCache = (*InMemoryUserCache)(nil)
