package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/contacthub/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryUserCache_SetAndGet(t *testing.T) {
	c := cache.NewInMemoryUserCache()
	ctx := context.Background()

	user := &cache.CachedUser{
		ID:       uuid.New(),
		Email:    "alice@example.com",
		Verified: true,
		Active:   true,
		Version:  3,
	}

	err := c.Set(ctx, user, 1*time.Hour)
	require.NoError(t, err)

	got, err := c.Get(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.Email, got.Email)
	assert.Equal(t, user.Version, got.Version)
	assert.True(t, got.Verified)
}

func TestInMemoryUserCache_MissReturnsNil(t *testing.T) {
	c := cache.NewInMemoryUserCache()

	got, err := c.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInMemoryUserCache_Expiration(t *testing.T) {
	c := cache.NewInMemoryUserCache()
	ctx := context.Background()

	user := &cache.CachedUser{ID: uuid.New(), Email: "short@example.com"}
	err := c.Set(ctx, user, 1*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	got, err := c.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInMemoryUserCache_Invalidate(t *testing.T) {
	c := cache.NewInMemoryUserCache()
	ctx := context.Background()

	user := &cache.CachedUser{ID: uuid.New(), Email: "bob@example.com"}
	require.NoError(t, c.Set(ctx, user, 1*time.Hour))

	err := c.Invalidate(ctx, user.ID)
	require.NoError(t, err)

	got, err := c.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInMemoryUserCache_GetReturnsCopy(t *testing.T) {
	c := cache.NewInMemoryUserCache()
	ctx := context.Background()

	user := &cache.CachedUser{ID: uuid.New(), Email: "carol@example.com"}
	require.NoError(t, c.Set(ctx, user, 1*time.Hour))

	first, err := c.Get(ctx, user.ID)
	require.NoError(t, err)
	first.Email = "mutated@example.com"

	second, err := c.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", second.Email)
}

func TestUserCache_Interfaces(t *testing.T) {
	var _ cache.UserCache = (*cache.InMemoryUserCache)(nil)
	var _ cache.UserCache = (*cache.RedisUserCache)(nil)
}
