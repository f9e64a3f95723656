package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type page struct {
	Items []string `json:"items"`
	Total int64    `json:"total"`
}

func TestInMemoryCache_SetGetDelete(t *testing.T) {
	c := NewInMemoryCache(time.Minute, time.Hour)
	defer c.Stop()
	ctx := context.Background()

	var got page
	hit, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "k", page{Items: []string{"a"}, Total: 7}, 0))

	hit, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, page{Items: []string{"a"}, Total: 7}, got)

	require.NoError(t, c.Delete(ctx, "k"))
	hit, _ = c.Get(ctx, "k", &got)
	assert.False(t, hit)
}

func TestInMemoryCache_Expiration(t *testing.T) {
	c := NewInMemoryCache(time.Minute, time.Hour)
	defer c.Stop()
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "corto", "x", 1))
	require.NoError(t, c.Set(ctx, "por defecto", "y", 0))

	now = now.Add(2 * time.Second)

	var s string
	hit, _ := c.Get(ctx, "corto", &s)
	assert.False(t, hit, "el TTL explícito de 1s ya venció")
	hit, _ = c.Get(ctx, "por defecto", &s)
	assert.True(t, hit)

	c.evictExpired()
	c.mu.RLock()
	assert.Len(t, c.store, 1)
	c.mu.RUnlock()

	c.Stop()
	c.Stop()
}

func TestSearchKey(t *testing.T) {
	a := SearchKey("user", "SELECT u.UserId\nFROM users AS u")
	b := SearchKey("user", "SELECT u.UserId\nFROM users AS u")
	other := SearchKey("user", "SELECT u.UserId\nFROM users AS u\nLIMIT 10 OFFSET 0")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, other)
	assert.True(t, strings.HasPrefix(a, "user:search:"))
	assert.Len(t, strings.TrimPrefix(a, "user:search:"), 64)
}
