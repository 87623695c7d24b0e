package cache

import (
	"context"
	"testing"
	"time"

	"honey-shop/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*StatusCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewStatusCache(rdb, time.Minute), mr
}

func TestStatusCache_MissThenHit(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	id := uuid.New()

	_, found, err := c.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, id, domain.OrderStatusShipped))

	status, found, err := c.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, domain.OrderStatusShipped, status)
}

func TestStatusCache_EntriesExpire(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, c.Set(ctx, id, domain.OrderStatusPending))
	mr.FastForward(2 * time.Minute)

	_, found, err := c.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStatusCache_FillKeepsExistingEntry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, c.Fill(ctx, id, domain.OrderStatusPending))
	status, found, err := c.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, domain.OrderStatusPending, status)

	require.NoError(t, c.Set(ctx, id, domain.OrderStatusProcessing))
	require.NoError(t, c.Fill(ctx, id, domain.OrderStatusPending))

	status, _, err = c.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusProcessing, status)
	assert.Greater(t, mr.TTL(statusKey(id)), time.Duration(0))
}

func TestStatusCache_IgnoresUnknownValues(t *testing.T) {
	c, mr := newTestCache(t)
	id := uuid.New()

	require.NoError(t, mr.Set(statusKey(id), "teleported"))

	_, found, err := c.Get(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStatusCache_ReportsRedisErrors(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	_, _, err := c.Get(context.Background(), uuid.New())
	assert.Error(t, err)
	assert.Error(t, c.Set(context.Background(), uuid.New(), domain.OrderStatusPending))
	assert.Error(t, c.Fill(context.Background(), uuid.New(), domain.OrderStatusPending))
}
