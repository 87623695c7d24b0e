// Package cache keeps short-lived copies of order statuses in Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"honey-shop/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// keyOrderStatus maps order_status:{order_id} -> status
	keyOrderStatus = "order_status:%s"

	DefaultStatusTTL = 5 * time.Minute
)

// StatusCache is a read-through cache of order statuses
type StatusCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStatusCache creates a StatusCache on the given client
func NewStatusCache(rdb *redis.Client, ttl time.Duration) *StatusCache {
	if ttl <= 0 {
		ttl = DefaultStatusTTL
	}
	return &StatusCache{rdb: rdb, ttl: ttl}
}

func statusKey(orderID uuid.UUID) string {
	return fmt.Sprintf(keyOrderStatus, orderID)
}

// Get returns the cached status and whether it was present
func (c *StatusCache) Get(ctx context.Context, orderID uuid.UUID) (domain.OrderStatus, bool, error) {
	s, err := c.rdb.Get(ctx, statusKey(orderID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cached status: %w", err)
	}

	status := domain.OrderStatus(s)
	if !status.Valid() {
		return "", false, nil
	}
	return status, true, nil
}

// Fill stores status only when no entry exists. Read paths use it so a
// status loaded before a concurrent update cannot replace the newer one.
func (c *StatusCache) Fill(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	if err := c.rdb.SetNX(ctx, statusKey(orderID), string(status), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to fill status cache: %w", err)
	}
	return nil
}

// Set stores the status of an order
func (c *StatusCache) Set(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	if err := c.rdb.Set(ctx, statusKey(orderID), string(status), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache status: %w", err)
	}
	return nil
}
