// Package cache provides a read-through Redis cache for user records. The
// gateway works without it; a nil *Users degrades every call to a miss.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/leeleeEcho/web3-dapp-store-sub000/pkg/auth"
)

const defaultTTL = 5 * time.Minute

// Users caches user records keyed by user id.
type Users struct {
	rc  *redis.Client
	ttl time.Duration
}

func NewUsers(rc *redis.Client, ttl time.Duration) *Users {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Users{rc: rc, ttl: ttl}
}

func (c *Users) key(id int64) string {
	return fmt.Sprintf("users:%d", id)
}

// Get returns the cached record, or (nil, nil) on a miss.
func (c *Users) Get(ctx context.Context, id int64) (*auth.User, error) {
	if c == nil || c.rc == nil {
		return nil, nil
	}
	raw, err := c.rc.Get(ctx, c.key(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}
	var u auth.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return &u, nil
}

// Set stores the record under its id.
func (c *Users) Set(ctx context.Context, u *auth.User) error {
	if c == nil || c.rc == nil {
		return nil
	}
	bytes, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}
	if err := c.rc.Set(ctx, c.key(u.ID), bytes, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Invalidate drops the record. Called after login so the rotated nonce and
// login timestamp are not served stale.
func (c *Users) Invalidate(ctx context.Context, id int64) error {
	if c == nil || c.rc == nil {
		return nil
	}
	if err := c.rc.Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}
