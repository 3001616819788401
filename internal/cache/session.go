// Package cache holds the last-known account snapshot per user in redis.
// The snapshot is refreshed after every committing operation so a reopened
// session can render the balance before the store answers. A nil client
// disables caching; every method is safe to call on a nil cache.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/dedovbet/backend/internal/models"
)

const snapshotTTL = 24 * time.Hour

type SessionCache struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *SessionCache {
	return &SessionCache{rdb: rdb}
}

func key(username string) string {
	return "session:" + strings.ToLower(username)
}

// PutAccount stores the snapshot, overwriting any previous one.
func (c *SessionCache) PutAccount(ctx context.Context, account models.PublicAccount) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return c.rdb.Set(ctx, key(account.Username), data, snapshotTTL).Err()
}

// GetAccount returns the cached snapshot, or redis.Nil when none exists.
func (c *SessionCache) GetAccount(ctx context.Context, username string) (*models.PublicAccount, error) {
	if c == nil || c.rdb == nil {
		return nil, redis.Nil
	}
	data, err := c.rdb.Get(ctx, key(username)).Bytes()
	if err != nil {
		return nil, err
	}
	var account models.PublicAccount
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &account, nil
}

// Delete drops the snapshot on logout.
func (c *SessionCache) Delete(ctx context.Context, username string) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, key(username)).Err()
}
