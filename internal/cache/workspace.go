// Package cache keeps chat workspaces in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aliskhannn/study-material-bot/internal/domain/workspace"
)

// ErrConflict is returned when optimistic retries are exhausted.
var ErrConflict = errors.New("workspace was modified concurrently")

const (
	keyPrefix  = "workspace:"
	maxRetries = 5
)

// WorkspaceCache stores workspaces as JSON values with a sliding TTL.
type WorkspaceCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClient initializes a Redis client from a redis:// URL.
func NewClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

// NewWorkspaceCache creates a WorkspaceCache. A zero ttl keeps keys forever.
func NewWorkspaceCache(rdb *redis.Client, ttl time.Duration) *WorkspaceCache {
	return &WorkspaceCache{rdb: rdb, ttl: ttl}
}

func key(chatID int64) string {
	return keyPrefix + strconv.FormatInt(chatID, 10)
}

// Load returns the workspace of a chat, or a fresh one.
func (c *WorkspaceCache) Load(ctx context.Context, chatID int64) (workspace.State, error) {
	return c.get(ctx, c.rdb, chatID)
}

// Update applies fn inside a WATCH transaction, retrying when the key changes underneath.
func (c *WorkspaceCache) Update(
	ctx context.Context, chatID int64, fn func(workspace.State) (workspace.State, error),
) (workspace.State, error) {
	k := key(chatID)

	var result workspace.State
	txf := func(tx *redis.Tx) error {
		cur, err := c.get(ctx, tx, chatID)
		if err != nil {
			return err
		}

		next, err := fn(cur)
		if err != nil {
			result = cur
			return err
		}
		next.UpdatedAt = time.Now()

		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode workspace: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, data, c.ttl)
			return nil
		})
		if err == nil {
			result = next
		}
		return err
	}

	for i := 0; i < maxRetries; i++ {
		err := c.rdb.Watch(ctx, txf, k)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return result, err
	}

	return result, ErrConflict
}

// Delete removes the workspace of a chat.
func (c *WorkspaceCache) Delete(ctx context.Context, chatID int64) error {
	return c.rdb.Del(ctx, key(chatID)).Err()
}

// Ping checks the connection.
func (c *WorkspaceCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (c *WorkspaceCache) get(ctx context.Context, cmd getter, chatID int64) (workspace.State, error) {
	raw, err := cmd.Get(ctx, key(chatID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return workspace.New(), nil
		}
		return workspace.State{}, fmt.Errorf("get workspace: %w", err)
	}

	st := workspace.New()
	if err := json.Unmarshal(raw, &st); err != nil {
		return workspace.State{}, fmt.Errorf("decode workspace: %w", err)
	}
	return st, nil
}
