// Package redis caches the feed snapshot in Redis. The whole feed is cached
// as one value because clients refetch the entire collection after every
// mutation; per-floot entries would never be read individually.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/flutterer/flutterer/api"
)

// Redis provides feed caching in Redis.
type Redis struct {
	cli *redis.Client
}

// Connect connects to the Redis server and pings the server to ensure the
// connection is working.
func Connect(ctx context.Context, addr string) (*Redis, error) {
	cli := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := cli.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{
		cli: cli,
	}, nil
}

const (
	feedKey = "flutterer:feed"
	feedTTL = time.Minute
)

// Feed returns the cached feed snapshot, or nil without error on a cache
// miss.
func (r *Redis) Feed(ctx context.Context) ([]api.Floot, error) {
	val, err := r.cli.Get(ctx, feedKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get feed: %w", err)
	}
	var floots []api.Floot
	if err := json.Unmarshal(val, &floots); err != nil {
		return nil, fmt.Errorf("unmarshal feed: %w", err)
	}
	if floots == nil {
		floots = []api.Floot{}
	}
	return floots, nil
}

// SetFeed replaces the cached feed snapshot.
func (r *Redis) SetFeed(ctx context.Context, floots []api.Floot) error {
	val, err := json.Marshal(floots)
	if err != nil {
		return fmt.Errorf("marshal feed: %w", err)
	}
	if err := r.cli.Set(ctx, feedKey, val, feedTTL).Err(); err != nil {
		return fmt.Errorf("set feed: %w", err)
	}
	return nil
}

// DropFeed invalidates the cached feed snapshot.
func (r *Redis) DropFeed(ctx context.Context) error {
	if err := r.cli.Del(ctx, feedKey).Err(); err != nil {
		return fmt.Errorf("del feed: %w", err)
	}
	return nil
}
