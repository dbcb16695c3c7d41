package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
)

var (
	_ game.SnapshotStore = (*GormSnapshotRepository)(nil)
	_ game.SnapshotStore = (*RedisSnapshotCache)(nil)
)

// SnapshotDeleter removes a player's stored game
type SnapshotDeleter interface {
	Delete(ctx context.Context, playerID string) error
}

const snapshotKeyPrefix = "wasteland:snapshot:"

// RedisSnapshotCache is a read-through cache in front of another game.SnapshotStore.
//
// Redis failures never fail a call: reads fall through to the backing store
// and writes only invalidate. The backing store stays the source of truth.
type RedisSnapshotCache struct {
	client *redis.Client
	next   game.SnapshotStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisSnapshotCache wraps next with a redis cache whose entries expire after ttl
func NewRedisSnapshotCache(client *redis.Client, next game.SnapshotStore, ttl time.Duration, logger *zap.Logger) *RedisSnapshotCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSnapshotCache{
		client: client,
		next:   next,
		ttl:    ttl,
		logger: logger.Named("SnapshotCache"),
	}
}

func snapshotKey(playerID string) string {
	return snapshotKeyPrefix + playerID
}

// Get returns the cached snapshot, loading and caching it from the backing store on a miss
func (c *RedisSnapshotCache) Get(ctx context.Context, playerID string) (*game.State, error) {
	key := snapshotKey(playerID)
	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached game.State
		jsonErr := json.Unmarshal(raw, &cached)
		if jsonErr == nil {
			c.logger.Debug("snapshot cache hit", zap.String("playerID", playerID))
			return &cached, nil
		}
		c.logger.Warn("dropping undecodable cached snapshot", zap.String("key", key), zap.Error(jsonErr))
	case errors.Is(err, redis.Nil):
		c.logger.Debug("snapshot cache miss", zap.String("playerID", playerID))
	default:
		c.logger.Warn("snapshot cache read failed", zap.String("key", key), zap.Error(err))
	}

	s, err := c.next.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, s)
	return s, nil
}

// MergeWrite writes through to the backing store and invalidates the cached copy,
// since the stored document is the merge result rather than s itself.
func (c *RedisSnapshotCache) MergeWrite(ctx context.Context, s *game.State) error {
	if err := c.next.MergeWrite(ctx, s); err != nil {
		return err
	}
	if err := c.client.Del(ctx, snapshotKey(s.PlayerID)).Err(); err != nil {
		c.logger.Warn("snapshot cache invalidation failed", zap.String("playerID", s.PlayerID), zap.Error(err))
	}
	return nil
}

// Delete removes the snapshot from the backing store, when it supports deletion, and from the cache
func (c *RedisSnapshotCache) Delete(ctx context.Context, playerID string) error {
	if d, ok := c.next.(SnapshotDeleter); ok {
		if err := d.Delete(ctx, playerID); err != nil {
			return err
		}
	}
	if err := c.client.Del(ctx, snapshotKey(playerID)).Err(); err != nil {
		c.logger.Warn("snapshot cache invalidation failed", zap.String("playerID", playerID), zap.Error(err))
	}
	return nil
}

func (c *RedisSnapshotCache) store(ctx context.Context, s *game.State) {
	data, err := json.Marshal(s)
	if err != nil {
		c.logger.Warn("snapshot not cacheable", zap.String("playerID", s.PlayerID), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, snapshotKey(s.PlayerID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("snapshot cache write failed", zap.String("playerID", s.PlayerID), zap.Error(err))
	}
}

// NewRedisClient opens a client and checks the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}
