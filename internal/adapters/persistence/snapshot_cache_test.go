package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/adapters/persistence"
	"github.com/Cea89585/Wasteland-Automata-sub000/test/helpers"
)

// unreachableRedis points at a port nothing listens on, so every call fails fast
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSnapshotCache_FallsThroughWhenRedisIsDown(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := persistence.NewGormSnapshotRepository(helpers.NewTestDB(t))
	cache := persistence.NewRedisSnapshotCache(unreachableRedis(t), repo, time.Minute, zap.NewNop())
	s := newSnapshot("ash", t0)
	s.Coins = 9

	// Act
	writeErr := cache.MergeWrite(ctx, s)
	found, readErr := cache.Get(ctx, "ash")

	// Assert
	require.NoError(t, writeErr)
	require.NoError(t, readErr)
	assert.Equal(t, 9, found.Coins)
}

func TestSnapshotCache_MissingSnapshotPropagates(t *testing.T) {
	repo := persistence.NewGormSnapshotRepository(helpers.NewTestDB(t))
	cache := persistence.NewRedisSnapshotCache(unreachableRedis(t), repo, time.Minute, nil)

	_, err := cache.Get(context.Background(), "nobody")

	assert.ErrorIs(t, err, persistence.ErrSnapshotNotFound)
}

func TestNewRedisClient_FailsWithoutServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := persistence.NewRedisClient(ctx, "127.0.0.1:1", "", 0)

	assert.Error(t, err)
}

func TestSnapshotCache_DeleteReachesBackingStore(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewGormSnapshotRepository(helpers.NewTestDB(t))
	cache := persistence.NewRedisSnapshotCache(unreachableRedis(t), repo, time.Minute, nil)
	require.NoError(t, cache.MergeWrite(ctx, newSnapshot("ash", t0)))

	err := cache.Delete(ctx, "ash")

	require.NoError(t, err)
	_, err = repo.Get(ctx, "ash")
	assert.ErrorIs(t, err, persistence.ErrSnapshotNotFound)
}
