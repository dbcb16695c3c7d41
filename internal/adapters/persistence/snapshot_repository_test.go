package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/adapters/persistence"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/infrastructure/catalogfile"
	"github.com/Cea89585/Wasteland-Automata-sub000/test/helpers"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newSnapshot(playerID string, savedAt time.Time) *game.State {
	return game.New(playerID, catalogfile.MustDefault(), savedAt)
}

func TestSnapshotRepository_WriteAndGet(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := persistence.NewGormSnapshotRepository(helpers.NewTestDB(t))
	s := newSnapshot("ash", t0)
	s.Coins = 42
	s.Inventory["charcoal"] = 3

	// Act
	err := repo.MergeWrite(ctx, s)
	require.NoError(t, err)
	found, err := repo.Get(ctx, "ash")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 42, found.Coins)
	assert.Equal(t, 3, found.Inventory.Get("charcoal"))
	assert.True(t, t0.Equal(found.LastSavedAt))
}

func TestSnapshotRepository_GetMissing(t *testing.T) {
	repo := persistence.NewGormSnapshotRepository(helpers.NewTestDB(t))

	_, err := repo.Get(context.Background(), "nobody")

	assert.ErrorIs(t, err, persistence.ErrSnapshotNotFound)
}

func TestSnapshotRepository_MergeWriteNeverRegresses(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := persistence.NewGormSnapshotRepository(helpers.NewTestDB(t))
	known := newSnapshot("ash", t0)
	known.DisplayName = "Ash"
	known.DisplayNameSetAt = t0
	known.Progression.Level = 4
	known.Deaths = 2
	require.NoError(t, repo.MergeWrite(ctx, known))

	incoming := newSnapshot("ash", t0.Add(time.Minute))
	incoming.Coins = 7

	// Act
	require.NoError(t, repo.MergeWrite(ctx, incoming))
	found, err := repo.Get(ctx, "ash")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Ash", found.DisplayName)
	assert.Equal(t, 4, found.Progression.Level)
	assert.Equal(t, 2, found.Deaths)
	assert.Equal(t, 7, found.Coins)
}

func TestSnapshotRepository_StaleWriteIsIgnored(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewGormSnapshotRepository(helpers.NewTestDB(t))
	fresh := newSnapshot("ash", t0.Add(time.Hour))
	fresh.Coins = 100
	require.NoError(t, repo.MergeWrite(ctx, fresh))
	stale := newSnapshot("ash", t0)

	require.NoError(t, repo.MergeWrite(ctx, stale))
	found, err := repo.Get(ctx, "ash")

	require.NoError(t, err)
	assert.Equal(t, 100, found.Coins)
}

func TestSnapshotRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewGormSnapshotRepository(helpers.NewTestDB(t))
	require.NoError(t, repo.MergeWrite(ctx, newSnapshot("ash", t0)))

	require.NoError(t, repo.Delete(ctx, "ash"))
	_, err := repo.Get(ctx, "ash")

	assert.ErrorIs(t, err, persistence.ErrSnapshotNotFound)
	assert.NoError(t, repo.Delete(ctx, "ash"))
}

func TestSnapshotRepository_RejectsAnonymousSnapshot(t *testing.T) {
	repo := persistence.NewGormSnapshotRepository(helpers.NewTestDB(t))

	err := repo.MergeWrite(context.Background(), &game.State{})

	assert.Error(t, err)
}
