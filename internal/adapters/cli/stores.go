package cli

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/adapters/persistence"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/infrastructure/config"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/infrastructure/database"
)

// snapshotStore is the configured store plus the handles that must be closed
type snapshotStore struct {
	game.SnapshotStore
	persistence.SnapshotDeleter
	db      *gorm.DB
	closeFn func()
}

// openSnapshotStore opens the database and, when enabled, the redis cache in front of it
func openSnapshotStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*snapshotStore, error) {
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	repo := persistence.NewGormSnapshotRepository(db)
	st := &snapshotStore{SnapshotStore: repo, SnapshotDeleter: repo, db: db, closeFn: func() {}}

	if cfg.Cache.Enabled {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		client, err := persistence.NewRedisClient(pingCtx, cfg.Cache.RedisAddr, cfg.Cache.Password, cfg.Cache.DB)
		if err != nil {
			logger.Warn("snapshot cache disabled", zap.Error(err))
		} else {
			cache := persistence.NewRedisSnapshotCache(client, repo, cfg.Cache.TTL, logger)
			st.SnapshotStore, st.SnapshotDeleter = cache, cache
			st.closeFn = func() { _ = client.Close() }
		}
	}
	return st, nil
}

func (s *snapshotStore) Close() {
	s.closeFn()
	_ = database.Close(s.db)
}

// readOnlyStore loads saved games but discards writes
type readOnlyStore struct {
	game.SnapshotStore
}

func (readOnlyStore) MergeWrite(context.Context, *game.State) error {
	return nil
}
