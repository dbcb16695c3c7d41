package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
)

// Autosaver debounces snapshot writes on simulated time.
//
// The limiter is fed the dispatcher clock, not the wall clock, so the save
// cadence follows the simulation in tests and in replays alike.
type Autosaver struct {
	store   game.SnapshotStore
	limiter *rate.Limiter
	logger  *zap.Logger

	mu      sync.Mutex
	pending *game.State

	// serializes writes so they reach the store in observation order
	writeMu sync.Mutex
}

// NewAutosaver allows at most one save per interval
func NewAutosaver(store game.SnapshotStore, interval time.Duration, logger *zap.Logger) *Autosaver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Autosaver{
		store:   store,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		logger:  logger.Named("Autosaver"),
	}
}

// Observe records s as the latest unsaved state and reports whether a save is due at now
func (a *Autosaver) Observe(s *game.State, now time.Time) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = s
	return a.limiter.AllowN(now, 1)
}

// Pending reports whether an observed state has not been written yet
func (a *Autosaver) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending != nil
}

// Save writes the pending state, stamped with now, if there is one
func (a *Autosaver) Save(ctx context.Context, now time.Time) error {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	a.mu.Lock()
	s := a.pending
	a.pending = nil
	a.mu.Unlock()
	if s == nil {
		return nil
	}

	snapshot := s.Clone()
	snapshot.LastSavedAt = now
	if err := a.store.MergeWrite(ctx, snapshot); err != nil {
		a.mu.Lock()
		if a.pending == nil {
			a.pending = s
		}
		a.mu.Unlock()
		return fmt.Errorf("failed to save snapshot for %s: %w", s.PlayerID, err)
	}

	a.logger.Debug("snapshot saved",
		zap.String("playerID", s.PlayerID),
		zap.Time("savedAt", now),
		zap.Int64("tick", s.TickCount),
	)
	return nil
}
