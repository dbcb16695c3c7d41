package game

import (
	"context"
	"errors"
)

// ErrSnapshotNotFound is returned by a SnapshotStore that holds nothing for a player
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotStore persists whole game states.
//
// MergeWrite must merge the incoming state against the stored one with Merge,
// so a stale or regressed writer cannot lose progress already saved.
type SnapshotStore interface {
	Get(ctx context.Context, playerID string) (*State, error)
	MergeWrite(ctx context.Context, s *State) error
}
