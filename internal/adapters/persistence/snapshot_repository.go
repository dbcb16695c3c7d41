package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
)

// ErrSnapshotNotFound is returned when no snapshot exists for a player
var ErrSnapshotNotFound = game.ErrSnapshotNotFound

// GormSnapshotRepository stores game snapshots using GORM
type GormSnapshotRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormSnapshotRepository creates a new GORM snapshot repository
func NewGormSnapshotRepository(db *gorm.DB) *GormSnapshotRepository {
	return &GormSnapshotRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Get loads the snapshot of a player
func (r *GormSnapshotRepository) Get(ctx context.Context, playerID string) (*game.State, error) {
	var model GameSnapshotModel
	result := r.db.WithContext(ctx).Where("player_id = ?", playerID).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, playerID)
		}
		return nil, fmt.Errorf("failed to find snapshot: %w", result.Error)
	}
	return r.modelToState(&model)
}

// MergeWrite persists s, merged against the stored snapshot inside one transaction
// so that a stale writer can never regress what is already saved.
func (r *GormSnapshotRepository) MergeWrite(ctx context.Context, s *game.State) error {
	if s == nil || s.PlayerID == "" {
		return fmt.Errorf("snapshot has no player id")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var known *game.State
		var existing GameSnapshotModel
		q := tx
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		err := q.Where("player_id = ?", s.PlayerID).First(&existing).Error
		switch {
		case err == nil:
			known, err = r.modelToState(&existing)
			if err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return fmt.Errorf("failed to read snapshot: %w", err)
		}

		merged := game.Merge(known, s)
		model, err := r.stateToModel(merged)
		if err != nil {
			return err
		}
		if err := tx.Save(model).Error; err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
		return nil
	})
}

// Delete removes the snapshot of a player; deleting a missing snapshot is not an error
func (r *GormSnapshotRepository) Delete(ctx context.Context, playerID string) error {
	result := r.db.WithContext(ctx).Where("player_id = ?", playerID).Delete(&GameSnapshotModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete snapshot: %w", result.Error)
	}
	return nil
}

func (r *GormSnapshotRepository) modelToState(model *GameSnapshotModel) (*game.State, error) {
	var s game.State
	if err := json.Unmarshal([]byte(model.Data), &s); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", model.PlayerID, err)
	}
	s.PlayerID = model.PlayerID
	return &s, nil
}

func (r *GormSnapshotRepository) stateToModel(s *game.State) (*GameSnapshotModel, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return &GameSnapshotModel{
		PlayerID:    s.PlayerID,
		Data:        string(data),
		Level:       s.Progression.Level,
		Deaths:      s.Deaths,
		LastSavedAt: s.LastSavedAt,
		UpdatedAt:   r.now(),
	}, nil
}
