package persistence

import (
	"time"
)

// GameSnapshotModel represents the game_snapshots table.
// The whole game state is stored as one JSON document per player.
type GameSnapshotModel struct {
	PlayerID    string    `gorm:"column:player_id;primaryKey;not null"`
	Data        string    `gorm:"column:data;type:text;not null"` // JSON stored as string
	Level       int       `gorm:"column:level;not null;default:1"`
	Deaths      int       `gorm:"column:deaths;not null;default:0"`
	LastSavedAt time.Time `gorm:"column:last_saved_at;not null;index"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null"`
}

func (GameSnapshotModel) TableName() string {
	return "game_snapshots"
}
