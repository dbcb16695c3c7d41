package helpers

import (
	"testing"

	"gorm.io/gorm"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/infrastructure/database"
)

// NewTestDB opens an in-memory save database with the snapshot table
// migrated; it is closed when the test ends.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewTestConnection()
	if err != nil {
		t.Fatalf("open save database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
