package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/engine"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/inventory"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/machine"
)

func TestParseAction(t *testing.T) {
	gather, err := parseAction("gather", `{"resource":"wood"}`)
	require.NoError(t, err)
	explore, err := parseAction("EXPLORE", "")
	require.NoError(t, err)
	_, badJSON := parseAction("gather", `{resource`)
	_, unknown := parseAction("dance", "")

	assert.Equal(t, engine.Gather{Resource: "wood"}, gather)
	assert.Equal(t, engine.Explore{}, explore)
	assert.Error(t, badJSON)
	assert.Error(t, unknown)
}

func TestMaskPassword(t *testing.T) {
	assert.Equal(t, "postgres://ash:xxxxx@db:5432/wasteland", maskPassword("postgres://ash:secret@db:5432/wasteland"))
	assert.Equal(t, "postgres://db/wasteland", maskPassword("postgres://db/wasteland"))
}

func TestStateFormatter(t *testing.T) {
	// Arrange
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	next := now.Add(4 * time.Second)
	s := &game.State{
		PlayerID:  "ash",
		Location:  "scrapyard",
		Stats:     game.Stats{Health: 100, Hunger: 80, Thirst: 70, Energy: 60},
		Inventory: inventory.Inventory{"wood": 3, "scrap": 0},
		Machines: []machine.Machine{{
			ID: "extractor-1", Type: machine.TypeExtractor, Status: machine.StatusRunning,
			Recipe: "extract_ore", Progress: 0.5, OutputBuffer: inventory.Inventory{"iron_ore": 2},
		}},
		Log: []game.LogEntry{{Timestamp: now, Type: game.LogInfo, Message: "You wake up."}},
	}
	s.Queues.Charcoal.Count = 2
	s.Queues.Charcoal.NextCompletionAt = &next
	f := NewStateFormatter(false, now)

	// Act
	out := f.Format(s)
	log := f.FormatLog(s, 5)

	// Assert
	assert.Contains(t, out, "ash @ scrapyard")
	assert.Contains(t, out, "wood")
	assert.NotContains(t, out, "scrap ")
	assert.Contains(t, out, "└── extractor-1 [running] extract_ore 50%")
	assert.Contains(t, out, "out: iron_ore×2")
	assert.Contains(t, out, "charcoal     2 queued, next in 4s")
	assert.Contains(t, log, "12:00:00 info    You wake up.")
}

func TestRootCommand_RejectsUnconfirmedReset(t *testing.T) {
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"reset"})

	err := root.Execute()

	assert.ErrorContains(t, err, "--yes")
}
