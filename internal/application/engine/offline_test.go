package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/engine"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/inventory"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/production"
)

func TestOfflineTicks(t *testing.T) {
	tests := []struct {
		name  string
		since time.Time
		now   time.Time
		want  int
	}{
		{"same instant", t0, t0, 0},
		{"clock went backwards", t0, t0.Add(-time.Minute), 0},
		{"partial tick is dropped", t0, t0.Add(2500 * time.Millisecond), 2},
		{"hundred seconds", t0, t0.Add(100 * time.Second), 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.OfflineTicks(tt.since, tt.now, time.Second))
		})
	}
}

func TestReconcile_BelowMinimumIsNoop(t *testing.T) {
	c := newCore(t, nil)
	s := newState(t, c)

	for _, gap := range []time.Duration{0, 9 * time.Second} {
		out, report := c.Reconcile(s, t0.Add(gap))

		assert.Same(t, s, out)
		assert.False(t, report.Applied)
	}
}

func TestReconcile_DeadPlayerDoesNotRecover(t *testing.T) {
	// Arrange
	c := newCore(t, nil)
	s := newState(t, c)
	s.Stats.Health = 0
	s.Stats.Energy = 10
	s.Deaths = 1

	// Act
	out, report := c.Reconcile(s, t0.Add(100*time.Second))

	// Assert
	require.True(t, report.Applied)
	assert.Zero(t, report.Energy)
	assert.Equal(t, 10.0, out.Stats.Energy)
	assert.Zero(t, out.Stats.Health)
	assert.Equal(t, 1, out.Deaths)
}

func TestReconcile_CatchesUpPassiveSystems(t *testing.T) {
	// Arrange
	c := newCore(t, nil)
	s := newState(t, c)
	s.Inventory = inventory.Inventory{}
	s.BuiltStructures["water_purifier"] = true
	s.Stats.Energy = 60
	logsBefore := len(s.Log)

	// Act
	out, report := c.Reconcile(s, t0.Add(100*time.Second))

	// Assert
	require.True(t, report.Applied)
	assert.Equal(t, 100, report.Ticks)
	assert.Equal(t, 50, out.Inventory.Get("clean_water"))
	assert.Equal(t, 100.0, out.Stats.Energy)
	assert.Equal(t, 40.0, report.Energy)
	assert.Zero(t, out.Power)
	assert.Equal(t, 50, report.PowerDrained)
	assert.Len(t, out.Log, logsBefore+3)
	assert.Equal(t, t0.Add(100*time.Second), out.LastSavedAt)
	assert.Equal(t, 60.0, s.Stats.Energy, "input state must not be touched")
}

func TestReconcile_PartialPowerDrain(t *testing.T) {
	c := newCore(t, nil)
	s := newState(t, c)

	out, report := c.Reconcile(s, t0.Add(20*time.Second))

	assert.Equal(t, 30, out.Power)
	assert.Equal(t, 20, report.PowerDrained)
	assert.Contains(t, out.Log[0].Message, "burned 20 power")
}

func TestInitialize_SnapshotReconcilesAndRearmsTimers(t *testing.T) {
	// Arrange: a saved game with a running charcoal chain
	c := newCore(t, nil)
	snap := newState(t, c)
	snap.Initialized = false
	snap.Inventory = inventory.Inventory{"wood": 10}
	snap = apply(t, c, snap, engine.StartBatch{Family: production.FamilyCharcoal, Amount: 2}, t0).State
	snap.Initialized = false

	// Act
	res := c.Apply(nil, engine.Initialize{PlayerID: "player-1", Snapshot: snap}, t0.Add(15*time.Second))

	// Assert
	require.NoError(t, res.Err)
	assert.True(t, res.State.Initialized)
	require.NotNil(t, res.Offline)
	assert.True(t, res.Offline.Applied)
	assert.Equal(t, 15, res.Offline.Ticks)
	require.Len(t, res.Effects, 1)
	assert.Equal(t, engine.ScheduleBatch{Family: production.FamilyCharcoal, At: t0.Add(10 * time.Second)}, res.Effects[0])
	assert.Contains(t, res.State.Log[0].Message, "Welcome back")
}

func TestInitialize_FreshGame(t *testing.T) {
	c := newCore(t, nil)

	res := c.Apply(nil, engine.Initialize{PlayerID: "player-9"}, t0)
	missing := c.Apply(nil, engine.Initialize{}, t0)

	require.NoError(t, res.Err)
	assert.Equal(t, "player-9", res.State.PlayerID)
	assert.Equal(t, "scrapyard", res.State.Location)
	assert.Equal(t, 10, res.State.Inventory.Get("wood"))
	assert.Error(t, missing.Err)
}
