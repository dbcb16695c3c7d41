package drone_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/drone"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
)

// fixedRoller always returns the same index, so every roll hits the first entry with weight.
type fixedRoller struct{ n int }

func (f fixedRoller) IntN(int) int     { return f.n }
func (f fixedRoller) Float64() float64 { return 0 }

var now = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func TestEnqueue_RespectsLimit(t *testing.T) {
	// Arrange
	s := drone.State{QueueCount: 10}

	// Act
	err := s.Enqueue(1, 10)

	// Assert
	var full *shared.QueueFullError
	require.ErrorAs(t, err, &full)
	assert.Equal(t, 10, s.QueueCount)
}

func TestEnqueue_HugeAmountDoesNotWrap(t *testing.T) {
	s := drone.State{QueueCount: 3}

	err := s.Enqueue(math.MaxInt, 10)

	var full *shared.QueueFullError
	require.ErrorAs(t, err, &full)
	assert.Equal(t, 3, s.QueueCount)
}

func TestEnqueue_RejectsNonPositive(t *testing.T) {
	s := drone.State{}

	assert.Error(t, s.Enqueue(0, 10))
}

func TestLaunch_RequiresPower(t *testing.T) {
	s := drone.State{QueueCount: 1}

	assert.False(t, s.CanLaunch(0))
	assert.Error(t, s.Launch(now, time.Minute, 0))
	assert.Equal(t, 1, s.QueueCount)
}

func TestLaunch_SetsReturnTime(t *testing.T) {
	s := drone.State{QueueCount: 2}

	require.NoError(t, s.Launch(now, time.Minute, 5))

	assert.True(t, s.Active)
	assert.Equal(t, 1, s.QueueCount)
	require.NotNil(t, s.ReturnAt)
	assert.Equal(t, now.Add(time.Minute), *s.ReturnAt)
	assert.False(t, s.CanLaunch(5), "only one mission at a time")
}

func TestResolve_ScalesAndRoundsUp(t *testing.T) {
	// Arrange
	s := drone.State{QueueCount: 1}
	require.NoError(t, s.Launch(now, time.Minute, 1))
	table := drone.LootTable{{Resource: "scrap", Weight: 3, Amount: 2}, {Resource: "wood", Weight: 1, Amount: 1}}

	// Act: multiplier 1.21 turns 2 into ceil(2.42)=3 per roll
	haul, err := s.Resolve(now.Add(time.Minute), table, 15, drone.YieldMultiplier(1, 1), fixedRoller{n: 0})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"scrap": 45}, haul)
	assert.False(t, s.Active)
	assert.Nil(t, s.ReturnAt)
	assert.Equal(t, 1, s.MissionsCompleted)
}

func TestResolve_BeforeReturn(t *testing.T) {
	s := drone.State{QueueCount: 1}
	require.NoError(t, s.Launch(now, time.Minute, 1))

	_, err := s.Resolve(now.Add(59*time.Second), drone.LootTable{{Resource: "scrap", Weight: 1, Amount: 1}}, 15, 1, fixedRoller{})

	assert.Error(t, err)
	assert.True(t, s.Active)
}

func TestLootTable_PickByWeight(t *testing.T) {
	table := drone.LootTable{{Resource: "scrap", Weight: 3}, {Resource: "wood", Weight: 1}}

	first, ok := table.Pick(fixedRoller{n: 2})
	require.True(t, ok)
	assert.Equal(t, "scrap", first.Resource)

	last, ok := table.Pick(fixedRoller{n: 3})
	require.True(t, ok)
	assert.Equal(t, "wood", last.Resource)

	_, ok = drone.LootTable{}.Pick(fixedRoller{})
	assert.False(t, ok)
}

func TestYieldMultiplier(t *testing.T) {
	assert.InDelta(t, 1.0, drone.YieldMultiplier(0, 0), 1e-9)
	assert.InDelta(t, 1.32, drone.YieldMultiplier(2, 1), 1e-9)
}

func TestNormalize(t *testing.T) {
	s := drone.State{QueueCount: 14, Active: true}

	s.Normalize(10)

	assert.Equal(t, 10, s.QueueCount)
	assert.False(t, s.Active, "active without a return time is repaired")
}

func TestScaledAmount_IgnoresFloatNoise(t *testing.T) {
	assert.Equal(t, 11, drone.ScaledAmount(10, 1.1))
	assert.Equal(t, 3, drone.ScaledAmount(2, 1.21))
	assert.Equal(t, 1, drone.ScaledAmount(1, 1))
}
