package farm_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/farm"
)

type stubRoller struct {
	n int
	f float64
}

func (s stubRoller) IntN(int) int     { return s.n }
func (s stubRoller) Float64() float64 { return s.f }

var (
	planted = time.Date(2026, 5, 1, 6, 0, 0, 0, time.UTC)
	potato  = farm.Crop{Produce: "potato", GrowTime: 10 * time.Minute, MinYield: 2, MaxYield: 4, XP: 5}
)

func TestGrowDuration(t *testing.T) {
	assert.Equal(t, 10*time.Minute, farm.GrowDuration(10*time.Minute, 0))
	assert.Equal(t, 7*time.Minute, farm.GrowDuration(10*time.Minute, 2))
	assert.Equal(t, time.Minute, farm.GrowDuration(10*time.Minute, 9), "floored at a tenth")
}

func TestPlant(t *testing.T) {
	// Arrange
	p := farm.Plot{ID: 0}

	// Act
	err := p.Plant("potato_seed", potato, 2, planted)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "potato_seed", p.Seed)
	require.NotNil(t, p.PlantedAt)
	assert.Equal(t, planted, *p.PlantedAt)
	assert.Equal(t, 7*time.Minute, p.Duration)
	assert.Error(t, p.Plant("potato_seed", potato, 0, planted), "occupied plot")
}

func TestHarvest_TooEarly(t *testing.T) {
	p := farm.Plot{}
	require.NoError(t, p.Plant("potato_seed", potato, 0, planted))

	_, err := p.Harvest(potato, 0, 0, planted.Add(9*time.Minute), stubRoller{})

	assert.Error(t, err)
	assert.False(t, p.IsEmpty())
}

func TestHarvest_YieldBonusAndRefund(t *testing.T) {
	// Arrange
	p := farm.Plot{}
	require.NoError(t, p.Plant("potato_seed", potato, 0, planted))

	// Act
	h, err := p.Harvest(potato, 2, 0.3, planted.Add(10*time.Minute), stubRoller{n: 1, f: 0.1})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "potato", h.Produce)
	assert.Equal(t, 5, h.Amount, "min 2 + roll 1 + bonus 2")
	assert.True(t, h.SeedRefunded)
	assert.Equal(t, 5, h.XP)
	assert.True(t, p.IsEmpty())
	assert.Nil(t, p.PlantedAt)
}

func TestHarvest_NoRefundWithoutSkill(t *testing.T) {
	p := farm.Plot{}
	require.NoError(t, p.Plant("potato_seed", potato, 0, planted))

	h, err := p.Harvest(potato, 0, 0, planted.Add(time.Hour), stubRoller{f: 0})

	require.NoError(t, err)
	assert.False(t, h.SeedRefunded)
}

func TestHarvest_EmptyPlot(t *testing.T) {
	p := farm.Plot{}

	_, err := p.Harvest(potato, 0, 0, planted, stubRoller{})

	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	p := farm.Plot{Seed: "potato_seed"}

	p.Normalize()

	assert.True(t, p.IsEmpty())
}
