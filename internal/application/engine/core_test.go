package engine_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/engine"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/inventory"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/progression"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
)

type danceAction struct{}

func (danceAction) Type() engine.ActionType { return "DANCE" }

func TestApply_UnknownActionReturnsSameState(t *testing.T) {
	c := newCore(t, nil)
	s := newState(t, c)

	res := c.Apply(s, danceAction{}, t0)

	assert.Same(t, s, res.State)
	assert.NoError(t, res.Err)
	assert.Empty(t, res.Effects)
	assert.False(t, res.Changed(s))
}

func TestApply_NilActionReturnsSameState(t *testing.T) {
	c := newCore(t, nil)
	s := newState(t, c)

	assert.Same(t, s, c.Apply(s, nil, t0).State)
}

func TestApply_RequiresInitialization(t *testing.T) {
	c := newCore(t, nil)

	res := c.Apply(nil, engine.Gather{Resource: "wood"}, t0)

	assert.Nil(t, res.State)
	var invalid *shared.InvalidStateError
	assert.ErrorAs(t, res.Err, &invalid)
}

func TestApply_ValidationFailureAddsOneDangerEntry(t *testing.T) {
	// Arrange
	c := newCore(t, nil)
	s := newState(t, c)
	s.Inventory = inventory.Inventory{"fiber": 1}
	logsBefore := len(s.Log)

	// Act
	res := c.Apply(s, engine.Craft{Recipe: "rope"}, t0)

	// Assert
	var short *shared.InsufficientResourcesError
	require.ErrorAs(t, res.Err, &short)
	assert.Equal(t, 2, short.Missing["fiber"])
	assert.Equal(t, 1, res.State.Inventory.Get("fiber"))
	assert.Zero(t, res.State.Inventory.Get("rope"))
	assert.Len(t, res.State.Log, logsBefore+1)
	assert.Equal(t, game.LogDanger, res.State.Log[0].Type)
	assert.Len(t, s.Log, logsBefore, "input state must not be touched")
}

func TestApply_NeverMutatesInput(t *testing.T) {
	c := newCore(t, nil)
	s := newState(t, c)
	s.Inventory = inventory.Inventory{"fiber": 6}

	res := apply(t, c, s, engine.Craft{Recipe: "rope", Amount: 2}, t0)

	assert.Equal(t, 6, s.Inventory.Get("fiber"))
	assert.Zero(t, s.Inventory.Get("rope"))
	assert.Zero(t, s.Progression.XP)
	assert.Equal(t, 2, res.State.Inventory.Get("rope"))
	assert.Zero(t, res.State.Inventory.Get("fiber"))
	assert.Equal(t, 4, res.State.Progression.XP)
}

func TestApply_PlayerActionClearsResting(t *testing.T) {
	c := newCore(t, nil)
	s := newState(t, c)
	s.Resting = true

	res := apply(t, c, s, engine.Gather{Resource: "wood"}, t0)

	assert.False(t, res.State.Resting)
	assert.Equal(t, 12, res.State.Inventory.Get("wood"))
	assert.Equal(t, 95.0, res.State.Stats.Energy)
	assert.Equal(t, 2, res.State.Progression.XP)
}

func TestApply_TickKeepsResting(t *testing.T) {
	c := newCore(t, nil)
	s := newState(t, c)
	s.Resting = true

	res := apply(t, c, s, engine.Tick{}, t0)

	assert.True(t, res.State.Resting)
}

func TestApply_DeadPlayerMustRespawn(t *testing.T) {
	// Arrange
	c := newCore(t, nil)
	s := newState(t, c)
	s.Stats.Health = 0

	// Act
	rejected := c.Apply(s, engine.Gather{Resource: "wood"}, t0)
	revived := apply(t, c, s, engine.Respawn{}, t0)

	// Assert
	var invalid *shared.InvalidStateError
	assert.ErrorAs(t, rejected.Err, &invalid)
	assert.Equal(t, 50.0, revived.State.Stats.Health)
	assert.Equal(t, 50.0, revived.State.Stats.Energy)
}

func TestRespawn_RejectedWhileAlive(t *testing.T) {
	c := newCore(t, nil)
	s := newState(t, c)

	res := c.Apply(s, engine.Respawn{}, t0)

	assert.Error(t, res.Err)
}

func TestAddXP_LevelLoopTerminatesAtCeiling(t *testing.T) {
	c := newCore(t, nil)
	s := newState(t, c)

	res := apply(t, c, s, engine.AddXP{Amount: 1_000_000_000}, t0)

	p := res.State.Progression
	assert.Equal(t, progression.MaxLevel, p.Level)
	assert.Equal(t, progression.MaxLevel-1, p.UpgradePoints)
	assert.Positive(t, p.XP, "surplus experience is kept at the ceiling")
	assert.Contains(t, res.State.Log[0].Message, "level 100")
}

func TestAddXP_AwardsOnePointPerLevel(t *testing.T) {
	c := newCore(t, nil)
	s := newState(t, c)

	res := apply(t, c, s, engine.AddXP{Amount: 100 + 115 + 10}, t0)

	assert.Equal(t, 3, res.State.Progression.Level)
	assert.Equal(t, 2, res.State.Progression.UpgradePoints)
	assert.Equal(t, 10, res.State.Progression.XP)
}

func TestAddXP_RejectsNonPositive(t *testing.T) {
	c := newCore(t, nil)
	s := newState(t, c)

	res := c.Apply(s, engine.AddXP{Amount: 0}, t0)

	var verr *shared.ValidationError
	assert.True(t, errors.As(res.Err, &verr))
}

func TestLearnSkill_SpendsOnePoint(t *testing.T) {
	// Arrange
	c := newCore(t, nil)
	s := newState(t, c)
	noPoints := c.Apply(s, engine.LearnSkill{Skill: game.SkillBarter}, t0)
	s = apply(t, c, s, engine.AddXP{Amount: 100}, t0).State

	// Act
	res := apply(t, c, s, engine.LearnSkill{Skill: game.SkillBarter}, t0)

	// Assert
	assert.Error(t, noPoints.Err)
	assert.Equal(t, 1, res.State.SkillLevel(game.SkillBarter))
	assert.Zero(t, res.State.Progression.UpgradePoints)
}

func TestPurchaseUpgrade_ScalesCostWithLevel(t *testing.T) {
	// Arrange
	c := newCore(t, nil)
	s := newState(t, c)
	s.Inventory = inventory.Inventory{"wood": 60, "stone": 30}

	// Act
	first := apply(t, c, s, engine.PurchaseUpgrade{Kind: game.UpgradeStorage}, t0)
	second := apply(t, c, first.State, engine.PurchaseUpgrade{Kind: game.UpgradeStorage}, t0)

	// Assert: level 1 costs 20 wood + 10 stone, level 2 twice that
	assert.Equal(t, 40, first.State.Inventory.Get("wood"))
	assert.Equal(t, 75, first.State.InventoryCap(c.Catalog().Tuning))
	assert.Equal(t, 2, second.State.Upgrades.Storage)
	assert.Zero(t, second.State.Inventory.Get("wood"))
	assert.Zero(t, second.State.Inventory.Get("stone"))
}

func TestPurchaseUpgrade_FarmPlotAddsPlot(t *testing.T) {
	c := newCore(t, nil)
	s := newState(t, c)
	s.Inventory = inventory.Inventory{"wood": 15, "fiber": 5}

	res := apply(t, c, s, engine.PurchaseUpgrade{Kind: game.UpgradeFarmPlot}, t0)

	assert.Len(t, res.State.FarmPlots, 2)
	assert.Equal(t, 1, res.State.FarmPlots[1].ID)
}

func TestPurchaseUpgrade_UnknownKind(t *testing.T) {
	c := newCore(t, nil)
	s := newState(t, c)

	assert.Error(t, c.Apply(s, engine.PurchaseUpgrade{Kind: "teleporter"}, t0).Err)
}

func TestSetDisplayName(t *testing.T) {
	c := newCore(t, nil)
	s := newState(t, c)

	res := apply(t, c, s, engine.SetDisplayName{Name: "  Ash  "}, t0)
	same := c.Apply(res.State, engine.SetDisplayName{Name: "Ash"}, t0)
	empty := c.Apply(res.State, engine.SetDisplayName{Name: "   "}, t0)

	assert.Equal(t, "Ash", res.State.DisplayName)
	assert.Equal(t, t0, res.State.DisplayNameSetAt)
	assert.Same(t, res.State, same.State)
	assert.Error(t, empty.Err)
}

func TestSetResting_IgnoresNoChange(t *testing.T) {
	c := newCore(t, nil)
	s := newState(t, c)

	rested := apply(t, c, s, engine.SetResting{Resting: true}, t0)
	again := c.Apply(rested.State, engine.SetResting{Resting: true}, t0)

	assert.True(t, rested.State.Resting)
	assert.Same(t, rested.State, again.State)
}

func TestActionsAcceptPointers(t *testing.T) {
	c := newCore(t, nil)
	s := newState(t, c)

	res := apply(t, c, s, &engine.Gather{Resource: "wood"}, t0)

	assert.Equal(t, 12, res.State.Inventory.Get("wood"))
}
