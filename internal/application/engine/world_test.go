package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/engine"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/inventory"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/narrative"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
)

func TestTravel(t *testing.T) {
	c := newCore(t, nil)
	s := newState(t, c)

	res := apply(t, c, s, engine.Travel{Location: "forest"}, t0)
	again := c.Apply(res.State, engine.Travel{Location: "forest"}, t0)
	nowhere := c.Apply(s, engine.Travel{Location: "moon"}, t0)

	assert.Equal(t, "forest", res.State.Location)
	assert.Equal(t, 92.0, res.State.Stats.Energy)
	assert.Error(t, again.Err)
	var unknown *shared.UnknownEntryError
	assert.ErrorAs(t, nowhere.Err, &unknown)
}

func TestTravel_TooTired(t *testing.T) {
	c := newCore(t, nil)
	s := newState(t, c)
	s.Stats.Energy = 4

	res := c.Apply(s, engine.Travel{Location: "river"}, t0)

	var tired *shared.InsufficientEnergyError
	require.ErrorAs(t, res.Err, &tired)
	assert.Equal(t, 10.0, tired.Required)
	assert.Equal(t, "scrapyard", res.State.Location)
}

func TestGather_LocationAndStructureGates(t *testing.T) {
	c := newCore(t, nil)
	s := newState(t, c)

	berries := c.Apply(s, engine.Gather{Resource: "berries"}, t0)
	ore := c.Apply(s, engine.Gather{Resource: "iron_ore"}, t0)
	scrap := apply(t, c, s, engine.Gather{Resource: "scrap"}, t0)

	assert.Error(t, berries.Err)
	var missing *shared.MissingStructureError
	assert.ErrorAs(t, ore.Err, &missing)
	assert.Equal(t, 1, scrap.State.Inventory.Get("scrap"))
}

func TestGather_FullStorageIsRejected(t *testing.T) {
	c := newCore(t, nil)
	s := newState(t, c)
	s.Inventory = inventory.Inventory{"wood": 50}

	res := c.Apply(s, engine.Gather{Resource: "wood"}, t0)

	assert.Error(t, res.Err)
	assert.Equal(t, 100.0, res.State.Stats.Energy)
}

func TestExplore_FindsLootAndRequestsNarrative(t *testing.T) {
	// Arrange
	c := newCore(t, stubRoller{f: 0.1})
	s := newState(t, c)

	// Act
	res := apply(t, c, s, engine.Explore{}, t0)

	// Assert
	assert.Equal(t, 6, res.State.Inventory.Get("scrap"))
	assert.Equal(t, 92.0, res.State.Stats.Energy)
	assert.Equal(t, 5, res.State.Progression.XP)
	require.Len(t, res.Effects, 1)
	req, ok := res.Effects[0].(engine.RequestNarrative)
	require.True(t, ok)
	assert.Equal(t, "The Scrapyard", req.Request.Location)
	assert.Equal(t, []string{"Rust Eaters", "Chrome Saints"}, req.Request.Factions)
}

func TestExplore_NoNarrativeAboveChance(t *testing.T) {
	c := newCore(t, stubRoller{f: 0.9})
	s := newState(t, c)

	res := apply(t, c, s, engine.Explore{}, t0)

	assert.Empty(t, res.Effects)
}

func TestNarrativeResolved_FallsBackOnEmptyEncounter(t *testing.T) {
	c := newCore(t, nil)
	s := newState(t, c)

	generated := apply(t, c, s, engine.NarrativeResolved{
		Location:  "The Scrapyard",
		Encounter: narrative.Response{Faction: "Chrome Saints", Description: "They trade you a bolt for a smile."},
	}, t0)
	empty := apply(t, c, s, engine.NarrativeResolved{}, t0)

	assert.Contains(t, generated.State.Log[0].Message, "Chrome Saints: They trade you a bolt")
	assert.Contains(t, empty.State.Log[0].Message, "with the Rust Eaters")
}

func TestSell(t *testing.T) {
	// Arrange
	c := newCore(t, nil)
	s := newState(t, c)
	s.Skills[game.SkillBarter] = 1
	s.Inventory = inventory.Inventory{"wood": 20, "stone_axe": 1}
	s.Equipment["hand"] = "stone_axe"

	// Act
	wood := apply(t, c, s, engine.Sell{Item: "wood", Amount: 20}, t0)
	axe := apply(t, c, wood.State, engine.Sell{Item: "stone_axe"}, t0)
	none := c.Apply(axe.State, engine.Sell{Item: "wood", Amount: 1}, t0)

	// Assert
	assert.Equal(t, 21, wood.State.Coins)
	assert.Zero(t, wood.State.Inventory.Get("wood"))
	assert.Equal(t, 27, axe.State.Coins)
	assert.Empty(t, axe.State.Equipment)
	assert.Error(t, none.Err)
}

func TestSell_LockedItem(t *testing.T) {
	c := newCore(t, nil)
	s := newState(t, c)
	locked := apply(t, c, s, engine.ToggleLock{Item: "wood"}, t0).State

	res := c.Apply(locked, engine.Sell{Item: "wood", Amount: 1}, t0)
	unlocked := apply(t, c, locked, engine.ToggleLock{Item: "wood"}, t0)

	var lock *shared.ItemLockedError
	require.ErrorAs(t, res.Err, &lock)
	assert.Equal(t, 10, res.State.Inventory.Get("wood"))
	assert.False(t, unlocked.State.LockedItems["wood"])
}

func TestSalePrice(t *testing.T) {
	assert.Equal(t, 10, engine.SalePrice(1, 10, 0, 0.05))
	assert.Equal(t, 21, engine.SalePrice(1, 20, 1, 0.05))
	assert.Equal(t, 22, engine.SalePrice(4, 5, 2, 0.05))
	assert.Equal(t, 9, engine.SalePrice(3, 3, 2, 0.05), "the lot total is floored")
}

func TestEquip(t *testing.T) {
	c := newCore(t, nil)
	s := newState(t, c)
	s.Inventory = inventory.Inventory{"stone_axe": 1}

	equipped := apply(t, c, s, engine.Equip{Slot: "hand", Item: "stone_axe"}, t0)
	cleared := apply(t, c, equipped.State, engine.Equip{Slot: "hand"}, t0)
	missing := c.Apply(s, engine.Equip{Slot: "hand", Item: "rope"}, t0)

	assert.Equal(t, "stone_axe", equipped.State.Equipment["hand"])
	assert.Empty(t, cleared.State.Equipment)
	assert.Error(t, missing.Err)
}

func TestBuild_UnlocksRecipes(t *testing.T) {
	// Arrange
	c := newCore(t, nil)
	s := newState(t, c)
	s.Inventory = inventory.Inventory{"wood": 10, "stone": 5, "potato": 1}
	before := c.Apply(s, engine.Craft{Recipe: "cooked_potato"}, t0)

	// Act
	res := apply(t, c, s, engine.Build{Structure: "campfire"}, t0)
	again := c.Apply(res.State, engine.Build{Structure: "campfire"}, t0)

	// Assert
	assert.Error(t, before.Err)
	assert.True(t, res.State.HasStructure("campfire"))
	assert.True(t, res.State.UnlockedRecipes["cooked_potato"])
	assert.Zero(t, res.State.Inventory.Get("wood"))
	assert.Equal(t, 10, res.State.Progression.XP)
	assert.Contains(t, res.State.Log[0].Message, "New recipes")
	assert.Error(t, again.Err)
}

func TestBuild_RequiresPrerequisite(t *testing.T) {
	c := newCore(t, nil)
	s := newState(t, c)
	s.Inventory = inventory.Inventory{"stone": 30, "wood": 10}

	res := c.Apply(s, engine.Build{Structure: "furnace"}, t0)

	var missing *shared.MissingStructureError
	require.ErrorAs(t, res.Err, &missing)
	assert.Equal(t, "workbench", missing.Structure)
}

func TestEatAndDrink(t *testing.T) {
	c := newCore(t, nil)
	s := newState(t, c)
	s.Stats.Hunger = 50
	s.Stats.Thirst = 50

	ate := apply(t, c, s, engine.Eat{Item: "berries"}, t0)
	drank := apply(t, c, ate.State, engine.Drink{Item: "water"}, t0)
	wrong := c.Apply(s, engine.Drink{Item: "berries"}, t0)

	assert.Equal(t, 55.0, ate.State.Stats.Hunger)
	assert.Equal(t, 4, ate.State.Inventory.Get("berries"))
	assert.Equal(t, 60.0, drank.State.Stats.Thirst)
	assert.Equal(t, 99.0, drank.State.Stats.Health)
	assert.Error(t, wrong.Err)
}

func TestRest(t *testing.T) {
	c := newCore(t, nil)
	s := newState(t, c)
	full := c.Apply(s, engine.Rest{}, t0)
	s.Stats.Energy = 70

	res := apply(t, c, s, engine.Rest{}, t0)

	assert.Error(t, full.Err)
	assert.Equal(t, 90.0, res.State.Stats.Energy)
	assert.True(t, res.State.Resting)
}

func TestRefuelGenerator(t *testing.T) {
	c := newCore(t, nil)
	s := newState(t, c)
	s.Inventory = inventory.Inventory{"charcoal": 10}
	s.Power = 490

	res := apply(t, c, s, engine.RefuelGenerator{Resource: "charcoal", Amount: 10}, t0)
	full := c.Apply(res.State, engine.RefuelGenerator{Resource: "charcoal", Amount: 1}, t0)

	// 4 charcoal fill the last 10 power
	assert.Equal(t, 500, res.State.Power)
	assert.Equal(t, 6, res.State.Inventory.Get("charcoal"))
	var slot *shared.SlotUnavailableError
	assert.ErrorAs(t, full.Err, &slot)
}
