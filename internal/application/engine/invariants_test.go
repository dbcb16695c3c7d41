package engine_test

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/engine"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/inventory"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/machine"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/production"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
)

func TestStartBatch_OversizedAmountIsRejected(t *testing.T) {
	tests := []struct {
		name   string
		amount int
	}{
		{"above the action limit", engine.MaxActionAmount + 1},
		{"cost would wrap", 3689348814741910324},
		{"max int", math.MaxInt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			c := newCore(t, nil)
			s := newState(t, c)
			s.Inventory = inventory.Inventory{"wood": 50}

			// Act
			res := c.Apply(s, engine.StartBatch{Family: production.FamilyCharcoal, Amount: tt.amount}, t0)

			// Assert
			var invalid *shared.ValidationError
			require.ErrorAs(t, res.Err, &invalid)
			assert.Equal(t, 50, res.State.Inventory.Get("wood"))
			assert.Zero(t, res.State.Queues.Get(production.FamilyCharcoal).Count)
		})
	}
}

func TestCraft_OversizedAmountIsRejected(t *testing.T) {
	c := newCore(t, nil)
	s := newState(t, c)
	s.Inventory = inventory.Inventory{"fiber": 3}

	res := c.Apply(s, engine.Craft{Recipe: "rope", Amount: 6148914691236517206}, t0)

	assert.Error(t, res.Err)
	assert.Equal(t, 3, res.State.Inventory.Get("fiber"))
	assert.Zero(t, res.State.Inventory.Get("rope"))
}

func TestQueueDrone_OversizedAmountIsRejected(t *testing.T) {
	c := newCore(t, nil)
	s := newState(t, c)
	s.Inventory = inventory.Inventory{"scrap": 3, "charcoal": 1}

	res := c.Apply(s, engine.QueueDrone{Amount: math.MaxInt}, t0)

	assert.Error(t, res.Err)
	assert.Zero(t, res.State.Drone.QueueCount)
	assert.Equal(t, 3, res.State.Inventory.Get("scrap"))
}

func TestDecodeAction_RejectsAmountAboveLimit(t *testing.T) {
	raw := fmt.Sprintf(`{"type":"START_BATCH","payload":{"family":"charcoal","amount":%d}}`, engine.MaxActionAmount+1)

	_, err := engine.DecodeAction([]byte(raw))

	assert.Error(t, err)
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// randomActions draws from every player action with amounts spanning the
// ordinary range, the action limit and values that overflow when scaled.
func randomActions(c *engine.Core, rng *rand.Rand) func() engine.Action {
	cat := c.Catalog()
	recipes, structures := sortedKeys(cat.Recipes), sortedKeys(cat.Structures)
	resources, locations := sortedKeys(cat.Resources), sortedKeys(cat.Locations)
	upgrades, skills := sortedKeys(cat.Upgrades), sortedKeys(cat.Skills)
	machineIDs := []string{"fuel_burner-1", "extractor-2", "converter-3", "assembler-4", "missing"}
	machineTypes := []machine.Type{machine.TypeFuelBurner, machine.TypeExtractor, machine.TypeConverter, machine.TypeAssembler}

	pick := func(xs []string) string { return xs[rng.IntN(len(xs))] }
	amount := func() int {
		switch rng.IntN(6) {
		case 0:
			return math.MaxInt
		case 1:
			return 3689348814741910324
		case 2:
			return engine.MaxActionAmount + rng.IntN(10)
		default:
			return 1 + rng.IntN(12)
		}
	}

	builders := []func() engine.Action{
		func() engine.Action { return engine.Gather{Resource: pick(resources)} },
		func() engine.Action { return engine.Craft{Recipe: pick(recipes), Amount: amount()} },
		func() engine.Action { return engine.Build{Structure: pick(structures)} },
		func() engine.Action { return engine.Eat{Item: pick(resources)} },
		func() engine.Action { return engine.Drink{Item: pick(resources)} },
		func() engine.Action { return engine.Rest{} },
		func() engine.Action { return engine.Sell{Item: pick(resources), Amount: amount()} },
		func() engine.Action { return engine.ToggleLock{Item: pick(resources)} },
		func() engine.Action { return engine.PurchaseUpgrade{Kind: pick(upgrades)} },
		func() engine.Action { return engine.LearnSkill{Skill: pick(skills)} },
		func() engine.Action {
			return engine.StartBatch{Family: production.Families[rng.IntN(len(production.Families))], Amount: amount()}
		},
		func() engine.Action {
			return engine.BuildMachine{MachineType: machineTypes[rng.IntN(len(machineTypes))]}
		},
		func() engine.Action {
			return engine.FuelMachine{MachineID: pick(machineIDs), Resource: pick(resources), Amount: amount()}
		},
		func() engine.Action {
			return engine.LoadMachine{MachineID: pick(machineIDs), Resource: pick(resources), Amount: amount()}
		},
		func() engine.Action { return engine.CollectMachine{MachineID: pick(machineIDs)} },
		func() engine.Action { return engine.RemoveMachine{MachineID: pick(machineIDs)} },
		func() engine.Action { return engine.QueueDrone{Amount: amount()} },
		func() engine.Action { return engine.LaunchDrone{} },
		func() engine.Action { return engine.ResolveDrone{} },
		func() engine.Action { return engine.Plant{Plot: rng.IntN(3), Seed: pick(resources)} },
		func() engine.Action { return engine.Harvest{Plot: rng.IntN(3)} },
		func() engine.Action { return engine.Travel{Location: pick(locations)} },
		func() engine.Action { return engine.RefuelGenerator{Resource: pick(resources), Amount: amount()} },
		func() engine.Action { return engine.Respawn{} },
		func() engine.Action { return engine.Tick{} },
		func() engine.Action { return engine.Tick{} },
		func() engine.Action {
			return engine.FinishBatch{Family: production.Families[rng.IntN(len(production.Families))]}
		},
	}
	return func() engine.Action { return builders[rng.IntN(len(builders))]() }
}

func TestApply_InventoryStaysWithinCapOverRandomRuns(t *testing.T) {
	for seed := uint64(1); seed <= 8; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			// Arrange
			rng := rand.New(rand.NewPCG(seed, seed*7919))
			c := newCore(t, stubRoller{n: int(seed), f: float64(seed) / 10})
			s := newState(t, c)
			s.Inventory = inventory.Inventory{"wood": 50, "stone": 50, "scrap": 40, "fiber": 30, "charcoal": 10, "iron_ore": 20}
			next := randomActions(c, rng)
			now := t0

			// Act / Assert
			for i := 0; i < 400; i++ {
				now = now.Add(time.Duration(rng.IntN(15)) * time.Second)
				action := next()
				res := c.Apply(s, action, now)
				require.NotNil(t, res.State, "step %d %s", i, action.Type())

				limit := res.State.InventoryCap(c.Catalog().Tuning)
				for k, qty := range res.State.Inventory {
					require.True(t, qty >= 0 && qty <= limit,
						"step %d %s: %s=%d outside [0, %d]", i, action.Type(), k, qty, limit)
				}
				if res.Err != nil {
					require.Equal(t, s.Inventory, res.State.Inventory,
						"step %d %s: rejected action changed the inventory", i, action.Type())
				}
				s = res.State
			}
		})
	}
}
