package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/drone"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/farm"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/inventory"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/machine"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/production"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/progression"
)

// Resource is a tradeable inventory key
type Resource struct {
	Name      string `yaml:"name"`
	SellPrice int    `yaml:"sell_price"`
}

// GatherSpec describes a hand-gathering action
type GatherSpec struct {
	Energy    float64  `yaml:"energy"`
	Min       int      `yaml:"min"`
	Max       int      `yaml:"max"`
	XP        int      `yaml:"xp"`
	Requires  string   `yaml:"requires"`
	Locations []string `yaml:"locations"`
}

// Recipe is a hand-craft transform
type Recipe struct {
	Name     string          `yaml:"name"`
	Inputs   inventory.Costs `yaml:"inputs"`
	Outputs  inventory.Costs `yaml:"outputs"`
	Requires string          `yaml:"requires"`
	XP       int             `yaml:"xp"`
	Starter  bool            `yaml:"starter"`
}

// Passive is the periodic output of a structure
type Passive struct {
	Output     string `yaml:"output"`
	Amount     int    `yaml:"amount"`
	EveryTicks int    `yaml:"every_ticks"`
}

// Structure is a one-off build that unlocks recipes or produces passively
type Structure struct {
	Name     string          `yaml:"name"`
	Cost     inventory.Costs `yaml:"cost"`
	Requires []string        `yaml:"requires"`
	Unlocks  []string        `yaml:"unlocks"`
	XP       int             `yaml:"xp"`
	Passive  *Passive        `yaml:"passive"`
}

// Consumable restores vitals when eaten or drunk
type Consumable struct {
	Kind   string  `yaml:"kind"` // food or drink
	Hunger float64 `yaml:"hunger"`
	Thirst float64 `yaml:"thirst"`
	Health float64 `yaml:"health"`
	Energy float64 `yaml:"energy"`
}

// Location is a place the player can travel to, explore and send drones from
type Location struct {
	Name          string          `yaml:"name"`
	Environment   string          `yaml:"environment"`
	Factions      []string        `yaml:"factions"`
	TravelEnergy  float64         `yaml:"travel_energy"`
	ExploreEnergy float64         `yaml:"explore_energy"`
	Explore       drone.LootTable `yaml:"explore"`
	Drone         drone.LootTable `yaml:"drone"`
}

// UpgradeSpec prices an upgrade track. Level n+1 costs Cost*(n+1).
type UpgradeSpec struct {
	Cost     inventory.Costs `yaml:"cost"`
	MaxLevel int             `yaml:"max_level"`
}

// SkillSpec bounds a skill track
type SkillSpec struct {
	Name     string `yaml:"name"`
	MaxLevel int    `yaml:"max_level"`
}

// Catalog holds every data table the transition core consults.
// It is injected at construction and never looked up ad hoc.
type Catalog struct {
	Tuning         Tuning                                `yaml:"tuning"`
	XPCurve        progression.Curve                     `yaml:"xp_curve"`
	Resources      map[string]Resource                   `yaml:"resources"`
	Gather         map[string]GatherSpec                 `yaml:"gather"`
	Recipes        map[string]Recipe                     `yaml:"recipes"`
	Structures     map[string]Structure                  `yaml:"structures"`
	Consumables    map[string]Consumable                 `yaml:"consumables"`
	Machines       map[machine.Type]machine.Spec         `yaml:"machines"`
	MachineRecipes map[string]machine.Recipe             `yaml:"machine_recipes"`
	Batches        map[production.Family]production.Spec `yaml:"batches"`
	Drone          drone.Spec                            `yaml:"drone"`
	Crops          map[string]farm.Crop                  `yaml:"crops"`
	Locations      map[string]Location                   `yaml:"locations"`
	Upgrades       map[string]UpgradeSpec                `yaml:"upgrades"`
	Skills         map[string]SkillSpec                  `yaml:"skills"`
	Fuel           map[string]int                        `yaml:"fuel"`
}

// Validate checks internal consistency of the tables
func (c *Catalog) Validate() error {
	var errs []error

	if err := c.XPCurve.Validate(); err != nil {
		errs = append(errs, err)
	}
	for _, f := range production.Families {
		spec, ok := c.Batches[f]
		if !ok {
			errs = append(errs, fmt.Errorf("batch family %s is not defined", f))
			continue
		}
		if spec.Duration <= 0 {
			errs = append(errs, fmt.Errorf("batch family %s needs a positive duration", f))
		}
		if spec.Output == "" {
			errs = append(errs, fmt.Errorf("batch family %s has no output", f))
		}
	}
	for id, s := range c.Structures {
		for _, r := range s.Unlocks {
			if _, ok := c.Recipes[r]; !ok {
				errs = append(errs, fmt.Errorf("structure %s unlocks unknown recipe %s", id, r))
			}
		}
		for _, req := range s.Requires {
			if _, ok := c.Structures[req]; !ok {
				errs = append(errs, fmt.Errorf("structure %s requires unknown structure %s", id, req))
			}
		}
		if s.Passive != nil && s.Passive.EveryTicks <= 0 {
			errs = append(errs, fmt.Errorf("structure %s passive output needs every_ticks > 0", id))
		}
	}
	for id, r := range c.MachineRecipes {
		if _, err := machine.ParseType(string(r.Machine)); err != nil {
			errs = append(errs, fmt.Errorf("machine recipe %s: %w", id, err))
		}
		if r.Ticks <= 0 {
			errs = append(errs, fmt.Errorf("machine recipe %s needs ticks > 0", id))
		}
	}
	for t, spec := range c.Machines {
		if spec.DefaultRecipe == "" {
			continue
		}
		if r, ok := c.MachineRecipes[spec.DefaultRecipe]; !ok || r.Machine != t {
			errs = append(errs, fmt.Errorf("machine %s default recipe %s is missing or for another type", t, spec.DefaultRecipe))
		}
	}
	if _, ok := c.Locations[c.Tuning.StartLocation]; !ok {
		errs = append(errs, fmt.Errorf("start location %q is not defined", c.Tuning.StartLocation))
	}
	if c.Drone.MaxQueue <= 0 || c.Drone.Rolls <= 0 || c.Drone.Duration <= 0 {
		errs = append(errs, errors.New("drone spec needs positive max_queue, rolls and duration"))
	}
	for seed, crop := range c.Crops {
		if crop.GrowTime <= 0 || crop.MinYield < 0 || crop.MaxYield < crop.MinYield {
			errs = append(errs, fmt.Errorf("crop %s has an invalid growth table", seed))
		}
	}

	return errors.Join(errs...)
}

// StarterRecipes lists recipes unlocked from the start, sorted
func (c *Catalog) StarterRecipes() []string {
	var out []string
	for id, r := range c.Recipes {
		if r.Starter {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// PassiveStructures returns the ids of structures with a passive role, sorted
func (c *Catalog) PassiveStructures() []string {
	var out []string
	for id, s := range c.Structures {
		if s.Passive != nil {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// UpgradeCost prices the next level of an upgrade track
func (c *Catalog) UpgradeCost(kind string, currentLevel int) (inventory.Costs, bool) {
	spec, ok := c.Upgrades[kind]
	if !ok {
		return nil, false
	}
	cost, err := spec.Cost.Scale(currentLevel + 1)
	if err != nil {
		return nil, false
	}
	return cost, true
}

// DisplayName returns the human name of a resource, falling back to its key
func (c *Catalog) DisplayName(key string) string {
	if r, ok := c.Resources[key]; ok && r.Name != "" {
		return r.Name
	}
	return key
}
