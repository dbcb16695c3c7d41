package game

import (
	"fmt"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
)

// Upgrade track identifiers
const (
	UpgradeStorage               = "storage"
	UpgradeEnergy                = "energy"
	UpgradeHunger                = "hunger"
	UpgradeThirst                = "thirst"
	UpgradeHealth                = "health"
	UpgradeDrone                 = "drone"
	UpgradeFarmPlot              = "farm_plot"
	UpgradeMachineSlot           = "machine_slot"
	UpgradeAutomationSpeed       = "automation_speed"
	UpgradeExplorationEfficiency = "exploration_efficiency"
	UpgradeRestEfficiency        = "rest_efficiency"
)

// Skill identifiers
const (
	SkillPackMule         = "pack_mule"
	SkillBarter           = "barter"
	SkillScavenge         = "scavenge"
	SkillGreenThumb       = "green_thumb"
	SkillBountifulHarvest = "bountiful_harvest"
	SkillSeedSaver        = "seed_saver"
	SkillEfficientDesign  = "efficient_design"
	SkillLogistics        = "logistics"
	SkillForager          = "forager"
)

// Upgrades holds the purchased level of every upgrade track
type Upgrades struct {
	Storage               int `json:"storage"`
	Energy                int `json:"energy"`
	Hunger                int `json:"hunger"`
	Thirst                int `json:"thirst"`
	Health                int `json:"health"`
	Drone                 int `json:"drone"`
	FarmPlot              int `json:"farm_plot"`
	MachineSlot           int `json:"machine_slot"`
	AutomationSpeed       int `json:"automation_speed"`
	ExplorationEfficiency int `json:"exploration_efficiency"`
	RestEfficiency        int `json:"rest_efficiency"`
}

func (u *Upgrades) ref(kind string) *int {
	switch kind {
	case UpgradeStorage:
		return &u.Storage
	case UpgradeEnergy:
		return &u.Energy
	case UpgradeHunger:
		return &u.Hunger
	case UpgradeThirst:
		return &u.Thirst
	case UpgradeHealth:
		return &u.Health
	case UpgradeDrone:
		return &u.Drone
	case UpgradeFarmPlot:
		return &u.FarmPlot
	case UpgradeMachineSlot:
		return &u.MachineSlot
	case UpgradeAutomationSpeed:
		return &u.AutomationSpeed
	case UpgradeExplorationEfficiency:
		return &u.ExplorationEfficiency
	case UpgradeRestEfficiency:
		return &u.RestEfficiency
	default:
		return nil
	}
}

// Level returns the current level of an upgrade track
func (u *Upgrades) Level(kind string) (int, error) {
	p := u.ref(kind)
	if p == nil {
		return 0, shared.NewValidationError("upgrade", fmt.Sprintf("unknown upgrade %q", kind))
	}
	return *p, nil
}

// Increment raises an upgrade track by one level, bounded by maxLevel (0 means unbounded)
func (u *Upgrades) Increment(kind string, maxLevel int) error {
	p := u.ref(kind)
	if p == nil {
		return shared.NewValidationError("upgrade", fmt.Sprintf("unknown upgrade %q", kind))
	}
	if maxLevel > 0 && *p >= maxLevel {
		return shared.NewInvalidStateError(fmt.Sprintf("%s is already at max level %d", kind, maxLevel))
	}
	*p++
	return nil
}
