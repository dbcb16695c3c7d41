package catalog

import (
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/inventory"
)

// Tuning holds the balance constants of the simulation
type Tuning struct {
	Capacity inventory.Capacity `yaml:"capacity"`

	StatBase     float64 `yaml:"stat_base"`
	StatPerLevel float64 `yaml:"stat_per_level"`

	HungerDecay            float64 `yaml:"hunger_decay"`
	ThirstDecay            float64 `yaml:"thirst_decay"`
	DecayReductionPerLevel float64 `yaml:"decay_reduction_per_level"`
	MinDecay               float64 `yaml:"min_decay"`
	StarvationDamage       float64 `yaml:"starvation_damage"`
	RestHealthRegen        float64 `yaml:"rest_health_regen"`
	RestEfficiencyBonus    float64 `yaml:"rest_efficiency_bonus"`
	RestEnergy             float64 `yaml:"rest_energy"`
	EnergyRegen            float64 `yaml:"energy_regen"`

	PowerDecay int `yaml:"power_decay"`
	PowerCap   int `yaml:"power_cap"`

	BurnerCapacity     float64 `yaml:"burner_capacity"`
	MachineDemand      float64 `yaml:"machine_demand"`
	BufferBase         int     `yaml:"buffer_base"`
	BufferPerLogistics int     `yaml:"buffer_per_logistics"`
	SpeedPerAutomation float64 `yaml:"speed_per_automation"`
	FuelCap            int     `yaml:"fuel_cap"`
	MachineSlotsBase   int     `yaml:"machine_slots_base"`
	FarmPlotsBase      int     `yaml:"farm_plots_base"`

	BarterBonusPerLevel  float64 `yaml:"barter_bonus_per_level"`
	SeedRefundPerLevel   float64 `yaml:"seed_refund_per_level"`
	ExploreBonusPerLevel float64 `yaml:"explore_bonus_per_level"`
	ExploreRolls         int     `yaml:"explore_rolls"`
	NarrativeChance      float64 `yaml:"narrative_chance"`
	ExploreXP            int     `yaml:"explore_xp"`

	MaxLogEntries     int            `yaml:"max_log_entries"`
	StartLocation     string         `yaml:"start_location"`
	StartingInventory map[string]int `yaml:"starting_inventory"`
	StartingPower     int            `yaml:"starting_power"`
}

// StatCap is base + level*step for one vital
func (t Tuning) StatCap(upgradeLevel int) float64 {
	return t.StatBase + float64(max(upgradeLevel, 0))*t.StatPerLevel
}

// Decay is the per-tick hunger or thirst loss after upgrade reduction
func (t Tuning) Decay(base float64, upgradeLevel int) float64 {
	return max(t.MinDecay, base*(1-t.DecayReductionPerLevel*float64(max(upgradeLevel, 0))))
}

// BufferCap bounds machine buffers for a logistics skill level
func (t Tuning) BufferCap(logistics int) int {
	return t.BufferBase + max(logistics, 0)*t.BufferPerLogistics
}

// SpeedMultiplier is the machine progress per powered tick
func (t Tuning) SpeedMultiplier(automationSpeed int) float64 {
	return 1 + float64(max(automationSpeed, 0))*t.SpeedPerAutomation
}

// RestHealth is the health regenerated per resting tick
func (t Tuning) RestHealth(restEfficiency int) float64 {
	return t.RestHealthRegen * (1 + t.RestEfficiencyBonus*float64(max(restEfficiency, 0)))
}
