package game

import (
	"time"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/catalog"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/drone"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/farm"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/inventory"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/machine"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/production"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/progression"
)

// Stats are the player vitals, each kept within [0, cap]
type Stats struct {
	Health float64 `json:"health"`
	Hunger float64 `json:"hunger"`
	Thirst float64 `json:"thirst"`
	Energy float64 `json:"energy"`
}

// State is the aggregate root of one player's simulation.
//
// It is only mutated by the transition core, always on a private clone,
// and is persisted as a whole document. Initialized is transient.
type State struct {
	PlayerID         string    `json:"player_id"`
	DisplayName      string    `json:"display_name"`
	DisplayNameSetAt time.Time `json:"display_name_set_at"`
	Location         string    `json:"location"`

	Stats           Stats               `json:"stats"`
	Inventory       inventory.Inventory `json:"inventory"`
	LockedItems     map[string]bool     `json:"locked_items,omitempty"`
	Equipment       map[string]string   `json:"equipment,omitempty"`
	BuiltStructures map[string]bool     `json:"built_structures"`
	UnlockedRecipes map[string]bool     `json:"unlocked_recipes"`

	Machines  []machine.Machine `json:"machines"`
	FarmPlots []farm.Plot       `json:"farm_plots"`
	Drone     drone.State       `json:"drone"`
	Queues    production.Queues `json:"queues"`

	Progression progression.Progression `json:"progression"`
	Skills      map[string]int          `json:"skills"`
	Upgrades    Upgrades                `json:"upgrades"`

	Power     int   `json:"power"`
	Coins     int   `json:"coins"`
	Resting   bool  `json:"resting"`
	Deaths    int   `json:"deaths"`
	TickCount int64 `json:"tick_count"`

	LastSavedAt time.Time  `json:"last_saved_at"`
	Log         []LogEntry `json:"log"`
	LogSeq      uint64     `json:"log_seq"`

	Initialized bool `json:"-"`
}

// New builds the default state for a first session
func New(playerID string, cat *catalog.Catalog, now time.Time) *State {
	t := cat.Tuning
	s := &State{
		PlayerID:        playerID,
		Location:        t.StartLocation,
		Inventory:       inventory.New(),
		LockedItems:     make(map[string]bool),
		Equipment:       make(map[string]string),
		BuiltStructures: make(map[string]bool),
		UnlockedRecipes: make(map[string]bool),
		Skills:          make(map[string]int),
		Progression:     progression.New(cat.XPCurve),
		Power:           t.StartingPower,
		LastSavedAt:     now,
	}
	for _, r := range cat.StarterRecipes() {
		s.UnlockedRecipes[r] = true
	}
	caps := s.StatCaps(t)
	s.Stats = caps
	limit := s.InventoryCap(t)
	for k, v := range t.StartingInventory {
		s.Inventory.Add(k, v, limit)
	}
	s.Normalize(cat, now)
	return s
}

// Clone returns a deep copy that shares no mutable memory with s
func (s *State) Clone() *State {
	out := *s
	out.Inventory = s.Inventory.Clone()
	out.LockedItems = cloneSet(s.LockedItems)
	out.BuiltStructures = cloneSet(s.BuiltStructures)
	out.UnlockedRecipes = cloneSet(s.UnlockedRecipes)

	out.Equipment = make(map[string]string, len(s.Equipment))
	for k, v := range s.Equipment {
		out.Equipment[k] = v
	}
	out.Skills = make(map[string]int, len(s.Skills))
	for k, v := range s.Skills {
		out.Skills[k] = v
	}

	out.Machines = make([]machine.Machine, len(s.Machines))
	for i, m := range s.Machines {
		out.Machines[i] = m.Clone()
	}
	out.FarmPlots = make([]farm.Plot, len(s.FarmPlots))
	for i, p := range s.FarmPlots {
		out.FarmPlots[i] = p.Clone()
	}
	out.Drone = s.Drone.Clone()
	out.Queues = s.Queues.Clone()

	out.Log = make([]LogEntry, len(s.Log))
	copy(out.Log, s.Log)
	return &out
}

func cloneSet(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		if v {
			out[k] = true
		}
	}
	return out
}

// InventoryCap is the per-key cap derived from storage upgrades and the pack mule skill
func (s *State) InventoryCap(t catalog.Tuning) int {
	return t.Capacity.For(s.Upgrades.Storage, s.SkillLevel(SkillPackMule))
}

// StatCaps returns the maximum of each vital
func (s *State) StatCaps(t catalog.Tuning) Stats {
	return Stats{
		Health: t.StatCap(s.Upgrades.Health),
		Hunger: t.StatCap(s.Upgrades.Hunger),
		Thirst: t.StatCap(s.Upgrades.Thirst),
		Energy: t.StatCap(s.Upgrades.Energy),
	}
}

// ClampStats forces every vital into [0, cap]
func (s *State) ClampStats(t catalog.Tuning) {
	caps := s.StatCaps(t)
	s.Stats.Health = clamp(s.Stats.Health, caps.Health)
	s.Stats.Hunger = clamp(s.Stats.Hunger, caps.Hunger)
	s.Stats.Thirst = clamp(s.Stats.Thirst, caps.Thirst)
	s.Stats.Energy = clamp(s.Stats.Energy, caps.Energy)
}

func clamp(v, upper float64) float64 {
	return min(max(v, 0), upper)
}

// IsDead reports whether the player is in the death state
func (s *State) IsDead() bool {
	return s.Stats.Health <= 0
}

// SkillLevel returns the level of a skill (0 if unlearned)
func (s *State) SkillLevel(id string) int {
	return s.Skills[id]
}

// HasStructure reports whether a structure has been built
func (s *State) HasStructure(id string) bool {
	return s.BuiltStructures[id]
}

// MachineIndex finds a machine by id, -1 if absent
func (s *State) MachineIndex(id string) int {
	for i := range s.Machines {
		if s.Machines[i].ID == id {
			return i
		}
	}
	return -1
}

// MachineSlots is how many machines may be built
func (s *State) MachineSlots(t catalog.Tuning) int {
	return t.MachineSlotsBase + s.Upgrades.MachineSlot
}

// PlotCount is how many farm plots the player owns
func (s *State) PlotCount(t catalog.Tuning) int {
	return t.FarmPlotsBase + s.Upgrades.FarmPlot
}

// Normalize repairs a state adopted from an external snapshot so every invariant holds
func (s *State) Normalize(cat *catalog.Catalog, now time.Time) {
	t := cat.Tuning
	if s.Inventory == nil {
		s.Inventory = inventory.New()
	}
	if s.LockedItems == nil {
		s.LockedItems = make(map[string]bool)
	}
	if s.Equipment == nil {
		s.Equipment = make(map[string]string)
	}
	if s.BuiltStructures == nil {
		s.BuiltStructures = make(map[string]bool)
	}
	if s.UnlockedRecipes == nil {
		s.UnlockedRecipes = make(map[string]bool)
	}
	if s.Skills == nil {
		s.Skills = make(map[string]int)
	}
	if s.Location == "" {
		s.Location = t.StartLocation
	}

	s.Inventory.Clamp(s.InventoryCap(t))
	s.ClampStats(t)
	s.Progression.Normalize(cat.XPCurve)
	s.Drone.Normalize(cat.Drone.MaxQueue)
	s.Power = min(max(s.Power, 0), t.PowerCap)
	s.Coins = max(s.Coins, 0)

	for i := range s.Machines {
		s.Machines[i].Normalize()
	}
	for _, f := range production.Families {
		if spec, ok := cat.Batches[f]; ok {
			s.Queues.Get(f).Normalize(now, spec.Duration)
		}
	}
	s.EnsurePlots(t)
	if limit := t.MaxLogEntries; limit > 0 && len(s.Log) > limit {
		s.Log = s.Log[:limit]
	}
}

// EnsurePlots grows the plot list to the owned count, keeping existing plots intact
func (s *State) EnsurePlots(t catalog.Tuning) {
	want := s.PlotCount(t)
	for i := range s.FarmPlots {
		s.FarmPlots[i].ID = i
		s.FarmPlots[i].Normalize()
	}
	for len(s.FarmPlots) < want {
		s.FarmPlots = append(s.FarmPlots, farm.Plot{ID: len(s.FarmPlots)})
	}
}
