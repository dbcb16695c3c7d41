package engine

import (
	"fmt"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/catalog"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/machine"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
)

// gridParams derives this tick's network tuning from skills and upgrades
func gridParams(s *game.State, t catalog.Tuning) machine.GridParams {
	return machine.GridParams{
		BurnerCapacity:  t.BurnerCapacity,
		BaseDemand:      t.MachineDemand,
		DemandReduction: float64(s.SkillLevel(game.SkillEfficientDesign)),
		BufferCap:       t.BufferCap(s.SkillLevel(game.SkillLogistics)),
		SpeedMultiplier: t.SpeedMultiplier(s.Upgrades.AutomationSpeed),
	}
}

func findMachine(s *game.State, id string) (*machine.Machine, int, error) {
	i := s.MachineIndex(id)
	if i < 0 {
		return nil, -1, shared.NewUnknownEntryError("machine", id)
	}
	return &s.Machines[i], i, nil
}

func handleBuildMachine(tx *txn, action Action) error {
	a, err := as[BuildMachine](action)
	if err != nil {
		return err
	}
	t, err := machine.ParseType(string(a.MachineType))
	if err != nil {
		return err
	}
	spec, ok := tx.cat.Machines[t]
	if !ok {
		return shared.NewUnknownEntryError("machine", string(t))
	}
	s := tx.state
	if slots := s.MachineSlots(tx.cat.Tuning); len(s.Machines) >= slots {
		return shared.NewSlotUnavailableError(fmt.Sprintf("all %d machine slots are in use", slots))
	}
	if spec.Requires != "" && !s.HasStructure(spec.Requires) {
		return shared.NewMissingStructureError(spec.Requires)
	}
	if err := s.Inventory.Debit(spec.Cost); err != nil {
		return err
	}

	m := machine.New(tx.core.newID(string(t)), t, spec.DefaultRecipe)
	s.Machines = append(s.Machines, m)
	tx.log(game.LogSuccess, "Built a %s (%s)", t, m.ID)
	tx.grantXP(spec.XP, "machine")
	return nil
}

func handleFuelMachine(tx *txn, action Action) error {
	a, err := as[FuelMachine](action)
	if err != nil {
		return err
	}
	if a.Amount <= 0 {
		return shared.NewValidationError("amount", "must add at least one unit of fuel")
	}
	s := tx.state
	m, _, err := findMachine(s, a.MachineID)
	if err != nil {
		return err
	}
	value, ok := tx.cat.Fuel[a.Resource]
	if !ok || value <= 0 {
		return shared.NewValidationError("resource", fmt.Sprintf("%s does not burn", tx.cat.DisplayName(a.Resource)))
	}
	if s.Inventory.Get(a.Resource) < a.Amount {
		return shared.NewInsufficientResourcesError(map[string]int{a.Resource: a.Amount - s.Inventory.Get(a.Resource)})
	}

	space := tx.cat.Tuning.FuelCap - m.FuelLevel
	burn := min(a.Amount, (max(space, 0)+value-1)/value)
	accepted, err := m.AddFuel(burn*value, tx.cat.Tuning.FuelCap)
	if err != nil {
		return err
	}
	_ = s.Inventory.Remove(a.Resource, burn)
	tx.log(game.LogSuccess, "Fuelled %s with %d %s (+%d fuel)", m.ID, burn, tx.cat.DisplayName(a.Resource), accepted)
	return nil
}

func handleConfigureMachine(tx *txn, action Action) error {
	a, err := as[ConfigureMachine](action)
	if err != nil {
		return err
	}
	m, _, err := findMachine(tx.state, a.MachineID)
	if err != nil {
		return err
	}
	recipe, ok := tx.cat.MachineRecipes[a.Recipe]
	if !ok {
		return shared.NewUnknownEntryError("machine recipe", a.Recipe)
	}
	if m.Recipe == a.Recipe {
		return shared.NewInvalidStateError(fmt.Sprintf("%s is already running %s", m.ID, a.Recipe))
	}
	if err := m.Configure(a.Recipe, recipe); err != nil {
		return err
	}
	tx.log(game.LogInfo, "%s switched to %s", m.ID, a.Recipe)
	return nil
}

func handleLoadMachine(tx *txn, action Action) error {
	a, err := as[LoadMachine](action)
	if err != nil {
		return err
	}
	if a.Amount <= 0 {
		return shared.NewValidationError("amount", "must load at least one unit")
	}
	s := tx.state
	m, _, err := findMachine(s, a.MachineID)
	if err != nil {
		return err
	}
	recipe, ok := tx.cat.MachineRecipes[m.Recipe]
	if !ok {
		return shared.NewInvalidStateError(fmt.Sprintf("%s has no recipe configured", m.ID))
	}
	if have := s.Inventory.Get(a.Resource); have < a.Amount {
		return shared.NewInsufficientResourcesError(map[string]int{a.Resource: a.Amount - have})
	}

	bufferCap := tx.cat.Tuning.BufferCap(s.SkillLevel(game.SkillLogistics))
	accepted, err := m.Load(a.Resource, a.Amount, recipe, bufferCap)
	if err != nil {
		return err
	}
	_ = s.Inventory.Remove(a.Resource, accepted)
	tx.log(game.LogInfo, "Loaded %d %s into %s", accepted, tx.cat.DisplayName(a.Resource), m.ID)
	return nil
}

// handleCollectMachine moves as much output as storage allows; the rest stays buffered
func handleCollectMachine(tx *txn, action Action) error {
	a, err := as[CollectMachine](action)
	if err != nil {
		return err
	}
	s := tx.state
	m, _, err := findMachine(s, a.MachineID)
	if err != nil {
		return err
	}
	if m.OutputBuffer.Total() == 0 {
		return shared.NewInvalidStateError(fmt.Sprintf("%s has nothing to collect", m.ID))
	}

	taken := s.Inventory.Credit(m.OutputBuffer, tx.invCap())
	if len(taken) == 0 {
		return shared.NewSlotUnavailableError("storage is full")
	}
	for k, n := range taken {
		_ = m.OutputBuffer.Remove(k, n)
	}
	if m.OutputBuffer.Total() == 0 {
		m.Collect()
	} else if m.Status == machine.StatusOutputFull {
		m.Status = machine.StatusIdle
	}
	tx.log(game.LogSuccess, "Collected %s from %s", describe(tx.cat, taken), m.ID)
	return nil
}

// handleRemoveMachine tears a machine down. Both buffers are refunded up to the
// inventory cap; the build cost and any burner fuel are not.
func handleRemoveMachine(tx *txn, action Action) error {
	a, err := as[RemoveMachine](action)
	if err != nil {
		return err
	}
	s := tx.state
	m, i, err := findMachine(s, a.MachineID)
	if err != nil {
		return err
	}

	refund := m.Teardown()
	credited := s.Inventory.Credit(refund, tx.invCap())
	s.Machines = append(s.Machines[:i], s.Machines[i+1:]...)

	tx.log(game.LogInfo, "Dismantled %s, recovered %s", a.MachineID, describe(tx.cat, credited))
	lost := make(map[string]int)
	for k, v := range refund {
		if d := v - credited[k]; d > 0 {
			lost[k] = d
		}
	}
	if len(lost) > 0 {
		tx.log(game.LogWarning, "No room for %s; it was left behind", describe(tx.cat, lost))
	}
	return nil
}
