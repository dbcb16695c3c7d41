package engine

import (
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/machine"
)

// TickReport summarises one TICK for observers such as metrics
type TickReport struct {
	PowerOut      bool
	DroneLaunched bool
	DroneResolved bool
	Grid          machine.GridReport
	Passive       map[string]int
	Died          bool
}

// handleTick advances every automated subsystem by one tick.
//
// Stage order is fixed and later stages see the results of earlier ones:
// power decay, drones, machine network, passive structures, vitals, death.
func handleTick(tx *txn, _ Action) error {
	s := tx.state
	report := &TickReport{Passive: make(map[string]int)}
	tx.tick = report
	s.TickCount++

	decayPower(tx, report)
	runDrones(tx, report)
	if len(s.Machines) > 0 {
		report.Grid = machine.UpdateNetwork(s.Machines, tx.cat.MachineRecipes, gridParams(s, tx.cat.Tuning))
	}
	runPassives(tx, report)

	if s.IsDead() {
		// already dead: no vitals, no second death entry
		return nil
	}
	updateVitals(tx)
	if s.IsDead() {
		s.Stats.Health = 0
		s.Deaths++
		report.Died = true
		tx.log(game.LogDanger, "You collapse in the dust. Death #%d.", s.Deaths)
	}
	return nil
}

func decayPower(tx *txn, report *TickReport) {
	s := tx.state
	if s.Power <= 0 {
		s.Power = 0
		return
	}
	s.Power = max(s.Power-tx.cat.Tuning.PowerDecay, 0)
	if s.Power == 0 {
		report.PowerOut = true
		tx.log(game.LogWarning, "The generator sputters and dies. The reservoir is empty.")
	}
}

func runDrones(tx *txn, report *TickReport) {
	s := tx.state
	if s.Drone.CanLaunch(s.Power) {
		if err := s.Drone.Launch(tx.now, tx.cat.Drone.Duration, s.Power); err == nil {
			report.DroneLaunched = true
			logLaunch(tx)
		}
	}
	if s.Drone.Returned(tx.now) {
		if err := resolveDrone(tx); err == nil {
			report.DroneResolved = true
		}
	}
}

func runPassives(tx *txn, report *TickReport) {
	s := tx.state
	limit := tx.invCap()
	for _, id := range tx.cat.PassiveStructures() {
		p := tx.cat.Structures[id].Passive
		if !s.HasStructure(id) || s.TickCount%int64(p.EveryTicks) != 0 {
			continue
		}
		if got := s.Inventory.Add(p.Output, p.Amount, limit); got > 0 {
			report.Passive[p.Output] += got
		}
	}
}

func updateVitals(tx *txn) {
	s := tx.state
	t := tx.cat.Tuning
	wasStarving := s.Stats.Hunger <= 0 || s.Stats.Thirst <= 0

	if s.Resting {
		s.Stats.Health += t.RestHealth(s.Upgrades.RestEfficiency)
	} else {
		s.Stats.Hunger = max(s.Stats.Hunger-t.Decay(t.HungerDecay, s.Upgrades.Hunger), 0)
		s.Stats.Thirst = max(s.Stats.Thirst-t.Decay(t.ThirstDecay, s.Upgrades.Thirst), 0)
		if s.Stats.Hunger <= 0 || s.Stats.Thirst <= 0 {
			s.Stats.Health -= t.StarvationDamage
			if !wasStarving {
				tx.log(game.LogWarning, "You are starving or parched and losing health")
			}
		}
	}
	s.Stats.Energy += t.EnergyRegen
	s.ClampStats(t)
}
