package engine

import (
	"fmt"
	"strings"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/drone"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
)

func handleQueueDrone(tx *txn, action Action) error {
	a, err := as[QueueDrone](action)
	if err != nil {
		return err
	}
	s := tx.state
	spec := tx.cat.Drone
	if spec.Requires != "" && !s.HasStructure(spec.Requires) {
		return shared.NewMissingStructureError(spec.Requires)
	}
	// checked on a copy so a full queue never costs resources
	next := s.Drone
	if err := next.Enqueue(a.Amount, spec.MaxQueue); err != nil {
		return err
	}
	cost, err := spec.Cost.Scale(a.Amount)
	if err != nil {
		return err
	}
	if err := s.Inventory.Debit(cost); err != nil {
		return err
	}

	s.Drone = next
	tx.log(game.LogInfo, "Queued %d drone mission(s), %d waiting", a.Amount, s.Drone.QueueCount)
	return nil
}

func handleLaunchDrone(tx *txn, _ Action) error {
	s := tx.state
	if err := s.Drone.Launch(tx.now, tx.cat.Drone.Duration, s.Power); err != nil {
		return err
	}
	logLaunch(tx)
	return nil
}

func logLaunch(tx *txn) {
	tx.log(game.LogInfo, "A drone lifts off over %s", tx.cat.Locations[tx.state.Location].Name)
}

func handleResolveDrone(tx *txn, _ Action) error {
	if !tx.state.Drone.Returned(tx.now) {
		return shared.NewNotReadyError("no drone has returned yet")
	}
	return resolveDrone(tx)
}

// resolveDrone rolls the haul of a returned mission against the current location
func resolveDrone(tx *txn) error {
	s := tx.state
	loc, ok := tx.cat.Locations[s.Location]
	if !ok {
		return shared.NewUnknownEntryError("location", s.Location)
	}
	mult := drone.YieldMultiplier(s.Upgrades.Drone, s.SkillLevel(game.SkillScavenge))
	haul, err := s.Drone.Resolve(tx.now, loc.Drone, tx.cat.Drone.Rolls, mult, tx.core.rng)
	if err != nil {
		return err
	}

	limit := tx.invCap()
	parts := make([]string, 0, len(haul))
	for _, k := range drone.SortedKeys(haul) {
		got := s.Inventory.Add(k, haul[k], limit)
		if got < haul[k] {
			parts = append(parts, fmt.Sprintf("%d/%d %s", got, haul[k], tx.cat.DisplayName(k)))
		} else {
			parts = append(parts, fmt.Sprintf("%d %s", got, tx.cat.DisplayName(k)))
		}
	}
	if len(parts) == 0 {
		tx.log(game.LogWarning, "Drone returned empty-handed")
		return nil
	}
	tx.log(game.LogSuccess, "Drone returned with %s", strings.Join(parts, ", "))
	return nil
}
