package engine

import (
	"fmt"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
)

const (
	kindFood  = "food"
	kindDrink = "drink"
)

func handleEat(tx *txn, action Action) error {
	a, err := as[Eat](action)
	if err != nil {
		return err
	}
	return consume(tx, a.Item, kindFood)
}

func handleDrink(tx *txn, action Action) error {
	a, err := as[Drink](action)
	if err != nil {
		return err
	}
	return consume(tx, a.Item, kindDrink)
}

func consume(tx *txn, item, kind string) error {
	s := tx.state
	c, ok := tx.cat.Consumables[item]
	if !ok {
		return shared.NewUnknownEntryError("consumable", item)
	}
	if c.Kind != kind {
		return shared.NewValidationError("item", fmt.Sprintf("%s is not something you can %s", tx.cat.DisplayName(item), verb(kind)))
	}
	if err := s.Inventory.Remove(item, 1); err != nil {
		return err
	}

	s.Stats.Hunger += c.Hunger
	s.Stats.Thirst += c.Thirst
	s.Stats.Health += c.Health
	s.Stats.Energy += c.Energy
	s.ClampStats(tx.cat.Tuning)

	tx.log(game.LogSuccess, "You %s %s", pastVerb(kind), tx.cat.DisplayName(item))
	return nil
}

func verb(kind string) string {
	if kind == kindDrink {
		return "drink"
	}
	return "eat"
}

func pastVerb(kind string) string {
	if kind == kindDrink {
		return "drank"
	}
	return "ate"
}

func handleRest(tx *txn, _ Action) error {
	s := tx.state
	t := tx.cat.Tuning
	caps := s.StatCaps(t)
	if s.Stats.Energy >= caps.Energy && s.Stats.Health >= caps.Health {
		return shared.NewInvalidStateError("you are already fully rested")
	}

	gain := t.RestEnergy * (1 + t.RestEfficiencyBonus*float64(s.Upgrades.RestEfficiency))
	before := s.Stats.Energy
	s.Stats.Energy += gain
	s.ClampStats(t)
	s.Resting = true

	tx.log(game.LogInfo, "You rest for a while (+%.0f energy)", s.Stats.Energy-before)
	return nil
}

func handleSetResting(tx *txn, action Action) error {
	a, err := as[SetResting](action)
	if err != nil {
		return err
	}
	if tx.state.Resting == a.Resting {
		return errIgnored
	}
	tx.state.Resting = a.Resting
	if a.Resting {
		tx.log(game.LogInfo, "You sit down to catch your breath")
	} else {
		tx.log(game.LogInfo, "You get back to work")
	}
	return nil
}

func handleRespawn(tx *txn, _ Action) error {
	s := tx.state
	if !s.IsDead() {
		return shared.NewInvalidStateError("you are still alive")
	}
	caps := s.StatCaps(tx.cat.Tuning)
	s.Stats = game.Stats{
		Health: caps.Health / 2,
		Hunger: caps.Hunger / 2,
		Thirst: caps.Thirst / 2,
		Energy: caps.Energy / 2,
	}
	s.Resting = false
	tx.log(game.LogWarning, "You wake up in %s, bruised but breathing", tx.cat.Locations[s.Location].Name)
	return nil
}
