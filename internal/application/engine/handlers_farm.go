package engine

import (
	"fmt"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/farm"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
)

func findPlot(s *game.State, id int) (*farm.Plot, error) {
	if id < 0 || id >= len(s.FarmPlots) {
		return nil, shared.NewValidationError("plot", fmt.Sprintf("plot %d does not exist", id))
	}
	return &s.FarmPlots[id], nil
}

func handlePlant(tx *txn, action Action) error {
	a, err := as[Plant](action)
	if err != nil {
		return err
	}
	s := tx.state
	crop, ok := tx.cat.Crops[a.Seed]
	if !ok {
		return shared.NewUnknownEntryError("seed", a.Seed)
	}
	plot, err := findPlot(s, a.Plot)
	if err != nil {
		return err
	}
	if !plot.IsEmpty() {
		return shared.NewSlotUnavailableError(fmt.Sprintf("plot %d is already growing %s", plot.ID, tx.cat.DisplayName(plot.Seed)))
	}
	if err := s.Inventory.Remove(a.Seed, 1); err != nil {
		return err
	}
	if err := plot.Plant(a.Seed, crop, s.SkillLevel(game.SkillGreenThumb), tx.now); err != nil {
		return err
	}

	tx.log(game.LogInfo, "Planted %s in plot %d, ready in %s", tx.cat.DisplayName(a.Seed), plot.ID, plot.Duration)
	return nil
}

func handleHarvest(tx *txn, action Action) error {
	a, err := as[Harvest](action)
	if err != nil {
		return err
	}
	s := tx.state
	plot, err := findPlot(s, a.Plot)
	if err != nil {
		return err
	}
	if plot.IsEmpty() {
		return shared.NewInvalidStateError(fmt.Sprintf("plot %d has nothing planted", plot.ID))
	}
	crop, ok := tx.cat.Crops[plot.Seed]
	if !ok {
		return shared.NewUnknownEntryError("seed", plot.Seed)
	}
	refund := tx.cat.Tuning.SeedRefundPerLevel * float64(s.SkillLevel(game.SkillSeedSaver))
	h, err := plot.Harvest(crop, s.SkillLevel(game.SkillBountifulHarvest), refund, tx.now, tx.core.rng)
	if err != nil {
		return err
	}

	limit := tx.invCap()
	got := s.Inventory.Add(h.Produce, h.Amount, limit)
	tx.log(game.LogSuccess, "Harvested %d %s from plot %d", got, tx.cat.DisplayName(h.Produce), a.Plot)
	if h.SeedRefunded && s.Inventory.Add(h.Seed, 1, limit) > 0 {
		tx.log(game.LogInfo, "You saved a %s", tx.cat.DisplayName(h.Seed))
	}
	tx.grantXP(h.XP, "harvest")
	return nil
}
