package engine

import (
	"fmt"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
)

func handleAddXP(tx *txn, action Action) error {
	a, err := as[AddXP](action)
	if err != nil {
		return err
	}
	if a.Amount <= 0 {
		return shared.NewValidationError("amount", "experience must be positive")
	}
	tx.log(game.LogInfo, "Gained %d XP", a.Amount)
	tx.grantXP(a.Amount, "bonus")
	return nil
}

func handleLearnSkill(tx *txn, action Action) error {
	a, err := as[LearnSkill](action)
	if err != nil {
		return err
	}
	s := tx.state
	spec, ok := tx.cat.Skills[a.Skill]
	if !ok {
		return shared.NewUnknownEntryError("skill", a.Skill)
	}
	level := s.SkillLevel(a.Skill)
	if spec.MaxLevel > 0 && level >= spec.MaxLevel {
		return shared.NewInvalidStateError(fmt.Sprintf("%s is already mastered", spec.Name))
	}
	if err := s.Progression.Spend(1); err != nil {
		return err
	}

	s.Skills[a.Skill] = level + 1
	tx.log(game.LogSuccess, "Learned %s (level %d)", spec.Name, level+1)
	return nil
}

func handlePurchaseUpgrade(tx *txn, action Action) error {
	a, err := as[PurchaseUpgrade](action)
	if err != nil {
		return err
	}
	s := tx.state
	level, err := s.Upgrades.Level(a.Kind)
	if err != nil {
		return err
	}
	spec, ok := tx.cat.Upgrades[a.Kind]
	if !ok {
		return shared.NewUnknownEntryError("upgrade", a.Kind)
	}
	if spec.MaxLevel > 0 && level >= spec.MaxLevel {
		return shared.NewInvalidStateError(fmt.Sprintf("%s is already at max level %d", a.Kind, spec.MaxLevel))
	}
	cost, _ := tx.cat.UpgradeCost(a.Kind, level)
	if err := s.Inventory.Debit(cost); err != nil {
		return err
	}
	if err := s.Upgrades.Increment(a.Kind, spec.MaxLevel); err != nil {
		return err
	}

	if a.Kind == game.UpgradeFarmPlot {
		s.EnsurePlots(tx.cat.Tuning)
	}
	tx.log(game.LogSuccess, "Upgraded %s to level %d", a.Kind, level+1)
	return nil
}
