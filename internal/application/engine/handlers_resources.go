package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
)

func handleGather(tx *txn, action Action) error {
	a, err := as[Gather](action)
	if err != nil {
		return err
	}
	s := tx.state
	spec, ok := tx.cat.Gather[a.Resource]
	if !ok {
		return shared.NewUnknownEntryError("gather", a.Resource)
	}
	if len(spec.Locations) > 0 && !slices.Contains(spec.Locations, s.Location) {
		return shared.NewValidationError("resource", fmt.Sprintf("there is no %s to gather here", tx.cat.DisplayName(a.Resource)))
	}
	if spec.Requires != "" && !s.HasStructure(spec.Requires) {
		return shared.NewMissingStructureError(spec.Requires)
	}
	if s.Stats.Energy < spec.Energy {
		return shared.NewInsufficientEnergyError(spec.Energy, s.Stats.Energy)
	}
	limit := tx.invCap()
	if s.Inventory.SpaceFor(a.Resource, limit) == 0 {
		return shared.NewValidationError("resource", fmt.Sprintf("no room for more %s", tx.cat.DisplayName(a.Resource)))
	}

	amount := spec.Min
	if spec.Max > spec.Min {
		amount += tx.core.rng.IntN(spec.Max - spec.Min + 1)
	}
	amount += s.SkillLevel(game.SkillForager)

	s.Stats.Energy -= spec.Energy
	got := s.Inventory.Add(a.Resource, amount, limit)
	tx.log(game.LogSuccess, "Gathered %d %s", got, tx.cat.DisplayName(a.Resource))
	tx.grantXP(spec.XP, "gather")
	return nil
}

func handleCraft(tx *txn, action Action) error {
	a, err := as[Craft](action)
	if err != nil {
		return err
	}
	s := tx.state
	recipe, ok := tx.cat.Recipes[a.Recipe]
	if !ok {
		return shared.NewUnknownEntryError("recipe", a.Recipe)
	}
	amount := max(a.Amount, 1)
	if err := checkAmount(amount); err != nil {
		return err
	}
	if !s.UnlockedRecipes[a.Recipe] {
		return shared.NewValidationError("recipe", fmt.Sprintf("%s has not been unlocked", recipe.Name))
	}
	if recipe.Requires != "" && !s.HasStructure(recipe.Requires) {
		return shared.NewMissingStructureError(recipe.Requires)
	}
	limit := tx.invCap()
	for _, k := range recipe.Outputs.Keys() {
		if s.Inventory.SpaceFor(k, limit) == 0 && recipe.Inputs[k] == 0 {
			return shared.NewValidationError("recipe", fmt.Sprintf("no room for more %s", tx.cat.DisplayName(k)))
		}
	}
	inputs, err := recipe.Inputs.Scale(amount)
	if err != nil {
		return err
	}
	outputs, err := recipe.Outputs.Scale(amount)
	if err != nil {
		return err
	}
	if err := s.Inventory.Debit(inputs); err != nil {
		return err
	}

	got := s.Inventory.Credit(outputs, limit)
	tx.log(game.LogSuccess, "Crafted %s", describe(tx.cat, got))
	tx.grantXP(recipe.XP*amount, "craft")
	return nil
}

func handleBuild(tx *txn, action Action) error {
	a, err := as[Build](action)
	if err != nil {
		return err
	}
	s := tx.state
	spec, ok := tx.cat.Structures[a.Structure]
	if !ok {
		return shared.NewUnknownEntryError("structure", a.Structure)
	}
	if s.HasStructure(a.Structure) {
		return shared.NewInvalidStateError(fmt.Sprintf("%s is already built", spec.Name))
	}
	for _, req := range spec.Requires {
		if !s.HasStructure(req) {
			return shared.NewMissingStructureError(req)
		}
	}
	if err := s.Inventory.Debit(spec.Cost); err != nil {
		return err
	}

	s.BuiltStructures[a.Structure] = true
	var unlocked []string
	for _, r := range spec.Unlocks {
		if !s.UnlockedRecipes[r] {
			s.UnlockedRecipes[r] = true
			unlocked = append(unlocked, tx.cat.Recipes[r].Name)
		}
	}

	tx.log(game.LogSuccess, "Built %s", spec.Name)
	if len(unlocked) > 0 {
		tx.log(game.LogInfo, "New recipes: %s", strings.Join(unlocked, ", "))
	}
	tx.grantXP(spec.XP, "build")
	return nil
}
