package engine

import (
	"fmt"
	"math"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
)

// SalePrice is floor(unitPrice*amount*(1+bonus*barter)) for the whole lot
func SalePrice(unitPrice, amount, barter int, bonusPerLevel float64) int {
	mult := 1 + bonusPerLevel*float64(max(barter, 0))
	return int(math.Floor(float64(unitPrice*amount)*mult + 1e-9))
}

func handleSell(tx *txn, action Action) error {
	a, err := as[Sell](action)
	if err != nil {
		return err
	}
	s := tx.state
	amount := max(a.Amount, 1)
	if s.LockedItems[a.Item] {
		return shared.NewItemLockedError(tx.cat.DisplayName(a.Item))
	}
	res, ok := tx.cat.Resources[a.Item]
	if !ok || res.SellPrice <= 0 {
		return shared.NewValidationError("item", fmt.Sprintf("nobody wants to buy %s", tx.cat.DisplayName(a.Item)))
	}
	if err := s.Inventory.Remove(a.Item, amount); err != nil {
		return err
	}

	earned := SalePrice(res.SellPrice, amount, s.SkillLevel(game.SkillBarter), tx.cat.Tuning.BarterBonusPerLevel)
	s.Coins += earned
	if s.Inventory.Get(a.Item) == 0 {
		unequip(s, a.Item)
	}
	tx.log(game.LogSuccess, "Sold %d %s for %d coins", amount, tx.cat.DisplayName(a.Item), earned)
	return nil
}

func handleToggleLock(tx *txn, action Action) error {
	a, err := as[ToggleLock](action)
	if err != nil {
		return err
	}
	s := tx.state
	if s.LockedItems[a.Item] {
		delete(s.LockedItems, a.Item)
		tx.log(game.LogInfo, "%s unlocked for sale", tx.cat.DisplayName(a.Item))
		return nil
	}
	s.LockedItems[a.Item] = true
	tx.log(game.LogInfo, "%s locked", tx.cat.DisplayName(a.Item))
	return nil
}

// handleEquip puts an owned item in a slot; an empty item clears the slot
func handleEquip(tx *txn, action Action) error {
	a, err := as[Equip](action)
	if err != nil {
		return err
	}
	s := tx.state
	if a.Item == "" {
		if _, ok := s.Equipment[a.Slot]; !ok {
			return shared.NewInvalidStateError(fmt.Sprintf("nothing equipped in %s", a.Slot))
		}
		delete(s.Equipment, a.Slot)
		tx.log(game.LogInfo, "Cleared %s slot", a.Slot)
		return nil
	}
	if s.Inventory.Get(a.Item) < 1 {
		return shared.NewInsufficientResourcesError(map[string]int{a.Item: 1})
	}
	s.Equipment[a.Slot] = a.Item
	tx.log(game.LogInfo, "Equipped %s in %s slot", tx.cat.DisplayName(a.Item), a.Slot)
	return nil
}

func unequip(s *game.State, item string) {
	for slot, it := range s.Equipment {
		if it == item {
			delete(s.Equipment, slot)
		}
	}
}

// handleRefuelGenerator burns inventory fuel into the power reservoir
func handleRefuelGenerator(tx *txn, action Action) error {
	a, err := as[RefuelGenerator](action)
	if err != nil {
		return err
	}
	if a.Amount <= 0 {
		return shared.NewValidationError("amount", "must burn at least one unit")
	}
	s := tx.state
	value, ok := tx.cat.Fuel[a.Resource]
	if !ok || value <= 0 {
		return shared.NewValidationError("resource", fmt.Sprintf("%s does not burn", tx.cat.DisplayName(a.Resource)))
	}
	space := tx.cat.Tuning.PowerCap - s.Power
	if space <= 0 {
		return shared.NewSlotUnavailableError("the generator is already full")
	}
	// burn only what fits, rounding up so a partial unit still tops the tank off
	burn := min(a.Amount, (space+value-1)/value)
	if err := s.Inventory.Remove(a.Resource, burn); err != nil {
		return err
	}
	before := s.Power
	s.Power = min(s.Power+burn*value, tx.cat.Tuning.PowerCap)
	tx.log(game.LogSuccess, "Burned %d %s (+%d power)", burn, tx.cat.DisplayName(a.Resource), s.Power-before)
	return nil
}
