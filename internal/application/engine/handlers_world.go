package engine

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/drone"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/narrative"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
)

// MaxDisplayNameLength bounds SET_DISPLAY_NAME in runes
const MaxDisplayNameLength = 32

func handleTravel(tx *txn, action Action) error {
	a, err := as[Travel](action)
	if err != nil {
		return err
	}
	s := tx.state
	dest, ok := tx.cat.Locations[a.Location]
	if !ok {
		return shared.NewUnknownEntryError("location", a.Location)
	}
	if s.Location == a.Location {
		return shared.NewInvalidStateError(fmt.Sprintf("you are already at %s", dest.Name))
	}
	if s.Stats.Energy < dest.TravelEnergy {
		return shared.NewInsufficientEnergyError(dest.TravelEnergy, s.Stats.Energy)
	}

	s.Stats.Energy -= dest.TravelEnergy
	s.Location = a.Location
	tx.log(game.LogInfo, "You travel to %s", dest.Name)
	return nil
}

func handleExplore(tx *txn, _ Action) error {
	s := tx.state
	loc, ok := tx.cat.Locations[s.Location]
	if !ok {
		return shared.NewUnknownEntryError("location", s.Location)
	}
	if s.Stats.Energy < loc.ExploreEnergy {
		return shared.NewInsufficientEnergyError(loc.ExploreEnergy, s.Stats.Energy)
	}

	t := tx.cat.Tuning
	mult := 1 + t.ExploreBonusPerLevel*float64(s.Upgrades.ExplorationEfficiency)
	found := make(map[string]int)
	for i := 0; i < t.ExploreRolls; i++ {
		entry, ok := loc.Explore.Pick(tx.core.rng)
		if !ok {
			break
		}
		found[entry.Resource] += drone.ScaledAmount(entry.Amount, mult)
	}

	s.Stats.Energy -= loc.ExploreEnergy
	got := s.Inventory.Credit(found, tx.invCap())
	tx.log(game.LogSuccess, "You explore %s and find %s", loc.Name, describe(tx.cat, got))
	tx.grantXP(t.ExploreXP, "explore")

	chance := t.NarrativeChance
	if tx.core.opts.NarrativeChance >= 0 {
		chance = tx.core.opts.NarrativeChance
	}
	if chance > 0 && tx.core.rng.Float64() < chance {
		tx.emit(RequestNarrative{Request: narrative.Request{
			Location:    loc.Name,
			Environment: loc.Environment,
			Factions:    append([]string(nil), loc.Factions...),
		}})
	}
	return nil
}

func handleNarrativeResolved(tx *txn, action Action) error {
	a, err := as[NarrativeResolved](action)
	if err != nil {
		return err
	}
	enc := a.Encounter
	if !enc.Valid() {
		enc = narrative.Fallback(narrative.Request{Factions: tx.cat.Locations[tx.state.Location].Factions})
	}
	where := a.Location
	if where == "" {
		where = tx.cat.Locations[tx.state.Location].Name
	}
	tx.log(game.LogInfo, "Encounter near %s with the %s: %s", where, enc.Faction, enc.Description)
	return nil
}

func handleSetDisplayName(tx *txn, action Action) error {
	a, err := as[SetDisplayName](action)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(a.Name)
	switch {
	case name == "":
		return shared.NewValidationError("name", "display name cannot be empty")
	case utf8.RuneCountInString(name) > MaxDisplayNameLength:
		return shared.NewValidationError("name", fmt.Sprintf("display name is limited to %d characters", MaxDisplayNameLength))
	case name == tx.state.DisplayName:
		return errIgnored
	}
	tx.state.DisplayName = name
	tx.state.DisplayNameSetAt = tx.now
	tx.log(game.LogInfo, "You will be known as %s", name)
	return nil
}
