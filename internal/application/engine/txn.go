package engine

import (
	"time"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/catalog"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
)

// txn is the working context of one Apply call
type txn struct {
	core    *Core
	cat     *catalog.Catalog
	state   *game.State
	now     time.Time
	effects []Effect
	tick    *TickReport
	offline *ReconcileReport
}

func (tx *txn) log(t game.LogType, format string, args ...any) {
	tx.state.AddLog(tx.now, t, tx.cat.Tuning.MaxLogEntries, format, args...)
}

func (tx *txn) emit(e Effect) {
	tx.effects = append(tx.effects, e)
}

func (tx *txn) grantXP(amount int, source string) {
	if amount > 0 {
		tx.emit(GrantXP{Amount: amount, Source: source})
	}
}

func (tx *txn) invCap() int {
	return tx.state.InventoryCap(tx.cat.Tuning)
}

// settle applies XP grants in order and returns the effects meant for the caller
func (tx *txn) settle() []Effect {
	var out []Effect
	for _, e := range tx.effects {
		g, ok := e.(GrantXP)
		if !ok {
			out = append(out, e)
			continue
		}
		p := &tx.state.Progression
		gained := p.AddXP(g.Amount, tx.cat.XPCurve)
		if gained > 0 {
			tx.log(game.LogSuccess, "Level up! You are now level %d (+%d upgrade points)", p.Level, gained)
		}
	}
	return out
}
