package engine

import (
	"time"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/narrative"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/production"
)

// Effect is follow-up work produced by a transition.
//
// GrantXP is consumed by the core itself after the handler returns.
// Every other effect is handed back to the caller, which owns timers and I/O.
type Effect interface {
	effect()
}

// GrantXP credits experience once the handler has finished
type GrantXP struct {
	Amount int
	Source string
}

// ScheduleBatch asks for a FINISH_BATCH to be dispatched at At
type ScheduleBatch struct {
	Family production.Family
	At     time.Time
}

// RequestNarrative asks for an encounter to be generated off the core
type RequestNarrative struct {
	Request narrative.Request
}

func (GrantXP) effect()          {}
func (ScheduleBatch) effect()    {}
func (RequestNarrative) effect() {}
