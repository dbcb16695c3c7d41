package session

import (
	"context"
	"time"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/engine"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/production"
)

// ActionSink accepts actions from timers, transports and the CLI
type ActionSink interface {
	Dispatch(ctx context.Context, action engine.Action) engine.Result
}

// Scheduler arms a FINISH_BATCH for a family at an absolute time.
// Arming a family again replaces its pending timer.
type Scheduler interface {
	ScheduleBatch(family production.Family, at time.Time)
}

// Transition describes one dispatched action and its outcome
type Transition struct {
	Action engine.Action
	Before *game.State
	Result engine.Result
	At     time.Time
}

// Changed reports whether the action produced a new state
func (t Transition) Changed() bool {
	return t.Result.Changed(t.Before)
}

// Listener observes transitions in dispatch order.
// OnTransition runs while the dispatcher is locked: it must not block and
// must not dispatch.
type Listener interface {
	OnTransition(ctx context.Context, tr Transition)
}

// ListenerFunc adapts a function to Listener
type ListenerFunc func(ctx context.Context, tr Transition)

// OnTransition calls f
func (f ListenerFunc) OnTransition(ctx context.Context, tr Transition) {
	f(ctx, tr)
}
