package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/engine"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/session"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
)

// DefaultIdleTimeout is the inactivity after which the player sits down to rest
const DefaultIdleTimeout = 120 * time.Second

// IdleDetector puts the player to rest after a period without player actions
// and wakes them on the next one.
//
// It observes transitions as a session.Listener and dispatches from Run,
// never from OnTransition.
type IdleDetector struct {
	sink    session.ActionSink
	clock   shared.Clock
	timeout time.Duration
	logger  *zap.Logger

	mu           sync.Mutex
	lastActivity time.Time
	resting      bool
	wake         bool
}

var _ session.Listener = (*IdleDetector)(nil)

// NewIdleDetector creates a detector that treats construction time as the last activity
func NewIdleDetector(sink session.ActionSink, clock shared.Clock, timeout time.Duration, logger *zap.Logger) *IdleDetector {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if timeout <= 0 {
		timeout = DefaultIdleTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdleDetector{
		sink:         sink,
		clock:        clock,
		timeout:      timeout,
		logger:       logger.Named("IdleDetector"),
		lastActivity: clock.Now(),
	}
}

// OnTransition records player activity; system actions do not count
func (d *IdleDetector) OnTransition(_ context.Context, tr session.Transition) {
	if tr.Action == nil || engine.IsSystemAction(tr.Action.Type()) {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastActivity = tr.At
	if d.resting {
		d.wake = true
	}
}

// Check dispatches SET_RESTING when the idle state changed; Run calls it periodically
func (d *IdleDetector) Check(ctx context.Context) {
	d.mu.Lock()
	var action engine.Action
	switch {
	case d.wake:
		d.wake = false
		d.resting = false
		action = engine.SetResting{Resting: false}
	case !d.resting && d.clock.Now().Sub(d.lastActivity) >= d.timeout:
		d.resting = true
		action = engine.SetResting{Resting: true}
	}
	d.mu.Unlock()

	if action == nil {
		return
	}
	d.logger.Debug("idle state changed", zap.Bool("resting", action.(engine.SetResting).Resting))
	d.sink.Dispatch(ctx, action)
}

// Run checks for idleness every interval until ctx ends
func (d *IdleDetector) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.Check(ctx)
		}
	}
}
