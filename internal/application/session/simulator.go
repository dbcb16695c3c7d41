package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/engine"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/production"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
)

// Simulator runs a session on a mock clock. It stands in for the tick loop and
// the batch timers, so a scripted run is deterministic for a seeded core.
type Simulator struct {
	clock  *shared.MockClock
	d      *Dispatcher
	period time.Duration

	mu        sync.Mutex
	deadlines map[production.Family]time.Time
}

// NewSimulator creates a simulator that ticks every period of simulated time
func NewSimulator(core *engine.Core, clock *shared.MockClock, store game.SnapshotStore, period time.Duration, opts ...Option) *Simulator {
	if period <= 0 {
		period = time.Second
	}
	s := &Simulator{
		clock:     clock,
		d:         NewDispatcher(core, clock, store, opts...),
		period:    period,
		deadlines: make(map[production.Family]time.Time),
	}
	s.d.SetScheduler(s)
	return s
}

// Dispatcher exposes the underlying dispatcher, for listeners and state reads
func (s *Simulator) Dispatcher() *Dispatcher {
	return s.d
}

// Now returns the simulated time
func (s *Simulator) Now() time.Time {
	return s.clock.Now()
}

// ScheduleBatch records a batch deadline; it is fired by Advance
func (s *Simulator) ScheduleBatch(family production.Family, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deadlines[family] = at
}

// Start loads or creates the player's game
func (s *Simulator) Start(ctx context.Context, playerID string) (engine.Result, error) {
	res, err := s.d.Start(ctx, playerID)
	s.d.Wait()
	return res, err
}

// Dispatch applies an action now and waits for any narrative it requested
func (s *Simulator) Dispatch(ctx context.Context, action engine.Action) engine.Result {
	res := s.d.Dispatch(ctx, action)
	s.d.Wait()
	return res
}

// Advance moves simulated time forward by d. Batch deadlines fire at their
// own instant and a TICK is dispatched on every period boundary.
func (s *Simulator) Advance(ctx context.Context, d time.Duration) []engine.Result {
	target := s.clock.Now().Add(d)
	var ticks []engine.Result
	for next := s.clock.Now().Add(s.period); !next.After(target); next = next.Add(s.period) {
		s.fireDue(ctx, next)
		s.clock.SetTime(next)
		ticks = append(ticks, s.Dispatch(ctx, engine.Tick{}))
	}
	s.fireDue(ctx, target)
	s.clock.SetTime(target)
	return ticks
}

// fireDue dispatches FINISH_BATCH for every deadline up to until, earliest first
func (s *Simulator) fireDue(ctx context.Context, until time.Time) {
	for {
		family, at, ok := s.nextDue(until)
		if !ok {
			return
		}
		if at.After(s.clock.Now()) {
			s.clock.SetTime(at)
		}
		s.Dispatch(ctx, engine.FinishBatch{Family: family})
	}
}

func (s *Simulator) nextDue(until time.Time) (production.Family, time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	families := make([]production.Family, 0, len(s.deadlines))
	for f, at := range s.deadlines {
		if !at.After(until) {
			families = append(families, f)
		}
	}
	if len(families) == 0 {
		return "", time.Time{}, false
	}
	sort.Slice(families, func(i, j int) bool {
		a, b := s.deadlines[families[i]], s.deadlines[families[j]]
		if a.Equal(b) {
			return families[i] < families[j]
		}
		return a.Before(b)
	})
	f := families[0]
	at := s.deadlines[f]
	delete(s.deadlines, f)
	return f, at, true
}

// Close flushes the final snapshot when an autosaver is configured
func (s *Simulator) Close(ctx context.Context) error {
	return s.d.Close(ctx)
}
