package scheduler_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/adapters/scheduler"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/engine"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/session"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/production"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// recordingSink collects dispatched actions
type recordingSink struct {
	mu      sync.Mutex
	actions []engine.Action
}

func (r *recordingSink) Dispatch(_ context.Context, a engine.Action) engine.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, a)
	return engine.Result{}
}

func (r *recordingSink) Actions() []engine.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]engine.Action(nil), r.actions...)
}

type fixedSource struct{ s *game.State }

func (f fixedSource) State() *game.State { return f.s }

func TestBatchScheduler_FiresAtDeadline(t *testing.T) {
	// Arrange
	sink := &recordingSink{}
	s := scheduler.NewBatchScheduler(sink, nil, shared.NewMockClock(t0), nil)
	defer s.Stop()

	// Act
	s.ScheduleBatch(production.FamilyCharcoal, t0.Add(20*time.Millisecond))

	// Assert
	assert.Equal(t, 1, s.Pending())
	require.Eventually(t, func() bool { return len(sink.Actions()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, engine.FinishBatch{Family: production.FamilyCharcoal}, sink.Actions()[0])
	assert.Eventually(t, func() bool { return s.Pending() == 0 }, time.Second, 5*time.Millisecond)
}

func TestBatchScheduler_RearmReplacesTimer(t *testing.T) {
	sink := &recordingSink{}
	s := scheduler.NewBatchScheduler(sink, nil, shared.NewMockClock(t0), nil)
	defer s.Stop()

	s.ScheduleBatch(production.FamilyIronIngots, t0.Add(time.Hour))
	s.ScheduleBatch(production.FamilyIronIngots, t0.Add(-time.Second))

	require.Eventually(t, func() bool { return len(sink.Actions()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Len(t, sink.Actions(), 1)
	assert.Equal(t, 0, s.Pending())
}

func TestBatchScheduler_StopCancelsTimers(t *testing.T) {
	sink := &recordingSink{}
	s := scheduler.NewBatchScheduler(sink, nil, shared.NewMockClock(t0), nil)
	s.ScheduleBatch(production.FamilyComponents, t0.Add(30*time.Millisecond))

	s.Stop()
	time.Sleep(80 * time.Millisecond)

	assert.Empty(t, sink.Actions())
	assert.Equal(t, 0, s.Pending())
}

func TestBatchScheduler_SweepRetiresOverdueBatches(t *testing.T) {
	// Arrange
	due := t0.Add(-time.Second)
	st := &game.State{}
	st.Queues.Charcoal = production.Queue{Count: 2, NextCompletionAt: &due}
	later := t0.Add(time.Hour)
	st.Queues.Components = production.Queue{Count: 1, NextCompletionAt: &later}
	sink := &recordingSink{}
	s := scheduler.NewBatchScheduler(sink, fixedSource{st}, shared.NewMockClock(t0), nil)
	defer s.Stop()

	// Act
	s.Sweep(context.Background())

	// Assert
	assert.Equal(t, []engine.Action{engine.FinishBatch{Family: production.FamilyCharcoal}}, sink.Actions())
}

func TestBatchScheduler_SweepSkipsArmedFamilies(t *testing.T) {
	due := t0.Add(-time.Second)
	st := &game.State{}
	st.Queues.Charcoal = production.Queue{Count: 1, NextCompletionAt: &due}
	sink := &recordingSink{}
	s := scheduler.NewBatchScheduler(sink, fixedSource{st}, shared.NewMockClock(t0), nil)
	defer s.Stop()
	s.ScheduleBatch(production.FamilyCharcoal, t0.Add(time.Hour))

	s.Sweep(context.Background())

	assert.Empty(t, sink.Actions())
}

func TestTickLoop_TicksUntilCancelled(t *testing.T) {
	// Arrange
	sink := &recordingSink{}
	loop := scheduler.NewTickLoop(sink, 5*time.Millisecond, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	// Act
	go func() {
		loop.Run(ctx)
		close(done)
	}()
	require.Eventually(t, func() bool { return len(sink.Actions()) >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	// Assert
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("tick loop did not stop")
	}
	for _, a := range sink.Actions() {
		assert.Equal(t, engine.Tick{}, a)
	}
}

func TestIdleDetector_RestsAfterTimeoutAndWakesOnActivity(t *testing.T) {
	// Arrange
	ctx := context.Background()
	clock := shared.NewMockClock(t0)
	sink := &recordingSink{}
	d := scheduler.NewIdleDetector(sink, clock, 120*time.Second, nil)

	// Act
	clock.Advance(119 * time.Second)
	d.Check(ctx)
	beforeTimeout := len(sink.Actions())
	clock.Advance(time.Second)
	d.Check(ctx)
	d.Check(ctx)
	d.OnTransition(ctx, session.Transition{Action: engine.Tick{}, At: clock.Now()})
	d.Check(ctx)
	afterSystemAction := len(sink.Actions())
	d.OnTransition(ctx, session.Transition{Action: engine.Gather{Resource: "wood"}, At: clock.Now()})
	d.Check(ctx)

	// Assert
	assert.Zero(t, beforeTimeout)
	assert.Equal(t, 1, afterSystemAction)
	assert.Equal(t, []engine.Action{
		engine.SetResting{Resting: true},
		engine.SetResting{Resting: false},
	}, sink.Actions())
}

func TestIdleDetector_ActivityResetsTheTimer(t *testing.T) {
	ctx := context.Background()
	clock := shared.NewMockClock(t0)
	sink := &recordingSink{}
	d := scheduler.NewIdleDetector(sink, clock, 120*time.Second, nil)

	clock.Advance(100 * time.Second)
	d.OnTransition(ctx, session.Transition{Action: engine.Explore{}, At: clock.Now()})
	clock.Advance(100 * time.Second)
	d.Check(ctx)

	assert.Empty(t, sink.Actions())
}
