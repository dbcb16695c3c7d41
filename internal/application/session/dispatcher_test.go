package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/engine"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/session"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/narrative"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/production"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
	"github.com/Cea89585/Wasteland-Automata-sub000/test/helpers"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	clock     *shared.MockClock
	store     *helpers.MemorySnapshotStore
	scheduler *helpers.RecordingScheduler
	d         *session.Dispatcher
}

func newFixture(t *testing.T, roller engine.Roller, opts ...session.Option) *fixture {
	t.Helper()
	if roller == nil {
		roller = helpers.FixedRoller{F: 0.99}
	}
	f := &fixture{
		clock:     shared.NewMockClock(t0),
		store:     helpers.NewMemorySnapshotStore(),
		scheduler: &helpers.RecordingScheduler{},
	}
	opts = append([]session.Option{session.WithAutosaver(session.NewAutosaver(f.store, 2*time.Second, nil))}, opts...)
	f.d = session.NewDispatcher(helpers.NewCore(t, roller), f.clock, f.store, opts...)
	f.d.SetScheduler(f.scheduler)
	return f
}

func TestDispatcher_StartsNewGame(t *testing.T) {
	// Arrange
	f := newFixture(t, nil)

	// Act
	res, err := f.d.Start(context.Background(), "ash")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "ash", f.d.State().PlayerID)
	assert.Same(t, res.State, f.d.State())
	assert.Equal(t, 1, f.store.WriteCount())
}

func TestDispatcher_ResumesSnapshotAndRearmsTimers(t *testing.T) {
	// Arrange
	core := helpers.NewCore(t, helpers.FixedRoller{F: 0.99})
	initial := core.Apply(nil, engine.Initialize{PlayerID: "ash"}, t0)
	running := core.Apply(initial.State, engine.StartBatch{Family: production.FamilyCharcoal, Amount: 2}, t0)
	require.NoError(t, running.Err)
	f := newFixture(t, nil)
	f.store.Put(running.State)
	f.clock.SetTime(t0.Add(15 * time.Second))

	// Act
	res, err := f.d.Start(context.Background(), "ash")

	// Assert
	require.NoError(t, err)
	require.NotNil(t, res.Offline)
	assert.True(t, res.Offline.Applied)
	assert.Equal(t, []helpers.ScheduledBatch{{Family: production.FamilyCharcoal, At: t0.Add(10 * time.Second)}}, f.scheduler.Calls())
}

func TestDispatcher_StartFailsWhenStoreFails(t *testing.T) {
	f := newFixture(t, nil)
	f.store.FailGet = errors.New("connection refused")

	_, err := f.d.Start(context.Background(), "ash")

	assert.ErrorContains(t, err, "connection refused")
	assert.Nil(t, f.d.State())
}

func TestDispatcher_RejectsActionsBeforeStart(t *testing.T) {
	f := newFixture(t, nil)

	res := f.d.Dispatch(context.Background(), engine.Tick{})

	assert.ErrorIs(t, res.Err, session.ErrNotStarted)
}

func TestDispatcher_AutosaveFollowsSimulatedTime(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t, nil)
	_, err := f.d.Start(ctx, "ash")
	require.NoError(t, err)
	startScrap := f.d.State().Inventory.Get("scrap")

	// Act
	f.clock.Advance(time.Second)
	f.d.Dispatch(ctx, engine.Gather{Resource: "scrap"})
	afterOne := f.store.WriteCount()
	f.clock.Advance(time.Second)
	f.d.Dispatch(ctx, engine.Gather{Resource: "scrap"})
	afterTwo := f.store.WriteCount()
	f.clock.Advance(500 * time.Millisecond)
	f.d.Dispatch(ctx, engine.Gather{Resource: "scrap"})
	require.NoError(t, f.d.Flush(ctx))

	// Assert
	assert.Equal(t, 1, afterOne)
	assert.Equal(t, 2, afterTwo)
	assert.Equal(t, 3, f.store.WriteCount())
	stored, err := f.store.Get(ctx, "ash")
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Inventory.Get("scrap")-startScrap)
}

func TestDispatcher_ListenersSeeEveryTransitionInOrder(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t, nil)
	var seen []engine.ActionType
	var changed []bool
	f.d.AddListener(session.ListenerFunc(func(_ context.Context, tr session.Transition) {
		seen = append(seen, tr.Action.Type())
		changed = append(changed, tr.Changed())
	}))
	_, err := f.d.Start(ctx, "ash")
	require.NoError(t, err)

	// Act
	f.d.Dispatch(ctx, engine.Rest{})
	f.d.Dispatch(ctx, engine.FinishBatch{Family: production.FamilyCharcoal})

	// Assert
	assert.Equal(t, []engine.ActionType{engine.ActionInitialize, engine.ActionRest, engine.ActionFinishBatch}, seen)
	assert.Equal(t, []bool{true, true, false}, changed)
}

func TestDispatcher_SchedulesStartedBatches(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	_, err := f.d.Start(ctx, "ash")
	require.NoError(t, err)

	res := f.d.Dispatch(ctx, engine.StartBatch{Family: production.FamilyCharcoal, Amount: 1})

	require.NoError(t, res.Err)
	assert.Equal(t, []helpers.ScheduledBatch{{Family: production.FamilyCharcoal, At: t0.Add(10 * time.Second)}}, f.scheduler.Calls())
}

func TestDispatcher_ResolvesGeneratedNarrative(t *testing.T) {
	// Arrange
	ctx := context.Background()
	gen := &helpers.StubGenerator{Response: narrative.Response{Faction: "Chrome Saints", Description: "A trade of bolts."}}
	f := newFixture(t, helpers.FixedRoller{F: 0.1}, session.WithGenerator(gen, time.Second))
	_, err := f.d.Start(ctx, "ash")
	require.NoError(t, err)

	// Act
	res := f.d.Dispatch(ctx, engine.Explore{})
	f.d.Wait()

	// Assert
	require.NoError(t, res.Err)
	require.Len(t, gen.Requests(), 1)
	assert.Equal(t, "The Scrapyard", gen.Requests()[0].Location)
	assert.Contains(t, f.d.State().Log[0].Message, "Chrome Saints: A trade of bolts.")
}

func TestDispatcher_NarrativeFailureUsesFallback(t *testing.T) {
	ctx := context.Background()
	gen := &helpers.StubGenerator{Err: helpers.ErrGeneratorDown}
	f := newFixture(t, helpers.FixedRoller{F: 0.1}, session.WithGenerator(gen, time.Second))
	_, err := f.d.Start(ctx, "ash")
	require.NoError(t, err)

	f.d.Dispatch(ctx, engine.Explore{})
	f.d.Wait()

	assert.Contains(t, f.d.State().Log[0].Message, "Rust Eaters: You spot distant figures")
}

// blockingGenerator never answers before its context ends
type blockingGenerator struct{}

func (blockingGenerator) Generate(ctx context.Context, _ narrative.Request) (narrative.Response, error) {
	<-ctx.Done()
	return narrative.Response{}, ctx.Err()
}

func TestDispatcher_CloseAbandonsPendingNarratives(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t, helpers.FixedRoller{F: 0.1}, session.WithGenerator(blockingGenerator{}, time.Hour))
	_, err := f.d.Start(ctx, "ash")
	require.NoError(t, err)
	f.d.Dispatch(ctx, engine.Explore{})
	logged := len(f.d.State().Log)

	// Act
	err = f.d.Close(ctx)

	// Assert
	require.NoError(t, err)
	assert.Len(t, f.d.State().Log, logged)
	stored, err := f.store.Get(ctx, "ash")
	require.NoError(t, err)
	assert.Equal(t, f.d.State().Inventory, stored.Inventory)
}
