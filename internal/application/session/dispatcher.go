package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/engine"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/narrative"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
)

// ErrNotStarted is returned for actions dispatched before Start
var ErrNotStarted = errors.New("session not started")

// DefaultNarrativeTimeout bounds one encounter generation
const DefaultNarrativeTimeout = 15 * time.Second

// Dispatcher is the single writer of one player's game state.
//
// Every action, whether it comes from a timer, the websocket or the CLI,
// goes through Dispatch, which serializes calls into the core. Effects
// returned by the core are executed after the lock is released.
type Dispatcher struct {
	core   *engine.Core
	clock  shared.Clock
	store  game.SnapshotStore
	logger *zap.Logger

	generator        narrative.Generator
	narrativeTimeout time.Duration
	saver            *Autosaver
	scheduler        Scheduler

	mu        sync.Mutex
	state     *game.State
	listeners []Listener

	// background work (narratives) runs under baseCtx and is tracked by wg
	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithGenerator sets the encounter text generator; without one the fallback encounter is used
func WithGenerator(gen narrative.Generator, timeout time.Duration) Option {
	return func(d *Dispatcher) {
		d.generator = gen
		if timeout > 0 {
			d.narrativeTimeout = timeout
		}
	}
}

// WithAutosaver enables debounced snapshot writes
func WithAutosaver(saver *Autosaver) Option {
	return func(d *Dispatcher) {
		d.saver = saver
	}
}

// WithLogger sets the zap logger
func WithLogger(logger *zap.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDispatcher creates a dispatcher; store may be nil for a session that is never loaded or saved
func NewDispatcher(core *engine.Core, clock shared.Clock, store game.SnapshotStore, opts ...Option) *Dispatcher {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		core:             core,
		clock:            clock,
		store:            store,
		logger:           zap.NewNop(),
		narrativeTimeout: DefaultNarrativeTimeout,
		baseCtx:          ctx,
		cancel:           cancel,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.Named("Dispatcher")
	return d
}

// SetScheduler wires the batch timer source.
// The scheduler dispatches back into d, so it is attached after construction.
func (d *Dispatcher) SetScheduler(s Scheduler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scheduler = s
}

// AddListener registers a transition observer
func (d *Dispatcher) AddListener(l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, l)
}

// Start loads the player's snapshot, or starts a new game when none is stored,
// and runs INITIALIZE with offline reconciliation.
func (d *Dispatcher) Start(ctx context.Context, playerID string) (engine.Result, error) {
	var snapshot *game.State
	if d.store != nil {
		loaded, err := d.store.Get(ctx, playerID)
		switch {
		case err == nil:
			snapshot = loaded
		case errors.Is(err, game.ErrSnapshotNotFound):
			d.logger.Info("no snapshot stored, starting a new game", zap.String("playerID", playerID))
		default:
			return engine.Result{}, fmt.Errorf("failed to load snapshot: %w", err)
		}
	}

	res := d.Dispatch(ctx, engine.Initialize{PlayerID: playerID, Snapshot: snapshot})
	if res.Err != nil {
		return res, fmt.Errorf("failed to initialize %s: %w", playerID, res.Err)
	}

	if res.Offline != nil && res.Offline.Applied {
		d.logger.Info("offline progress applied",
			zap.String("playerID", playerID),
			zap.Int("ticks", res.Offline.Ticks),
		)
	}
	return res, nil
}

// Dispatch applies one action at the current clock time
func (d *Dispatcher) Dispatch(ctx context.Context, action engine.Action) engine.Result {
	d.mu.Lock()
	_, initializing := action.(engine.Initialize)
	if d.state == nil && !initializing {
		d.mu.Unlock()
		return engine.Result{Err: ErrNotStarted}
	}

	now := d.clock.Now()
	before := d.state
	res := d.core.Apply(before, action, now)
	if res.State != nil {
		d.state = res.State
	}

	tr := Transition{Action: action, Before: before, Result: res, At: now}
	for _, l := range d.listeners {
		l.OnTransition(ctx, tr)
	}
	scheduler := d.scheduler
	saveDue := false
	if d.saver != nil && tr.Changed() {
		saveDue = d.saver.Observe(res.State, now)
	}
	d.mu.Unlock()

	if res.Err != nil {
		d.logger.Debug("action rejected", zap.String("action", string(action.Type())), zap.Error(res.Err))
	}
	if saveDue {
		if err := d.saver.Save(ctx, now); err != nil {
			d.logger.Error("autosave failed", zap.Error(err))
		}
	}
	d.runEffects(res.Effects, scheduler)
	return res
}

func (d *Dispatcher) runEffects(effects []engine.Effect, scheduler Scheduler) {
	for _, eff := range effects {
		switch e := eff.(type) {
		case engine.ScheduleBatch:
			if scheduler == nil {
				d.logger.Warn("batch timer dropped, no scheduler", zap.String("family", string(e.Family)))
				continue
			}
			scheduler.ScheduleBatch(e.Family, e.At)
		case engine.RequestNarrative:
			d.wg.Add(1)
			go d.narrate(e.Request)
		default:
			d.logger.Warn("unhandled effect", zap.String("effect", fmt.Sprintf("%T", eff)))
		}
	}
}

// narrate generates an encounter off the dispatcher and feeds it back in
func (d *Dispatcher) narrate(req narrative.Request) {
	defer d.wg.Done()

	resp := narrative.Fallback(req)
	if d.generator != nil {
		ctx, cancel := context.WithTimeout(d.baseCtx, d.narrativeTimeout)
		generated, err := d.generator.Generate(ctx, req)
		cancel()
		switch {
		case err != nil:
			d.logger.Warn("narrative generation failed, using fallback",
				zap.String("location", req.Location), zap.Error(err))
		case !generated.Valid():
			d.logger.Warn("narrative generation returned no text, using fallback",
				zap.String("location", req.Location))
		default:
			resp = generated
		}
	}

	if d.baseCtx.Err() != nil {
		return
	}
	d.Dispatch(d.baseCtx, engine.NarrativeResolved{Location: req.Location, Encounter: resp})
}

// State returns the current state. It must be treated as read-only.
func (d *Dispatcher) State() *game.State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Wait blocks until in-flight narrative requests have been resolved
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Flush writes any unsaved state immediately
func (d *Dispatcher) Flush(ctx context.Context) error {
	if d.saver == nil {
		return nil
	}
	return d.saver.Save(ctx, d.clock.Now())
}

// Close abandons pending narratives and writes the final snapshot
func (d *Dispatcher) Close(ctx context.Context) error {
	d.cancel()
	d.wg.Wait()
	return d.Flush(ctx)
}
