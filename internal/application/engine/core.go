package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/catalog"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
	"github.com/Cea89585/Wasteland-Automata-sub000/pkg/utils"
)

// Roller is the randomness source of the core. *rand.Rand satisfies it.
type Roller interface {
	IntN(n int) int
	Float64() float64
}

// Result is the outcome of one transition.
//
// State is always non-nil once a state exists. When the action is unknown or
// ignored, State is the very pointer that was passed in. When validation
// fails, State is a copy of the input with exactly one danger log entry and
// Err holds the typed domain error.
type Result struct {
	State   *game.State
	Effects []Effect
	Err     error
	// Tick is set for TICK transitions
	Tick *TickReport
	// Offline is set when INITIALIZE ran offline reconciliation
	Offline *ReconcileReport
}

// Changed reports whether the transition produced a new state value
func (r Result) Changed(before *game.State) bool {
	return r.State != before
}

// Options tune the parts of the core that are not balance data
type Options struct {
	// TickPeriod is the wall time one TICK represents, used by offline reconciliation
	TickPeriod time.Duration
	// OfflineMinTicks is the minimum elapsed ticks before reconciliation applies
	OfflineMinTicks int
	// NarrativeChance overrides the catalog's explore narrative chance when >= 0
	NarrativeChance float64
}

// DefaultOptions returns the shipped timing values
func DefaultOptions() Options {
	return Options{
		TickPeriod:      time.Second,
		OfflineMinTicks: 10,
		NarrativeChance: -1,
	}
}

// handlerFunc mutates tx.state in place; it must validate before mutating
type handlerFunc func(tx *txn, action Action) error

// errIgnored makes the core return the input state untouched without a log entry
var errIgnored = errors.New("action ignored")

// Core is the synchronous transition function of the simulation.
//
// It performs no I/O and reads no clock: every timestamp is supplied by the caller.
// A Core is not safe for concurrent use; callers serialize access.
type Core struct {
	catalog  *catalog.Catalog
	rng      Roller
	newID    func(machineType string) string
	opts     Options
	handlers map[ActionType]handlerFunc
}

// NewCore creates a core over the given data tables.
// A nil rng seeds a PCG source from the current time.
func NewCore(cat *catalog.Catalog, rng Roller, opts Options) *Core {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	if opts.TickPeriod <= 0 {
		opts.TickPeriod = time.Second
	}
	if opts.OfflineMinTicks < 0 {
		opts.OfflineMinTicks = 0
	}

	c := &Core{
		catalog:  cat,
		rng:      rng,
		newID:    utils.GenerateMachineID,
		opts:     opts,
		handlers: make(map[ActionType]handlerFunc),
	}
	c.registerHandlers()
	return c
}

// SetIDGenerator replaces the machine id source, for deterministic tests
func (c *Core) SetIDGenerator(gen func(machineType string) string) {
	if gen != nil {
		c.newID = gen
	}
}

// Catalog exposes the injected data tables
func (c *Core) Catalog() *catalog.Catalog {
	return c.catalog
}

// Options returns the effective timing options
func (c *Core) Options() Options {
	return c.opts
}

// Handles reports whether the action type has a registered handler
func (c *Core) Handles(t ActionType) bool {
	_, ok := c.handlers[t]
	return ok
}

func (c *Core) register(t ActionType, h handlerFunc) {
	if _, exists := c.handlers[t]; exists {
		panic(fmt.Sprintf("handler already registered for %s", t))
	}
	c.handlers[t] = h
}

func (c *Core) registerHandlers() {
	c.register(ActionInitialize, handleInitialize)
	c.register(ActionTick, handleTick)

	c.register(ActionGather, handleGather)
	c.register(ActionCraft, handleCraft)
	c.register(ActionBuild, handleBuild)

	c.register(ActionEat, handleEat)
	c.register(ActionDrink, handleDrink)
	c.register(ActionRest, handleRest)

	c.register(ActionSell, handleSell)
	c.register(ActionToggleLock, handleToggleLock)

	c.register(ActionAddXP, handleAddXP)
	c.register(ActionLearnSkill, handleLearnSkill)
	c.register(ActionPurchaseUpgrade, handlePurchaseUpgrade)

	c.register(ActionStartBatch, handleStartBatch)
	c.register(ActionFinishBatch, handleFinishBatch)

	c.register(ActionBuildMachine, handleBuildMachine)
	c.register(ActionFuelMachine, handleFuelMachine)
	c.register(ActionConfigureMachine, handleConfigureMachine)
	c.register(ActionLoadMachine, handleLoadMachine)
	c.register(ActionCollectMachine, handleCollectMachine)
	c.register(ActionRemoveMachine, handleRemoveMachine)

	c.register(ActionQueueDrone, handleQueueDrone)
	c.register(ActionLaunchDrone, handleLaunchDrone)
	c.register(ActionResolveDrone, handleResolveDrone)

	c.register(ActionPlant, handlePlant)
	c.register(ActionHarvest, handleHarvest)

	c.register(ActionTravel, handleTravel)
	c.register(ActionExplore, handleExplore)
	c.register(ActionNarrativeResolved, handleNarrativeResolved)

	c.register(ActionSetDisplayName, handleSetDisplayName)
	c.register(ActionSetResting, handleSetResting)
	c.register(ActionRespawn, handleRespawn)
	c.register(ActionRefuelGenerator, handleRefuelGenerator)
	c.register(ActionEquip, handleEquip)
}

// Apply runs one transition.
//
// The input state is never modified. Handlers work on a deep copy, and the
// copy is only returned when the handler succeeds. XP grants produced by the
// handler are applied afterwards in order; the remaining effects are returned.
func (c *Core) Apply(state *game.State, action Action, now time.Time) Result {
	if action == nil {
		return Result{State: state}
	}
	h, ok := c.handlers[action.Type()]
	if !ok {
		return Result{State: state}
	}
	if state == nil && action.Type() != ActionInitialize {
		return Result{Err: shared.NewInvalidStateError("game is not initialized")}
	}

	tx := &txn{core: c, cat: c.catalog, now: now}
	if state != nil {
		tx.state = state.Clone()
	}

	err := c.guard(tx.state, action)
	if err == nil {
		err = h(tx, action)
	}
	if errors.Is(err, errIgnored) {
		return Result{State: state}
	}
	if err != nil {
		return c.reject(state, err, now)
	}

	if !systemActions[action.Type()] && action.Type() != ActionRest {
		tx.state.Resting = false
	}

	return Result{State: tx.state, Effects: tx.settle(), Tick: tx.tick, Offline: tx.offline}
}

// guard rejects player actions that are meaningless in the current state
func (c *Core) guard(state *game.State, action Action) error {
	if state == nil || systemActions[action.Type()] || allowedWhenDead[action.Type()] {
		return nil
	}
	if state.IsDead() {
		return shared.NewInvalidStateError("you are dead; respawn first")
	}
	return nil
}

// reject returns a copy of the original state carrying exactly one danger entry
func (c *Core) reject(state *game.State, err error, now time.Time) Result {
	if state == nil {
		return Result{Err: err}
	}
	out := state.Clone()
	out.AddLog(now, game.LogDanger, c.catalog.Tuning.MaxLogEntries, "%s", err.Error())
	return Result{State: out, Err: err}
}
