package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cucumber/godog"
	"github.com/cucumber/messages/go/v21"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/engine"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/session"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/inventory"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/machine"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/production"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/infrastructure/catalogfile"
	"github.com/Cea89585/Wasteland-Automata-sub000/test/helpers"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type colonyContext struct {
	core     *engine.Core
	store    *helpers.MemorySnapshotStore
	sim      *session.Simulator
	playerID string
	pending  *game.State

	last        engine.Result
	logsAtStart map[game.LogType]int
}

func (c *colonyContext) reset() error {
	c.core = engine.NewCore(catalogfile.MustDefault(), helpers.FixedRoller{F: 0.99}, engine.DefaultOptions())
	seq := 0
	c.core.SetIDGenerator(func(machineType string) string {
		seq++
		return fmt.Sprintf("%s-%d", machineType, seq)
	})
	c.store = helpers.NewMemorySnapshotStore()
	c.sim = nil
	c.pending = nil
	c.playerID = ""
	c.last = engine.Result{}
	c.logsAtStart = nil
	return nil
}

// state returns the running game, starting the session on first use
func (c *colonyContext) state() (*game.State, error) {
	if err := c.ensureStarted(); err != nil {
		return nil, err
	}
	return c.sim.Dispatcher().State(), nil
}

func (c *colonyContext) ensureStarted() error {
	if c.sim != nil {
		return nil
	}
	if c.pending == nil {
		return fmt.Errorf("no game has been set up")
	}
	c.store.Put(c.pending)
	c.sim = session.NewSimulator(c.core, shared.NewMockClock(epoch), c.store, time.Second,
		session.WithAutosaver(session.NewAutosaver(c.store, 2*time.Second, nil)))
	if _, err := c.sim.Start(context.Background(), c.playerID); err != nil {
		return err
	}
	started := c.sim.Dispatcher().State()
	c.logsAtStart = make(map[game.LogType]int)
	for _, t := range []game.LogType{game.LogInfo, game.LogSuccess, game.LogWarning, game.LogDanger} {
		c.logsAtStart[t] = started.CountLogs(t)
	}
	return nil
}

// setup returns the snapshot Given steps may still edit
func (c *colonyContext) setup() (*game.State, error) {
	if c.sim != nil {
		return nil, fmt.Errorf("the game has already started")
	}
	if c.pending == nil {
		return nil, fmt.Errorf("no game has been set up")
	}
	return c.pending, nil
}

func (c *colonyContext) dispatch(a engine.Action) error {
	if err := c.ensureStarted(); err != nil {
		return err
	}
	c.last = c.sim.Dispatch(context.Background(), a)
	return nil
}

// Given steps

func (c *colonyContext) aNewGameFor(playerID string) error {
	res := c.core.Apply(nil, engine.Initialize{PlayerID: playerID}, epoch)
	if res.Err != nil {
		return res.Err
	}
	s := res.State.Clone()
	s.Initialized = false
	s.LastSavedAt = epoch
	c.playerID = playerID
	c.pending = s
	return nil
}

func (c *colonyContext) theStorageUpgradeIsAtLevel(level int) error {
	s, err := c.setup()
	if err != nil {
		return err
	}
	s.Upgrades.Storage = level
	return nil
}

func (c *colonyContext) theInventoryHolds(table *godog.Table) error {
	s, err := c.setup()
	if err != nil {
		return err
	}
	s.Inventory = inventory.New()
	for _, row := range table.Rows[1:] {
		item := getCellValue(table, row, "item")
		amount, err := strconv.Atoi(getCellValue(table, row, "amount"))
		if err != nil {
			return fmt.Errorf("bad amount for %s: %w", item, err)
		}
		s.Inventory[item] = amount
	}
	return nil
}

func (c *colonyContext) theDroneQueueHoldsMissions(n int) error {
	s, err := c.setup()
	if err != nil {
		return err
	}
	s.Drone.QueueCount = n
	return nil
}

func (c *colonyContext) thePlayerIsDeadAfterDeaths(deaths int) error {
	s, err := c.setup()
	if err != nil {
		return err
	}
	s.Stats.Health = 0
	s.Deaths = deaths
	return nil
}

func (c *colonyContext) theMachines(table *godog.Table) error {
	s, err := c.setup()
	if err != nil {
		return err
	}
	s.Machines = nil
	for _, row := range table.Rows[1:] {
		t, err := machine.ParseType(getCellValue(table, row, "type"))
		if err != nil {
			return err
		}
		m := machine.New(getCellValue(table, row, "id"), t, getCellValue(table, row, "recipe"))
		if m.FuelLevel, err = strconv.Atoi(getCellValue(table, row, "fuel")); err != nil {
			return err
		}
		scrap, err := strconv.Atoi(getCellValue(table, row, "scrap"))
		if err != nil {
			return err
		}
		if scrap > 0 {
			m.InputBuffer["scrap"] = scrap
		}
		if m.Progress, err = strconv.ParseFloat(getCellValue(table, row, "progress"), 64); err != nil {
			return err
		}
		s.Machines = append(s.Machines, m)
	}
	return nil
}

// When steps

func (c *colonyContext) thePlayerStartsBatches(n int, family string) error {
	return c.dispatch(engine.StartBatch{Family: production.Family(family), Amount: n})
}

func (c *colonyContext) thePlayerQueuesDroneMissions(n int) error {
	return c.dispatch(engine.QueueDrone{Amount: n})
}

func (c *colonyContext) thePlayerSends(actionType string) error {
	return c.thePlayerSendsWith(actionType, "")
}

func (c *colonyContext) thePlayerSendsWith(actionType, payload string) error {
	envelope := map[string]any{"type": actionType}
	if payload != "" {
		envelope["payload"] = json.RawMessage(payload)
	}
	raw, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	a, err := engine.DecodeAction(raw)
	if err != nil {
		return err
	}
	return c.dispatch(a)
}

func (c *colonyContext) secondsPass(n int) error {
	if err := c.ensureStarted(); err != nil {
		return err
	}
	c.sim.Advance(context.Background(), time.Duration(n)*time.Second)
	return nil
}

func (c *colonyContext) theSessionIsClosed() error {
	if err := c.ensureStarted(); err != nil {
		return err
	}
	return c.sim.Close(context.Background())
}

// Then steps

func (c *colonyContext) theActionShouldBeApplied() error {
	if c.last.Err != nil {
		return fmt.Errorf("expected the action to be applied, got %v", c.last.Err)
	}
	return nil
}

func (c *colonyContext) theActionShouldBeRejected() error {
	if c.last.Err == nil {
		return fmt.Errorf("expected the action to be rejected")
	}
	return nil
}

func (c *colonyContext) theInventoryShouldHold(table *godog.Table) error {
	s, err := c.state()
	if err != nil {
		return err
	}
	for _, row := range table.Rows[1:] {
		item := getCellValue(table, row, "item")
		want, err := strconv.Atoi(getCellValue(table, row, "amount"))
		if err != nil {
			return err
		}
		if got := s.Inventory.Get(item); got != want {
			return fmt.Errorf("expected %d %s, got %d", want, item, got)
		}
	}
	return nil
}

func (c *colonyContext) theQueueShouldHoldBatches(family string, want int) error {
	s, err := c.state()
	if err != nil {
		return err
	}
	q := s.Queues.Get(production.Family(family))
	if q.Count != want {
		return fmt.Errorf("expected %d %s batches queued, got %d", want, family, q.Count)
	}
	if want == 0 && q.NextCompletionAt != nil {
		return fmt.Errorf("an empty %s queue should have no completion time", family)
	}
	return nil
}

func (c *colonyContext) theDroneQueueShouldHoldMissions(want int) error {
	s, err := c.state()
	if err != nil {
		return err
	}
	if s.Drone.QueueCount != want {
		return fmt.Errorf("expected %d queued missions, got %d", want, s.Drone.QueueCount)
	}
	return nil
}

func (c *colonyContext) theLogShouldHaveNewEntries(want int, logType string) error {
	s, err := c.state()
	if err != nil {
		return err
	}
	t := game.LogType(logType)
	if got := s.CountLogs(t) - c.logsAtStart[t]; got != want {
		return fmt.Errorf("expected %d new %s entries, got %d", want, logType, got)
	}
	return nil
}

func (c *colonyContext) findMachine(id string) (machine.Machine, error) {
	s, err := c.state()
	if err != nil {
		return machine.Machine{}, err
	}
	for _, m := range s.Machines {
		if m.ID == id {
			return m, nil
		}
	}
	return machine.Machine{}, fmt.Errorf("machine %s not found", id)
}

func (c *colonyContext) machineShouldBeWithProgress(id, status string, progress float64) error {
	m, err := c.findMachine(id)
	if err != nil {
		return err
	}
	if string(m.Status) != status || m.Progress != progress {
		return fmt.Errorf("expected %s to be %s at %.1f, got %s at %.1f", id, status, progress, m.Status, m.Progress)
	}
	return nil
}

func (c *colonyContext) machineShouldBeWithFuel(id, status string, fuel int) error {
	m, err := c.findMachine(id)
	if err != nil {
		return err
	}
	if string(m.Status) != status || m.FuelLevel != fuel {
		return fmt.Errorf("expected %s to be %s with %d fuel, got %s with %d", id, status, fuel, m.Status, m.FuelLevel)
	}
	return nil
}

func (c *colonyContext) machineShouldHaveInItsOutput(id string, want int, item string) error {
	m, err := c.findMachine(id)
	if err != nil {
		return err
	}
	if got := m.OutputBuffer.Get(item); got != want {
		return fmt.Errorf("expected %d %s in %s output, got %d", want, item, id, got)
	}
	return nil
}

func (c *colonyContext) thePlayersHealthShouldBe(want float64) error {
	s, err := c.state()
	if err != nil {
		return err
	}
	if s.Stats.Health != want {
		return fmt.Errorf("expected health %.1f, got %.1f", want, s.Stats.Health)
	}
	return nil
}

func (c *colonyContext) thePlayersHealthShouldBeAbove(floor float64) error {
	s, err := c.state()
	if err != nil {
		return err
	}
	if s.Stats.Health <= floor {
		return fmt.Errorf("expected health above %.1f, got %.1f", floor, s.Stats.Health)
	}
	return nil
}

func (c *colonyContext) thePlayerShouldHaveDied(want int) error {
	s, err := c.state()
	if err != nil {
		return err
	}
	if s.Deaths != want {
		return fmt.Errorf("expected %d deaths, got %d", want, s.Deaths)
	}
	return nil
}

func (c *colonyContext) theStoreShouldHaveBeenWritten(want int) error {
	if got := c.store.WriteCount(); got != want {
		return fmt.Errorf("expected %d snapshot writes, got %d", want, got)
	}
	return nil
}

func (c *colonyContext) theStoredGameShouldHold(want int, item string) error {
	s, err := c.store.Get(context.Background(), c.playerID)
	if err != nil {
		return err
	}
	if got := s.Inventory.Get(item); got != want {
		return fmt.Errorf("expected the stored game to hold %d %s, got %d", want, item, got)
	}
	return nil
}

// getCellValue returns the cell under the named header column
func getCellValue(table *godog.Table, row *messages.PickleTableRow, column string) string {
	for i, cell := range table.Rows[0].Cells {
		if cell.Value == column && i < len(row.Cells) {
			return row.Cells[i].Value
		}
	}
	return ""
}

// InitializeColonyScenario registers the colony simulation steps
func InitializeColonyScenario(ctx *godog.ScenarioContext) {
	c := &colonyContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, c.reset()
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if c.sim != nil {
			c.sim.Dispatcher().Wait()
		}
		return ctx, nil
	})

	ctx.Step(`^a new game for "([^"]*)"$`, c.aNewGameFor)
	ctx.Step(`^the storage upgrade is at level (\d+)$`, c.theStorageUpgradeIsAtLevel)
	ctx.Step(`^the inventory holds:$`, c.theInventoryHolds)
	ctx.Step(`^the drone queue holds (\d+) missions$`, c.theDroneQueueHoldsMissions)
	ctx.Step(`^the player is dead after (\d+) deaths?$`, c.thePlayerIsDeadAfterDeaths)
	ctx.Step(`^the machines:$`, c.theMachines)

	ctx.Step(`^the player starts (\d+) "([^"]*)" batch(?:es)?$`, c.thePlayerStartsBatches)
	ctx.Step(`^the player queues (\d+) drone missions?$`, c.thePlayerQueuesDroneMissions)
	ctx.Step(`^the player sends "([^"]*)"$`, c.thePlayerSends)
	ctx.Step(`^the player sends "([^"]*)" with '([^']*)'$`, c.thePlayerSendsWith)
	ctx.Step(`^(\d+) seconds? pass(?:es)?$`, c.secondsPass)
	ctx.Step(`^the session is closed$`, c.theSessionIsClosed)

	ctx.Step(`^the action should be applied$`, c.theActionShouldBeApplied)
	ctx.Step(`^the action should be rejected$`, c.theActionShouldBeRejected)
	ctx.Step(`^the inventory should hold:$`, c.theInventoryShouldHold)
	ctx.Step(`^the "([^"]*)" queue should hold (\d+) batch(?:es)?$`, c.theQueueShouldHoldBatches)
	ctx.Step(`^the drone queue should hold (\d+) missions$`, c.theDroneQueueShouldHoldMissions)
	ctx.Step(`^the log should have (\d+) new "([^"]*)" entr(?:y|ies)$`, c.theLogShouldHaveNewEntries)
	ctx.Step(`^machine "([^"]*)" should be "([^"]*)" with progress (\d+(?:\.\d+)?)$`, c.machineShouldBeWithProgress)
	ctx.Step(`^machine "([^"]*)" should be "([^"]*)" with fuel (\d+)$`, c.machineShouldBeWithFuel)
	ctx.Step(`^machine "([^"]*)" should have (\d+) "([^"]*)" in its output$`, c.machineShouldHaveInItsOutput)
	ctx.Step(`^the player's health should be (\d+(?:\.\d+)?)$`, c.thePlayersHealthShouldBe)
	ctx.Step(`^the player's health should be above (\d+(?:\.\d+)?)$`, c.thePlayersHealthShouldBeAbove)
	ctx.Step(`^the player should have died (\d+) times?$`, c.thePlayerShouldHaveDied)
	ctx.Step(`^the store should have been written (\d+) times?$`, c.theStoreShouldHaveBeenWritten)
	ctx.Step(`^the stored game should hold (\d+) "([^"]*)"$`, c.theStoredGameShouldHold)
}
