package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/engine"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/session"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/machine"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/production"
)

// Action outcomes used as the result label
const (
	ResultApplied  = "applied"
	ResultRejected = "rejected"
	ResultIgnored  = "ignored"
)

// StateSource exposes the current game state read-only
type StateSource interface {
	State() *game.State
}

// GameMetricsCollector counts transitions as a session.Listener and
// periodically samples the state into gauges.
type GameMetricsCollector struct {
	source StateSource

	actionsTotal    *prometheus.CounterVec
	ticksTotal      prometheus.Counter
	deathsTotal     prometheus.Counter
	dronesTotal     prometheus.Counter
	narrativesTotal prometheus.Counter

	stat         *prometheus.GaugeVec
	power        prometheus.Gauge
	level        prometheus.Gauge
	coins        prometheus.Gauge
	machines     *prometheus.GaugeVec
	batchQueue   *prometheus.GaugeVec
	droneQueue   prometheus.Gauge
	inventoryUse prometheus.Gauge

	// Lifecycle
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

var _ session.Listener = (*GameMetricsCollector)(nil)

// NewGameMetricsCollector creates the simulation metrics; source feeds the gauges
func NewGameMetricsCollector(source StateSource) *GameMetricsCollector {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem, Name: name, Help: help,
		})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: subsystem, Name: name, Help: help,
		})
	}

	return &GameMetricsCollector{
		source: source,

		actionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "actions_total",
				Help:      "Dispatched actions by type and outcome",
			},
			[]string{"type", "result"},
		),
		ticksTotal:      counter("ticks_total", "Simulation ticks applied"),
		deathsTotal:     counter("deaths_total", "Player deaths"),
		dronesTotal:     counter("drone_missions_total", "Drone missions resolved"),
		narrativesTotal: counter("narrative_requests_total", "Explorations that requested an encounter"),

		stat: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "player_stat",
				Help:      "Current player vitals",
			},
			[]string{"stat"},
		),
		power: gauge("power", "Generator reservoir power"),
		level: gauge("player_level", "Player level"),
		coins: gauge("coins", "Coins held"),
		machines: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "machines",
				Help:      "Machines by status",
			},
			[]string{"status"},
		),
		batchQueue: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "batch_queue",
				Help:      "Queued batches by family",
			},
			[]string{"family"},
		),
		droneQueue:   gauge("drone_queue", "Queued drone missions"),
		inventoryUse: gauge("inventory_items", "Total items held"),
	}
}

// Register registers all metrics with the Prometheus registry
func (c *GameMetricsCollector) Register() error {
	return register(
		c.actionsTotal,
		c.ticksTotal,
		c.deathsTotal,
		c.dronesTotal,
		c.narrativesTotal,
		c.stat,
		c.power,
		c.level,
		c.coins,
		c.machines,
		c.batchQueue,
		c.droneQueue,
		c.inventoryUse,
	)
}

// OnTransition counts one dispatched action
func (c *GameMetricsCollector) OnTransition(_ context.Context, tr session.Transition) {
	if tr.Action == nil {
		return
	}
	result := ResultApplied
	switch {
	case tr.Result.Err != nil:
		result = ResultRejected
	case !tr.Changed():
		result = ResultIgnored
	}
	c.actionsTotal.WithLabelValues(string(tr.Action.Type()), result).Inc()

	if rep := tr.Result.Tick; rep != nil {
		c.ticksTotal.Inc()
		if rep.Died {
			c.deathsTotal.Inc()
		}
		if rep.DroneResolved {
			c.dronesTotal.Inc()
		}
	}
	for _, eff := range tr.Result.Effects {
		if _, ok := eff.(engine.RequestNarrative); ok {
			c.narrativesTotal.Inc()
		}
	}
}

// Start samples the state every interval until Stop
func (c *GameMetricsCollector) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	c.ctx, c.cancelFunc = context.WithCancel(ctx)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-c.ctx.Done():
				return
			case <-ticker.C:
				c.Sample()
			}
		}
	}()
}

// Stop gracefully stops the sampling goroutine
func (c *GameMetricsCollector) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
}

// Sample copies the current state into the gauges
func (c *GameMetricsCollector) Sample() {
	if c.source == nil {
		return
	}
	s := c.source.State()
	if s == nil {
		return
	}

	c.stat.WithLabelValues("health").Set(s.Stats.Health)
	c.stat.WithLabelValues("hunger").Set(s.Stats.Hunger)
	c.stat.WithLabelValues("thirst").Set(s.Stats.Thirst)
	c.stat.WithLabelValues("energy").Set(s.Stats.Energy)
	c.power.Set(float64(s.Power))
	c.level.Set(float64(s.Progression.Level))
	c.coins.Set(float64(s.Coins))
	c.droneQueue.Set(float64(s.Drone.QueueCount))

	counts := make(map[machine.Status]int, len(machine.Statuses))
	for _, m := range s.Machines {
		counts[m.Status]++
	}
	for _, st := range machine.Statuses {
		c.machines.WithLabelValues(string(st)).Set(float64(counts[st]))
	}

	for _, f := range production.Families {
		c.batchQueue.WithLabelValues(string(f)).Set(float64(s.Queues.Get(f).Count))
	}

	total := 0
	for _, n := range s.Inventory {
		total += n
	}
	c.inventoryUse.Set(float64(total))
}
