package engine

import (
	"time"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/production"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
)

// ReconcileReport describes an offline catch-up
type ReconcileReport struct {
	Ticks        int
	Applied      bool
	Passive      map[string]int
	Energy       float64
	PowerDrained int
}

// OfflineTicks is floor((now-since)/period), never negative
func OfflineTicks(since, now time.Time, period time.Duration) int {
	if period <= 0 || !now.After(since) {
		return 0
	}
	return int(now.Sub(since) / period)
}

// Reconcile catches the passive systems up with the time elapsed since the last save.
// It returns a new state and never modifies s. Below the minimum tick count it is a no-op.
func (c *Core) Reconcile(s *game.State, now time.Time) (*game.State, ReconcileReport) {
	if s == nil {
		return nil, ReconcileReport{}
	}
	out := s.Clone()
	report := c.reconcile(out, now)
	if !report.Applied {
		return s, report
	}
	return out, report
}

// reconcile applies closed-form catch-up in place.
// Each system writes at most one summary log line.
func (c *Core) reconcile(s *game.State, now time.Time) ReconcileReport {
	report := ReconcileReport{
		Ticks:   OfflineTicks(s.LastSavedAt, now, c.opts.TickPeriod),
		Passive: make(map[string]int),
	}
	if report.Ticks <= 0 || report.Ticks < c.opts.OfflineMinTicks {
		return report
	}
	report.Applied = true

	t := c.catalog.Tuning
	limit := s.InventoryCap(t)
	logf := func(lt game.LogType, format string, args ...any) {
		s.AddLog(now, lt, t.MaxLogEntries, format, args...)
	}

	for _, id := range c.catalog.PassiveStructures() {
		if !s.HasStructure(id) {
			continue
		}
		p := c.catalog.Structures[id].Passive
		cycles := report.Ticks / p.EveryTicks
		if got := s.Inventory.Add(p.Output, cycles*p.Amount, limit); got > 0 {
			report.Passive[p.Output] += got
			logf(game.LogInfo, "While you were away, the %s produced %d %s",
				c.catalog.Structures[id].Name, got, c.catalog.DisplayName(p.Output))
		}
	}

	// the dead do not recover, same as a live tick
	capEnergy := s.StatCaps(t).Energy
	if gain := min(max(capEnergy-s.Stats.Energy, 0), float64(report.Ticks)*t.EnergyRegen); gain > 0 && !s.IsDead() {
		s.Stats.Energy += gain
		report.Energy = gain
		logf(game.LogInfo, "You feel rested (+%.0f energy)", gain)
	}

	if drain := min(s.Power, report.Ticks*t.PowerDecay); drain > 0 {
		s.Power -= drain
		report.PowerDrained = drain
		if s.Power == 0 {
			logf(game.LogWarning, "The generator ran dry while you were away")
		} else {
			logf(game.LogInfo, "The generator burned %d power while you were away", drain)
		}
	}

	s.LastSavedAt = now
	return report
}

// handleInitialize adopts a snapshot (or fresh defaults), reconciles offline time
// and re-arms the batch timers of any running queue.
func handleInitialize(tx *txn, action Action) error {
	a, err := as[Initialize](action)
	if err != nil {
		return err
	}

	if a.Snapshot == nil {
		if a.PlayerID == "" {
			return shared.NewValidationError("player_id", "a player id is required for a new game")
		}
		tx.state = game.New(a.PlayerID, tx.cat, tx.now)
		tx.state.Initialized = true
		tx.log(game.LogSuccess, "You wake up in %s with little more than the clothes on your back",
			tx.cat.Locations[tx.state.Location].Name)
		return nil
	}

	s := a.Snapshot.Clone()
	if s.PlayerID == "" {
		s.PlayerID = a.PlayerID
	}
	s.Normalize(tx.cat, tx.now)
	tx.state = s

	report := tx.core.reconcile(s, tx.now)
	tx.offline = &report
	s.Initialized = true
	tx.log(game.LogInfo, "Welcome back to %s", tx.cat.Locations[s.Location].Name)

	for _, f := range production.Families {
		if q := s.Queues.Get(f); q.NextCompletionAt != nil {
			tx.emit(ScheduleBatch{Family: f, At: *q.NextCompletionAt})
		}
	}
	return nil
}
