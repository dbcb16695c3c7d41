package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/inventory"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/machine"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/production"
)

// StateFormatter renders a game state for the terminal
type StateFormatter struct {
	useColors bool
	now       time.Time
}

// NewStateFormatter creates a formatter; now is used for countdowns
func NewStateFormatter(useColors bool, now time.Time) *StateFormatter {
	return &StateFormatter{useColors: useColors, now: now}
}

// Format renders the full state summary
func (f *StateFormatter) Format(s *game.State) string {
	if s == nil {
		return "(no game)"
	}
	var b strings.Builder

	name := s.DisplayName
	if name == "" {
		name = s.PlayerID
	}
	fmt.Fprintf(&b, "%s @ %s", name, s.Location)
	if s.IsDead() {
		fmt.Fprintf(&b, "  %sDEAD%s", f.color("\033[31m"), f.colorReset())
	} else if s.Resting {
		b.WriteString("  (resting)")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "  Health %5.1f  Hunger %5.1f  Thirst %5.1f  Energy %5.1f\n",
		s.Stats.Health, s.Stats.Hunger, s.Stats.Thirst, s.Stats.Energy)
	fmt.Fprintf(&b, "  Level %d (%d/%d xp, %d points)  Coins %d  Power %d  Deaths %d\n",
		s.Progression.Level, s.Progression.XP, s.Progression.XPToNextLevel, s.Progression.UpgradePoints,
		s.Coins, s.Power, s.Deaths)

	b.WriteString("\nInventory:\n")
	f.formatItems(&b, s.Inventory, "  ")

	if len(s.Machines) > 0 {
		b.WriteString("\nMachines:\n")
		for i, m := range s.Machines {
			f.formatMachine(&b, m, i == len(s.Machines)-1)
		}
	}

	b.WriteString("\nProduction:\n")
	for _, family := range production.Families {
		q := s.Queues.Get(family)
		if q == nil || q.Count == 0 {
			fmt.Fprintf(&b, "  %-12s idle\n", family)
			continue
		}
		fmt.Fprintf(&b, "  %-12s %d queued%s\n", family, q.Count, f.countdown(q.NextCompletionAt))
	}
	fmt.Fprintf(&b, "  %-12s %d queued", "drone", s.Drone.QueueCount)
	if s.Drone.Active {
		fmt.Fprintf(&b, ", mission out%s", f.countdown(s.Drone.ReturnAt))
	}
	b.WriteString("\n")

	return b.String()
}

// FormatLog renders the newest n logbook entries, newest first
func (f *StateFormatter) FormatLog(s *game.State, n int) string {
	if s == nil || len(s.Log) == 0 {
		return "(empty log)"
	}
	var b strings.Builder
	for i, e := range s.Log {
		if i == n {
			break
		}
		fmt.Fprintf(&b, "%s %s%-7s%s %s\n", e.Timestamp.Format("15:04:05"), f.logColor(e.Type), e.Type, f.colorReset(), e.Message)
	}
	return b.String()
}

func (f *StateFormatter) formatMachine(b *strings.Builder, m machine.Machine, isLast bool) {
	prefix, childPrefix := "├── ", "│   "
	if isLast {
		prefix, childPrefix = "└── ", "    "
	}
	fmt.Fprintf(b, "  %s%s [%s%s%s]", prefix, m.ID, f.statusColor(m.Status), m.Status, f.colorReset())
	if m.Recipe != "" {
		fmt.Fprintf(b, " %s %.0f%%", m.Recipe, m.Progress*100)
	}
	if m.Type.IsBurner() {
		fmt.Fprintf(b, " fuel %d", m.FuelLevel)
	}
	b.WriteString("\n")
	if len(m.InputBuffer) > 0 {
		fmt.Fprintf(b, "  %sin:  %s\n", childPrefix, compactItems(m.InputBuffer))
	}
	if len(m.OutputBuffer) > 0 {
		fmt.Fprintf(b, "  %sout: %s\n", childPrefix, compactItems(m.OutputBuffer))
	}
}

func (f *StateFormatter) formatItems(b *strings.Builder, inv inventory.Inventory, indent string) {
	keys := sortedKeys(inv)
	if len(keys) == 0 {
		fmt.Fprintf(b, "%s(empty)\n", indent)
		return
	}
	for _, k := range keys {
		fmt.Fprintf(b, "%s%-16s %4d\n", indent, k, inv[k])
	}
}

func (f *StateFormatter) countdown(at *time.Time) string {
	if at == nil {
		return ""
	}
	left := at.Sub(f.now).Round(time.Second)
	if left <= 0 {
		return ", due"
	}
	return fmt.Sprintf(", next in %s", left)
}

func (f *StateFormatter) statusColor(s machine.Status) string {
	switch s {
	case machine.StatusRunning:
		return f.color("\033[32m")
	case machine.StatusIdle:
		return ""
	default:
		return f.color("\033[33m")
	}
}

func (f *StateFormatter) logColor(t game.LogType) string {
	switch t {
	case game.LogSuccess:
		return f.color("\033[32m")
	case game.LogWarning:
		return f.color("\033[33m")
	case game.LogDanger:
		return f.color("\033[31m")
	default:
		return ""
	}
}

func (f *StateFormatter) color(code string) string {
	if !f.useColors {
		return ""
	}
	return code
}

func (f *StateFormatter) colorReset() string {
	return f.color("\033[0m")
}

func compactItems(inv inventory.Inventory) string {
	keys := sortedKeys(inv)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s×%d", k, inv[k]))
	}
	return strings.Join(parts, ", ")
}

func sortedKeys(inv inventory.Inventory) []string {
	keys := make([]string, 0, len(inv))
	for k, n := range inv {
		if n > 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
