package drone

import (
	"math"
	"sort"
	"time"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/inventory"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
)

// Spec is the fixed mission configuration
type Spec struct {
	Cost     inventory.Costs `yaml:"cost"`
	MaxQueue int             `yaml:"max_queue"`
	Duration time.Duration   `yaml:"duration"`
	Rolls    int             `yaml:"rolls"`
	Requires string          `yaml:"requires"`
}

// DefaultSpec mirrors the shipped data tables
var DefaultSpec = Spec{
	Cost:     inventory.Costs{"scrap": 3, "charcoal": 1},
	MaxQueue: 10,
	Duration: 60 * time.Second,
	Rolls:    15,
}

// LootEntry is one weighted outcome of a scavenging roll
type LootEntry struct {
	Resource string `yaml:"resource"`
	Weight   int    `yaml:"weight"`
	Amount   int    `yaml:"amount"`
}

// LootTable is the weighted roll table of a location
type LootTable []LootEntry

// Roller is the randomness source used for rolls. *rand.Rand satisfies it.
type Roller interface {
	IntN(n int) int
	Float64() float64
}

// Pick selects one entry by weight. Returns false for an empty or zero-weight table.
func (t LootTable) Pick(r Roller) (LootEntry, bool) {
	total := 0
	for _, e := range t {
		total += max(e.Weight, 0)
	}
	if total == 0 {
		return LootEntry{}, false
	}
	n := r.IntN(total)
	for _, e := range t {
		w := max(e.Weight, 0)
		if n < w {
			return e, true
		}
		n -= w
	}
	return LootEntry{}, false
}

// YieldMultiplier is (1+droneLevel*0.1)*(1+scavengeLevel*0.1)
func YieldMultiplier(droneLevel, scavengeLevel int) float64 {
	return (1 + float64(droneLevel)*0.1) * (1 + float64(scavengeLevel)*0.1)
}

// ScaledAmount rounds base*multiplier up, ignoring float noise below 1e-9
func ScaledAmount(base int, multiplier float64) int {
	return int(math.Ceil(float64(base)*multiplier - 1e-9))
}

// State is the drone queue plus the single active mission.
//
// Invariants:
//   - 0 <= QueueCount <= MaxQueue
//   - Active iff ReturnAt is set
//   - QueueCount decrements only on Launch
type State struct {
	QueueCount        int        `json:"queue_count"`
	Active            bool       `json:"active"`
	ReturnAt          *time.Time `json:"return_at,omitempty"`
	MissionsCompleted int        `json:"missions_completed"`
}

// Enqueue reserves amount missions without exceeding limit
func (s *State) Enqueue(amount, limit int) error {
	if amount <= 0 {
		return shared.NewValidationError("amount", "must queue at least one mission")
	}
	if amount > limit-s.QueueCount {
		return shared.NewQueueFullError(s.QueueCount, amount, limit)
	}
	s.QueueCount += amount
	return nil
}

// CanLaunch reports whether the next queued mission may depart
func (s *State) CanLaunch(power int) bool {
	return !s.Active && s.QueueCount > 0 && power > 0
}

// Launch sends the next queued mission out until now+duration
func (s *State) Launch(now time.Time, duration time.Duration, power int) error {
	switch {
	case s.Active:
		return shared.NewInvalidStateError("a drone is already out")
	case s.QueueCount <= 0:
		return shared.NewInvalidStateError("no drone missions queued")
	case power <= 0:
		return shared.NewInvalidStateError("no power to launch drones")
	}
	s.QueueCount--
	s.Active = true
	ret := now.Add(duration)
	s.ReturnAt = &ret
	return nil
}

// Returned reports whether the active mission is back
func (s *State) Returned(now time.Time) bool {
	return s.Active && s.ReturnAt != nil && !now.Before(*s.ReturnAt)
}

// Resolve closes the returned mission and rolls its haul.
// Each roll is scaled by multiplier and rounded up; results are summed per resource.
func (s *State) Resolve(now time.Time, table LootTable, rolls int, multiplier float64, r Roller) (map[string]int, error) {
	if !s.Returned(now) {
		return nil, shared.NewNotReadyError("drone has not returned yet")
	}

	haul := make(map[string]int)
	for i := 0; i < rolls; i++ {
		entry, ok := table.Pick(r)
		if !ok {
			break
		}
		haul[entry.Resource] += ScaledAmount(entry.Amount, multiplier)
	}

	s.Active = false
	s.ReturnAt = nil
	s.MissionsCompleted++
	return haul, nil
}

// Normalize repairs a snapshot that violates the invariants
func (s *State) Normalize(limit int) {
	s.QueueCount = min(max(s.QueueCount, 0), limit)
	if s.Active && s.ReturnAt == nil {
		s.Active = false
	}
	if !s.Active {
		s.ReturnAt = nil
	}
}

// Clone copies the state including the return timestamp
func (s State) Clone() State {
	out := s
	if s.ReturnAt != nil {
		t := *s.ReturnAt
		out.ReturnAt = &t
	}
	return out
}

// SortedKeys returns haul keys in stable order for log formatting
func SortedKeys(haul map[string]int) []string {
	keys := make([]string, 0, len(haul))
	for k := range haul {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
