package production

import (
	"fmt"
	"time"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/inventory"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
)

// Family identifies one of the batch production lines
type Family string

const (
	FamilyComponents Family = "components"
	FamilyIronIngots Family = "iron_ingots"
	FamilyCharcoal   Family = "charcoal"
)

// Families lists every batch family in display order
var Families = []Family{FamilyComponents, FamilyIronIngots, FamilyCharcoal}

// ParseFamily validates a family name
func ParseFamily(s string) (Family, error) {
	for _, f := range Families {
		if string(f) == s {
			return f, nil
		}
	}
	return "", shared.NewValidationError("family", fmt.Sprintf("unknown batch family %q", s))
}

// Spec is the fixed recipe of a batch family
type Spec struct {
	Output   string          `yaml:"output"`
	Cost     inventory.Costs `yaml:"cost"`
	Duration time.Duration   `yaml:"duration"`
	Requires string          `yaml:"requires"`
	XP       int             `yaml:"xp"`
}

// Queue is a counter of pending identical batches retired one at a time by an external timer.
//
// Invariants:
//   - Count >= 0
//   - NextCompletionAt is set iff Count > 0
//   - NextCompletionAt is computed once when the chain (re)starts and then carried forward
type Queue struct {
	Count            int        `json:"count"`
	NextCompletionAt *time.Time `json:"next_completion_at,omitempty"`
}

// Enqueue adds amount batches. When the queue was idle the completion clock starts at now.
// Returns true when a new timer must be armed.
func (q *Queue) Enqueue(amount int, now time.Time, duration time.Duration) bool {
	if amount <= 0 {
		return false
	}
	wasIdle := q.Count == 0
	q.Count += amount
	if wasIdle || q.NextCompletionAt == nil {
		next := now.Add(duration)
		q.NextCompletionAt = &next
		return true
	}
	return false
}

// Due reports whether the head batch may be retired at now
func (q *Queue) Due(now time.Time) bool {
	return q.Count > 0 && q.NextCompletionAt != nil && !now.Before(*q.NextCompletionAt)
}

// Complete retires the head batch. The next deadline is derived from the stored one,
// not from now, so chained batches never drift.
func (q *Queue) Complete(now time.Time, duration time.Duration) error {
	if q.Count <= 0 {
		return shared.NewInvalidStateError("no batches queued")
	}
	if !q.Due(now) {
		return shared.NewNotReadyError(fmt.Sprintf("batch not finished until %s", q.NextCompletionAt.Format(time.RFC3339)))
	}

	q.Count--
	if q.Count == 0 {
		q.NextCompletionAt = nil
		return nil
	}
	next := q.NextCompletionAt.Add(duration)
	q.NextCompletionAt = &next
	return nil
}

// Normalize repairs a snapshot whose deadline and count disagree
func (q *Queue) Normalize(now time.Time, duration time.Duration) {
	if q.Count <= 0 {
		q.Count = 0
		q.NextCompletionAt = nil
		return
	}
	if q.NextCompletionAt == nil {
		next := now.Add(duration)
		q.NextCompletionAt = &next
	}
}

// Queues holds the three independent batch lines
type Queues struct {
	Components Queue `json:"components"`
	IronIngots Queue `json:"iron_ingots"`
	Charcoal   Queue `json:"charcoal"`
}

// Get returns the queue for family, or nil for an unknown family
func (qs *Queues) Get(f Family) *Queue {
	switch f {
	case FamilyComponents:
		return &qs.Components
	case FamilyIronIngots:
		return &qs.IronIngots
	case FamilyCharcoal:
		return &qs.Charcoal
	default:
		return nil
	}
}

// Clone copies the queues including deadline pointers
func (qs Queues) Clone() Queues {
	out := qs
	for _, f := range Families {
		q := out.Get(f)
		if q.NextCompletionAt != nil {
			t := *q.NextCompletionAt
			q.NextCompletionAt = &t
		}
	}
	return out
}
