package farm

import (
	"fmt"
	"math"
	"time"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
)

// Crop is the growth table entry for one seed
type Crop struct {
	Produce  string        `yaml:"produce"`
	GrowTime time.Duration `yaml:"grow_time"`
	MinYield int           `yaml:"min_yield"`
	MaxYield int           `yaml:"max_yield"`
	XP       int           `yaml:"xp"`
}

// Roller is the randomness source for yields and refunds
type Roller interface {
	IntN(n int) int
	Float64() float64
}

// GrowDuration is base*(1-0.15*greenThumb), never shorter than a tenth of base
func GrowDuration(base time.Duration, greenThumb int) time.Duration {
	factor := max(0.1, 1-0.15*float64(greenThumb))
	return time.Duration(math.Round(float64(base) * factor))
}

// Plot is a single farm slot.
//
// Invariant: Seed is set iff PlantedAt is set.
type Plot struct {
	ID        int           `json:"id"`
	Seed      string        `json:"seed,omitempty"`
	PlantedAt *time.Time    `json:"planted_at,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
}

// Harvest is the outcome of a successful harvest
type Harvest struct {
	Produce      string
	Amount       int
	Seed         string
	SeedRefunded bool
	XP           int
}

// IsEmpty reports whether nothing is growing
func (p Plot) IsEmpty() bool {
	return p.Seed == ""
}

// ReadyAt is when the crop may be harvested. Zero for an empty plot.
func (p Plot) ReadyAt() time.Time {
	if p.PlantedAt == nil {
		return time.Time{}
	}
	return p.PlantedAt.Add(p.Duration)
}

// IsReady reports whether the crop can be harvested at now
func (p Plot) IsReady(now time.Time) bool {
	return !p.IsEmpty() && p.PlantedAt != nil && !now.Before(p.ReadyAt())
}

// Plant sows seed at now
func (p *Plot) Plant(seed string, crop Crop, greenThumb int, now time.Time) error {
	if !p.IsEmpty() {
		return shared.NewSlotUnavailableError(fmt.Sprintf("plot %d is already growing %s", p.ID, p.Seed))
	}
	planted := now
	p.Seed = seed
	p.PlantedAt = &planted
	p.Duration = GrowDuration(crop.GrowTime, greenThumb)
	return nil
}

// Harvest collects a mature crop. Yield is rand[min,max] plus flatBonus;
// refundChance is the probability of getting the seed back.
func (p *Plot) Harvest(crop Crop, flatBonus int, refundChance float64, now time.Time, r Roller) (Harvest, error) {
	if p.IsEmpty() {
		return Harvest{}, shared.NewInvalidStateError(fmt.Sprintf("plot %d has nothing planted", p.ID))
	}
	if !p.IsReady(now) {
		remaining := p.ReadyAt().Sub(now).Round(time.Second)
		return Harvest{}, shared.NewNotReadyError(fmt.Sprintf("%s in plot %d needs %s more", p.Seed, p.ID, remaining))
	}

	lo, hi := crop.MinYield, max(crop.MaxYield, crop.MinYield)
	amount := lo
	if hi > lo {
		amount += r.IntN(hi - lo + 1)
	}
	amount += max(flatBonus, 0)

	h := Harvest{
		Produce:      crop.Produce,
		Amount:       amount,
		Seed:         p.Seed,
		SeedRefunded: refundChance > 0 && r.Float64() < refundChance,
		XP:           crop.XP,
	}

	p.Seed = ""
	p.PlantedAt = nil
	p.Duration = 0
	return h, nil
}

// Normalize repairs a snapshot that violates the seed/timestamp invariant
func (p *Plot) Normalize() {
	if p.Seed == "" || p.PlantedAt == nil {
		p.Seed = ""
		p.PlantedAt = nil
		p.Duration = 0
	}
}

// Clone copies the plot including its timestamp
func (p Plot) Clone() Plot {
	out := p
	if p.PlantedAt != nil {
		t := *p.PlantedAt
		out.PlantedAt = &t
	}
	return out
}
