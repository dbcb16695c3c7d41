package progression

import (
	"fmt"
	"math"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
)

// MaxLevel is the hard ceiling for player level
const MaxLevel = 100

// Curve yields the XP required to advance from a level to the next.
// threshold(level) = floor(Base * Growth^(level-1)), never below 1.
type Curve struct {
	Base   float64 `yaml:"base" json:"base"`
	Growth float64 `yaml:"growth" json:"growth"`
}

// DefaultCurve is the experience curve used when no data table overrides it
var DefaultCurve = Curve{Base: 100, Growth: 1.15}

// Validate ensures the curve is monotonic non-decreasing
func (c Curve) Validate() error {
	if c.Base < 1 {
		return fmt.Errorf("xp curve base must be >= 1, got %v", c.Base)
	}
	if c.Growth < 1 {
		return fmt.Errorf("xp curve growth must be >= 1, got %v", c.Growth)
	}
	return nil
}

// Threshold returns the XP needed to leave level
func (c Curve) Threshold(level int) int {
	if level < 1 {
		level = 1
	}
	// the epsilon keeps floor(100*1.15) at 115 despite float error
	v := math.Floor(c.Base*math.Pow(c.Growth, float64(level-1)) + 1e-9)
	if v > math.MaxInt32 || math.IsInf(v, 1) || math.IsNaN(v) {
		return math.MaxInt32
	}
	if v < 1 {
		return 1
	}
	return int(v)
}

// Progression is the level/XP/upgrade-point ledger.
//
// Invariants:
//   - 1 <= Level <= MaxLevel
//   - XP >= 0 and holds progress within the current level
//   - UpgradePoints only decrease through Spend
type Progression struct {
	Level         int `json:"level"`
	XP            int `json:"xp"`
	XPToNextLevel int `json:"xp_to_next_level"`
	UpgradePoints int `json:"upgrade_points"`
}

// New starts a fresh ledger at level 1
func New(curve Curve) Progression {
	return Progression{
		Level:         1,
		XPToNextLevel: curve.Threshold(1),
	}
}

// AddXP credits amount and levels up while the threshold is met.
// Each level gained awards one upgrade point. The loop is bounded by MaxLevel.
func (p *Progression) AddXP(amount int, curve Curve) (levelsGained int) {
	if amount <= 0 {
		return 0
	}
	p.Normalize(curve)
	p.XP += amount
	if p.XP < 0 {
		p.XP = math.MaxInt32
	}

	for p.XP >= p.XPToNextLevel && p.Level < MaxLevel {
		p.XP -= p.XPToNextLevel
		p.Level++
		p.UpgradePoints++
		levelsGained++
		p.XPToNextLevel = curve.Threshold(p.Level)
	}
	return levelsGained
}

// Spend consumes n upgrade points
func (p *Progression) Spend(n int) error {
	if n <= 0 {
		return shared.NewValidationError("upgrade_points", "spend amount must be positive")
	}
	if p.UpgradePoints < n {
		return shared.NewInvalidStateError(fmt.Sprintf("not enough upgrade points: need %d, have %d", n, p.UpgradePoints))
	}
	p.UpgradePoints -= n
	return nil
}

// Normalize repairs out-of-range values from an external snapshot
func (p *Progression) Normalize(curve Curve) {
	p.Level = min(max(p.Level, 1), MaxLevel)
	p.XP = max(p.XP, 0)
	p.UpgradePoints = max(p.UpgradePoints, 0)
	p.XPToNextLevel = curve.Threshold(p.Level)
}

// IsMaxLevel reports whether the ceiling has been reached
func (p Progression) IsMaxLevel() bool {
	return p.Level >= MaxLevel
}

// Ahead reports whether p is further along than other
func (p Progression) Ahead(other Progression) bool {
	if p.Level != other.Level {
		return p.Level > other.Level
	}
	return p.XP > other.XP
}
