package helpers

import (
	"fmt"
	"testing"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/engine"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/infrastructure/catalogfile"
)

// FixedRoller returns the same rolls every time, clamped to the requested range
type FixedRoller struct {
	N int
	F float64
}

// IntN returns N, or n-1 when N is out of range
func (r FixedRoller) IntN(n int) int {
	if r.N >= n {
		return n - 1
	}
	return r.N
}

// Float64 returns F
func (r FixedRoller) Float64() float64 {
	return r.F
}

// NewCore builds a core over the default catalog with the given rolls and
// sequential machine ids ("<type>-1", "<type>-2", ...)
func NewCore(t testing.TB, roller engine.Roller) *engine.Core {
	t.Helper()
	c := engine.NewCore(catalogfile.MustDefault(), roller, engine.DefaultOptions())
	seq := 0
	c.SetIDGenerator(func(machineType string) string {
		seq++
		return fmt.Sprintf("%s-%d", machineType, seq)
	})
	return c
}
