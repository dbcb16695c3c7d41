package engine_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/engine"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/infrastructure/catalogfile"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// stubRoller always rolls the lowest outcome unless told otherwise
type stubRoller struct {
	n int
	f float64
}

func (r stubRoller) IntN(n int) int {
	if r.n >= n {
		return n - 1
	}
	return r.n
}

func (r stubRoller) Float64() float64 {
	return r.f
}

// newCore builds a core with deterministic rolls and sequential machine ids
func newCore(t *testing.T, r engine.Roller) *engine.Core {
	t.Helper()
	if r == nil {
		r = stubRoller{f: 0.99}
	}
	c := engine.NewCore(catalogfile.MustDefault(), r, engine.DefaultOptions())
	seq := 0
	c.SetIDGenerator(func(machineType string) string {
		seq++
		return fmt.Sprintf("%s-%d", machineType, seq)
	})
	return c
}

// newState starts a fresh game through INITIALIZE
func newState(t *testing.T, c *engine.Core) *game.State {
	t.Helper()
	res := c.Apply(nil, engine.Initialize{PlayerID: "player-1"}, t0)
	require.NoError(t, res.Err)
	require.NotNil(t, res.State)
	return res.State
}

// apply runs one action and requires it to succeed
func apply(t *testing.T, c *engine.Core, s *game.State, a engine.Action, now time.Time) engine.Result {
	t.Helper()
	res := c.Apply(s, a, now)
	require.NoError(t, res.Err, "action %s", a.Type())
	return res
}
