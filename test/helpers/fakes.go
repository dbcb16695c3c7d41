package helpers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/narrative"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/production"
)

// MemorySnapshotStore is an in-memory game.SnapshotStore that applies the merge guard
type MemorySnapshotStore struct {
	mu        sync.Mutex
	snapshots map[string]*game.State
	Writes    int
	FailGet   error
	FailWrite error
}

// NewMemorySnapshotStore creates an empty store
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{snapshots: make(map[string]*game.State)}
}

// Get returns a copy of the stored snapshot
func (m *MemorySnapshotStore) Get(_ context.Context, playerID string) (*game.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailGet != nil {
		return nil, m.FailGet
	}
	s, ok := m.snapshots[playerID]
	if !ok {
		return nil, game.ErrSnapshotNotFound
	}
	return s.Clone(), nil
}

// MergeWrite merges s into the stored snapshot
func (m *MemorySnapshotStore) MergeWrite(_ context.Context, s *game.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrite != nil {
		return m.FailWrite
	}
	m.snapshots[s.PlayerID] = game.Merge(m.snapshots[s.PlayerID], s)
	m.Writes++
	return nil
}

// Put stores s as is, bypassing the merge
func (m *MemorySnapshotStore) Put(s *game.State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[s.PlayerID] = s.Clone()
}

// WriteCount returns the number of successful writes
func (m *MemorySnapshotStore) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Writes
}

// ScheduledBatch is one recorded ScheduleBatch call
type ScheduledBatch struct {
	Family production.Family
	At     time.Time
}

// RecordingScheduler records armed batch timers without firing them
type RecordingScheduler struct {
	mu    sync.Mutex
	calls []ScheduledBatch
}

// ScheduleBatch records the call
func (r *RecordingScheduler) ScheduleBatch(family production.Family, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, ScheduledBatch{Family: family, At: at})
}

// Calls returns the recorded calls in order
func (r *RecordingScheduler) Calls() []ScheduledBatch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ScheduledBatch(nil), r.calls...)
}

// ErrGeneratorDown is returned by a failing StubGenerator
var ErrGeneratorDown = errors.New("generator unavailable")

// StubGenerator returns a fixed encounter, or Err when set
type StubGenerator struct {
	Response narrative.Response
	Err      error

	mu       sync.Mutex
	requests []narrative.Request
}

// Generate records req and returns the configured outcome
func (g *StubGenerator) Generate(ctx context.Context, req narrative.Request) (narrative.Response, error) {
	g.mu.Lock()
	g.requests = append(g.requests, req)
	g.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return narrative.Response{}, err
	}
	if g.Err != nil {
		return narrative.Response{}, g.Err
	}
	return g.Response, nil
}

// Requests returns the recorded requests
func (g *StubGenerator) Requests() []narrative.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]narrative.Request(nil), g.requests...)
}
