package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/engine"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/session"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/production"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/shared"
)

// SweeperInterval is how often the sweeper retires batches whose timer was lost
const SweeperInterval = 30 * time.Second

// StateSource exposes the current game state read-only
type StateSource interface {
	State() *game.State
}

// BatchScheduler arms one timer per batch family at the absolute completion time
// the core computed, and dispatches FINISH_BATCH when it fires.
// A background sweeper catches batches that are overdue without a timer.
type BatchScheduler struct {
	sink   session.ActionSink
	source StateSource
	clock  shared.Clock
	logger *zap.Logger

	timers map[production.Family]armedTimer
	gen    uint64
	mu     sync.Mutex
	stopCh chan struct{}
	once   sync.Once
}

type armedTimer struct {
	timer *time.Timer
	gen   uint64
}

var _ session.Scheduler = (*BatchScheduler)(nil)

// NewBatchScheduler creates a scheduler dispatching into sink.
// source is optional; without it the sweeper has nothing to inspect.
func NewBatchScheduler(sink session.ActionSink, source StateSource, clock shared.Clock, logger *zap.Logger) *BatchScheduler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchScheduler{
		sink:   sink,
		source: source,
		clock:  clock,
		logger: logger.Named("BatchScheduler"),
		timers: make(map[production.Family]armedTimer),
		stopCh: make(chan struct{}),
	}
}

// ScheduleBatch arms (or re-arms) the timer of a family
func (s *BatchScheduler) ScheduleBatch(family production.Family, at time.Time) {
	delay := at.Sub(s.clock.Now())
	if delay < 0 {
		delay = 0 // Already past, fire immediately
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.timers[family]; ok {
		existing.timer.Stop()
	}

	s.gen++
	gen := s.gen
	s.timers[family] = armedTimer{
		timer: time.AfterFunc(delay, func() { s.fire(family, gen) }),
		gen:   gen,
	}

	s.logger.Debug("batch timer armed", zap.String("family", string(family)), zap.Duration("delay", delay))
}

func (s *BatchScheduler) fire(family production.Family, gen uint64) {
	s.mu.Lock()
	if armed, ok := s.timers[family]; ok && armed.gen == gen {
		delete(s.timers, family)
	}
	s.mu.Unlock()

	select {
	case <-s.stopCh:
		return
	default:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	res := s.sink.Dispatch(ctx, engine.FinishBatch{Family: family})
	if res.Err != nil {
		s.logger.Warn("batch completion rejected", zap.String("family", string(family)), zap.Error(res.Err))
	}
}

// Pending returns the number of armed timers
func (s *BatchScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// RunSweeper retires overdue batches that have no armed timer until ctx ends or Stop is called
func (s *BatchScheduler) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = SweeperInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep dispatches FINISH_BATCH for every family that is due and has no timer
func (s *BatchScheduler) Sweep(ctx context.Context) {
	if s.source == nil {
		return
	}
	st := s.source.State()
	if st == nil {
		return
	}
	now := s.clock.Now()
	for _, family := range production.Families {
		q := st.Queues.Get(family)
		if !q.Due(now) {
			continue
		}
		s.mu.Lock()
		_, armed := s.timers[family]
		s.mu.Unlock()
		if armed {
			continue
		}
		s.logger.Info("sweeper retiring overdue batch", zap.String("family", string(family)))
		s.sink.Dispatch(ctx, engine.FinishBatch{Family: family})
	}
}

// Stop cancels every timer and the sweeper
func (s *BatchScheduler) Stop() {
	s.once.Do(func() { close(s.stopCh) })

	s.mu.Lock()
	defer s.mu.Unlock()
	for family, armed := range s.timers {
		armed.timer.Stop()
		delete(s.timers, family)
	}
}
