package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/engine"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/session"
)

// TickLoop dispatches TICK at a fixed wall-clock period
type TickLoop struct {
	sink   session.ActionSink
	period time.Duration
	logger *zap.Logger
}

// NewTickLoop creates a loop; a non-positive period defaults to one second
func NewTickLoop(sink session.ActionSink, period time.Duration, logger *zap.Logger) *TickLoop {
	if period <= 0 {
		period = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TickLoop{sink: sink, period: period, logger: logger.Named("TickLoop")}
}

// Run ticks until ctx is cancelled
func (l *TickLoop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.period)
	defer ticker.Stop()

	l.logger.Info("tick loop started", zap.Duration("period", l.period))
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("tick loop stopped")
			return
		case <-ticker.C:
			res := l.sink.Dispatch(ctx, engine.Tick{})
			if res.Err != nil {
				l.logger.Warn("tick failed", zap.Error(res.Err))
				continue
			}
			if res.Tick == nil {
				continue
			}
			if res.Tick.Died {
				l.logger.Warn("player died")
			}
			if res.Tick.DroneResolved {
				l.logger.Debug("drone mission resolved")
			}
		}
	}
}
