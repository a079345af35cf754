package aggregation

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs SyncAll on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	syncer  *Syncer
	logger  *zap.Logger
	timeout time.Duration
}

// NewScheduler registers syncer.SyncAll under the standard five-field cron
// spec. Each run is bounded by timeout.
func NewScheduler(spec string, syncer *Syncer, timeout time.Duration, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		cron:    cron.New(),
		syncer:  syncer,
		logger:  logger,
		timeout: timeout,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid sync schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start begins running the schedule in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	for _, entry := range s.cron.Entries() {
		s.logger.Info("account sync scheduled",
			zap.String("op", "aggregation.Scheduler.Start"),
			zap.Time("next", entry.Next))
	}
}

// Stop halts the schedule and waits for a running sync to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) run() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if _, err := s.syncer.SyncAll(ctx); err != nil {
		s.logger.Error("scheduled account sync failed",
			zap.String("op", "aggregation.Scheduler.run"),
			zap.Error(err))
	}
}
