// Package job provides background job schedulers.
package job

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/akoun-dev/africahub-sub004/internal/app/service"
	"github.com/akoun-dev/africahub-sub004/pkg/locker"
)

// retentionLockKey coordinates pruning across instances; only one runs it
// per interval.
const retentionLockKey = "analytics:retention:lock"

// RetentionScheduler periodically prunes analytics counters past the
// retention horizon, with distributed locking so only one instance executes
// the prune at a time.
type RetentionScheduler struct {
	analytics *service.AnalyticsService
	interval  time.Duration
	horizon   time.Duration
	lockTTL   time.Duration
	logger    *zap.Logger
	locker    locker.DistributedLocker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// RetentionConfig holds retention scheduler configuration.
type RetentionConfig struct {
	// Interval between prune runs.
	Interval time.Duration

	// Horizon is how far back counters are kept.
	Horizon time.Duration

	// LockTTL caps how long the distributed lock is held.
	LockTTL time.Duration

	// OnStartup runs a prune immediately when the scheduler starts.
	OnStartup bool
}

// NewRetentionScheduler creates a new RetentionScheduler.
func NewRetentionScheduler(
	analytics *service.AnalyticsService,
	cfg RetentionConfig,
	logger *zap.Logger,
	locker locker.DistributedLocker,
) *RetentionScheduler {
	return &RetentionScheduler{
		analytics: analytics,
		interval:  cfg.Interval,
		horizon:   cfg.Horizon,
		lockTTL:   cfg.LockTTL,
		logger:    logger,
		locker:    locker,
	}
}

// Start begins the background retention job.
func (s *RetentionScheduler) Start(runOnStartup bool) {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("starting retention scheduler",
		zap.Duration("interval", s.interval),
		zap.Duration("horizon", s.horizon),
		zap.Bool("run_on_startup", runOnStartup),
	)

	s.wg.Add(1)
	go s.run(runOnStartup)
}

// Stop gracefully stops the scheduler.
func (s *RetentionScheduler) Stop() {
	s.logger.Info("stopping retention scheduler")
	s.cancel()
	s.wg.Wait()
	s.logger.Info("retention scheduler stopped")
}

func (s *RetentionScheduler) run(runOnStartup bool) {
	defer s.wg.Done()

	if runOnStartup {
		s.executePrune()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.executePrune()
		}
	}
}

// executePrune performs one prune run under the distributed lock. The lock
// is released as soon as the run finishes; the interval, not the lock,
// paces successive runs.
func (s *RetentionScheduler) executePrune() {
	acquired, err := s.locker.Acquire(s.ctx, retentionLockKey, s.lockTTL)
	if err != nil {
		s.logger.Error("failed to acquire retention lock", zap.Error(err))
		return
	}
	if !acquired {
		s.logger.Debug("another instance is pruning, skipping run")
		return
	}
	defer func() {
		if err := s.locker.Release(s.ctx, retentionLockKey); err != nil {
			s.logger.Warn("retention lock release failed", zap.Error(err))
		}
	}()

	runCtx, cancel := context.WithTimeout(s.ctx, s.lockTTL)
	defer cancel()

	cutoff := time.Now().UTC().Add(-s.horizon)
	pruned, err := s.analytics.PruneBefore(runCtx, cutoff)
	if err != nil {
		s.logger.Error("retention prune failed",
			zap.Time("cutoff", cutoff),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("retention prune completed",
		zap.Time("cutoff", cutoff),
		zap.Int64("rows", pruned),
	)
}
