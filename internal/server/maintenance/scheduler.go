// Package maintenance runs periodic housekeeping jobs of the journal server.
package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/dailyjournal/internal/logging"
	"github.com/robfig/cron/v3"
)

// TokenPurger deletes refresh tokens that expired before now.
type TokenPurger interface {
	PurgeExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

// LimiterPruner drops per-peer rate limit state idle for longer than idle.
type LimiterPruner interface {
	PruneIdleLimiters(idle time.Duration) int
}

type purgeRecorder interface {
	TokensPurged(n int64)
}

// Scheduler wraps a cron runner with the journal's jobs.
type Scheduler struct {
	cron     *cron.Cron
	purger   TokenPurger
	recorder purgeRecorder
	logger   logging.Logger
	now      func() time.Time
}

func NewScheduler(loc *time.Location, purger TokenPurger, recorder purgeRecorder, l logging.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		purger:   purger,
		recorder: recorder,
		logger:   l.With("module", "maintenance"),
		now:      time.Now,
	}
}

// SchedulePurge registers the expired-token purge under a standard cron
// spec or a descriptor such as "@hourly".
func (s *Scheduler) SchedulePurge(ctx context.Context, spec string) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(spec, func() { s.purge(ctx) })
	if err != nil {
		return 0, fmt.Errorf("invalid purge schedule %q: %w", spec, err)
	}
	return id, nil
}

func (s *Scheduler) purge(ctx context.Context) {
	n, err := s.purger.PurgeExpiredTokens(ctx, s.now())
	if err != nil {
		s.logger.Error(ctx, "token purge failed", "error", err)
		return
	}
	if s.recorder != nil {
		s.recorder.TokensPurged(n)
	}
	if n > 0 {
		s.logger.Info(ctx, "expired refresh tokens purged", "count", n)
	}
}

// ScheduleLimiterPrune registers periodic eviction of idle rate limiter buckets.
func (s *Scheduler) ScheduleLimiterPrune(ctx context.Context, spec string, p LimiterPruner, idle time.Duration) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(spec, func() { s.pruneLimiters(ctx, p, idle) })
	if err != nil {
		return 0, fmt.Errorf("invalid limiter prune schedule %q: %w", spec, err)
	}
	return id, nil
}

func (s *Scheduler) pruneLimiters(ctx context.Context, p LimiterPruner, idle time.Duration) {
	if n := p.PruneIdleLimiters(idle); n > 0 {
		s.logger.Info(ctx, "idle rate limiters pruned", "count", n)
	}
}

// Run starts the jobs and blocks until ctx is cancelled and running jobs
// have finished.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	s.logger.Info(ctx, "Maintenance scheduler started")
	<-ctx.Done()
	stopped := s.cron.Stop()
	<-stopped.Done()
	s.logger.Info(ctx, "Maintenance scheduler stopped")
}
