package worker

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/attestd/attest/internal/metrics"
)

// Sweeper periodically returns stuck processing evaluations to pending so a
// healthy worker can reclaim them. A claim counts as stuck once it is older
// than the staleness window with no result writes inside it, which covers
// workers that died mid-evaluation without releasing anything.
type Sweeper struct {
	cfg    Config
	evals  EvaluationStore
	cron   *cron.Cron
	logger *slog.Logger
}

// NewSweeper creates a Sweeper on the configured cron schedule.
func NewSweeper(cfg Config, evals EvaluationStore, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		cfg:    cfg,
		evals:  evals,
		cron:   cron.New(),
		logger: logger.With("system", "sweeper"),
	}
}

// Start schedules the sweep and begins running it.
func (s *Sweeper) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.cfg.SweepSchedule, func() {
		s.Sweep(ctx)
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("sweeper started", "schedule", s.cfg.SweepSchedule)
	return nil
}

// Stop halts scheduling and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("sweeper stopped")
}

// Sweep runs one reclaim pass.
func (s *Sweeper) Sweep(ctx context.Context) {
	n, err := s.evals.ReclaimStale(ctx, s.cfg.Staleness)
	if err != nil {
		s.logger.Error("stale reclaim failed", "error", err)
		return
	}

	if n > 0 {
		metrics.StaleReclaims.Add(float64(n))
		s.logger.Warn("stale evaluations reclaimed", "count", n)
	}
}
