package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"github.com/riskibarqy/match-predictor/internal/platform/resilience"
)

const defaultScheduleInterval = 24 * time.Hour

type PipelineRunner interface {
	Run(ctx context.Context) (PipelineResult, error)
}

type SchedulerConfig struct {
	Interval   time.Duration
	RunOnStart bool
}

// Scheduler runs the pipeline on a fixed interval until its context is cancelled.
type Scheduler struct {
	pipeline PipelineRunner
	cfg      SchedulerConfig
	logger   *logging.Logger
	ticker   func(time.Duration) (<-chan time.Time, func())
}

func NewScheduler(pipeline PipelineRunner, cfg SchedulerConfig, logger *logging.Logger) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultScheduleInterval
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Scheduler{
		pipeline: pipeline,
		cfg:      cfg,
		logger:   logger,
		ticker: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
	}
}

// Start blocks until ctx is done. Failed runs are logged and retried on the next tick.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.InfoContext(ctx, "scheduler started", "interval", s.cfg.Interval.String(), "run_on_start", s.cfg.RunOnStart)
	if s.cfg.RunOnStart {
		s.runOnce(ctx)
	}

	ticks, stop := s.ticker(s.cfg.Interval)
	defer stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "scheduler stopped")
			return nil
		case <-ticks:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	result, err := s.pipeline.Run(ctx)
	switch {
	case err == nil:
		s.logger.InfoContext(ctx, "scheduled run finished", "run_id", result.RunID)
	case errors.Is(err, resilience.ErrRunInProgress):
		s.logger.WarnContext(ctx, "scheduled run skipped, pipeline busy")
	case ctx.Err() != nil:
		// shutting down
	default:
		s.logger.ErrorContext(ctx, "scheduled run failed, retrying next tick", "run_id", result.RunID, "error", err)
	}
}
