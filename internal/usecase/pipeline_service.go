package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/match-predictor/internal/platform/id"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"github.com/riskibarqy/match-predictor/internal/platform/resilience"
)

const pipelineGuardKey = "pipeline"

const (
	StepTrain    = "train"
	StepPredict  = "predict"
	StepEvaluate = "evaluate"
	StepRun      = "run"
)

type PipelineResult struct {
	RunID      string          `json:"run_id"`
	Step       string          `json:"step"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Train      *TrainResult    `json:"train,omitempty"`
	Predict    *PredictResult  `json:"predict,omitempty"`
	Evaluate   *EvaluateResult `json:"evaluate,omitempty"`
}

type Trainer interface {
	Train(ctx context.Context) (TrainResult, error)
}

type Predictor interface {
	PredictUpcoming(ctx context.Context) (PredictResult, error)
}

type Evaluator interface {
	EvaluateCompleted(ctx context.Context) (EvaluateResult, error)
}

// PipelineService runs train, predict and evaluate. Every entry point shares one guard, so
// a step never overlaps a running pipeline.
type PipelineService struct {
	trainer   Trainer
	predictor Predictor
	evaluator Evaluator
	guard     *resilience.RunGuard
	ids       id.Generator
	metrics   PipelineMetrics
	logger    *logging.Logger
	now       func() time.Time
}

func NewPipelineService(
	trainer Trainer,
	predictor Predictor,
	evaluator Evaluator,
	guard *resilience.RunGuard,
	ids id.Generator,
	metrics PipelineMetrics,
	logger *logging.Logger,
) *PipelineService {
	if guard == nil {
		guard = resilience.NewRunGuard()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if metrics == nil {
		metrics = NewNoopPipelineMetrics()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PipelineService{
		trainer:   trainer,
		predictor: predictor,
		evaluator: evaluator,
		guard:     guard,
		ids:       ids,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *PipelineService) Run(ctx context.Context) (PipelineResult, error) {
	return s.execute(ctx, StepRun, func(ctx context.Context, result *PipelineResult) error {
		if err := s.train(ctx, result); err != nil {
			return err
		}
		if err := s.predict(ctx, result); err != nil {
			return err
		}
		return s.evaluate(ctx, result)
	})
}

func (s *PipelineService) Train(ctx context.Context) (PipelineResult, error) {
	return s.execute(ctx, StepTrain, s.train)
}

func (s *PipelineService) Predict(ctx context.Context) (PipelineResult, error) {
	return s.execute(ctx, StepPredict, s.predict)
}

func (s *PipelineService) Evaluate(ctx context.Context) (PipelineResult, error) {
	return s.execute(ctx, StepEvaluate, s.evaluate)
}

// RunStep dispatches by step name.
func (s *PipelineService) RunStep(ctx context.Context, step string) (PipelineResult, error) {
	switch step {
	case StepRun:
		return s.Run(ctx)
	case StepTrain:
		return s.Train(ctx)
	case StepPredict:
		return s.Predict(ctx)
	case StepEvaluate:
		return s.Evaluate(ctx)
	default:
		return PipelineResult{}, fmt.Errorf("%w: unknown step %q", ErrInvalidInput, step)
	}
}

func (s *PipelineService) execute(ctx context.Context, step string, fn func(context.Context, *PipelineResult) error) (PipelineResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService."+step)
	defer span.End()

	runID, err := s.ids.NewID()
	if err != nil {
		return PipelineResult{}, fmt.Errorf("generate run id: %w", err)
	}
	logger := s.logger.With("run_id", runID, "step", step)
	result := PipelineResult{RunID: runID, Step: step, StartedAt: s.now().UTC()}

	err = s.guard.Run(ctx, pipelineGuardKey, func(ctx context.Context) error {
		logger.InfoContext(ctx, "pipeline started")
		return fn(ctx, &result)
	})
	result.FinishedAt = s.now().UTC()
	duration := result.FinishedAt.Sub(result.StartedAt)

	if err != nil {
		s.metrics.ObserveStep(step, "failed", duration)
		logger.ErrorContext(ctx, "pipeline failed", "error", err, "duration", duration.String())
		return result, err
	}
	s.metrics.ObserveStep(step, "success", duration)
	logger.InfoContext(ctx, "pipeline finished", "duration", duration.String())
	return result, nil
}

func (s *PipelineService) train(ctx context.Context, result *PipelineResult) error {
	out, err := s.trainer.Train(ctx)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	result.Train = &out
	return nil
}

func (s *PipelineService) predict(ctx context.Context, result *PipelineResult) error {
	out, err := s.predictor.PredictUpcoming(ctx)
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}
	result.Predict = &out
	return nil
}

func (s *PipelineService) evaluate(ctx context.Context, result *PipelineResult) error {
	out, err := s.evaluator.EvaluateCompleted(ctx)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	result.Evaluate = &out
	return nil
}
