package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/accuracy"
	"github.com/riskibarqy/match-predictor/internal/domain/feedback"
	"github.com/riskibarqy/match-predictor/internal/domain/match"
	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

type EvaluateResult struct {
	Completed int                  `json:"completed"`
	Evaluated int                  `json:"evaluated"`
	Skipped   int                  `json:"skipped"`
	Failed    int                  `json:"failed"`
	Failures  []MatchFailure       `json:"failures,omitempty"`
	Strategy  string               `json:"strategy"`
	Overall   accuracy.Percentages `json:"overall"`
}

const defaultEvaluationWorkers = 8

type EvaluationService struct {
	matchRepo      match.Repository
	predictionRepo prediction.Repository
	feedbackRepo   feedback.Repository
	aggregator     accuracy.Aggregator
	workers        int
	metrics        PipelineMetrics
	logger         *logging.Logger
	now            func() time.Time
}

func NewEvaluationService(
	matchRepo match.Repository,
	predictionRepo prediction.Repository,
	feedbackRepo feedback.Repository,
	aggregator accuracy.Aggregator,
	workers int,
	metrics PipelineMetrics,
	logger *logging.Logger,
) *EvaluationService {
	if aggregator == nil {
		aggregator = accuracy.MeanOfMeans{}
	}
	if workers <= 0 {
		workers = defaultEvaluationWorkers
	}
	if metrics == nil {
		metrics = NewNoopPipelineMetrics()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &EvaluationService{
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		feedbackRepo:   feedbackRepo,
		aggregator:     aggregator,
		workers:        workers,
		metrics:        metrics,
		logger:         logger,
		now:            time.Now,
	}
}

type evaluation struct {
	record  feedback.Record
	metrics accuracy.Metrics
	skipped bool
	err     error
}

// EvaluateCompleted scores every completed match that has a stored prediction.
// Records are saved in match date order. Overall figures come from this run's unrounded
// metrics; stored records only hold rounded percentages.
func (s *EvaluationService) EvaluateCompleted(ctx context.Context) (EvaluateResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EvaluationService.EvaluateCompleted")
	defer span.End()

	completed, err := s.matchRepo.ListCompleted(ctx)
	if err != nil {
		return EvaluateResult{}, fmt.Errorf("list completed matches: %w", err)
	}

	now := s.now().UTC()
	evaluations := make([]evaluation, len(completed))
	workers := pool.New().WithMaxGoroutines(min(s.workers, max(len(completed), 1)))
	for i, m := range completed {
		workers.Go(func() {
			var catcher panics.Catcher
			catcher.Try(func() {
				evaluations[i] = s.evaluateOne(ctx, m, now)
			})
			if recovered := catcher.Recovered(); recovered != nil {
				evaluations[i] = evaluation{err: fmt.Errorf("evaluate match panicked: %w", recovered.AsError())}
			}
		})
	}
	workers.Wait()

	result := EvaluateResult{Completed: len(completed), Strategy: s.aggregator.Name()}
	scored := make([]accuracy.Scored, 0, len(completed))
	for i, item := range evaluations {
		m := completed[i]
		if item.skipped {
			result.Skipped++
			continue
		}
		err := item.err
		if err == nil {
			if err = s.feedbackRepo.Save(ctx, item.record); err != nil {
				err = fmt.Errorf("save feedback: %w", err)
			}
		}
		if err != nil {
			result.Failed++
			result.Failures = append(result.Failures, MatchFailure{MatchID: m.ID, Error: err.Error()})
			s.metrics.MatchFailed("evaluate")
			s.logger.WarnContext(ctx, "evaluate match failed", "match_id", m.ID, "error", err)
			continue
		}
		result.Evaluated++
		scored = append(scored, accuracy.Scored{Matchday: m.Matchday, Metrics: item.metrics})
	}

	summary := s.aggregator.Aggregate(scored)
	result.Overall = summary.Overall
	s.metrics.SetOverallAccuracy(summary.Strategy, summary.Overall)

	span.SetAttributes(
		attribute.Int("evaluate.evaluated", result.Evaluated),
		attribute.Int("evaluate.failed", result.Failed),
	)
	s.logger.InfoContext(ctx, "feedback stored",
		"completed", result.Completed,
		"evaluated", result.Evaluated,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"score_accuracy", result.Overall.ScoreAccuracy,
	)
	return result, nil
}

func (s *EvaluationService) evaluateOne(ctx context.Context, m match.Match, now time.Time) evaluation {
	p, ok, err := s.predictionRepo.Get(ctx, m.ID)
	if err != nil {
		return evaluation{err: fmt.Errorf("get prediction: %w", err)}
	}
	if !ok {
		return evaluation{skipped: true}
	}

	metrics, err := accuracy.Evaluate(m, p)
	if err != nil {
		return evaluation{err: err}
	}
	factors, err := accuracy.UnexpectedFactors(m, p)
	if err != nil {
		return evaluation{err: err}
	}
	return evaluation{record: accuracy.NewRecord(m, p, metrics, factors, now), metrics: metrics}
}
