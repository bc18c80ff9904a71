package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/match-predictor/internal/domain/forecast"
	"github.com/riskibarqy/match-predictor/internal/domain/form"
	"github.com/riskibarqy/match-predictor/internal/domain/match"
	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
	"github.com/riskibarqy/match-predictor/internal/domain/scoremodel"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"github.com/sourcegraph/conc/panics"
	"go.opentelemetry.io/otel/attribute"
)

const defaultPredictionWorkers = 4

type PredictionConfig struct {
	Workers       int
	Seed          uint64
	AllowBinReuse bool
}

type PredictResult struct {
	Upcoming  int            `json:"upcoming"`
	Predicted int            `json:"predicted"`
	Failed    int            `json:"failed"`
	Failures  []MatchFailure `json:"failures,omitempty"`
}

type PredictionService struct {
	matchRepo      match.Repository
	predictionRepo prediction.Repository
	store          scoremodel.Store
	trainer        scoremodel.Trainer
	cfg            PredictionConfig
	metrics        PipelineMetrics
	logger         *logging.Logger
	now            func() time.Time
}

func NewPredictionService(
	matchRepo match.Repository,
	predictionRepo prediction.Repository,
	store scoremodel.Store,
	trainer scoremodel.Trainer,
	cfg PredictionConfig,
	metrics PipelineMetrics,
	logger *logging.Logger,
) *PredictionService {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultPredictionWorkers
	}
	if metrics == nil {
		metrics = NewNoopPipelineMetrics()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PredictionService{
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		store:          store,
		trainer:        trainer,
		cfg:            cfg,
		metrics:        metrics,
		logger:         logger,
		now:            time.Now,
	}
}

type predictionOutcome struct {
	matchID int64
	item    prediction.Prediction
	err     error
}

// PredictUpcoming forecasts every match without a score. A failing match is logged and
// counted; the rest of the batch continues.
func (s *PredictionService) PredictUpcoming(ctx context.Context) (PredictResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.PredictUpcoming")
	defer span.End()

	model, ok, err := loadModel(ctx, s.store, s.trainer)
	if err != nil {
		return PredictResult{}, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}
	if !ok {
		return PredictResult{}, fmt.Errorf("%w: no trained model", ErrNotFound)
	}

	upcoming, err := s.matchRepo.ListUpcoming(ctx)
	if err != nil {
		return PredictResult{}, fmt.Errorf("list upcoming matches: %w", err)
	}
	completed, err := s.matchRepo.ListCompleted(ctx)
	if err != nil {
		return PredictResult{}, fmt.Errorf("list completed matches: %w", err)
	}

	result := PredictResult{Upcoming: len(upcoming)}
	if len(upcoming) == 0 {
		return result, nil
	}
	history := form.SortByRecency(completed)
	now := s.now().UTC()

	pool, err := ants.NewPool(min(s.cfg.Workers, len(upcoming)))
	if err != nil {
		return PredictResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	outcomes := make(chan predictionOutcome, len(upcoming))
	var workers sync.WaitGroup
	for _, m := range upcoming {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			outcomes <- s.predictGuarded(ctx, model, m, history, now)
		}); err != nil {
			workers.Done()
			return PredictResult{}, fmt.Errorf("submit match to worker pool: %w", err)
		}
	}
	workers.Wait()
	close(outcomes)

	collected := make([]predictionOutcome, 0, len(upcoming))
	for outcome := range outcomes {
		collected = append(collected, outcome)
	}
	sort.Slice(collected, func(i, j int) bool { return collected[i].matchID < collected[j].matchID })

	for _, outcome := range collected {
		err := outcome.err
		if err == nil {
			if err = s.predictionRepo.Save(ctx, outcome.item); err != nil {
				err = fmt.Errorf("save prediction: %w", err)
			}
		}
		if err != nil {
			result.Failed++
			result.Failures = append(result.Failures, MatchFailure{MatchID: outcome.matchID, Error: err.Error()})
			s.metrics.MatchFailed("predict")
			s.logger.WarnContext(ctx, "predict match failed", "match_id", outcome.matchID, "error", err)
			continue
		}
		result.Predicted++
	}

	span.SetAttributes(
		attribute.Int("predict.upcoming", result.Upcoming),
		attribute.Int("predict.failed", result.Failed),
	)
	s.logger.InfoContext(ctx, "predictions stored",
		"upcoming", result.Upcoming,
		"predicted", result.Predicted,
		"failed", result.Failed,
		"model_version", model.Vocabulary().Version,
	)
	return result, nil
}

func (s *PredictionService) predictGuarded(
	ctx context.Context,
	model scoremodel.Model,
	m match.Match,
	history []match.Match,
	now time.Time,
) predictionOutcome {
	outcome := predictionOutcome{matchID: m.ID}
	var catcher panics.Catcher
	catcher.Try(func() {
		outcome.item, outcome.err = s.predictOne(ctx, model, m, history, now)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		outcome.err = recovered.AsError()
	}
	return outcome
}

func (s *PredictionService) predictOne(
	ctx context.Context,
	model scoremodel.Model,
	m match.Match,
	history []match.Match,
	now time.Time,
) (prediction.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return prediction.Prediction{}, err
	}

	inputs, err := buildMatchInputs(m, history, model.Vocabulary(), true)
	if err != nil {
		return prediction.Prediction{}, err
	}
	raw, err := model.Predict(inputs.features)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("model predict: %w", err)
	}

	rng := matchRNG(s.cfg.Seed, m.ID)
	return forecast.Build(m.ID, raw, inputs.slots, inputs.context, rng, forecast.Options{AllowBinReuse: s.cfg.AllowBinReuse}, now)
}

// matchRNG derives an independent stream per match so output does not depend on worker order.
func matchRNG(seed uint64, matchID int64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(matchID)))
}
