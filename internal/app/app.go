package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/match-predictor/internal/config"
	"github.com/riskibarqy/match-predictor/internal/domain/accuracy"
	"github.com/riskibarqy/match-predictor/internal/infrastructure/scoremodel/embeddingnet"
	"github.com/riskibarqy/match-predictor/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/match-predictor/internal/platform/id"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"github.com/riskibarqy/match-predictor/internal/platform/metrics"
	"github.com/riskibarqy/match-predictor/internal/platform/resilience"
	"github.com/riskibarqy/match-predictor/internal/usecase"
)

var _ usecase.PipelineMetrics = (*metrics.Registry)(nil)

// Container holds the wired services shared by the API and the predictor CLI.
type Container struct {
	Config   config.Config
	Logger   *logging.Logger
	Storage  *Storage
	Metrics  *metrics.Registry
	Pipeline *usecase.PipelineService
	Queries  *usecase.MatchQueryService
	Feedback *usecase.FeedbackService
}

// Build opens storage and wires the pipeline. Close releases the storage handle.
func Build(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Container, error) {
	if logger == nil {
		logger = logging.Default()
	}

	aggregator, err := accuracy.AggregatorByName(cfg.AggregationStrategy)
	if err != nil {
		return nil, fmt.Errorf("aggregation strategy: %w", err)
	}

	storage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	registry := metrics.New(metrics.WithRuntimeCollectors())
	trainer := embeddingnet.NewTrainer(trainerConfig(cfg))
	pipelineLogger := logger.Named("pipeline")

	training := usecase.NewTrainingService(storage.Matches, storage.Embeddings, storage.Models, trainer, registry, pipelineLogger)
	predictions := usecase.NewPredictionService(
		storage.Matches,
		storage.Predictions,
		storage.Models,
		trainer,
		usecase.PredictionConfig{
			Workers:       cfg.PredictionWorkers,
			Seed:          cfg.PredictionSeed,
			AllowBinReuse: cfg.GoalTimeAllowBinReuse,
		},
		registry,
		pipelineLogger,
	)
	evaluation := usecase.NewEvaluationService(storage.Matches, storage.Predictions, storage.Feedback, aggregator, cfg.EvaluationWorkers, registry, pipelineLogger)
	pipeline := usecase.NewPipelineService(
		training,
		predictions,
		evaluation,
		resilience.NewRunGuard(resilience.WithLocker(storage.Locker)),
		idgen.NewUUIDGenerator(),
		registry,
		pipelineLogger,
	)

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Storage:  storage,
		Metrics:  registry,
		Pipeline: pipeline,
		Queries:  usecase.NewMatchQueryService(storage.Matches, storage.Predictions, storage.Feedback, cfg.AggregationStrategy),
		Feedback: usecase.NewFeedbackService(storage.Matches, storage.Feedback, pipeline, pipelineLogger),
	}, nil
}

func (c *Container) Close() error {
	return c.Storage.Close()
}

// Scheduler returns the periodic pipeline runner configured from SCHEDULE_*.
func (c *Container) Scheduler() *usecase.Scheduler {
	return usecase.NewScheduler(c.Pipeline, usecase.SchedulerConfig{
		Interval:   c.Config.ScheduleInterval,
		RunOnStart: c.Config.ScheduleRunOnStart,
	}, c.Logger.Named("scheduler"))
}

func NewHTTPServer(c *Container) (*http.Server, error) {
	cfg := c.Config
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	routerCfg := httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
	}
	if cfg.MetricsEnabled {
		routerCfg.MetricsHandler = c.Metrics.Handler()
		routerCfg.HTTPMetrics = c.Metrics
	}

	httpLogger := c.Logger.Named("httpapi")
	handler := httpapi.NewHandler(c.Queries, c.Pipeline, c.Feedback, httpLogger)

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, httpLogger, routerCfg),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}

func trainerConfig(cfg config.Config) embeddingnet.Config {
	out := embeddingnet.DefaultConfig()
	out.PlayerDim = cfg.EmbeddingDim
	out.LearningRate = cfg.TrainLearningRate
	out.EpochsNew = cfg.TrainEpochsNew
	out.EpochsExisting = cfg.TrainEpochsExisting
	out.PatienceNew = cfg.TrainPatienceNew
	out.PatienceExisting = cfg.TrainPatienceExisting
	out.Seed = cfg.PredictionSeed
	return out
}
