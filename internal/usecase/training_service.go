package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/embedding"
	"github.com/riskibarqy/match-predictor/internal/domain/form"
	"github.com/riskibarqy/match-predictor/internal/domain/match"
	"github.com/riskibarqy/match-predictor/internal/domain/scoremodel"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type TrainResult struct {
	Examples     int     `json:"examples"`
	Skipped      int     `json:"skipped"`
	Epochs       int     `json:"epochs"`
	Loss         float64 `json:"loss"`
	Rebuilt      bool    `json:"rebuilt"`
	Reason       string  `json:"reason,omitempty"`
	Players      int     `json:"players"`
	ModelVersion string  `json:"model_version"`
}

type TrainingService struct {
	matchRepo     match.Repository
	embeddingRepo embedding.Repository
	store         scoremodel.Store
	trainer       scoremodel.Trainer
	metrics       PipelineMetrics
	logger        *logging.Logger
	now           func() time.Time
}

func NewTrainingService(
	matchRepo match.Repository,
	embeddingRepo embedding.Repository,
	store scoremodel.Store,
	trainer scoremodel.Trainer,
	metrics PipelineMetrics,
	logger *logging.Logger,
) *TrainingService {
	if metrics == nil {
		metrics = NewNoopPipelineMetrics()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &TrainingService{
		matchRepo:     matchRepo,
		embeddingRepo: embeddingRepo,
		store:         store,
		trainer:       trainer,
		metrics:       metrics,
		logger:        logger,
		now:           time.Now,
	}
}

// Train fits the model on every completed match and persists it with the player embeddings.
func (s *TrainingService) Train(ctx context.Context) (TrainResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TrainingService.Train")
	defer span.End()

	all, err := s.matchRepo.List(ctx)
	if err != nil {
		return TrainResult{}, fmt.Errorf("list matches: %w", err)
	}
	completed, err := s.matchRepo.ListCompleted(ctx)
	if err != nil {
		return TrainResult{}, fmt.Errorf("list completed matches: %w", err)
	}
	if len(completed) == 0 {
		return TrainResult{}, fmt.Errorf("%w: no completed matches to train on", ErrInvalidInput)
	}

	vocab := vocabularyOf(all)
	history := form.SortByRecency(completed)
	result := TrainResult{Players: vocab.PlayerCount() - 1}

	examples := make([]scoremodel.Example, 0, len(completed))
	for _, m := range completed {
		inputs, err := buildMatchInputs(m, historyBefore(history, m), vocab, false)
		if err == nil {
			var target scoremodel.Target
			target, err = trainingTarget(m, inputs.slots)
			if err == nil {
				examples = append(examples, scoremodel.Example{MatchID: m.ID, Features: inputs.features, Target: target})
				continue
			}
		}
		result.Skipped++
		s.metrics.MatchFailed("train")
		s.logger.WarnContext(ctx, "skip match from training", "match_id", m.ID, "error", err)
	}

	existing, _, err := loadModel(ctx, s.store, s.trainer)
	if err != nil {
		s.logger.WarnContext(ctx, "stored model unusable, training from scratch", "error", err)
		existing = nil
	}

	stored, err := s.embeddingRepo.ListPlayerEmbeddings(ctx)
	if err != nil {
		return TrainResult{}, fmt.Errorf("list player embeddings: %w", err)
	}
	seeds := make(map[string][]float64, len(stored))
	for name, item := range embedding.ByName(stored) {
		seeds[name] = item.Vector
	}

	model, report, err := s.trainer.Train(ctx, scoremodel.Dataset{
		Vocabulary: vocab,
		Examples:   examples,
		Embeddings: seeds,
	}, existing)
	if err != nil {
		if errors.Is(err, scoremodel.ErrNoTrainingData) {
			return TrainResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return TrainResult{}, fmt.Errorf("train model: %w", err)
	}
	if report.Rebuilt {
		s.logger.InfoContext(ctx, "model rebuilt", "reason", report.Reason, "players", result.Players)
	}

	snapshot, err := model.Snapshot()
	if err != nil {
		return TrainResult{}, fmt.Errorf("snapshot model: %w", err)
	}
	items, err := playerEmbeddings(model, s.now().UTC())
	if err != nil {
		return TrainResult{}, err
	}
	if err := s.store.SaveTrained(ctx, snapshot, items); err != nil {
		return TrainResult{}, fmt.Errorf("save trained model: %w", err)
	}

	result.Examples = report.Examples
	result.Epochs = report.Epochs
	result.Loss = report.Loss
	result.Rebuilt = report.Rebuilt
	result.Reason = report.Reason
	result.ModelVersion = snapshot.Version
	span.SetAttributes(
		attribute.Int("train.examples", result.Examples),
		attribute.Int("train.epochs", result.Epochs),
		attribute.Bool("train.rebuilt", result.Rebuilt),
	)
	s.logger.InfoContext(ctx, "model trained",
		"examples", result.Examples,
		"skipped", result.Skipped,
		"epochs", result.Epochs,
		"loss", result.Loss,
		"model_version", result.ModelVersion,
	)
	return result, nil
}

func playerEmbeddings(model scoremodel.Model, now time.Time) ([]embedding.PlayerEmbedding, error) {
	players := model.Vocabulary().Players
	out := make([]embedding.PlayerEmbedding, 0, len(players))
	for i := 1; i < len(players); i++ {
		vector, err := model.EmbeddingFor(i)
		if err != nil {
			return nil, fmt.Errorf("embedding for %s: %w", players[i], err)
		}
		out = append(out, embedding.PlayerEmbedding{PlayerName: players[i], Vector: vector, UpdatedAt: now})
	}
	return out, nil
}
