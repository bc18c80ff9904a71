package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/feedback"
	"github.com/riskibarqy/match-predictor/internal/domain/match"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"github.com/riskibarqy/match-predictor/internal/platform/resilience"
	"go.opentelemetry.io/otel/attribute"
)

type StepRunner interface {
	RunStep(ctx context.Context, step string) (PipelineResult, error)
}

type SubmitFeedbackResult struct {
	MatchID int64 `json:"match_id"`
	// RetrainSkipped is set when another run held the pipeline. The record is stored either way.
	RetrainSkipped bool            `json:"retrain_skipped"`
	Retrain        *PipelineResult `json:"retrain,omitempty"`
}

// FeedbackService stores externally supplied feedback and retrains on it.
type FeedbackService struct {
	matchRepo    match.Repository
	feedbackRepo feedback.Repository
	retrain      StepRunner
	logger       *logging.Logger
	now          func() time.Time
}

func NewFeedbackService(matchRepo match.Repository, feedbackRepo feedback.Repository, retrain StepRunner, logger *logging.Logger) *FeedbackService {
	if logger == nil {
		logger = logging.Default()
	}
	return &FeedbackService{
		matchRepo:    matchRepo,
		feedbackRepo: feedbackRepo,
		retrain:      retrain,
		logger:       logger,
		now:          time.Now,
	}
}

// Submit upserts record by match id, then runs the train step.
func (s *FeedbackService) Submit(ctx context.Context, record feedback.Record) (SubmitFeedbackResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedbackService.Submit")
	defer span.End()
	span.SetAttributes(attribute.Int64("match.id", record.MatchID))

	for _, raw := range []string{record.PredictedScore, record.ActualScore} {
		if _, err := match.ParseScore(raw); err != nil {
			return SubmitFeedbackResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	m, err := s.findMatch(ctx, record.MatchID)
	if err != nil {
		return SubmitFeedbackResult{}, err
	}
	record.Matchday = m.Matchday
	if record.EvaluatedAt.IsZero() {
		record.EvaluatedAt = s.now().UTC()
	}

	if err := s.feedbackRepo.Save(ctx, record); err != nil {
		return SubmitFeedbackResult{}, fmt.Errorf("save feedback: %w", err)
	}

	result := SubmitFeedbackResult{MatchID: record.MatchID}
	if s.retrain == nil {
		result.RetrainSkipped = true
		return result, nil
	}

	retrain, err := s.retrain.RunStep(ctx, StepTrain)
	switch {
	case errors.Is(err, resilience.ErrRunInProgress):
		s.logger.InfoContext(ctx, "feedback stored, retrain skipped", "match_id", record.MatchID, "reason", err)
		result.RetrainSkipped = true
		return result, nil
	case err != nil:
		return result, fmt.Errorf("retrain after feedback: %w", err)
	}

	result.Retrain = &retrain
	s.logger.InfoContext(ctx, "feedback stored", "match_id", record.MatchID, "run_id", retrain.RunID)
	return result, nil
}

func (s *FeedbackService) findMatch(ctx context.Context, matchID int64) (match.Match, error) {
	matches, err := s.matchRepo.List(ctx)
	if err != nil {
		return match.Match{}, fmt.Errorf("list matches: %w", err)
	}
	for _, m := range matches {
		if m.ID == matchID {
			return m, nil
		}
	}
	return match.Match{}, fmt.Errorf("%w: match %d", ErrNotFound, matchID)
}
