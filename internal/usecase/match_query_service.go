package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/match-predictor/internal/domain/accuracy"
	"github.com/riskibarqy/match-predictor/internal/domain/feedback"
	"github.com/riskibarqy/match-predictor/internal/domain/match"
	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
)

// MatchView joins a match with its stored prediction and feedback, when present.
type MatchView struct {
	Match      match.Match
	Prediction *prediction.Prediction
	Feedback   *feedback.Record
}

type MatchQueryService struct {
	matchRepo       match.Repository
	predictionRepo  prediction.Repository
	feedbackRepo    feedback.Repository
	defaultStrategy string
}

func NewMatchQueryService(
	matchRepo match.Repository,
	predictionRepo prediction.Repository,
	feedbackRepo feedback.Repository,
	defaultStrategy string,
) *MatchQueryService {
	if defaultStrategy == "" {
		defaultStrategy = accuracy.StrategyMeanOfMeans
	}
	return &MatchQueryService{
		matchRepo:       matchRepo,
		predictionRepo:  predictionRepo,
		feedbackRepo:    feedbackRepo,
		defaultStrategy: defaultStrategy,
	}
}

func (s *MatchQueryService) ListMatches(ctx context.Context) ([]MatchView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchQueryService.ListMatches")
	defer span.End()

	matches, err := s.matchRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	predictions, err := s.predictionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	records, err := s.feedbackRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}

	predictionByMatch := make(map[int64]prediction.Prediction, len(predictions))
	for _, p := range predictions {
		predictionByMatch[p.MatchID] = p
	}
	feedbackByMatch := make(map[int64]feedback.Record, len(records))
	for _, r := range records {
		feedbackByMatch[r.MatchID] = r
	}

	out := make([]MatchView, 0, len(matches))
	for _, m := range matches {
		view := MatchView{Match: m}
		if p, ok := predictionByMatch[m.ID]; ok {
			view.Prediction = &p
		}
		if r, ok := feedbackByMatch[m.ID]; ok {
			view.Feedback = &r
		}
		out = append(out, view)
	}
	return out, nil
}

// Stats aggregates stored feedback. An empty strategy selects the configured default.
func (s *MatchQueryService) Stats(ctx context.Context, strategy string) (accuracy.Summary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchQueryService.Stats")
	defer span.End()

	if strategy == "" {
		strategy = s.defaultStrategy
	}
	aggregator, err := accuracy.AggregatorByName(strategy)
	if err != nil {
		return accuracy.Summary{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	records, err := s.feedbackRepo.List(ctx)
	if err != nil {
		return accuracy.Summary{}, fmt.Errorf("list feedback: %w", err)
	}
	return aggregator.Aggregate(scoredFromRecords(records)), nil
}

func scoredFromRecords(records []feedback.Record) []accuracy.Scored {
	out := make([]accuracy.Scored, 0, len(records))
	for _, r := range records {
		out = append(out, accuracy.Scored{Matchday: r.Matchday, Metrics: accuracy.MetricsFromRecord(r)})
	}
	return out
}
