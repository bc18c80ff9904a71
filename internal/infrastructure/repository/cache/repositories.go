package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/match-predictor/internal/domain/feedback"
	"github.com/riskibarqy/match-predictor/internal/domain/match"
	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
	basecache "github.com/riskibarqy/match-predictor/internal/platform/cache"
)

const (
	matchPrefix      = "matches:"
	predictionPrefix = "prediction:"
	feedbackPrefix   = "feedback:"
)

type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) ListCompleted(ctx context.Context) ([]match.Match, error) {
	return r.listMatches(ctx, matchPrefix+"completed", r.next.ListCompleted)
}

func (r *MatchRepository) ListUpcoming(ctx context.Context) ([]match.Match, error) {
	return r.listMatches(ctx, matchPrefix+"upcoming", r.next.ListUpcoming)
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	return r.listMatches(ctx, matchPrefix+"list", r.next.List)
}

func (r *MatchRepository) Upsert(ctx context.Context, items []match.Match) error {
	if err := r.next.Upsert(ctx, items); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, matchPrefix)
	return nil
}

func (r *MatchRepository) listMatches(ctx context.Context, key string, load func(context.Context) ([]match.Match, error)) ([]match.Match, error) {
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return append([]match.Match(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Match)
	return append([]match.Match(nil), items...), nil
}

type PredictionRepository struct {
	next  prediction.Repository
	cache *basecache.Store
}

func NewPredictionRepository(next prediction.Repository, cache *basecache.Store) *PredictionRepository {
	return &PredictionRepository{next: next, cache: cache}
}

func (r *PredictionRepository) Save(ctx context.Context, item prediction.Prediction) error {
	if err := r.next.Save(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, predictionPrefix)
	return nil
}

func (r *PredictionRepository) Get(ctx context.Context, matchID int64) (prediction.Prediction, bool, error) {
	key := predictionPrefix + "match:" + strconv.FormatInt(matchID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.Get(ctx, matchID)
		if err != nil {
			return nil, err
		}
		return cachedPrediction{value: item, exists: exists}, nil
	})
	if err != nil {
		return prediction.Prediction{}, false, err
	}

	cached, _ := v.(cachedPrediction)
	return cached.value, cached.exists, nil
}

func (r *PredictionRepository) List(ctx context.Context) ([]prediction.Prediction, error) {
	v, err := r.cache.GetOrLoad(ctx, predictionPrefix+"list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]prediction.Prediction(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]prediction.Prediction)
	return append([]prediction.Prediction(nil), items...), nil
}

type cachedPrediction struct {
	value  prediction.Prediction
	exists bool
}

type FeedbackRepository struct {
	next  feedback.Repository
	cache *basecache.Store
}

func NewFeedbackRepository(next feedback.Repository, cache *basecache.Store) *FeedbackRepository {
	return &FeedbackRepository{next: next, cache: cache}
}

func (r *FeedbackRepository) Save(ctx context.Context, item feedback.Record) error {
	if err := r.next.Save(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, feedbackPrefix)
	return nil
}

func (r *FeedbackRepository) List(ctx context.Context) ([]feedback.Record, error) {
	v, err := r.cache.GetOrLoad(ctx, feedbackPrefix+"list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]feedback.Record(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]feedback.Record)
	return append([]feedback.Record(nil), items...), nil
}
