package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
)

type PredictionRepository struct {
	mu          sync.RWMutex
	predictions map[int64]prediction.Prediction
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{predictions: make(map[int64]prediction.Prediction)}
}

func (r *PredictionRepository) Save(_ context.Context, p prediction.Prediction) error {
	r.mu.Lock()
	r.predictions[p.MatchID] = clonePrediction(p)
	r.mu.Unlock()
	return nil
}

func (r *PredictionRepository) Get(_ context.Context, matchID int64) (prediction.Prediction, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.predictions[matchID]
	if !ok {
		return prediction.Prediction{}, false, nil
	}
	return clonePrediction(p), true, nil
}

func (r *PredictionRepository) List(_ context.Context) ([]prediction.Prediction, error) {
	r.mu.RLock()
	out := make([]prediction.Prediction, 0, len(r.predictions))
	for _, p := range r.predictions {
		out = append(out, clonePrediction(p))
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].MatchID < out[j].MatchID })
	return out, nil
}

func clonePrediction(p prediction.Prediction) prediction.Prediction {
	out := p
	out.Scorers = append([]string(nil), p.Scorers...)
	out.GoalTimes = append([]string(nil), p.GoalTimes...)
	return out
}
