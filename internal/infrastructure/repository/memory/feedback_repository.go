package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/match-predictor/internal/domain/feedback"
)

// FeedbackRepository keeps records in first-save order, which follows match order when
// evaluation walks completed matches by date.
type FeedbackRepository struct {
	mu      sync.RWMutex
	order   []int64
	records map[int64]feedback.Record
}

func NewFeedbackRepository() *FeedbackRepository {
	return &FeedbackRepository{records: make(map[int64]feedback.Record)}
}

func (r *FeedbackRepository) Save(_ context.Context, rec feedback.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[rec.MatchID]; !ok {
		r.order = append(r.order, rec.MatchID)
	}
	r.records[rec.MatchID] = cloneRecord(rec)
	return nil
}

func (r *FeedbackRepository) List(_ context.Context) ([]feedback.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]feedback.Record, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneRecord(r.records[id]))
	}
	return out, nil
}

func cloneRecord(rec feedback.Record) feedback.Record {
	out := rec
	out.PredictedScorers = append([]string(nil), rec.PredictedScorers...)
	out.ActualScorers = append([]string(nil), rec.ActualScorers...)
	out.PredictedTimes = append([]string(nil), rec.PredictedTimes...)
	out.ActualTimes = append([]string(nil), rec.ActualTimes...)
	out.UnexpectedFactors = append([]string(nil), rec.UnexpectedFactors...)
	return out
}
