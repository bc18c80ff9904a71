package usecase

import (
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/accuracy"
)

// PipelineMetrics receives run and per-match outcomes.
type PipelineMetrics interface {
	ObserveStep(step, status string, duration time.Duration)
	MatchFailed(step string)
	SetOverallAccuracy(strategy string, overall accuracy.Percentages)
}

type noopPipelineMetrics struct{}

func (noopPipelineMetrics) ObserveStep(string, string, time.Duration) {}

func (noopPipelineMetrics) MatchFailed(string) {}

func (noopPipelineMetrics) SetOverallAccuracy(string, accuracy.Percentages) {}

func NewNoopPipelineMetrics() PipelineMetrics {
	return noopPipelineMetrics{}
}

// MatchFailure is one match a batch step could not process.
type MatchFailure struct {
	MatchID int64  `json:"match_id"`
	Error   string `json:"error"`
}
