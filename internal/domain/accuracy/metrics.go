package accuracy

import (
	"math"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-predictor/internal/domain/match"
	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
)

// Metrics holds per-match accuracy values in [0, 1].
type Metrics struct {
	ExactScore             float64
	CorrectResult          float64
	ScoreAccuracy          float64
	GoalDifferenceAccuracy float64
	ScorerAccuracy         float64
	FirstScorerAccuracy    float64
	TimingAccuracy         float64
	TimeAccuracy           float64
}

// Evaluate compares a played match with the prediction stored for it.
func Evaluate(m match.Match, p prediction.Prediction) (Metrics, error) {
	actual, err := m.ActualScore()
	if err != nil {
		return Metrics{}, err
	}
	predicted, err := p.ParsedScore()
	if err != nil {
		return Metrics{}, crerr.Wrapf(err, "prediction for match %d", m.ID)
	}
	predictedMinutes, err := p.Minutes()
	if err != nil {
		return Metrics{}, err
	}

	var out Metrics
	switch {
	case actual == predicted:
		out.ExactScore = 1
		out.CorrectResult = 1
		out.ScoreAccuracy = 1
	case actual.Outcome() == predicted.Outcome():
		out.CorrectResult = 1
		out.ScoreAccuracy = 0.5
	}

	out.GoalDifferenceAccuracy = 1 - math.Min(math.Abs(float64(actual.Diff()-predicted.Diff()))/3, 1)

	actualScorers := m.Scorers()
	out.ScorerAccuracy = scorerAccuracy(actualScorers, p.Scorers)
	if len(actualScorers) > 0 && len(p.Scorers) > 0 && actualScorers[0] == p.Scorers[0] {
		out.FirstScorerAccuracy = 1
	}

	out.TimingAccuracy = timingAccuracy(m.GoalMinutes(), predictedMinutes)
	out.TimeAccuracy = (out.TimingAccuracy + out.FirstScorerAccuracy) / 2

	return out, nil
}

func scorerAccuracy(actual, predicted []string) float64 {
	if len(actual) == 0 {
		return 0
	}
	actualSet := make(map[string]struct{}, len(actual))
	for _, name := range actual {
		actualSet[name] = struct{}{}
	}
	hits := 0
	for _, name := range predicted {
		if _, ok := actualSet[name]; ok {
			hits++
		}
	}
	return float64(hits) / float64(max(len(actual), len(predicted)))
}

// timingAccuracy pairs goals by index: within 5 minutes scores 1, 15 scores 0.5, 30 scores 0.25.
func timingAccuracy(actual, predicted []int) float64 {
	if len(actual) == 0 {
		return 0
	}
	var points float64
	for i, minute := range actual {
		if i >= len(predicted) {
			break
		}
		diff := minute - predicted[i]
		if diff < 0 {
			diff = -diff
		}
		switch {
		case diff <= 5:
			points++
		case diff <= 15:
			points += 0.5
		case diff <= 30:
			points += 0.25
		}
	}
	return points / float64(max(len(actual), len(predicted)))
}
