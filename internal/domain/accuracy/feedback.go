package accuracy

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/feedback"
	"github.com/riskibarqy/match-predictor/internal/domain/match"
	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
)

const unexpectedGoalSwing = 3

// UnexpectedFactors lists qualitative surprises: red cards, a total goal count off by three
// or more, and scorers the prediction did not name.
func UnexpectedFactors(m match.Match, p prediction.Prediction) ([]string, error) {
	actual, err := m.ActualScore()
	if err != nil {
		return nil, err
	}
	predicted, err := p.ParsedScore()
	if err != nil {
		return nil, err
	}

	factors := make([]string, 0, 3)

	var sentOff []string
	for _, player := range append(append([]match.Player(nil), m.HomeLineup...), m.AwayLineup...) {
		for _, e := range player.Events {
			if e.Type == match.EventRedCard {
				sentOff = append(sentOff, player.Name)
				break
			}
		}
	}
	if len(sentOff) > 0 {
		factors = append(factors, "Red card(s) for: "+strings.Join(sentOff, ", "))
	}

	swing := actual.Total() - predicted.Total()
	if swing >= unexpectedGoalSwing || swing <= -unexpectedGoalSwing {
		factors = append(factors, "Unexpected high/low scoring match")
	}

	named := make(map[string]struct{}, len(p.Scorers))
	for _, name := range p.Scorers {
		named[name] = struct{}{}
	}
	var surprises []string
	for _, name := range m.Scorers() {
		if _, ok := named[name]; !ok {
			surprises = append(surprises, name)
		}
	}
	if len(surprises) > 0 {
		factors = append(factors, "Unexpected scorers: "+strings.Join(surprises, ", "))
	}

	return factors, nil
}

// NewRecord builds the stored feedback. Metric values become integer percentages.
func NewRecord(m match.Match, p prediction.Prediction, metrics Metrics, factors []string, now time.Time) feedback.Record {
	actualScore := ""
	if m.Score != nil {
		actualScore = strings.TrimSpace(*m.Score)
	}
	actualTimes := make([]string, 0, len(m.Goals))
	for _, g := range m.Goals {
		actualTimes = append(actualTimes, strconv.Itoa(g.Minute)+"'")
	}

	return feedback.Record{
		MatchID:                m.ID,
		Matchday:               m.Matchday,
		PredictedScore:         p.Score,
		ActualScore:            actualScore,
		PredictedScorers:       append([]string(nil), p.Scorers...),
		ActualScorers:          m.Scorers(),
		PredictedTimes:         append([]string(nil), p.GoalTimes...),
		ActualTimes:            actualTimes,
		ScoreAccuracy:          Percent(metrics.ScoreAccuracy),
		ScorerAccuracy:         Percent(metrics.ScorerAccuracy),
		TimeAccuracy:           Percent(metrics.TimeAccuracy),
		ExactScoreRate:         Percent(metrics.ExactScore),
		CorrectResultRate:      Percent(metrics.CorrectResult),
		GoalDifferenceAccuracy: Percent(metrics.GoalDifferenceAccuracy),
		FirstScorerAccuracy:    Percent(metrics.FirstScorerAccuracy),
		TimingAccuracy:         Percent(metrics.TimingAccuracy),
		UnexpectedFactors:      factors,
		EvaluatedAt:            now,
	}
}

// MetricsFromRecord recovers fractional metrics from a stored record.
func MetricsFromRecord(r feedback.Record) Metrics {
	return Metrics{
		ExactScore:             float64(r.ExactScoreRate) / 100,
		CorrectResult:          float64(r.CorrectResultRate) / 100,
		ScoreAccuracy:          float64(r.ScoreAccuracy) / 100,
		GoalDifferenceAccuracy: float64(r.GoalDifferenceAccuracy) / 100,
		ScorerAccuracy:         float64(r.ScorerAccuracy) / 100,
		FirstScorerAccuracy:    float64(r.FirstScorerAccuracy) / 100,
		TimingAccuracy:         float64(r.TimingAccuracy) / 100,
		TimeAccuracy:           float64(r.TimeAccuracy) / 100,
	}
}

// Percent rounds a [0, 1] value to an integer percentage.
func Percent(v float64) int {
	return int(math.Round(v * 100))
}
