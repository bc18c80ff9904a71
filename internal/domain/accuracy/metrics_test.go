package accuracy

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/match"
	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func played(score string, goals ...match.Goal) match.Match {
	s := score
	return match.Match{ID: 7, Matchday: "Fecha 3", HomeTeam: "Boca", AwayTeam: "River", Score: &s, Goals: goals}
}

func TestEvaluate_ScoreLadder(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		actual    string
		predicted string
		exact     float64
		result    float64
		ladder    float64
	}{
		{name: "exact", actual: "2-1", predicted: "2-1", exact: 1, result: 1, ladder: 1},
		{name: "same outcome", actual: "3-1", predicted: "1-0", exact: 0, result: 1, ladder: 0.5},
		{name: "draw both", actual: "0-0", predicted: "2-2", exact: 0, result: 1, ladder: 0.5},
		{name: "wrong outcome", actual: "0-1", predicted: "1-0", exact: 0, result: 0, ladder: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Evaluate(played(tc.actual), prediction.Prediction{MatchID: 7, Score: tc.predicted})
			require.NoError(t, err)
			assert.Equal(t, tc.exact, got.ExactScore)
			assert.Equal(t, tc.result, got.CorrectResult)
			assert.Equal(t, tc.ladder, got.ScoreAccuracy)
		})
	}
}

func TestEvaluate_GoalDifference(t *testing.T) {
	t.Parallel()

	got, err := Evaluate(played("2-0"), prediction.Prediction{Score: "0-0"})
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, got.GoalDifferenceAccuracy, 1e-9)

	got, err = Evaluate(played("4-0"), prediction.Prediction{Score: "0-1"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.GoalDifferenceAccuracy)
}

func TestEvaluate_PerfectPrediction(t *testing.T) {
	t.Parallel()

	m := played("2-1",
		match.Goal{Scorer: "Merentiel", Minute: 12},
		match.Goal{Scorer: "Borja", Minute: 55},
		match.Goal{Scorer: "Cavani", Minute: 81},
	)
	p := prediction.Prediction{
		MatchID:   7,
		Score:     "2-1",
		Scorers:   []string{"Merentiel", "Borja", "Cavani"},
		GoalTimes: []string{"12'", "55'", "81'"},
	}

	got, err := Evaluate(m, p)
	require.NoError(t, err)
	assert.Equal(t, Metrics{
		ExactScore:             1,
		CorrectResult:          1,
		ScoreAccuracy:          1,
		GoalDifferenceAccuracy: 1,
		ScorerAccuracy:         1,
		FirstScorerAccuracy:    1,
		TimingAccuracy:         1,
		TimeAccuracy:           1,
	}, got)
}

func TestEvaluate_ScorersAndTiming(t *testing.T) {
	t.Parallel()

	m := played("2-0",
		match.Goal{Scorer: "Cavani", Minute: 10},
		match.Goal{Scorer: "Zeballos", Minute: 70},
	)
	p := prediction.Prediction{
		Score:     "3-0",
		Scorers:   []string{"Merentiel", "Cavani", "Zeballos"},
		GoalTimes: []string{"20'", "95'", "30'"},
	}

	got, err := Evaluate(m, p)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, got.ScorerAccuracy, 1e-9)
	assert.Equal(t, 0.0, got.FirstScorerAccuracy)
	// 10 vs 20 scores 0.5, 70 vs 95 scores 0.25, over three predicted times.
	assert.InDelta(t, 0.25, got.TimingAccuracy, 1e-9)
	assert.InDelta(t, 0.125, got.TimeAccuracy, 1e-9)
}

func TestEvaluate_NoActualGoals(t *testing.T) {
	t.Parallel()

	got, err := Evaluate(played("0-0"), prediction.Prediction{Score: "1-0", Scorers: []string{"Cavani"}, GoalTimes: []string{"5'"}})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.ScorerAccuracy)
	assert.Equal(t, 0.0, got.TimingAccuracy)
}

func TestEvaluate_MalformedScore(t *testing.T) {
	t.Parallel()

	_, err := Evaluate(played("two-one"), prediction.Prediction{Score: "1-0"})
	if !errors.Is(err, match.ErrMalformedMatchData) {
		t.Fatalf("expected ErrMalformedMatchData, got %v", err)
	}

	_, err = Evaluate(played("1-0"), prediction.Prediction{Score: "?"})
	if !errors.Is(err, match.ErrMalformedMatchData) {
		t.Fatalf("expected ErrMalformedMatchData for prediction, got %v", err)
	}
}

func TestUnexpectedFactors(t *testing.T) {
	t.Parallel()

	m := played("4-0",
		match.Goal{Scorer: "Cavani", Minute: 10},
		match.Goal{Scorer: "Zeballos", Minute: 30},
		match.Goal{Scorer: "Cavani", Minute: 50},
		match.Goal{Scorer: "Medina", Minute: 88},
	)
	m.AwayLineup = []match.Player{
		{Name: "Paulo Díaz", Events: []match.Event{{Type: match.EventYellowCard, Minute: 20}, {Type: match.EventRedCard, Minute: 44}}},
		{Name: "Armani"},
	}
	p := prediction.Prediction{Score: "1-0", Scorers: []string{"Cavani"}, GoalTimes: []string{"30'"}}

	got, err := UnexpectedFactors(m, p)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Red card(s) for: Paulo Díaz",
		"Unexpected high/low scoring match",
		"Unexpected scorers: Zeballos, Medina",
	}, got)
}

func TestUnexpectedFactors_NoneForCalmMatch(t *testing.T) {
	t.Parallel()

	m := played("1-0", match.Goal{Scorer: "Cavani", Minute: 10})
	got, err := UnexpectedFactors(m, prediction.Prediction{Score: "1-1", Scorers: []string{"Cavani", "Borja"}, GoalTimes: []string{"1'", "2'"}})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewRecord_RoundsPercentages(t *testing.T) {
	t.Parallel()

	m := played("2-0", match.Goal{Scorer: "Cavani", Minute: 10}, match.Goal{Scorer: "Zeballos", Minute: 70})
	p := prediction.Prediction{MatchID: 7, Score: "0-0"}
	now := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)

	rec := NewRecord(m, p, Metrics{GoalDifferenceAccuracy: 1.0 / 3.0, ScoreAccuracy: 0.5, TimeAccuracy: 0.125}, nil, now)
	assert.Equal(t, int64(7), rec.MatchID)
	assert.Equal(t, "Fecha 3", rec.Matchday)
	assert.Equal(t, "2-0", rec.ActualScore)
	assert.Equal(t, []string{"Cavani", "Zeballos"}, rec.ActualScorers)
	assert.Equal(t, []string{"10'", "70'"}, rec.ActualTimes)
	assert.Equal(t, 33, rec.GoalDifferenceAccuracy)
	assert.Equal(t, 50, rec.ScoreAccuracy)
	assert.Equal(t, 13, rec.TimeAccuracy)
	assert.Equal(t, now, rec.EvaluatedAt)

	back := MetricsFromRecord(rec)
	assert.InDelta(t, 0.33, back.GoalDifferenceAccuracy, 1e-9)
}
