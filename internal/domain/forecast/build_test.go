package forecast

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/scoremodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_ScorersAndTimesAlwaysMatchGoalCount(t *testing.T) {
	slots := paddedSlots([]string{"H1"}, []string{"A1"})
	ctx := MatchContext{
		HomePlayers: []PlayerContext{{Name: "H1"}},
		AwayPlayers: []PlayerContext{{Name: "A1"}},
	}
	rng := rand.New(rand.NewPCG(1, 1))
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for home := 0.0; home <= 3; home++ {
		for away := 0.0; away <= 3; away++ {
			raw := scoremodel.RawOutput{
				Score:  [2]float64{home, away},
				Scorer: make([]float64, scoremodel.ScorerSlots),
				Time:   flatDistribution,
			}
			got, err := Build(10, raw, slots, ctx, rng, Options{}, now)
			require.NoError(t, err)

			score, err := got.ParsedScore()
			require.NoError(t, err)
			assert.Len(t, got.Scorers, score.Total())
			assert.Len(t, got.GoalTimes, score.Total())
			assert.Equal(t, now, got.CreatedAt)
		}
	}
}

func TestBuild_FillsUnknownScorers(t *testing.T) {
	slots := paddedSlots([]string{"H1"}, nil)
	raw := scoremodel.RawOutput{
		Score:  [2]float64{3, 0},
		Scorer: make([]float64, scoremodel.ScorerSlots),
		Time:   flatDistribution,
	}

	got, err := Build(1, raw, slots, MatchContext{HomePlayers: []PlayerContext{{Name: "H1"}}}, rand.New(rand.NewPCG(2, 2)), Options{}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, []string{"H1", UnknownScorer, UnknownScorer}, got.Scorers)
}

func TestBuild_RejectsWrongScorerWidth(t *testing.T) {
	raw := scoremodel.RawOutput{Score: [2]float64{1, 0}, Scorer: []float64{0.5}}

	_, err := Build(1, raw, nil, MatchContext{}, rand.New(rand.NewPCG(2, 2)), Options{}, time.Now())
	if !errors.Is(err, scoremodel.ErrInvalidOutput) {
		t.Fatalf("expected ErrInvalidOutput, got %v", err)
	}
}

func TestBuild_GoalOverflowSurfacesError(t *testing.T) {
	raw := scoremodel.RawOutput{
		Score:  [2]float64{4, 4},
		Scorer: make([]float64, scoremodel.ScorerSlots),
		Time:   flatDistribution,
	}

	_, err := Build(1, raw, paddedSlots(nil, nil), MatchContext{}, rand.New(rand.NewPCG(2, 2)), Options{}, time.Now())
	var binsErr *GoalCountExceedsBinsError
	if !errors.As(err, &binsErr) {
		t.Fatalf("expected GoalCountExceedsBinsError, got %v", err)
	}
}
