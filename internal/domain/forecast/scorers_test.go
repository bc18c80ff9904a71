package forecast

import (
	"testing"

	"github.com/riskibarqy/match-predictor/internal/domain/match"
	"github.com/riskibarqy/match-predictor/internal/domain/scoremodel"
	"github.com/stretchr/testify/assert"
)

func paddedSlots(home, away []string) []string {
	slots := make([]string, 0, scoremodel.ScorerSlots)
	for i := 0; i < match.MaxLineupPlayers; i++ {
		if i < len(home) {
			slots = append(slots, home[i])
			continue
		}
		slots = append(slots, scoremodel.PaddingName)
	}
	for i := 0; i < match.MaxLineupPlayers; i++ {
		if i < len(away) {
			slots = append(slots, away[i])
			continue
		}
		slots = append(slots, scoremodel.PaddingName)
	}
	return slots
}

func TestPredictScorers_RanksByComposite(t *testing.T) {
	slots := paddedSlots([]string{"H1", "H2"}, []string{"A1"})
	probs := make([]float64, scoremodel.ScorerSlots)
	probs[0] = 0.1
	probs[1] = 0.9
	probs[match.MaxLineupPlayers] = 0.5

	ctx := MatchContext{
		HomePlayers: []PlayerContext{{Name: "H1", RecentGoals: 3}, {Name: "H2"}},
		AwayPlayers: []PlayerContext{{Name: "A1", Form: 1}},
	}

	// H1: 0.06+0.6 = 0.66, H2: 0.54, A1: 0.3+0.2 = 0.5
	got := PredictScorers(probs, slots, 2, ctx)
	assert.Equal(t, []string{"H1", "H2"}, got)
}

func TestPredictScorers_StableTiesAndShortList(t *testing.T) {
	slots := paddedSlots([]string{"H1", "H2"}, []string{"A1"})
	probs := make([]float64, scoremodel.ScorerSlots)
	ctx := MatchContext{
		HomePlayers: []PlayerContext{{Name: "H1"}, {Name: "H2"}},
		AwayPlayers: []PlayerContext{{Name: "A1"}},
	}

	got := PredictScorers(probs, slots, 5, ctx)
	assert.Equal(t, []string{"H1", "H2", "A1"}, got)
}

func TestPredictScorers_SkipsPlayersWithoutContext(t *testing.T) {
	slots := paddedSlots([]string{"H1"}, []string{"H1"})
	probs := make([]float64, scoremodel.ScorerSlots)
	probs[match.MaxLineupPlayers] = 1
	ctx := MatchContext{HomePlayers: []PlayerContext{{Name: "H1"}}}

	got := PredictScorers(probs, slots, 2, ctx)
	assert.Equal(t, []string{"H1"}, got)
}

func TestPredictScorers_ZeroGoals(t *testing.T) {
	got := PredictScorers(nil, paddedSlots([]string{"H1"}, nil), 0, MatchContext{})
	assert.Empty(t, got)
}
