package forecast

import (
	"sort"

	"github.com/riskibarqy/match-predictor/internal/domain/match"
	"github.com/riskibarqy/match-predictor/internal/domain/scoremodel"
)

const (
	probabilityWeight = 0.6
	recentGoalsWeight = 0.2
	formWeight        = 0.2
)

type scorerCandidate struct {
	name      string
	composite float64
}

// PredictScorers ranks lineup slots by 0.6*probability + 0.2*recentGoals + 0.2*form and
// returns the top totalGoals names. Slots below MaxLineupPlayers are home players.
// Fewer candidates than goals yields a shorter list.
func PredictScorers(probabilities []float64, slots []string, totalGoals int, ctx MatchContext) []string {
	if totalGoals <= 0 {
		return []string{}
	}

	candidates := make([]scorerCandidate, 0, len(slots))
	for i, name := range slots {
		if name == scoremodel.PaddingName || name == "" {
			continue
		}

		var (
			pc PlayerContext
			ok bool
		)
		if i < match.MaxLineupPlayers {
			pc, ok = ctx.homePlayer(name)
		} else {
			pc, ok = ctx.awayPlayer(name)
		}
		if !ok {
			continue
		}

		probability := 0.0
		if i < len(probabilities) {
			probability = probabilities[i]
		}
		candidates = append(candidates, scorerCandidate{
			name: name,
			composite: probabilityWeight*probability +
				recentGoalsWeight*float64(pc.RecentGoals) +
				formWeight*pc.Form,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].composite > candidates[j].composite
	})

	limit := min(totalGoals, len(candidates))
	out := make([]string, 0, limit)
	for _, c := range candidates[:limit] {
		out = append(out, c.name)
	}
	return out
}
