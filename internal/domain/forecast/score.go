package forecast

import (
	"math"

	"github.com/riskibarqy/match-predictor/internal/domain/match"
)

const (
	formGapThreshold = 5.0
	winRateThreshold = 0.3
)

// AdjustScore rounds the raw goal pair and lifts it with form and head-to-head evidence.
// Adjustments only ever raise a goal count. The head-to-head check runs second and may
// override the outcome of the form check.
func AdjustScore(raw [2]float64, ctx MatchContext) match.Score {
	home := roundGoals(raw[0])
	away := roundGoals(raw[1])

	formDiff := ctx.HomeForm - ctx.AwayForm
	if math.Abs(formDiff) > formGapThreshold {
		lead := int(math.Floor(math.Abs(formDiff) / formGapThreshold))
		if formDiff > 0 {
			home = max(home, away+lead)
		} else {
			away = max(away, home+lead)
		}
	}

	if ctx.H2H.TotalMatches > 0 {
		homeRate := ctx.H2H.HomeWinRate()
		awayRate := ctx.H2H.AwayWinRate()
		if math.Abs(homeRate-awayRate) > winRateThreshold {
			if homeRate > awayRate {
				home = max(home, away+1)
			} else {
				away = max(away, home+1)
			}
		}
	}

	return match.Score{Home: home, Away: away}
}

func roundGoals(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return int(math.Floor(v + 0.5))
}
