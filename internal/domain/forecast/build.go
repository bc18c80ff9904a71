package forecast

import (
	"math"
	"math/rand/v2"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
	"github.com/riskibarqy/match-predictor/internal/domain/scoremodel"
)

// UnknownScorer fills scorer slots when fewer candidates exist than predicted goals.
const UnknownScorer = "Unknown"

// Build turns raw model output into a consistent prediction for one match.
// Scorers and goal times are produced independently; goal times are sorted, so scorer i
// is not guaranteed to have scored at time i.
func Build(
	matchID int64,
	raw scoremodel.RawOutput,
	slots []string,
	ctx MatchContext,
	rng *rand.Rand,
	opts Options,
	now time.Time,
) (prediction.Prediction, error) {
	if err := validateRaw(raw); err != nil {
		return prediction.Prediction{}, crerr.Wrapf(err, "match %d", matchID)
	}

	score := AdjustScore(raw.Score, ctx)
	total := score.Total()

	scorers := PredictScorers(raw.Scorer, slots, total, ctx)
	for len(scorers) < total {
		scorers = append(scorers, UnknownScorer)
	}

	times, err := PredictGoalTimes(raw.Time, total, rng, opts)
	if err != nil {
		return prediction.Prediction{}, crerr.Wrapf(err, "match %d", matchID)
	}

	out := prediction.Prediction{
		MatchID:   matchID,
		Score:     score.String(),
		Scorers:   scorers,
		GoalTimes: times,
		CreatedAt: now,
	}
	if err := out.Validate(); err != nil {
		return prediction.Prediction{}, err
	}
	return out, nil
}

func validateRaw(raw scoremodel.RawOutput) error {
	for _, v := range raw.Score {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return crerr.Wrap(scoremodel.ErrInvalidOutput, "score output is not finite")
		}
	}
	if len(raw.Scorer) != scoremodel.ScorerSlots {
		return crerr.Wrapf(scoremodel.ErrInvalidOutput, "scorer output has %d slots, expected %d", len(raw.Scorer), scoremodel.ScorerSlots)
	}
	return nil
}
