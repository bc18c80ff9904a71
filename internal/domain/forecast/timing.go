package forecast

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
	"github.com/riskibarqy/match-predictor/internal/domain/scoremodel"
)

const (
	binMinutes = 15
	maxMinute  = 90
)

// GoalCountExceedsBinsError is returned when more goals are requested than there are
// distinct time bins and bin reuse is not allowed.
type GoalCountExceedsBinsError struct {
	Requested int
	Bins      int
}

func (e *GoalCountExceedsBinsError) Error() string {
	return fmt.Sprintf("goal count %d exceeds %d time bins", e.Requested, e.Bins)
}

// Options tunes goal-time sampling.
type Options struct {
	// AllowBinReuse lets goals share a bin once every bin has been used.
	AllowBinReuse bool
}

// PredictGoalTimes samples one minute per goal from a six-bin distribution.
// The first goal is drawn from the first half hour, the last goal (when there is more than
// one) from the final half hour, the rest from every bin. Taken bins are skipped by probing
// the next bin. The result is sorted ascending and independent of scorer order.
func PredictGoalTimes(distribution [scoremodel.TimeBins]float64, numGoals int, rng *rand.Rand, opts Options) ([]string, error) {
	if numGoals <= 0 {
		return []string{}, nil
	}
	if numGoals > scoremodel.TimeBins && !opts.AllowBinReuse {
		return nil, &GoalCountExceedsBinsError{Requested: numGoals, Bins: scoremodel.TimeBins}
	}

	var used [scoremodel.TimeBins]bool
	usedCount := 0
	minutes := make([]int, 0, numGoals)
	for i := 0; i < numGoals; i++ {
		var bin int
		switch {
		case i == 0:
			bin = WeightedRandomBin(distribution[0:2], rng)
		case i == numGoals-1:
			bin = scoremodel.TimeBins - 2 + WeightedRandomBin(distribution[scoremodel.TimeBins-2:], rng)
		default:
			bin = WeightedRandomBin(distribution[:], rng)
		}

		if usedCount < scoremodel.TimeBins {
			for used[bin] {
				bin = (bin + 1) % scoremodel.TimeBins
			}
			used[bin] = true
			usedCount++
		}

		lo := bin * binMinutes
		hi := min(lo+binMinutes-1, maxMinute)
		minutes = append(minutes, lo+rng.IntN(hi-lo+1))
	}

	sort.Ints(minutes)
	out := make([]string, 0, len(minutes))
	for _, minute := range minutes {
		out = append(out, prediction.FormatMinute(minute))
	}
	return out, nil
}

// WeightedRandomBin normalises the weights, draws once and returns the first bin whose
// cumulative probability reaches the draw. Negative or non-finite weights count as zero;
// an all-zero vector falls back to a uniform pick.
func WeightedRandomBin(weights []float64, rng *rand.Rand) int {
	if len(weights) == 0 {
		return 0
	}

	var total float64
	for _, w := range weights {
		total += cleanWeight(w)
	}
	if total <= 0 {
		return rng.IntN(len(weights))
	}

	r := rng.Float64()
	var cumulative float64
	for i, w := range weights {
		share := cleanWeight(w) / total
		cumulative += share
		if share > 0 && r <= cumulative {
			return i
		}
	}
	return len(weights) - 1
}

func cleanWeight(w float64) float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return 0
	}
	return w
}
