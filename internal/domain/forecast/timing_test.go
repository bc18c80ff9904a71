package forecast

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var flatDistribution = [6]float64{1, 1, 1, 1, 1, 1}

func minutesOf(t *testing.T, times []string) []int {
	t.Helper()
	out, err := prediction.Prediction{GoalTimes: times}.Minutes()
	require.NoError(t, err)
	return out
}

func TestPredictGoalTimes_SortedAndBounded(t *testing.T) {
	for seed := uint64(1); seed <= 200; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed*31))
		for goals := 0; goals <= 6; goals++ {
			times, err := PredictGoalTimes(flatDistribution, goals, rng, Options{})
			require.NoError(t, err)
			require.Len(t, times, goals)

			minutes := minutesOf(t, times)
			for i, m := range minutes {
				if m < 0 || m > 90 {
					t.Fatalf("minute out of range: %d", m)
				}
				if i > 0 && minutes[i-1] > m {
					t.Fatalf("times not sorted: %v", times)
				}
			}
		}
	}
}

func TestPredictGoalTimes_FirstAndLastGoalWindows(t *testing.T) {
	// All mass on the middle bins: the first goal must still land in the opening half
	// hour and the last in the closing half hour.
	distribution := [6]float64{0, 0, 1, 1, 0, 0}
	rng := rand.New(rand.NewPCG(3, 5))

	times, err := PredictGoalTimes(distribution, 2, rng, Options{})
	require.NoError(t, err)

	minutes := minutesOf(t, times)
	assert.Less(t, minutes[0], 30)
	assert.GreaterOrEqual(t, minutes[1], 60)
}

func TestPredictGoalTimes_DistinctBins(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 42))
	distribution := [6]float64{0, 0, 0, 0, 0, 1}

	times, err := PredictGoalTimes(distribution, 6, rng, Options{})
	require.NoError(t, err)

	seen := map[int]bool{}
	for _, m := range minutesOf(t, times) {
		bin := m / 15
		if seen[bin] {
			t.Fatalf("bin %d used twice in %v", bin, times)
		}
		seen[bin] = true
	}
}

func TestPredictGoalTimes_TooManyGoals(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	_, err := PredictGoalTimes(flatDistribution, 7, rng, Options{})
	var binsErr *GoalCountExceedsBinsError
	if !errors.As(err, &binsErr) {
		t.Fatalf("expected GoalCountExceedsBinsError, got %v", err)
	}
	assert.Equal(t, 7, binsErr.Requested)

	times, err := PredictGoalTimes(flatDistribution, 9, rng, Options{AllowBinReuse: true})
	require.NoError(t, err)
	assert.Len(t, times, 9)
}

func TestPredictGoalTimes_DeterministicWithSeed(t *testing.T) {
	a, err := PredictGoalTimes(flatDistribution, 4, rand.New(rand.NewPCG(9, 9)), Options{})
	require.NoError(t, err)
	b, err := PredictGoalTimes(flatDistribution, 4, rand.New(rand.NewPCG(9, 9)), Options{})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestWeightedRandomBin(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 8))

	for i := 0; i < 100; i++ {
		if got := WeightedRandomBin([]float64{0, 0, 3, 0}, rng); got != 2 {
			t.Fatalf("expected bin 2, got %d", got)
		}
	}

	counts := make([]int, 3)
	for i := 0; i < 300; i++ {
		counts[WeightedRandomBin([]float64{0, 0, 0}, rng)]++
	}
	for bin, c := range counts {
		if c == 0 {
			t.Fatalf("uniform fallback never picked bin %d", bin)
		}
	}

	assert.Equal(t, 0, WeightedRandomBin(nil, rng))
}
