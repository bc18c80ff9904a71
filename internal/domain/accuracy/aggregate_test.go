package accuracy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleScored() []Scored {
	return []Scored{
		{Matchday: "Fecha 1", Metrics: Metrics{ScoreAccuracy: 1, ExactScore: 1}},
		{Matchday: "Fecha 1", Metrics: Metrics{ScoreAccuracy: 0}},
		{Matchday: "Fecha 1", Metrics: Metrics{ScoreAccuracy: 0}},
		{Matchday: "Fecha 2", Metrics: Metrics{ScoreAccuracy: 1}},
	}
}

func TestMeanOfMeans_WeighsMatchdaysEqually(t *testing.T) {
	t.Parallel()

	got := MeanOfMeans{}.Aggregate(sampleScored())
	require.Len(t, got.Weekly, 2)
	assert.Equal(t, "Fecha 1", got.Weekly[0].Matchday)
	assert.Equal(t, 3, got.Weekly[0].Matches)
	assert.Equal(t, 33, got.Weekly[0].Percent.ScoreAccuracy)
	assert.Equal(t, 100, got.Weekly[1].Percent.ScoreAccuracy)
	// (33 + 100) / 2 rounds up.
	assert.Equal(t, 67, got.Overall.ScoreAccuracy)
	assert.Equal(t, 17, got.Overall.ExactScore)
	assert.Equal(t, 4, got.Matches)
	assert.Equal(t, StrategyMeanOfMeans, got.Strategy)
}

func TestGlobalMean_WeighsMatchesEqually(t *testing.T) {
	t.Parallel()

	got := GlobalMean{}.Aggregate(sampleScored())
	assert.Equal(t, 50, got.Overall.ScoreAccuracy)
	assert.Equal(t, 25, got.Overall.ExactScore)
	assert.Len(t, got.Weekly, 2)
}

func TestAggregate_Empty(t *testing.T) {
	t.Parallel()

	for _, agg := range []Aggregator{MeanOfMeans{}, GlobalMean{}} {
		got := agg.Aggregate(nil)
		assert.Empty(t, got.Weekly)
		assert.Equal(t, Percentages{}, got.Overall)
	}
}

func TestAggregatorByName(t *testing.T) {
	t.Parallel()

	agg, err := AggregatorByName("")
	require.NoError(t, err)
	assert.Equal(t, StrategyMeanOfMeans, agg.Name())

	agg, err = AggregatorByName(StrategyGlobalMean)
	require.NoError(t, err)
	assert.Equal(t, StrategyGlobalMean, agg.Name())

	_, err = AggregatorByName("median")
	if !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("expected ErrUnknownStrategy, got %v", err)
	}
}
