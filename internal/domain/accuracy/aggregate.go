package accuracy

import (
	"math"

	crerr "github.com/cockroachdb/errors"
)

const (
	StrategyMeanOfMeans = "mean_of_means"
	StrategyGlobalMean  = "global_mean"
)

var ErrUnknownStrategy = crerr.New("unknown aggregation strategy")

// Scored is one evaluated match tagged with its matchday.
type Scored struct {
	Matchday string
	Metrics  Metrics
}

// Percentages holds metric values as integer percentages.
type Percentages struct {
	ExactScore             int `json:"exactScore"`
	CorrectResult          int `json:"correctResult"`
	ScoreAccuracy          int `json:"scoreAccuracy"`
	GoalDifferenceAccuracy int `json:"goalDifferenceAccuracy"`
	ScorerAccuracy         int `json:"scorerAccuracy"`
	FirstScorerAccuracy    int `json:"firstScorerAccuracy"`
	TimingAccuracy         int `json:"timingAccuracy"`
	TimeAccuracy           int `json:"timeAccuracy"`
}

type DayStats struct {
	Matchday string      `json:"matchday"`
	Matches  int         `json:"matches"`
	Percent  Percentages `json:"percent"`
}

type Summary struct {
	Strategy string      `json:"strategy"`
	Matches  int         `json:"matches"`
	Weekly   []DayStats  `json:"weekly"`
	Overall  Percentages `json:"overall"`
}

// Aggregator folds per-match metrics into weekly and overall figures.
type Aggregator interface {
	Name() string
	Aggregate(scored []Scored) Summary
}

// MeanOfMeans rounds each matchday's mean to a percent, then averages the day values.
// Matchdays with few matches weigh as much as full ones.
type MeanOfMeans struct{}

// GlobalMean averages every match equally.
type GlobalMean struct{}

func AggregatorByName(name string) (Aggregator, error) {
	switch name {
	case "", StrategyMeanOfMeans:
		return MeanOfMeans{}, nil
	case StrategyGlobalMean:
		return GlobalMean{}, nil
	default:
		return nil, crerr.Wrapf(ErrUnknownStrategy, "%q", name)
	}
}

func (MeanOfMeans) Name() string { return StrategyMeanOfMeans }

func (MeanOfMeans) Aggregate(scored []Scored) Summary {
	weekly := weeklyStats(scored)
	out := Summary{Strategy: StrategyMeanOfMeans, Matches: len(scored), Weekly: weekly}
	if len(weekly) == 0 {
		return out
	}

	var sum [metricCount]float64
	for _, day := range weekly {
		for i, v := range day.Percent.values() {
			sum[i] += float64(v)
		}
	}
	var mean [metricCount]float64
	for i := range sum {
		mean[i] = sum[i] / float64(len(weekly))
	}
	out.Overall = percentagesFrom(mean, func(v float64) int { return int(math.Round(v)) })
	return out
}

func (GlobalMean) Name() string { return StrategyGlobalMean }

func (GlobalMean) Aggregate(scored []Scored) Summary {
	out := Summary{Strategy: StrategyGlobalMean, Matches: len(scored), Weekly: weeklyStats(scored)}
	if len(scored) == 0 {
		return out
	}
	metrics := make([]Metrics, 0, len(scored))
	for _, s := range scored {
		metrics = append(metrics, s.Metrics)
	}
	out.Overall = percentagesFrom(meanOf(metrics), Percent)
	return out
}

func weeklyStats(scored []Scored) []DayStats {
	order := make([]string, 0)
	byDay := make(map[string][]Metrics)
	for _, s := range scored {
		if _, ok := byDay[s.Matchday]; !ok {
			order = append(order, s.Matchday)
		}
		byDay[s.Matchday] = append(byDay[s.Matchday], s.Metrics)
	}

	out := make([]DayStats, 0, len(order))
	for _, day := range order {
		metrics := byDay[day]
		out = append(out, DayStats{
			Matchday: day,
			Matches:  len(metrics),
			Percent:  percentagesFrom(meanOf(metrics), Percent),
		})
	}
	return out
}

const metricCount = 8

func (m Metrics) values() [metricCount]float64 {
	return [metricCount]float64{
		m.ExactScore, m.CorrectResult, m.ScoreAccuracy, m.GoalDifferenceAccuracy,
		m.ScorerAccuracy, m.FirstScorerAccuracy, m.TimingAccuracy, m.TimeAccuracy,
	}
}

func (p Percentages) values() [metricCount]int {
	return [metricCount]int{
		p.ExactScore, p.CorrectResult, p.ScoreAccuracy, p.GoalDifferenceAccuracy,
		p.ScorerAccuracy, p.FirstScorerAccuracy, p.TimingAccuracy, p.TimeAccuracy,
	}
}

func meanOf(metrics []Metrics) [metricCount]float64 {
	var sum [metricCount]float64
	for _, m := range metrics {
		for i, v := range m.values() {
			sum[i] += v
		}
	}
	if len(metrics) > 0 {
		for i := range sum {
			sum[i] /= float64(len(metrics))
		}
	}
	return sum
}

func percentagesFrom(v [metricCount]float64, round func(float64) int) Percentages {
	return Percentages{
		ExactScore:             round(v[0]),
		CorrectResult:          round(v[1]),
		ScoreAccuracy:          round(v[2]),
		GoalDifferenceAccuracy: round(v[3]),
		ScorerAccuracy:         round(v[4]),
		FirstScorerAccuracy:    round(v[5]),
		TimingAccuracy:         round(v[6]),
		TimeAccuracy:           round(v[7]),
	}
}
