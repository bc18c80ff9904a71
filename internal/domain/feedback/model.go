package feedback

import "time"

// Record compares a stored prediction with the played match.
// Accuracy fields are integer percentages.
type Record struct {
	MatchID                int64
	Matchday               string
	PredictedScore         string
	ActualScore            string
	PredictedScorers       []string
	ActualScorers          []string
	PredictedTimes         []string
	ActualTimes            []string
	ScoreAccuracy          int
	ScorerAccuracy         int
	TimeAccuracy           int
	ExactScoreRate         int
	CorrectResultRate      int
	GoalDifferenceAccuracy int
	FirstScorerAccuracy    int
	TimingAccuracy         int
	UnexpectedFactors      []string
	EvaluatedAt            time.Time
}
