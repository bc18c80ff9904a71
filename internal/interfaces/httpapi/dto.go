package httpapi

import (
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/feedback"
	"github.com/riskibarqy/match-predictor/internal/domain/match"
	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
	"github.com/riskibarqy/match-predictor/internal/usecase"
)

type matchResponse struct {
	ID         int64               `json:"id"`
	Matchday   string              `json:"matchday"`
	Date       time.Time           `json:"date"`
	HomeTeam   string              `json:"home_team"`
	AwayTeam   string              `json:"away_team"`
	Score      *string             `json:"score"`
	Completed  bool                `json:"completed"`
	Goals      []goalResponse      `json:"goals"`
	Prediction *predictionResponse `json:"prediction,omitempty"`
	Feedback   *feedbackResponse   `json:"feedback,omitempty"`
}

type goalResponse struct {
	Scorer     string `json:"scorer"`
	Minute     int    `json:"minute"`
	ScoreAfter string `json:"score_after,omitempty"`
}

type predictionResponse struct {
	Score     string    `json:"score"`
	Scorers   []string  `json:"scorers"`
	GoalTimes []string  `json:"goal_times"`
	CreatedAt time.Time `json:"created_at"`
}

type feedbackResponse struct {
	PredictedScore         string    `json:"predicted_score"`
	ActualScore            string    `json:"actual_score"`
	ScoreAccuracy          int       `json:"score_accuracy"`
	ScorerAccuracy         int       `json:"scorer_accuracy"`
	TimeAccuracy           int       `json:"time_accuracy"`
	ExactScoreRate         int       `json:"exact_score_rate"`
	CorrectResultRate      int       `json:"correct_result_rate"`
	GoalDifferenceAccuracy int       `json:"goal_difference_accuracy"`
	FirstScorerAccuracy    int       `json:"first_scorer_accuracy"`
	TimingAccuracy         int       `json:"timing_accuracy"`
	UnexpectedFactors      []string  `json:"unexpected_factors"`
	EvaluatedAt            time.Time `json:"evaluated_at"`
}

func matchesToResponse(views []usecase.MatchView) []matchResponse {
	out := make([]matchResponse, 0, len(views))
	for _, view := range views {
		out = append(out, matchToResponse(view))
	}
	return out
}

func matchToResponse(view usecase.MatchView) matchResponse {
	m := view.Match
	out := matchResponse{
		ID:        m.ID,
		Matchday:  m.Matchday,
		Date:      m.Date,
		HomeTeam:  m.HomeTeam,
		AwayTeam:  m.AwayTeam,
		Score:     m.Score,
		Completed: m.Completed(),
		Goals:     goalsToResponse(m.Goals),
	}
	if view.Prediction != nil {
		p := predictionToResponse(*view.Prediction)
		out.Prediction = &p
	}
	if view.Feedback != nil {
		f := feedbackToResponse(*view.Feedback)
		out.Feedback = &f
	}
	return out
}

func goalsToResponse(goals []match.Goal) []goalResponse {
	out := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, goalResponse{Scorer: g.Scorer, Minute: g.Minute, ScoreAfter: g.ScoreAfter})
	}
	return out
}

func predictionToResponse(p prediction.Prediction) predictionResponse {
	return predictionResponse{
		Score:     p.Score,
		Scorers:   nonNil(p.Scorers),
		GoalTimes: nonNil(p.GoalTimes),
		CreatedAt: p.CreatedAt,
	}
}

func feedbackToResponse(r feedback.Record) feedbackResponse {
	return feedbackResponse{
		PredictedScore:         r.PredictedScore,
		ActualScore:            r.ActualScore,
		ScoreAccuracy:          r.ScoreAccuracy,
		ScorerAccuracy:         r.ScorerAccuracy,
		TimeAccuracy:           r.TimeAccuracy,
		ExactScoreRate:         r.ExactScoreRate,
		CorrectResultRate:      r.CorrectResultRate,
		GoalDifferenceAccuracy: r.GoalDifferenceAccuracy,
		FirstScorerAccuracy:    r.FirstScorerAccuracy,
		TimingAccuracy:         r.TimingAccuracy,
		UnexpectedFactors:      nonNil(r.UnexpectedFactors),
		EvaluatedAt:            r.EvaluatedAt,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
