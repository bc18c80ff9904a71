package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/match-predictor/internal/domain/feedback"
	qb "github.com/riskibarqy/match-predictor/internal/platform/querybuilder"
)

type feedbackTableModel struct {
	MatchID                int64          `db:"match_id"`
	Matchday               string         `db:"matchday"`
	PredictedScore         string         `db:"predicted_score"`
	ActualScore            string         `db:"actual_score"`
	PredictedScorers       pq.StringArray `db:"predicted_scorers"`
	ActualScorers          pq.StringArray `db:"actual_scorers"`
	PredictedTimes         pq.StringArray `db:"predicted_times"`
	ActualTimes            pq.StringArray `db:"actual_times"`
	ScoreAccuracy          int            `db:"score_accuracy"`
	ScorerAccuracy         int            `db:"scorer_accuracy"`
	TimeAccuracy           int            `db:"time_accuracy"`
	ExactScoreRate         int            `db:"exact_score_rate"`
	CorrectResultRate      int            `db:"correct_result_rate"`
	GoalDifferenceAccuracy int            `db:"goal_difference_accuracy"`
	FirstScorerAccuracy    int            `db:"first_scorer_accuracy"`
	TimingAccuracy         int            `db:"timing_accuracy"`
	UnexpectedFactors      pq.StringArray `db:"unexpected_factors"`
	EvaluatedAt            time.Time      `db:"evaluated_at"`
}

type FeedbackRepository struct {
	db *sqlx.DB
}

func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Save upserts by match id.
func (r *FeedbackRepository) Save(ctx context.Context, rec feedback.Record) error {
	insertModel := feedbackTableModel{
		MatchID:                rec.MatchID,
		Matchday:               rec.Matchday,
		PredictedScore:         rec.PredictedScore,
		ActualScore:            rec.ActualScore,
		PredictedScorers:       nonNilStrings(rec.PredictedScorers),
		ActualScorers:          nonNilStrings(rec.ActualScorers),
		PredictedTimes:         nonNilStrings(rec.PredictedTimes),
		ActualTimes:            nonNilStrings(rec.ActualTimes),
		ScoreAccuracy:          rec.ScoreAccuracy,
		ScorerAccuracy:         rec.ScorerAccuracy,
		TimeAccuracy:           rec.TimeAccuracy,
		ExactScoreRate:         rec.ExactScoreRate,
		CorrectResultRate:      rec.CorrectResultRate,
		GoalDifferenceAccuracy: rec.GoalDifferenceAccuracy,
		FirstScorerAccuracy:    rec.FirstScorerAccuracy,
		TimingAccuracy:         rec.TimingAccuracy,
		UnexpectedFactors:      nonNilStrings(rec.UnexpectedFactors),
		EvaluatedAt:            rec.EvaluatedAt.UTC(),
	}
	b, err := qb.InsertModel("feedback", insertModel)
	if err != nil {
		return fmt.Errorf("build upsert feedback query: %w", err)
	}
	query, args, err := b.OnConflict("match_id").DoUpdate().ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert feedback query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert feedback for match %d: %w", rec.MatchID, err)
	}
	return nil
}

// List returns records in match date order so matchdays appear in playing order.
func (r *FeedbackRepository) List(ctx context.Context) ([]feedback.Record, error) {
	query, args, err := qb.Select("f.*").From("feedback f").
		LeftJoin("matches m", "m.id = f.match_id").
		OrderBy("m.match_date ASC NULLS LAST", "f.match_id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list feedback query: %w", err)
	}

	var rows []feedbackTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}

	out := make([]feedback.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, feedback.Record{
			MatchID:                row.MatchID,
			Matchday:               row.Matchday,
			PredictedScore:         row.PredictedScore,
			ActualScore:            row.ActualScore,
			PredictedScorers:       []string(row.PredictedScorers),
			ActualScorers:          []string(row.ActualScorers),
			PredictedTimes:         []string(row.PredictedTimes),
			ActualTimes:            []string(row.ActualTimes),
			ScoreAccuracy:          row.ScoreAccuracy,
			ScorerAccuracy:         row.ScorerAccuracy,
			TimeAccuracy:           row.TimeAccuracy,
			ExactScoreRate:         row.ExactScoreRate,
			CorrectResultRate:      row.CorrectResultRate,
			GoalDifferenceAccuracy: row.GoalDifferenceAccuracy,
			FirstScorerAccuracy:    row.FirstScorerAccuracy,
			TimingAccuracy:         row.TimingAccuracy,
			UnexpectedFactors:      []string(row.UnexpectedFactors),
			EvaluatedAt:            row.EvaluatedAt.UTC(),
		})
	}
	return out, nil
}
