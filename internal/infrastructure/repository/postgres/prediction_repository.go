package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
	qb "github.com/riskibarqy/match-predictor/internal/platform/querybuilder"
)

type predictionTableModel struct {
	MatchID   int64          `db:"match_id"`
	Score     string         `db:"score"`
	Scorers   pq.StringArray `db:"scorers"`
	GoalTimes pq.StringArray `db:"goal_times"`
	CreatedAt time.Time      `db:"created_at"`
}

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// Save replaces any earlier prediction for the match.
func (r *PredictionRepository) Save(ctx context.Context, p prediction.Prediction) error {
	insertModel := predictionTableModel{
		MatchID:   p.MatchID,
		Score:     p.Score,
		Scorers:   pq.StringArray(nonNilStrings(p.Scorers)),
		GoalTimes: pq.StringArray(nonNilStrings(p.GoalTimes)),
		CreatedAt: p.CreatedAt.UTC(),
	}
	b, err := qb.InsertModel("predictions", insertModel)
	if err != nil {
		return fmt.Errorf("build upsert prediction query: %w", err)
	}
	query, args, err := b.OnConflict("match_id").DoUpdate().ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert prediction query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert prediction for match %d: %w", p.MatchID, err)
	}
	return nil
}

func (r *PredictionRepository) Get(ctx context.Context, matchID int64) (prediction.Prediction, bool, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("build get prediction query: %w", err)
	}

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return prediction.Prediction{}, false, nil
		}
		return prediction.Prediction{}, false, fmt.Errorf("get prediction for match %d: %w", matchID, err)
	}
	return predictionFromRow(row), true, nil
}

func (r *PredictionRepository) List(ctx context.Context) ([]prediction.Prediction, error) {
	query, args, err := qb.Select("*").From("predictions").OrderBy("match_id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, predictionFromRow(row))
	}
	return out, nil
}

func predictionFromRow(row predictionTableModel) prediction.Prediction {
	return prediction.Prediction{
		MatchID:   row.MatchID,
		Score:     row.Score,
		Scorers:   []string(row.Scorers),
		GoalTimes: []string(row.GoalTimes),
		CreatedAt: row.CreatedAt.UTC(),
	}
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
