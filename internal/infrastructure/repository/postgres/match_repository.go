package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/match-predictor/internal/domain/match"
	qb "github.com/riskibarqy/match-predictor/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) ListCompleted(ctx context.Context) ([]match.Match, error) {
	return r.list(ctx, "completed", qb.NotNull("score"))
}

func (r *MatchRepository) ListUpcoming(ctx context.Context) ([]match.Match, error) {
	return r.list(ctx, "upcoming", qb.IsNull("score"))
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	return r.list(ctx, "all")
}

func (r *MatchRepository) list(ctx context.Context, name string, conditions ...qb.Condition) ([]match.Match, error) {
	query, args, err := qb.Select(matchColumns...).From("matches").
		Where(conditions...).
		OrderBy("match_date ASC", "id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select %s matches query: %w", name, err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select %s matches: %w", name, err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		m, err := matchFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Upsert writes all matches in one transaction, replacing rows with the same id.
func (r *MatchRepository) Upsert(ctx context.Context, matches []match.Match) error {
	if len(matches) == 0 {
		return nil
	}

	return inTx(ctx, r.db, "upsert matches", func(tx *sqlx.Tx) error {
		for _, m := range matches {
			insertModel, err := matchToInsert(m)
			if err != nil {
				return err
			}
			b, err := qb.InsertModel("matches", insertModel)
			if err != nil {
				return fmt.Errorf("build upsert match query: %w", err)
			}
			query, args, err := b.OnConflict("id").DoUpdate().ToSQL()
			if err != nil {
				return fmt.Errorf("build upsert match query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("upsert match %d: %w", m.ID, err)
			}
		}
		return nil
	})
}
