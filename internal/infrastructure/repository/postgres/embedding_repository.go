package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/match-predictor/internal/domain/embedding"
	qb "github.com/riskibarqy/match-predictor/internal/platform/querybuilder"
)

type embeddingTableModel struct {
	PlayerName string          `db:"player_name"`
	Vector     pq.Float64Array `db:"vector"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

type EmbeddingRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewEmbeddingRepository(db *sqlx.DB) *EmbeddingRepository {
	return &EmbeddingRepository{db: db, now: time.Now}
}

func (r *EmbeddingRepository) ListPlayerEmbeddings(ctx context.Context) ([]embedding.PlayerEmbedding, error) {
	query, args, err := qb.Select("*").From("player_embeddings").OrderBy("player_name").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player embeddings query: %w", err)
	}

	var rows []embeddingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list player embeddings: %w", err)
	}

	out := make([]embedding.PlayerEmbedding, 0, len(rows))
	for _, row := range rows {
		out = append(out, embedding.PlayerEmbedding{
			PlayerName: row.PlayerName,
			Vector:     []float64(row.Vector),
			UpdatedAt:  row.UpdatedAt.UTC(),
		})
	}
	return out, nil
}

func (r *EmbeddingRepository) SavePlayerEmbedding(ctx context.Context, playerName string, vector []float64) error {
	query, args, err := upsertEmbeddingsQuery([]embedding.PlayerEmbedding{{
		PlayerName: playerName,
		Vector:     vector,
		UpdatedAt:  r.now().UTC(),
	}})
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert embedding for %s: %w", playerName, err)
	}
	return nil
}

func upsertEmbeddingsQuery(items []embedding.PlayerEmbedding) (string, []any, error) {
	rows := make([]embeddingTableModel, 0, len(items))
	for _, item := range items {
		rows = append(rows, embeddingTableModel{
			PlayerName: item.PlayerName,
			Vector:     pq.Float64Array(item.Vector),
			UpdatedAt:  item.UpdatedAt.UTC(),
		})
	}
	b, err := qb.InsertModels("player_embeddings", rows)
	if err != nil {
		return "", nil, fmt.Errorf("build upsert player embeddings query: %w", err)
	}
	query, args, err := b.OnConflict("player_name").DoUpdate().ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build upsert player embeddings query: %w", err)
	}
	return query, args, nil
}
