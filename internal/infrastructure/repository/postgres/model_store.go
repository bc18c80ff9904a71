package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/match-predictor/internal/domain/embedding"
	"github.com/riskibarqy/match-predictor/internal/domain/scoremodel"
	qb "github.com/riskibarqy/match-predictor/internal/platform/querybuilder"
)

// The table holds a single row.
const modelSnapshotID = 1

// embeddingBatchSize keeps each multi-row insert under the 65535 parameter limit.
const embeddingBatchSize = 500

type modelSnapshotTableModel struct {
	ID        int            `db:"id"`
	Version   string         `db:"version"`
	Players   pq.StringArray `db:"players"`
	Teams     pq.StringArray `db:"teams"`
	PlayerDim int            `db:"player_dim"`
	TeamDim   int            `db:"team_dim"`
	Weights   string         `db:"weights"`
	TrainedAt time.Time      `db:"trained_at"`
}

type ModelStore struct {
	db *sqlx.DB
}

func NewModelStore(db *sqlx.DB) *ModelStore {
	return &ModelStore{db: db}
}

func (s *ModelStore) Load(ctx context.Context) (scoremodel.Snapshot, bool, error) {
	query, args, err := qb.Select("id", "version", "players", "teams", "player_dim", "team_dim", "weights::text AS weights", "trained_at").
		From("model_snapshots").
		Where(qb.Eq("id", modelSnapshotID)).
		ToSQL()
	if err != nil {
		return scoremodel.Snapshot{}, false, fmt.Errorf("build load model snapshot query: %w", err)
	}

	var row modelSnapshotTableModel
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return scoremodel.Snapshot{}, false, nil
		}
		return scoremodel.Snapshot{}, false, fmt.Errorf("load model snapshot: %w", err)
	}

	return scoremodel.Snapshot{
		Version:    row.Version,
		Vocabulary: scoremodel.RestoreVocabulary(row.Version, row.Players, row.Teams),
		PlayerDim:  row.PlayerDim,
		TeamDim:    row.TeamDim,
		Weights:    []byte(row.Weights),
		TrainedAt:  row.TrainedAt.UTC(),
	}, true, nil
}

// SaveTrained replaces the snapshot and upserts every embedding in one transaction.
func (s *ModelStore) SaveTrained(ctx context.Context, snapshot scoremodel.Snapshot, embeddings []embedding.PlayerEmbedding) error {
	return inTx(ctx, s.db, "save trained model", func(tx *sqlx.Tx) error {
		b, err := qb.InsertModel("model_snapshots", modelSnapshotTableModel{
			ID:        modelSnapshotID,
			Version:   snapshot.Version,
			Players:   nonNilStrings(snapshot.Vocabulary.Players),
			Teams:     nonNilStrings(snapshot.Vocabulary.Teams),
			PlayerDim: snapshot.PlayerDim,
			TeamDim:   snapshot.TeamDim,
			Weights:   string(snapshot.Weights),
			TrainedAt: snapshot.TrainedAt.UTC(),
		})
		if err != nil {
			return fmt.Errorf("build upsert model snapshot query: %w", err)
		}
		query, args, err := b.OnConflict("id").DoUpdate().ToSQL()
		if err != nil {
			return fmt.Errorf("build upsert model snapshot query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert model snapshot: %w", err)
		}

		for start := 0; start < len(embeddings); start += embeddingBatchSize {
			end := min(start+embeddingBatchSize, len(embeddings))
			query, args, err := upsertEmbeddingsQuery(embeddings[start:end])
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("upsert player embeddings batch %d: %w", start/embeddingBatchSize, err)
			}
		}
		return nil
	})
}
