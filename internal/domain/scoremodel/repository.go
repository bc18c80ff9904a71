package scoremodel

import (
	"context"

	"github.com/riskibarqy/match-predictor/internal/domain/embedding"
)

// Store persists the trained model together with the player embeddings it produced.
type Store interface {
	Load(ctx context.Context) (Snapshot, bool, error)
	// SaveTrained writes the snapshot and every embedding as one unit. On error nothing
	// is committed.
	SaveTrained(ctx context.Context, snapshot Snapshot, embeddings []embedding.PlayerEmbedding) error
}
