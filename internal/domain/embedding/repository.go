package embedding

import "context"

// Repository reads and writes player embeddings.
type Repository interface {
	ListPlayerEmbeddings(ctx context.Context) ([]PlayerEmbedding, error)
	SavePlayerEmbedding(ctx context.Context, playerName string, vector []float64) error
}
