package embedding

import "time"

// DefaultPlayerDim is the player embedding width used when none is configured.
const DefaultPlayerDim = 64

// PlayerEmbedding is the learned vector of one player.
type PlayerEmbedding struct {
	PlayerName string
	Vector     []float64
	UpdatedAt  time.Time
}

// ByName indexes embeddings by player name.
func ByName(items []PlayerEmbedding) map[string]PlayerEmbedding {
	out := make(map[string]PlayerEmbedding, len(items))
	for _, item := range items {
		out[item.PlayerName] = item
	}
	return out
}
