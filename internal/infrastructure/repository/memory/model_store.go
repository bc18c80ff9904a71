package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/embedding"
	"github.com/riskibarqy/match-predictor/internal/domain/scoremodel"
)

// ModelStore holds the trained snapshot and player embeddings. It serves both
// scoremodel.Store and embedding.Repository so a trained save swaps both under one lock.
type ModelStore struct {
	mu         sync.RWMutex
	snapshot   *scoremodel.Snapshot
	embeddings map[string]embedding.PlayerEmbedding
	now        func() time.Time
}

func NewModelStore() *ModelStore {
	return &ModelStore{
		embeddings: make(map[string]embedding.PlayerEmbedding),
		now:        time.Now,
	}
}

func (s *ModelStore) Load(_ context.Context) (scoremodel.Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return scoremodel.Snapshot{}, false, nil
	}
	out := *s.snapshot
	out.Weights = append([]byte(nil), s.snapshot.Weights...)
	return out, true, nil
}

func (s *ModelStore) SaveTrained(_ context.Context, snapshot scoremodel.Snapshot, embeddings []embedding.PlayerEmbedding) error {
	stored := snapshot
	stored.Weights = append([]byte(nil), snapshot.Weights...)

	next := make(map[string]embedding.PlayerEmbedding, len(s.embeddings)+len(embeddings))
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, item := range s.embeddings {
		next[name] = item
	}
	for _, item := range embeddings {
		next[item.PlayerName] = cloneEmbedding(item)
	}
	s.snapshot = &stored
	s.embeddings = next
	return nil
}

func (s *ModelStore) ListPlayerEmbeddings(_ context.Context) ([]embedding.PlayerEmbedding, error) {
	s.mu.RLock()
	out := make([]embedding.PlayerEmbedding, 0, len(s.embeddings))
	for _, item := range s.embeddings {
		out = append(out, cloneEmbedding(item))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].PlayerName < out[j].PlayerName })
	return out, nil
}

func (s *ModelStore) SavePlayerEmbedding(_ context.Context, playerName string, vector []float64) error {
	s.mu.Lock()
	s.embeddings[playerName] = embedding.PlayerEmbedding{
		PlayerName: playerName,
		Vector:     append([]float64(nil), vector...),
		UpdatedAt:  s.now().UTC(),
	}
	s.mu.Unlock()
	return nil
}

func cloneEmbedding(item embedding.PlayerEmbedding) embedding.PlayerEmbedding {
	out := item
	out.Vector = append([]float64(nil), item.Vector...)
	return out
}
