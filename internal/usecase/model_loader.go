package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/match-predictor/internal/domain/scoremodel"
)

// loadModel restores the stored model. ok is false when nothing has been trained yet.
func loadModel(ctx context.Context, store scoremodel.Store, trainer scoremodel.Trainer) (scoremodel.Model, bool, error) {
	snapshot, ok, err := store.Load(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("load model snapshot: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	model, err := trainer.Restore(snapshot)
	if err != nil {
		return nil, false, fmt.Errorf("restore model %s: %w", snapshot.Version, err)
	}
	return model, true, nil
}
