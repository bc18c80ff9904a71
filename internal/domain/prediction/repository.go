package prediction

import "context"

// Repository persists one prediction per match.
type Repository interface {
	Save(ctx context.Context, item Prediction) error
	Get(ctx context.Context, matchID int64) (Prediction, bool, error)
	List(ctx context.Context) ([]Prediction, error)
}
