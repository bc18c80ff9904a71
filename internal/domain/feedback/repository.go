package feedback

import "context"

// Repository upserts feedback keyed by match id.
type Repository interface {
	Save(ctx context.Context, item Record) error
	List(ctx context.Context) ([]Record, error)
}
