package match

import "context"

// Repository exposes match reads for the prediction pipeline and ingestion writes.
type Repository interface {
	// ListCompleted returns scored matches ordered by date ascending.
	ListCompleted(ctx context.Context) ([]Match, error)
	// ListUpcoming returns matches without a score ordered by date ascending.
	ListUpcoming(ctx context.Context) ([]Match, error)
	List(ctx context.Context) ([]Match, error)
	Upsert(ctx context.Context, items []Match) error
}
