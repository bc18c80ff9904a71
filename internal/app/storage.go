package app

import (
	"context"
	"fmt"

	"github.com/riskibarqy/match-predictor/internal/config"
	"github.com/riskibarqy/match-predictor/internal/domain/embedding"
	"github.com/riskibarqy/match-predictor/internal/domain/feedback"
	"github.com/riskibarqy/match-predictor/internal/domain/match"
	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
	"github.com/riskibarqy/match-predictor/internal/domain/scoremodel"
	"github.com/riskibarqy/match-predictor/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/match-predictor/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/match-predictor/internal/infrastructure/repository/postgres"
	basecache "github.com/riskibarqy/match-predictor/internal/platform/cache"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"github.com/riskibarqy/match-predictor/internal/platform/resilience"
)

// Storage groups the repositories one process works against.
type Storage struct {
	Matches     match.Repository
	Predictions prediction.Repository
	Feedback    feedback.Repository
	Embeddings  embedding.Repository
	Models      scoremodel.Store
	// Locker is nil when runs only need to exclude each other inside this process.
	Locker resilience.Locker

	close func() error
}

func (s *Storage) Close() error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close()
}

func openStorage(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Storage, error) {
	var (
		storage *Storage
		err     error
	)
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		storage, err = newMemoryStorage(cfg, logger)
	default:
		storage, err = newPostgresStorage(ctx, cfg, logger)
	}
	if err != nil {
		return nil, err
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		storage.Matches = cache.NewMatchRepository(storage.Matches, store)
		storage.Predictions = cache.NewPredictionRepository(storage.Predictions, store)
		storage.Feedback = cache.NewFeedbackRepository(storage.Feedback, store)
		logger.Info("repository cache enabled", "ttl", cfg.CacheTTL.String())
	}

	return storage, nil
}

func newMemoryStorage(cfg config.Config, logger *logging.Logger) (*Storage, error) {
	var matches []match.Match
	if cfg.SeedFile != "" {
		loaded, err := memory.LoadSeedFile(cfg.SeedFile)
		if err != nil {
			return nil, fmt.Errorf("load seed file: %w", err)
		}
		matches = loaded
	}

	models := memory.NewModelStore()
	logger.Info("memory storage ready", "seed_file", cfg.SeedFile, "matches", len(matches))

	return &Storage{
		Matches:     memory.NewMatchRepository(matches),
		Predictions: memory.NewPredictionRepository(),
		Feedback:    memory.NewFeedbackRepository(),
		Embeddings:  models,
		Models:      models,
	}, nil
}

func newPostgresStorage(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Storage, error) {
	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("postgres storage ready", "db_name", dbNameFromURL(cfg.DBURL))

	return &Storage{
		Matches:     postgres.NewMatchRepository(db),
		Predictions: postgres.NewPredictionRepository(db),
		Feedback:    postgres.NewFeedbackRepository(db),
		Embeddings:  postgres.NewEmbeddingRepository(db),
		Models:      postgres.NewModelStore(db),
		Locker:      postgres.NewAdvisoryLocker(db, logger.Named("run_lock")),
		close:       db.Close,
	}, nil
}
