package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/match-predictor/internal/config"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"github.com/riskibarqy/match-predictor/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:                config.EnvDev,
		ServiceName:           "match-predictor",
		HTTPAddr:              ":0",
		CORSAllowedOrigins:    []string{"*"},
		StorageDriver:         config.StorageDriverMemory,
		SeedFile:              "../infrastructure/repository/memory/testdata/season.yaml",
		CacheEnabled:          true,
		CacheTTL:              time.Minute,
		PredictionSeed:        7,
		PredictionWorkers:     2,
		EmbeddingDim:          4,
		TrainEpochsNew:        3,
		TrainEpochsExisting:   2,
		TrainPatienceNew:      2,
		TrainPatienceExisting: 1,
		TrainLearningRate:     0.05,
		AggregationStrategy:   config.AggregationMeanOfMeans,
		ScheduleInterval:      time.Hour,
		InternalJobToken:      "token",
		MetricsEnabled:        true,
	}
}

func TestBuild_MemoryStorageRunsPipeline(t *testing.T) {
	c, err := Build(context.Background(), memoryConfig(), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	assert.Nil(t, c.Storage.Locker)

	result, err := c.Pipeline.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result.Predict)
	assert.Equal(t, usecase.StepRun, result.Step)
	assert.Equal(t, 1, result.Predict.Upcoming)
	assert.Equal(t, 1, result.Predict.Predicted+result.Predict.Failed)
	require.NotNil(t, result.Evaluate)
	assert.Equal(t, 1, result.Evaluate.Completed)

	views, err := c.Queries.ListMatches(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)
}

func TestBuild_RejectsUnknownSeedFile(t *testing.T) {
	cfg := memoryConfig()
	cfg.SeedFile = "does-not-exist.yaml"

	_, err := Build(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)
}

func TestNewHTTPServer_ServesHealthAndMetrics(t *testing.T) {
	c, err := Build(context.Background(), memoryConfig(), logging.NewNop())
	require.NoError(t, err)

	srv, err := NewHTTPServer(c)
	require.NoError(t, err)

	for _, path := range []string{"/healthz", "/metrics", "/v1/matches"} {
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestNewHTTPServer_MetricsDisabled(t *testing.T) {
	cfg := memoryConfig()
	cfg.MetricsEnabled = false
	c, err := Build(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)

	srv, err := NewHTTPServer(c)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTrainerConfigFromEnvSettings(t *testing.T) {
	got := trainerConfig(memoryConfig())

	assert.Equal(t, 4, got.PlayerDim)
	assert.Equal(t, 3, got.EpochsNew)
	assert.Equal(t, 2, got.EpochsExisting)
	assert.Equal(t, uint64(7), got.Seed)
	assert.InDelta(t, 0.05, got.LearningRate, 1e-12)
}
