package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedPath = "../../internal/infrastructure/repository/memory/testdata/season.yaml"

func setMemoryEnv(t *testing.T, seedFile string) {
	t.Helper()

	t.Setenv("APP_ENV", "dev")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("SEED_FILE", seedFile)
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("EMBEDDING_DIM", "4")
	t.Setenv("TRAIN_EPOCHS_NEW", "3")
	t.Setenv("TRAIN_EPOCHS_EXISTING", "2")
	t.Setenv("PREDICTION_WORKERS", "2")
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "false")
}

func execute(t *testing.T, args ...string) (map[string]any, error) {
	t.Helper()

	state := &session{}
	t.Cleanup(state.close)

	var out bytes.Buffer
	cmd := newRootCommand(state)
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		return nil, err
	}

	var body map[string]any
	require.NoError(t, sonic.Unmarshal(out.Bytes(), &body), out.String())
	return body, nil
}

func TestRunCommand_PrintsPipelineResult(t *testing.T) {
	setMemoryEnv(t, seedPath)

	body, err := execute(t, "run")
	require.NoError(t, err)

	assert.Equal(t, "run", body["step"])
	assert.NotEmpty(t, body["run_id"])
	assert.Contains(t, body, "train")
	assert.Contains(t, body, "predict")
	assert.Contains(t, body, "evaluate")
}

func TestPredictCommand_WithoutModelFails(t *testing.T) {
	setMemoryEnv(t, seedPath)

	_, err := execute(t, "predict")
	require.Error(t, err)
}

func TestSeedCommand_UpsertsFile(t *testing.T) {
	setMemoryEnv(t, "")

	abs, err := filepath.Abs(seedPath)
	require.NoError(t, err)

	body, err := execute(t, "seed", abs)
	require.NoError(t, err)
	assert.EqualValues(t, 2, body["matches"])
}

func TestSeedCommand_RequiresFileArgument(t *testing.T) {
	setMemoryEnv(t, "")

	_, err := execute(t, "seed")
	require.Error(t, err)
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	setMemoryEnv(t, seedPath)
	t.Setenv("STORAGE_DRIVER", "sqlite")

	_, err := execute(t, "train")
	require.Error(t, err)
}
