package main

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/match-predictor/internal/app"
	"github.com/riskibarqy/match-predictor/internal/config"
	"github.com/riskibarqy/match-predictor/internal/observability"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"github.com/spf13/cobra"
)

// session is the state shared by every subcommand once the root pre-run has built it.
// The caller closes it after Execute returns.
type session struct {
	container *app.Container
	teardown  []func()
}

func (s *session) close() {
	for i := len(s.teardown) - 1; i >= 0; i-- {
		s.teardown[i]()
	}
	s.teardown = nil
}

func newRootCommand(state *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "predictor",
		Short:         "Train the score model, predict upcoming matches and evaluate finished ones",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return state.open(cmd.Context())
		},
	}

	cmd.AddCommand(
		newStepCommand(state, "train", "Train or warm-start the score model on completed matches"),
		newStepCommand(state, "predict", "Predict every upcoming match with the stored model"),
		newStepCommand(state, "evaluate", "Score stored predictions against completed matches"),
		newStepCommand(state, "run", "Train, predict and evaluate in order"),
		newScheduleCommand(state),
		newSeedCommand(state),
	)

	return cmd
}

func (s *session) open(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.NewJSON(cfg.LogLevel).With("service", cfg.ServiceName, "env", cfg.AppEnv, "process", "predictor")
	logging.SetDefault(logger)

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return err
	}
	s.teardown = append(s.teardown, func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("shutdown uptrace failed", "error", err)
		}
	})

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		s.close()
		return err
	}
	s.teardown = append(s.teardown, func() {
		if err := stopProfiler(); err != nil {
			logger.Warn("stop pyroscope failed", "error", err)
		}
	})

	container, err := app.Build(ctx, cfg, logger)
	if err != nil {
		s.close()
		return err
	}
	s.container = container
	s.teardown = append(s.teardown, func() {
		if err := container.Close(); err != nil {
			logger.Warn("close storage failed", "error", err)
		}
	})

	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	raw, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
	return err
}
