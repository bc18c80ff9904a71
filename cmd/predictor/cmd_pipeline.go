package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newStepCommand(state *session, step, short string) *cobra.Command {
	return &cobra.Command{
		Use:   step,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := state.container.Pipeline.RunStep(cmd.Context(), step)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}
}

func newScheduleCommand(state *session) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run the full pipeline every SCHEDULE_INTERVAL until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return state.container.Scheduler().Start(ctx)
		},
	}
}
