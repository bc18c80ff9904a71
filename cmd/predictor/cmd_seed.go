package main

import (
	"fmt"

	"github.com/riskibarqy/match-predictor/internal/infrastructure/repository/memory"
	"github.com/spf13/cobra"
)

func newSeedCommand(state *session) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Upsert the matches of a YAML season file into storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matches, err := memory.LoadSeedFile(args[0])
			if err != nil {
				return err
			}
			if err := state.container.Storage.Matches.Upsert(cmd.Context(), matches); err != nil {
				return fmt.Errorf("upsert matches: %w", err)
			}

			state.container.Logger.Info("seed applied", "file", args[0], "matches", len(matches))
			return printJSON(cmd, map[string]any{"file": args[0], "matches": len(matches)})
		},
	}
}
