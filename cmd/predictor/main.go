package main

import (
	"fmt"
	"os"

	"github.com/riskibarqy/match-predictor/internal/platform/logging"
)

func main() {
	state := &session{}
	err := newRootCommand(state).Execute()
	state.close()
	_ = logging.Default().Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
