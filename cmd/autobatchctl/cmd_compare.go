package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cureops/autobatch/internal/lockreg"
	"github.com/cureops/autobatch/internal/orchestrator"
)

var compareCmd = &cobra.Command{
	Use:   "compare <input.json>",
	Short: "Run the pipeline across the default constraint what-if scenarios and emit a side-by-side comparison",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfigOrExit()

		in, err := loadRunInput(args[0])
		if err != nil {
			return err
		}
		wos, autoclaves := in.toDomain()

		orch := orchestrator.New(lockreg.NewInMemory(nil, nil), nil)
		scenarios := orchestrator.BuildDefaultScenarios(cfg.ConstraintBundle())
		results := orch.CompareScenarios(context.Background(), wos, autoclaves, scenarios)

		return writeJSON(outFile, results)
	},
}
