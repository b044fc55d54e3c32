package main

import (
	"github.com/spf13/cobra"

	"github.com/cureops/autobatch/internal/orchestrator"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <input.json>",
	Short: "Group work-orders by curing cycle and propose an autoclave assignment, without placing anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfigOrExit()

		in, err := loadRunInput(args[0])
		if err != nil {
			return err
		}
		wos, autoclaves := in.toDomain()

		orch := orchestrator.New(nil, nil)
		report := orch.Analyze(wos, autoclaves, cfg.Solver.ElevationCap)

		return writeJSON(outFile, report)
	},
}
