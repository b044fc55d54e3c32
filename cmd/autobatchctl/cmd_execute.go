package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cureops/autobatch/internal/lockreg"
	"github.com/cureops/autobatch/internal/obslog"
	"github.com/cureops/autobatch/internal/orchestrator"
)

var executeCmd = &cobra.Command{
	Use:   "execute <input.json>",
	Short: "Run the full curing-batch pipeline and emit the ranked batch list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfigOrExit()

		in, err := loadRunInput(args[0])
		if err != nil {
			return err
		}
		wos, autoclaves := in.toDomain()

		logger := obslog.Must(cfg.Logging.Level, cfg.Logging.Development)
		defer logger.Sync()

		orch := orchestrator.New(lockreg.NewInMemory(nil, nil), logger)
		metrics, err := orch.Execute(context.Background(), orchestrator.ExecuteRequest{
			WorkOrders:     wos,
			Autoclaves:     autoclaves,
			Constraints:    cfg.ConstraintBundle(),
			SelectedCycles: in.SelectedCycles,
		})
		if err != nil {
			return err
		}

		return writeJSON(outFile, metrics)
	},
}
