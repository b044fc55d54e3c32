package main

import (
	"github.com/spf13/cobra"

	"github.com/cureops/autobatch/internal/lockreg"
)

// validateOnlyCmd checks input against a fresh, process-local lock
// registry. A real deployment would point this at the same registry
// instance execute uses; here it demonstrates the Validate surface in
// isolation.
var validateOnlyCmd = &cobra.Command{
	Use:   "validate-only <input.json>",
	Short: "Check the work-orders in input.json against the lock registry without building any batches",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := loadRunInput(args[0])
		if err != nil {
			return err
		}
		wos, _ := in.toDomain()

		ids := make([]string, 0, len(wos))
		for _, wo := range wos {
			ids = append(ids, wo.ID)
		}

		locks := lockreg.NewInMemory(nil, nil)
		validIDs, warnings, err := locks.Validate(ids)
		if err != nil {
			return writeJSON(outFile, map[string]interface{}{
				"status":    "rejected",
				"reason":    err.Error(),
				"valid_ids": validIDs,
				"warnings":  warnings,
			})
		}

		return writeJSON(outFile, map[string]interface{}{
			"status":    "ok",
			"valid_ids": validIDs,
			"warnings":  warnings,
		})
	},
}
