// Command autobatchctl is the reference CLI caller for the curing-batch
// pipeline, standing in for the out-of-scope HTTP surface. Command
// structure is grounded on arx-os-arxos's cmd/arx/main.go cobra root +
// persistent-flag wiring.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cureops/autobatch/internal/config"
)

var (
	cfgFile string
	outFile string
)

var rootCmd = &cobra.Command{
	Use:           "autobatchctl",
	Short:         "Plan autoclave curing batches from work-order and autoclave data",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (defaults to ~/.autobatch/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outFile, "out", "o", "-", "output file path, or - for stdout")

	rootCmd.AddCommand(analyzeCmd, executeCmd, compareCmd, validateOnlyCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "autobatchctl:", err)
		os.Exit(1)
	}
}

func loadConfigOrExit() *config.Config {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "autobatchctl: config error:", err)
		os.Exit(1)
	}
	return cfg
}
