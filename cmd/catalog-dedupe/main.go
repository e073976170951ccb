// Package main implements the catalog-dedupe CLI, which scans an exercise
// catalog for suspected duplicate entries.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "catalog-dedupe",
		Short: "Find suspected duplicates in an exercise catalog",
		Long: `catalog-dedupe compares every pair of exercises that share a primary muscle
group and category, and reports pairs that look like the same exercise under
different names.

Engine settings come from an optional YAML file (--config) and DEDUPE_*
environment variables. A .env file in the working directory is loaded first.`,
		Version:       version,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Missing .env is fine
			_ = godotenv.Load()
			if logLevel == "" {
				logLevel = os.Getenv("LOG_LEVEL")
			}
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); defaults to LOG_LEVEL")

	levelFn := func() string { return logLevel }
	root.AddCommand(newScanCmd(levelFn))
	root.AddCommand(newNormalizeCmd())
	root.AddCommand(newDistanceCmd())

	return root
}
