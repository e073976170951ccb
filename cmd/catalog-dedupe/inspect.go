package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ripixel/fitglue-server/catalog/pkg/config"
	"github.com/ripixel/fitglue-server/catalog/pkg/dedupe"
)

func newNormalizeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "normalize <name>...",
		Short: "Print the normalized form of exercise names",
		Example: `  catalog-dedupe normalize "DB Bench Press" "Push-Up (Wide)"`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return describeConfigError(err)
			}
			n := dedupe.NewNormalizer(cfg.Abbreviations, cfg.FoldAccents)
			for _, name := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%q\t%q\n", name, n.Normalize(name))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML engine config")
	return cmd
}

func newDistanceCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "distance <a> <b>",
		Short: "Compare two names the way the scanner does",
		Example: `  catalog-dedupe distance "Dumbbell Curl" "DB Curl"`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return describeConfigError(err)
			}
			n := dedupe.NewNormalizer(cfg.Abbreviations, cfg.FoldAccents)
			a, b := n.Normalize(args[0]), n.Normalize(args[1])
			shorter := min(len([]rune(a)), len([]rune(b)))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "normalized:   %q / %q\n", a, b)
			fmt.Fprintf(out, "raw edits:    %d\n", dedupe.Levenshtein(args[0], args[1]))
			fmt.Fprintf(out, "edits:        %d (allowed %d)\n", dedupe.Levenshtein(a, b), cfg.MaxDistanceFor(shorter))
			fmt.Fprintf(out, "jaccard:      %.3f (threshold %.2f)\n", dedupe.Jaccard(a, b), cfg.JaccardThreshold)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML engine config")
	return cmd
}
