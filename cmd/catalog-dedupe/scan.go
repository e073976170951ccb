package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ripixel/fitglue-server/catalog/pkg/bootstrap"
	"github.com/ripixel/fitglue-server/catalog/pkg/catalog"
	"github.com/ripixel/fitglue-server/catalog/pkg/config"
	"github.com/ripixel/fitglue-server/catalog/pkg/dedupe"
	fgerrors "github.com/ripixel/fitglue-server/catalog/pkg/errors"
	"github.com/ripixel/fitglue-server/catalog/pkg/metrics"
	"github.com/ripixel/fitglue-server/catalog/pkg/report"
)

// errFindings signals --fail-on-findings without printing a second message.
var errFindings = errors.New("duplicates found")

type scanOptions struct {
	input          string
	configPath     string
	format         string
	workers        int
	metricsFile    string
	defaultMuscle  string
	inferMuscles   bool
	failOnFindings bool
}

func newScanCmd(logLevel func() string) *cobra.Command {
	var opts scanOptions

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a JSON or FIT catalog for duplicates",
		Long: `Scan a catalog and print suspected duplicates grouped by reason.

Examples:
  # Scan a JSON catalog with the default tuning
  catalog-dedupe scan --input exercises.json

  # Machine-readable output with a custom threshold file
  catalog-dedupe scan --input exercises.json --config dedupe.yaml --format json

  # FIT workout catalog, writing Prometheus textfile metrics
  catalog-dedupe scan --input catalog.fit --infer-muscle-groups --metrics-file /var/lib/node_exporter/dedupe.prom`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runScan(cmd, opts, logLevel())
			if errors.Is(err, errFindings) {
				cmd.SilenceErrors = true
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "catalog file (.json or .fit)")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "YAML engine config")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format: text or json")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "parallel block workers (0 uses the config, then CPU count)")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus textfile metrics here")
	cmd.Flags().StringVar(&opts.defaultMuscle, "default-muscle-group", "", "muscle group for FIT catalogs (defaults to the FIT category)")
	cmd.Flags().BoolVar(&opts.inferMuscles, "infer-muscle-groups", false, "infer FIT muscle groups from exercise names")
	cmd.Flags().BoolVar(&opts.failOnFindings, "fail-on-findings", false, "exit non-zero when any duplicate is found")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runScan(cmd *cobra.Command, opts scanOptions, logLevel string) error {
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("unknown format %q (want text or json)", opts.format)
	}

	logger := bootstrap.NewLoggerTo(cmd.ErrOrStderr(), "catalog-dedupe", bootstrap.ParseLevel(logLevel))

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return describeConfigError(err)
	}

	src, err := catalog.NewFileSource(opts.input, catalog.Options{
		DefaultMuscleGroup: opts.defaultMuscle,
		InferMuscleGroups:  opts.inferMuscles,
	})
	if err != nil {
		return err
	}
	records, err := src.Load(cmd.Context())
	if err != nil {
		return err
	}
	logger.Info("Catalog loaded", "component", "catalog", "path", opts.input, "records", len(records))

	engine, err := dedupe.New(cfg, dedupe.WithLogger(logger), dedupe.WithWorkers(opts.workers))
	if err != nil {
		return describeConfigError(err)
	}
	res, err := engine.Run(cmd.Context(), records)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.format == "json" {
		err = report.WriteJSON(out, res)
	} else {
		err = report.WriteText(out, res, records)
	}
	if err != nil {
		return err
	}

	if opts.metricsFile != "" {
		m := metrics.New()
		m.ObserveRun(res)
		if err := m.WriteTextfile(opts.metricsFile); err != nil {
			logger.Warn("Failed to write metrics", "path", opts.metricsFile, "error", err)
		}
	}

	if opts.failOnFindings && res.Report.Total() > 0 {
		return errFindings
	}
	return nil
}

// describeConfigError names the offending setting.
func describeConfigError(err error) error {
	if field := fgerrors.GetMetadata(err, "field"); field != "" {
		return fmt.Errorf("invalid configuration (%s): %w", field, err)
	}
	return fmt.Errorf("invalid configuration: %w", err)
}
