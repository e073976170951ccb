// Package metrics exposes Prometheus metrics for duplicate scans.
//
// Metrics:
//   - catalog_records_total - records read from the catalog source
//   - catalog_records_skipped_total - records that failed validation
//   - dedupe_pairs_compared_total - intra-block pairs classified
//   - dedupe_findings_total{reason} - findings per heuristic
//   - dedupe_run_duration_seconds - histogram of engine run times
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ripixel/fitglue-server/catalog/pkg/dedupe"
)

// Metrics holds the scan collectors on a private registry so that CLI
// runs and tests never collide with the default registerer.
type Metrics struct {
	registry *prometheus.Registry

	RecordsTotal  prometheus.Counter
	SkippedTotal  prometheus.Counter
	PairsCompared prometheus.Counter
	FindingsTotal *prometheus.CounterVec
	RunDuration   prometheus.Histogram
}

// New creates and registers the scan metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		RecordsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "catalog_records_total",
			Help: "Total number of catalog records read",
		}),
		SkippedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "catalog_records_skipped_total",
			Help: "Total number of catalog records skipped as invalid",
		}),
		PairsCompared: factory.NewCounter(prometheus.CounterOpts{
			Name: "dedupe_pairs_compared_total",
			Help: "Total number of record pairs classified",
		}),
		FindingsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dedupe_findings_total",
				Help: "Total number of suspected duplicates by heuristic",
			},
			[]string{"reason"},
		),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dedupe_run_duration_seconds",
			Help:    "Duplicate scan duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}

	// Export every reason, even with zero findings
	for _, r := range dedupe.AllReasons() {
		m.FindingsTotal.WithLabelValues(r.String())
	}

	return m
}

// Registry returns the registry backing these metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRun records the outcome of one engine run.
func (m *Metrics) ObserveRun(res *dedupe.Result) {
	m.RecordsTotal.Add(float64(res.Stats.Records))
	m.SkippedTotal.Add(float64(len(res.Skipped)))
	m.PairsCompared.Add(float64(res.Stats.PairsCompared))
	for _, r := range res.Report.Reasons() {
		m.FindingsTotal.WithLabelValues(r.String()).Add(float64(len(res.Report.Groups[r])))
	}
	m.RunDuration.Observe(res.Stats.Duration.Seconds())
}

// WriteTextfile writes the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
