package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ripixel/fitglue-server/catalog/pkg/dedupe"
)

func sampleResult() *dedupe.Result {
	return &dedupe.Result{
		RunID: "run-1",
		Report: dedupe.Aggregate([]dedupe.MatchFinding{
			{IDA: 1, IDB: 2, Reason: dedupe.ExactName},
			{IDA: 3, IDB: 4, Reason: dedupe.FuzzyEditDistance},
			{IDA: 5, IDB: 6, Reason: dedupe.FuzzyEditDistance},
		}),
		Skipped: []dedupe.SkippedRecord{{Index: 2, ID: 0}},
		Stats: dedupe.Stats{
			Records:       7,
			Valid:         6,
			PairsCompared: 9,
			Duration:      20 * time.Millisecond,
		},
	}
}

func TestObserveRun(t *testing.T) {
	m := New()

	m.ObserveRun(sampleResult())

	assert.Equal(t, 7.0, testutil.ToFloat64(m.RecordsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SkippedTotal))
	assert.Equal(t, 9.0, testutil.ToFloat64(m.PairsCompared))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FindingsTotal.WithLabelValues("ExactName")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FindingsTotal.WithLabelValues("FuzzyEditDistance")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.FindingsTotal.WithLabelValues("WordSaladMatch")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RunDuration))
}

func TestNew_IsolatedRegistries(t *testing.T) {
	a := New()
	b := New()

	a.ObserveRun(sampleResult())

	assert.Equal(t, 0.0, testutil.ToFloat64(b.RecordsTotal))
	assert.Equal(t, len(dedupe.AllReasons()), testutil.CollectAndCount(b.FindingsTotal))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ObserveRun(sampleResult())

	path := filepath.Join(t.TempDir(), "dedupe.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "catalog_records_total 7")
	assert.Contains(t, string(data), `dedupe_findings_total{reason="FuzzyEditDistance"} 2`)
}
