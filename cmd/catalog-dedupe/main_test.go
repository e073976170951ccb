package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `[
  {"id": 1, "slug": "dumbbell-curl", "name": "Dumbbell Curl", "category": "strength", "primaryMuscleGroup": "biceps", "equipment": ["dumbbell"]},
  {"id": 2, "slug": "db-curl", "name": "DB Curl", "category": "strength", "primaryMuscleGroup": "biceps", "equipment": ["dumbbell"]},
  {"id": 3, "slug": "back-squat", "name": "Back Squat", "category": "strength", "primaryMuscleGroup": "quads", "equipment": ["barbell"]},
  {"id": 4, "slug": "blank", "name": "  ", "category": "strength", "primaryMuscleGroup": "quads", "equipment": []}
]`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"scan", "normalize", "distance"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
}

func TestScanCmd_Text(t *testing.T) {
	input := writeFile(t, "catalog.json", testCatalog)

	out, _, err := execute(t, "scan", "--input", input, "--log-level", "error")
	require.NoError(t, err)

	assert.Contains(t, out, "ExactNormalized (1)")
	assert.Contains(t, out, "Dumbbell Curl")
	assert.Contains(t, out, `WARNING: skipped record #3 (id 4, slug "blank")`)
	assert.Contains(t, out, "Scanned 4 records (1 skipped)")
}

func TestScanCmd_JSON(t *testing.T) {
	input := writeFile(t, "catalog.json", testCatalog)

	out, _, err := execute(t, "scan", "--input", input, "--format", "json", "--workers", "2", "--log-level", "error")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Contains(t, doc, "groups")
}

func TestScanCmd_MetricsFile(t *testing.T) {
	input := writeFile(t, "catalog.json", testCatalog)
	metricsPath := filepath.Join(t.TempDir(), "dedupe.prom")

	_, _, err := execute(t, "scan", "--input", input, "--metrics-file", metricsPath, "--log-level", "error")
	require.NoError(t, err)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "catalog_records_total")
}

func TestScanCmd_FailOnFindings(t *testing.T) {
	input := writeFile(t, "catalog.json", testCatalog)

	_, _, err := execute(t, "scan", "--input", input, "--fail-on-findings", "--log-level", "error")
	assert.ErrorIs(t, err, errFindings)
}

func TestScanCmd_InvalidConfig(t *testing.T) {
	input := writeFile(t, "catalog.json", testCatalog)
	cfg := writeFile(t, "dedupe.yaml", "jaccard_threshold: 2\n")

	_, stderr, err := execute(t, "scan", "--input", input, "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jaccard_threshold")
	assert.Contains(t, stderr, "invalid configuration")
}

func TestScanCmd_RequiresInput(t *testing.T) {
	_, _, err := execute(t, "scan")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input")
}

func TestScanCmd_UnknownFormat(t *testing.T) {
	input := writeFile(t, "catalog.json", testCatalog)

	_, _, err := execute(t, "scan", "--input", input, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestNormalizeCmd(t *testing.T) {
	out, _, err := execute(t, "normalize", "DB Bench Press", "Push-Up (Wide)")
	require.NoError(t, err)
	assert.Contains(t, out, `"dumbbell bench press"`)
	assert.Contains(t, out, `"push up wide"`)
}

func TestDistanceCmd(t *testing.T) {
	out, _, err := execute(t, "distance", "Dumbbell Curl", "DB Curl")
	require.NoError(t, err)
	assert.Contains(t, out, `"dumbbell curl" / "dumbbell curl"`)
	assert.Contains(t, out, "edits:        0")
	assert.Contains(t, out, "jaccard:      1.000")
}

func TestDistanceCmd_ArgCount(t *testing.T) {
	_, _, err := execute(t, "distance", "only one")
	assert.Error(t, err)
}
