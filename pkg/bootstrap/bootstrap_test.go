package bootstrap

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shared "github.com/ripixel/fitglue-server/catalog/pkg"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("GOOGLE_CLOUD_PROJECT", "")
		t.Setenv("ENABLE_PUBLISH", "")
		t.Setenv("GCS_REPORT_BUCKET", "")
		t.Setenv("CATALOG_COLLECTION", "")
		t.Setenv("DEDUPE_CONFIG_PATH", "")

		cfg := LoadConfig()
		assert.Equal(t, shared.ProjectID, cfg.ProjectID)
		assert.False(t, cfg.EnablePublish)
		assert.Equal(t, shared.CollectionExercises, cfg.CatalogCollection)
		assert.Empty(t, cfg.GCSReportBucket)
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("GOOGLE_CLOUD_PROJECT", "test-project")
		t.Setenv("ENABLE_PUBLISH", "true")
		t.Setenv("GCS_REPORT_BUCKET", "test-bucket")
		t.Setenv("CATALOG_COLLECTION", "exercises_v2")
		t.Setenv("DEDUPE_CONFIG_PATH", "/etc/dedupe.yaml")

		cfg := LoadConfig()
		assert.Equal(t, "test-project", cfg.ProjectID)
		assert.True(t, cfg.EnablePublish)
		assert.Equal(t, "test-bucket", cfg.GCSReportBucket)
		assert.Equal(t, "exercises_v2", cfg.CatalogCollection)
		assert.Equal(t, "/etc/dedupe.yaml", cfg.DedupeConfigPath)
	})
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal(line, &m))
		out = append(out, m)
	}
	return out
}

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, "catalog-dedupe", slog.LevelInfo)

	logger.Info("Scan started", "records", 3)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "Scan started", lines[0]["message"])
	assert.Equal(t, "INFO", lines[0]["severity"])
	assert.Equal(t, "catalog-dedupe", lines[0]["service"])
	assert.EqualValues(t, 3, lines[0]["records"])
}

func TestComponentHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, "catalog-dedupe", slog.LevelDebug)

	logger.With("component", "dedupe").Warn("Skipping invalid record", "id", 7)
	logger.Info("Inline", "component", "catalog")
	logger.Debug("Plain")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)
	assert.Equal(t, "[dedupe] Skipping invalid record", lines[0]["message"])
	assert.NotContains(t, lines[0], "component")
	assert.Equal(t, "[catalog] Inline", lines[1]["message"])
	assert.NotContains(t, lines[1], "component")
	assert.Equal(t, "Plain", lines[2]["message"])
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, "svc", ParseLevel("warn"))

	logger.Info("hidden")
	logger.Warn("shown")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["message"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}
