package dedupe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fgerrors "github.com/ripixel/fitglue-server/catalog/pkg/errors"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleCatalog() []CatalogRecord {
	return []CatalogRecord{
		rec(1, "Bench Press", "push", "chest", "Barbell"),
		rec(2, "Barbell Bench Press", "push", "chest", "Barbell"),
		rec(3, "Squat", "legs", "quadriceps", "Barbell"),
		rec(4, "Squats", "legs", "quadriceps", "Barbell"),
		rec(5, "DB Curl", "pull", "biceps", "Dumbbell"),
		rec(6, "Dumbbell Curl", "pull", "biceps", "Dumbbell"),
		rec(7, "Lat Pulldown", "pull", "back", "Cable"),
		rec(8, "Pulldown Lat", "pull", "back", "Machine"),
		rec(9, "Row", "pull", "back", "Cable"),
		rec(10, "Row", "push", "chest", "Cable"),
		rec(11, "Chest Fly", "push", "chest", "Cable"),
		rec(12, "Plank", "other", "core"),
	}
}

func TestEngine_Run(t *testing.T) {
	e, err := New(DefaultConfig(), WithLogger(quietLogger()), WithWorkers(1))
	require.NoError(t, err)

	res, err := e.Run(context.Background(), sampleCatalog())
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, 12, res.Stats.Records)
	assert.Equal(t, 12, res.Stats.Valid)
	assert.Equal(t, res.Report.Total(), res.Stats.Findings)

	pairs := map[Pair][]Reason{}
	for _, p := range res.Report.Pairs() {
		pairs[p.Pair] = p.Reasons
	}
	assert.Contains(t, pairs, Pair{IDA: 1, IDB: 2})
	assert.Equal(t, []Reason{FuzzyEditDistance}, pairs[Pair{IDA: 3, IDB: 4}])
	assert.Contains(t, pairs[Pair{IDA: 5, IDB: 6}], ExactNormalized)
	assert.Contains(t, pairs[Pair{IDA: 7, IDB: 8}], WordSaladMatch)

	// Identical names in different blocks are never compared.
	assert.NotContains(t, pairs, Pair{IDA: 9, IDB: 10})
}

func TestEngine_FindingsShareBlock(t *testing.T) {
	catalog := sampleCatalog()
	byID := map[int]CatalogRecord{}
	for _, r := range catalog {
		byID[r.ID] = r
	}

	e, err := New(DefaultConfig(), WithLogger(quietLogger()))
	require.NoError(t, err)
	res, err := e.Run(context.Background(), catalog)
	require.NoError(t, err)

	for _, reason := range res.Report.Reasons() {
		for _, f := range res.Report.Groups[reason] {
			assert.Less(t, f.IDA, f.IDB)
			assert.Equal(t, byID[f.IDA].Key(), byID[f.IDB].Key(), "finding %d/%d crosses blocks", f.IDA, f.IDB)
		}
	}
}

func TestEngine_PairsComparedMatchesBlocks(t *testing.T) {
	catalog := sampleCatalog()
	e, err := New(DefaultConfig(), WithLogger(quietLogger()))
	require.NoError(t, err)

	res, err := e.Run(context.Background(), catalog)
	require.NoError(t, err)

	blocks := BuildBlocks(catalog)
	assert.Equal(t, blocks.PairCount(), res.Stats.PairsCompared)
	assert.Equal(t, blocks.Len(), res.Stats.Blocks)
	assert.Equal(t, len(blocks.Comparable()), res.Stats.ComparableBlocks)
}

func TestEngine_ConcurrencyIsDeterministic(t *testing.T) {
	var catalog []CatalogRecord
	muscles := []string{"chest", "back", "legs", "shoulders"}
	names := []string{"Press", "Presses", "Incline Press", "Press Incline", "Cable Press", "Pres"}
	id := 1
	for _, m := range muscles {
		for _, n := range names {
			for v := 0; v < 3; v++ {
				catalog = append(catalog, rec(id, fmt.Sprintf("%s %s", m, n), "push", m, "Cable"))
				id++
			}
		}
	}

	sequential, err := New(DefaultConfig(), WithLogger(quietLogger()), WithWorkers(1))
	require.NoError(t, err)
	concurrent, err := New(DefaultConfig(), WithLogger(quietLogger()), WithWorkers(8))
	require.NoError(t, err)

	want, err := sequential.Run(context.Background(), catalog)
	require.NoError(t, err)
	got, err := concurrent.Run(context.Background(), catalog)
	require.NoError(t, err)

	assert.NotZero(t, want.Report.Total())
	assert.Equal(t, want.Report, got.Report)
	assert.Equal(t, want.Stats.PairsCompared, got.Stats.PairsCompared)
}

func TestEngine_SkipsInvalidRecords(t *testing.T) {
	catalog := []CatalogRecord{
		rec(1, "Squat", "legs", "quadriceps"),
		{ID: 0, Slug: "orphan", Name: "Squat", Category: "legs", PrimaryMuscleGroup: "quadriceps"},
		{ID: 3, Slug: "blank", Name: "  ", Category: "legs", PrimaryMuscleGroup: "quadriceps"},
		rec(4, "Squats", "legs", "quadriceps"),
	}

	e, err := New(DefaultConfig(), WithLogger(quietLogger()))
	require.NoError(t, err)
	res, err := e.Run(context.Background(), catalog)
	require.NoError(t, err)

	require.Len(t, res.Skipped, 2)
	assert.Equal(t, 1, res.Skipped[0].Index)
	assert.Equal(t, "orphan", res.Skipped[0].Slug)
	assert.ErrorIs(t, res.Skipped[0].Err, fgerrors.ErrInvalidRecord)
	assert.Equal(t, 2, res.Skipped[1].Index)
	assert.Equal(t, 2, res.Stats.Valid)
	assert.Equal(t, 1, res.Stats.PairsCompared)
	assert.Equal(t, []Reason{FuzzyEditDistance}, res.Report.Reasons())
}

func TestEngine_EmptyCatalog(t *testing.T) {
	e, err := New(DefaultConfig(), WithLogger(quietLogger()))
	require.NoError(t, err)

	res, err := e.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, res.Report.Total())
	assert.Zero(t, res.Stats.PairsCompared)
}

func TestEngine_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ContainmentRatio = 3

	e, err := New(cfg)

	assert.Nil(t, e)
	assert.ErrorIs(t, err, fgerrors.ErrConfiguration)
}

func TestEngine_CanceledContext(t *testing.T) {
	e, err := New(DefaultConfig(), WithLogger(quietLogger()), WithWorkers(2))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := e.Run(ctx, sampleCatalog())

	assert.Nil(t, res)
	assert.ErrorIs(t, err, context.Canceled)
}
