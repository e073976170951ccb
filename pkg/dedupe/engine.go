package dedupe

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Engine runs duplicate detection over a whole catalog.
type Engine struct {
	classifier *Classifier
	workers    int
	logger     *slog.Logger
}

// Option customizes an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for skipped records and block progress.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithWorkers overrides Config.Workers. Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// New validates cfg before any comparison work can start.
func New(cfg Config, opts ...Option) (*Engine, error) {
	classifier, err := NewClassifier(cfg)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		classifier: classifier,
		workers:    cfg.Workers,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers <= 0 {
		e.workers = runtime.NumCPU()
	}
	e.logger = e.logger.With("component", "dedupe")
	return e, nil
}

// Classifier returns the engine's classifier.
func (e *Engine) Classifier() *Classifier {
	return e.classifier
}

// SkippedRecord is a catalog entry that failed validation.
type SkippedRecord struct {
	Index int    `json:"index"`
	ID    int    `json:"id"`
	Slug  string `json:"slug,omitempty"`
	Err   error  `json:"-"`
	Cause string `json:"error"`
}

// Stats describes the work done by a run.
type Stats struct {
	Records          int           `json:"records"`
	Valid            int           `json:"valid"`
	Blocks           int           `json:"blocks"`
	ComparableBlocks int           `json:"comparableBlocks"`
	PairsCompared    int           `json:"pairsCompared"`
	Findings         int           `json:"findings"`
	Duration         time.Duration `json:"duration"`
}

// Result is the outcome of one run.
type Result struct {
	RunID   string          `json:"runId"`
	Report  Report          `json:"report"`
	Skipped []SkippedRecord `json:"skipped,omitempty"`
	Stats   Stats           `json:"stats"`
}

// Run validates the catalog, blocks it and classifies every intra-block
// pair. Invalid records are skipped and reported in Result.Skipped. The
// findings are identical whatever the worker count.
func (e *Engine) Run(ctx context.Context, records []CatalogRecord) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: uuid.NewString()}
	logger := e.logger.With("run_id", res.RunID)

	valid := make([]CatalogRecord, 0, len(records))
	for i, rec := range records {
		if err := ValidateRecord(rec); err != nil {
			logger.Warn("Skipping invalid record", "index", i, "id", rec.ID, "slug", rec.Slug, "error", err)
			res.Skipped = append(res.Skipped, SkippedRecord{
				Index: i,
				ID:    rec.ID,
				Slug:  rec.Slug,
				Err:   err,
				Cause: err.Error(),
			})
			continue
		}
		valid = append(valid, rec)
	}

	candidates := make([]candidate, len(valid))
	for i := range valid {
		candidates[i] = e.classifier.prepare(&valid[i])
	}

	blocks := BuildBlocks(valid)
	keys := blocks.Comparable()
	logger.Info("Catalog blocked",
		"records", len(records),
		"valid", len(valid),
		"blocks", blocks.Len(),
		"comparable_blocks", len(keys),
		"workers", e.workers)

	// One slot per block so the merge order does not depend on scheduling.
	slots := make([][]MatchFinding, len(keys))
	pairs := make([]int, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, key := range keys {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slots[i], pairs[i] = e.compareBlock(candidates, blocks.Members(key))
			logger.Debug("Block compared", "block", key.String(), "members", len(blocks.Members(key)), "findings", len(slots[i]))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var findings []MatchFinding
	for i := range slots {
		findings = append(findings, slots[i]...)
		res.Stats.PairsCompared += pairs[i]
	}

	res.Report = Aggregate(findings)
	res.Stats.Records = len(records)
	res.Stats.Valid = len(valid)
	res.Stats.Blocks = blocks.Len()
	res.Stats.ComparableBlocks = len(keys)
	res.Stats.Findings = len(findings)
	res.Stats.Duration = time.Since(start)

	logger.Info("Duplicate scan complete",
		"pairs_compared", res.Stats.PairsCompared,
		"findings", res.Stats.Findings,
		"skipped", len(res.Skipped),
		"duration_ms", res.Stats.Duration.Milliseconds())

	return res, nil
}

// compareBlock classifies every unordered pair of members.
func (e *Engine) compareBlock(candidates []candidate, members []int) ([]MatchFinding, int) {
	var findings []MatchFinding
	compared := 0
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			compared++
			findings = append(findings, e.classifier.classify(candidates[members[i]], candidates[members[j]])...)
		}
	}
	return findings, compared
}
