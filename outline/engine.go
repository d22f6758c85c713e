package outline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/strucdoc/strata/model"
)

// RunStats carries the counters of one engine run.
type RunStats struct {
	Pages         int
	Fragments     int
	DistinctSizes int
	HeadingTiers  int
	Candidates    int
	Accepted      int
	Elapsed       time.Duration
}

// Result is the full product of one run: the outline plus the
// conditions and counters describing how it was reached.
type Result struct {
	Outline    model.Outline
	Conditions Condition
	Stats      RunStats
}

// Truncated reports whether the run was cancelled before every page was
// classified.
func (r *Result) Truncated() bool {
	return r.Conditions.Has(TruncatedByGovernor)
}

// Engine composes the four pipeline stages and owns the classification
// worker pool. One Engine is safe for concurrent use; each Extract call
// keeps its own state.
type Engine struct {
	config    Config
	clusterer *TierClusterer
	assembler *Assembler
}

// New creates an engine with default configuration.
func New() *Engine {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(config Config) *Engine {
	config.sanitize()
	return &Engine{
		config:    config,
		clusterer: NewTierClustererWithConfig(config),
		assembler: NewAssemblerWithConfig(config),
	}
}

// Extract infers the outline for one document. Statistics and
// clustering run first on the full fragment stream; classification then
// fans out over pages on a bounded pool; assembly runs last on a single
// goroutine. Cancelling ctx stops the run between page completions and
// the result covers exactly the pages already classified, flagged
// [TruncatedByGovernor]. Extract never fails: empty or degenerate input
// is reported through [Result.Conditions].
func (e *Engine) Extract(ctx context.Context, pages []model.PageFragments) *Result {
	start := time.Now()
	if ctx == nil {
		ctx = context.Background()
	}
	log := e.config.Logger

	stats := CollectStats(pages)
	res := &Result{Stats: RunStats{
		Pages:         stats.PageCount(),
		Fragments:     stats.FragmentCount(),
		DistinctSizes: stats.DistinctSizes(),
	}}
	if stats.IsEmpty() {
		res.Conditions |= EmptyDocument
		res.Stats.Elapsed = time.Since(start)
		return res
	}
	if stats.IsDegenerate() {
		res.Conditions |= DegenerateFontSpace
	}

	tiers := e.clusterer.Cluster(stats)
	res.Stats.HeadingTiers = tiers.HeadingTierCount()
	log.Debug("clustered font sizes",
		slog.Int("distinct", stats.DistinctSizes()),
		slog.Int("tiers", len(tiers.Tiers)),
		slog.Int("heading_tiers", tiers.HeadingTierCount()),
		slog.Float64("body_size", stats.BodySize()),
		slog.Float64("body_bold_share", stats.BoldShare(stats.BodySize())))

	classifier := NewClassifierWithConfig(e.config, tiers, stats.BodySize())
	perPage, truncated := e.classifyPages(ctx, classifier, pages)
	if truncated {
		res.Conditions |= TruncatedByGovernor
		log.Warn("run truncated before completion",
			slog.Int("pages", stats.PageCount()))
	}

	for _, cands := range perPage {
		res.Stats.Candidates += len(cands)
		for _, c := range cands {
			if c.Accepted {
				res.Stats.Accepted++
			}
		}
	}

	res.Outline = e.assembler.Assemble(perPage)
	res.Stats.Elapsed = time.Since(start)
	log.Debug("outline assembled",
		slog.Int("entries", len(res.Outline.Entries)),
		slog.String("title", res.Outline.Title),
		slog.String("conditions", res.Conditions.String()),
		slog.Duration("elapsed", res.Stats.Elapsed))
	return res
}

// classifyPages fans pages out over a bounded worker pool. Each page
// writes into its own slot, so no ordering is lost to scheduling. The
// context is consulted before a page is handed to a worker; a page
// already handed out always finishes, which keeps every completed
// page's results valid under cancellation.
func (e *Engine) classifyPages(ctx context.Context, classifier *Classifier, pages []model.PageFragments) ([][]Candidate, bool) {
	perPage := make([][]Candidate, len(pages))
	workers := e.config.Workers
	if workers > len(pages) {
		workers = len(pages)
	}
	if workers < 1 {
		workers = 1
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	truncated := false
	for i := range pages {
		if ctx.Err() != nil {
			truncated = true
			break
		}
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			truncated = true
		}
		if truncated {
			break
		}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			perPage[idx] = classifier.ClassifyPage(pages[idx])
		}(i)
	}
	wg.Wait()
	return perPage, truncated
}
