package strata

import (
	"fmt"
	"log/slog"

	"github.com/strucdoc/strata/outline"
)

// ExtractOptions holds configuration for outline extraction.
type ExtractOptions struct {
	engine outline.Config
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{engine: outline.DefaultConfig()}
}

// clone copies the options. outline.Config is all value fields, so a
// plain copy is a full copy.
func (o ExtractOptions) clone() ExtractOptions {
	return o
}

// MaxTiers limits how many heading tiers may sit above the body size.
// Levels deeper than this fold into the deepest tier.
func (e *Extractor) MaxTiers(n int) *Extractor {
	c := e.clone()
	if n < 1 {
		if c.err == nil {
			c.err = fmt.Errorf("max tiers must be at least 1, got %d", n)
		}
		return c
	}
	c.options.engine.MaxTiers = n
	return c
}

// Workers sets the number of pages classified concurrently. The pool
// size never changes the result, only the wall time.
func (e *Extractor) Workers(n int) *Extractor {
	c := e.clone()
	if n < 1 {
		if c.err == nil {
			c.err = fmt.Errorf("workers must be at least 1, got %d", n)
		}
		return c
	}
	c.options.engine.Workers = n
	return c
}

// Seed fixes the clustering seed. Equal inputs under an equal seed
// always produce identical outlines.
func (e *Extractor) Seed(seed int64) *Extractor {
	c := e.clone()
	c.options.engine.Seed = seed
	return c
}

// TitleWindow sets how many leading pages are searched for the
// document title.
func (e *Extractor) TitleWindow(pages int) *Extractor {
	c := e.clone()
	if pages < 1 {
		if c.err == nil {
			c.err = fmt.Errorf("title window must be at least 1 page, got %d", pages)
		}
		return c
	}
	c.options.engine.TitlePageWindow = pages
	return c
}

// WithLogger attaches a logger for engine debug detail.
func (e *Extractor) WithLogger(log *slog.Logger) *Extractor {
	c := e.clone()
	c.options.engine.Logger = log
	return c
}

// WithConfig replaces the whole engine configuration. Zero-valued
// fields fall back to their defaults.
func (e *Extractor) WithConfig(config outline.Config) *Extractor {
	c := e.clone()
	c.options.engine = config
	return c
}
