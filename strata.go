package strata

import (
	"context"

	"github.com/strucdoc/strata/export"
	"github.com/strucdoc/strata/model"
	"github.com/strucdoc/strata/outline"
	"github.com/strucdoc/strata/source"
)

// Open prepares an Extractor for the given file. The format is chosen
// by extension; see [github.com/strucdoc/strata/source.ForFile]. No
// I/O happens until a terminal operation runs.
//
// Example:
//
//	o, err := strata.Open("document.pdf").Outline()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// Extractor provides a fluent interface for outline extraction. Each
// configuration method returns a new Extractor instance, making chains
// safe for concurrent reuse.
type Extractor struct {
	filename string
	options  ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

// clone copies the Extractor so chain methods never mutate their
// receiver. ExtractOptions carries no reference fields beyond the
// intentionally shared Logger.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename: e.filename,
		options:  e.options.clone(),
		err:      e.err,
	}
}

// Outline loads the file and extracts its outline.
func (e *Extractor) Outline() (model.Outline, error) {
	return e.OutlineContext(context.Background())
}

// OutlineContext is [Extractor.Outline] under a caller context.
// Cancellation mid-run yields a valid truncated outline, not an
// error; wrap ctx with [github.com/strucdoc/strata/govern.Governor]
// to budget the run.
func (e *Extractor) OutlineContext(ctx context.Context) (model.Outline, error) {
	res, err := e.ResultContext(ctx)
	if err != nil {
		return model.Outline{Entries: []model.Entry{}}, err
	}
	return res.Outline, nil
}

// Result loads the file and returns the full extraction result,
// including recoverable conditions and run counters.
func (e *Extractor) Result() (*outline.Result, error) {
	return e.ResultContext(context.Background())
}

// ResultContext is [Extractor.Result] under a caller context.
func (e *Extractor) ResultContext(ctx context.Context) (*outline.Result, error) {
	if e.err != nil {
		return nil, e.err
	}
	pages, err := e.loadPages(ctx)
	if err != nil {
		return nil, err
	}
	engine := outline.NewWithConfig(e.options.engine)
	return engine.Extract(ctx, pages), nil
}

// JSON extracts the outline and renders it on the canonical contract:
// a title string and an outline array of {text, level, page} entries.
func (e *Extractor) JSON() ([]byte, error) {
	return e.JSONContext(context.Background())
}

// JSONContext is [Extractor.JSON] under a caller context.
func (e *Extractor) JSONContext(ctx context.Context) ([]byte, error) {
	o, err := e.OutlineContext(ctx)
	if err != nil {
		return nil, err
	}
	return export.MarshalOutline(o)
}

// Title extracts just the document title. Empty when no line
// qualifies.
func (e *Extractor) Title() (string, error) {
	o, err := e.Outline()
	if err != nil {
		return "", err
	}
	return o.Title, nil
}

// Pages loads the file's fragments without running the engine. Useful
// for inspecting what the classifier will see.
func (e *Extractor) Pages() ([]model.PageFragments, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.loadPages(context.Background())
}

func (e *Extractor) loadPages(ctx context.Context) ([]model.PageFragments, error) {
	src, err := source.ForFile(e.filename)
	if err != nil {
		return nil, err
	}
	return src.Load(ctx, e.filename)
}

// Must is a helper that wraps a call to a function returning
// (T, error) and panics if the error is non-nil. It is intended for
// use in scripts or tests where error handling would be cumbersome.
//
// Example:
//
//	o := strata.Must(strata.Open("document.pdf").Outline())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
