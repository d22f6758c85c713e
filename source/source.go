// Package source loads documents into the fragment stream the
// inference engine consumes. Each supported format has its own loader;
// all of them produce the same page-grouped [model.PageFragments], so
// the engine never knows where a document came from.
//
// PDF is the native case: fragments carry real font sizes and
// positions. Styled formats (DOCX, HTML, Markdown) have no font
// geometry of their own, so their loaders synthesize a size ladder
// from structural levels, which feeds the same statistics downstream.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/strucdoc/strata/format"
	"github.com/strucdoc/strata/model"
)

// ErrUnsupportedFormat is returned when a filename or detected format
// has no loader.
var ErrUnsupportedFormat = errors.New("source: unsupported format")

// Source turns one document file into page-grouped fragments.
type Source interface {
	// Load reads the file at path. Implementations honor ctx between
	// pages where the underlying reader allows it.
	Load(ctx context.Context, path string) ([]model.PageFragments, error)
}

// SupportedExtensions lists the file extensions with a loader.
var SupportedExtensions = map[string]bool{
	".pdf":      true,
	".docx":     true,
	".html":     true,
	".htm":      true,
	".xhtml":    true,
	".md":       true,
	".markdown": true,
	".mdown":    true,
}

// ForFile returns the loader for a filename, dispatching on the
// detected format.
func ForFile(filename string) (Source, error) {
	return ForFormat(format.Detect(filename))
}

// ForFormat returns the loader for a detected format.
func ForFormat(f format.Format) (Source, error) {
	switch f {
	case format.PDF:
		return &PDFSource{}, nil
	case format.DOCX:
		return &DOCXSource{}, nil
	case format.HTML:
		return &HTMLSource{}, nil
	case format.Markdown:
		return &MarkdownSource{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}

// IsSupported checks whether a filename has a loader.
func IsSupported(filename string) bool {
	_, err := ForFile(filename)
	return err == nil
}

// Synthetic metrics for styled sources. The ladder spaces levels two
// points apart, comfortably past the tier merge gap, and keeps body
// text well below the deepest heading size.
const (
	styledBodySize = 11.0
	titleTagSize   = 26.0
)

// sizeForLevel maps a structural heading level to a synthetic font
// size so styled sources feed the same statistical engine as PDFs.
func sizeForLevel(level int) float64 {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return 24 - 2*float64(level-1)
}
