package model

// Fragment is one lexical unit on one page: a span of text with the font
// metadata it was rendered with. Fragments are produced by a source and
// consumed read-only by the inference engine.
type Fragment struct {
	// Text is the span content. Sources trim surrounding whitespace.
	Text string

	// FontSize is the rendered size in points.
	FontSize float64

	// FontName is the PDF/base font name when the source knows it,
	// or a synthetic name for style-derived sources.
	FontName string

	// Bold reports whether the span is rendered with a bold weight.
	Bold bool

	// Page is the page the span appears on, as numbered by the source.
	// All shipped sources number pages starting at 1.
	Page int

	// X and Y locate the span on its page. Y grows downward in reading
	// order. Position is used only for ordering and tie-breaking, never
	// as a classification signal.
	X, Y float64
}

// PageFragments holds the fragments of a single page, the unit of work
// handed to classification workers.
type PageFragments struct {
	Page      int
	Fragments []Fragment
}

// FragmentCount returns the total number of fragments across pages.
func FragmentCount(pages []PageFragments) int {
	n := 0
	for _, p := range pages {
		n += len(p.Fragments)
	}
	return n
}
