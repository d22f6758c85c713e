// Package strata infers hierarchical outlines from documents.
//
// Given a PDF, DOCX, Markdown or HTML file, strata reconstructs a
// document title plus a nested sequence of headings with levels and
// page numbers, using font-size statistics rather than keyword lists:
// sizes are clustered into heading tiers above the body size, and
// candidate lines are promoted or rejected on structural evidence
// alone.
//
// Basic usage:
//
//	o, err := strata.Open("document.pdf").Outline()
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(o.Title)
//
// With options:
//
//	o, err := strata.Open("report.pdf").
//	    MaxTiers(3).
//	    Workers(8).
//	    Outline()
//
// The full result, including recoverable conditions and run counters:
//
//	res, err := strata.Open("report.pdf").Result()
//	if err == nil && res.Truncated() {
//	    log.Println("outline truncated:", res.Conditions)
//	}
//
// For advanced use cases the lower-level packages are also available:
// [github.com/strucdoc/strata/outline] runs the engine over fragments
// you supply, [github.com/strucdoc/strata/source] loads fragments from
// files, and [github.com/strucdoc/strata/export] writes and validates
// the JSON contract.
package strata
