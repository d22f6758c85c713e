package outline

import "strings"

// Condition is a bit set of recoverable states observed during a run.
// Conditions describe degraded but valid results; they are never
// surfaced as errors.
type Condition uint8

const (
	// EmptyDocument means the input contained no fragments. The
	// outline is empty with an empty title.
	EmptyDocument Condition = 1 << iota

	// DegenerateFontSpace means every fragment shares one font size,
	// so size tiers carry no signal and only pattern promotion can
	// identify headings.
	DegenerateFontSpace

	// TruncatedByGovernor means the run was cancelled between page
	// completions. The outline covers only the pages classified before
	// the cut and is otherwise well formed.
	TruncatedByGovernor
)

// Has reports whether flag is set.
func (c Condition) Has(flag Condition) bool {
	return c&flag != 0
}

// String returns a comma-separated list of the set condition names.
func (c Condition) String() string {
	if c == 0 {
		return "none"
	}
	var names []string
	if c.Has(EmptyDocument) {
		names = append(names, "empty-document")
	}
	if c.Has(DegenerateFontSpace) {
		names = append(names, "degenerate-font-space")
	}
	if c.Has(TruncatedByGovernor) {
		names = append(names, "truncated-by-governor")
	}
	return strings.Join(names, ",")
}

// Reason records which rule of the classifier chain decided a
// candidate's fate.
type Reason int

const (
	// RejectedBody means the fragment is ordinary body text: no tier
	// promotion applied and the structural pattern did not hold.
	RejectedBody Reason = iota

	// RejectedNoise means the fragment failed the noise filter before
	// any promotion rule was consulted.
	RejectedNoise

	// SizeOnly means the fragment's font size falls in a tier above
	// the body tier; size evidence alone promoted it.
	SizeOnly

	// SizeAndPattern means the fragment sits in the body tier but the
	// full structural pattern (emphasis, casing, length, phrasing)
	// promoted it.
	SizeAndPattern
)

// String returns a human-readable name for the reason.
func (r Reason) String() string {
	switch r {
	case RejectedBody:
		return "rejected-body"
	case RejectedNoise:
		return "rejected-noise"
	case SizeOnly:
		return "size-only"
	case SizeAndPattern:
		return "size-and-pattern"
	default:
		return "unknown"
	}
}
