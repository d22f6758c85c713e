package outline

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/strucdoc/strata/model"
)

// Candidate is one fragment annotated with the classifier's decision.
type Candidate struct {
	// Fragment carries the normalized text and the original metadata.
	Fragment model.Fragment
	// TierRank is the size tier the candidate was promoted at. Pattern
	// promotions carry the rank one past the deepest heading tier; -1
	// means no promotion applied.
	TierRank int
	// Accepted reports whether the candidate survived the chain.
	Accepted bool
	// Reason records which rule decided.
	Reason Reason
}

// Classifier decides, fragment by fragment, whether text is
// structurally significant. The tier set and body size are read-only
// inputs and fragments are judged independently, so one Classifier can
// serve any number of pages concurrently.
//
// The predicate chain runs in a fixed order: noise rejection first,
// then promotion by size tier, then pattern promotion for body-tier
// text. The first rule that fires wins.
type Classifier struct {
	config Config
	tiers  *TierSet
	body   float64
}

// NewClassifier creates a classifier with default configuration.
func NewClassifier(tiers *TierSet, bodySize float64) *Classifier {
	return NewClassifierWithConfig(DefaultConfig(), tiers, bodySize)
}

// NewClassifierWithConfig creates a classifier with custom
// configuration.
func NewClassifierWithConfig(config Config, tiers *TierSet, bodySize float64) *Classifier {
	config.sanitize()
	return &Classifier{config: config, tiers: tiers, body: bodySize}
}

// ClassifyPage classifies every fragment of one page in order.
func (c *Classifier) ClassifyPage(pf model.PageFragments) []Candidate {
	out := make([]Candidate, 0, len(pf.Fragments))
	for _, f := range pf.Fragments {
		out = append(out, c.Classify(f))
	}
	return out
}

// Classify runs the predicate chain on a single fragment. Text is
// trimmed and Unicode-normalized (NFC) before any rule looks at it, so
// composed and decomposed spellings of the same heading classify
// identically.
func (c *Classifier) Classify(f model.Fragment) Candidate {
	f.Text = norm.NFC.String(strings.TrimSpace(f.Text))
	cand := Candidate{Fragment: f, TierRank: -1}

	if c.isNoise(f.Text) {
		cand.Reason = RejectedNoise
		return cand
	}

	size := Quantize(f.FontSize)
	if rank, ok := c.tiers.HeadingRank(size); ok {
		cand.TierRank = rank
		cand.Accepted = true
		cand.Reason = SizeOnly
		return cand
	}

	if c.tiers.InBodyTier(size) && c.patternHeading(f.Text, f.Bold) {
		cand.TierRank = c.tiers.HeadingTierCount()
		cand.Accepted = true
		cand.Reason = SizeAndPattern
		return cand
	}

	cand.Reason = RejectedBody
	return cand
}

// isNoise rejects text that cannot be a heading no matter its font:
// empty strings, overlong runs, letterless fragments (bare numbers,
// dates, rules and separators), and page markers.
func (c *Classifier) isNoise(text string) bool {
	if text == "" {
		return true
	}
	if utf8.RuneCountInString(text) > c.config.MaxHeadingChars {
		return true
	}
	if !hasLetter(text) {
		return true
	}
	return pageMarkerRe.MatchString(text)
}

// patternHeading decides pattern promotion for body-tier text. Every
// predicate must hold: bold emphasis, mixed case, bounded word count,
// no continuation lead, no terminal sentence punctuation, and an
// obligation-word density below the configured threshold. The chain is
// deliberately conjunctive so that prose sentences stay body text.
func (c *Classifier) patternHeading(text string, bold bool) bool {
	if !bold {
		return false
	}
	if !mixedCase(text) {
		return false
	}
	words := strings.Fields(text)
	if len(words) < c.config.MinHeadingWords || len(words) > c.config.MaxHeadingWords {
		return false
	}
	if continuationLead(text) {
		return false
	}
	if terminalPunct(text) {
		return false
	}
	return obligationDensity(words) < c.config.LegaleseDensity
}

var (
	// pageMarkerRe matches standalone page indicators: "Page 4",
	// "p. 12", "page 3 of 10".
	pageMarkerRe = regexp.MustCompile(`^(?i)(?:page|p\.?)\s*\d+(?:\s*(?:of|/)\s*\d+)?$`)

	// numberedLeadRe matches list or clause numbering at the start of a
	// line: "1.", "2)", "3.1.4".
	numberedLeadRe = regexp.MustCompile(`^\d+(?:\.\d+)*[.)]?\s`)
)

// continuationLeads are openings that mark text as a reference into the
// document rather than a heading over it.
var continuationLeads = []string{"page ", "p. ", "section ", "chapter "}

func continuationLead(text string) bool {
	lower := strings.ToLower(text)
	for _, lead := range continuationLeads {
		if strings.HasPrefix(lower, lead) {
			return true
		}
	}
	return numberedLeadRe.MatchString(text)
}

func terminalPunct(text string) bool {
	return strings.HasSuffix(text, ".") ||
		strings.HasSuffix(text, "!") ||
		strings.HasSuffix(text, "?")
}

// obligationWords are the closed-class modal verbs dense in contractual
// prose. This is grammar, not vocabulary: the set is the same for every
// document domain.
var obligationWords = map[string]bool{
	"shall":  true,
	"must":   true,
	"will":   true,
	"should": true,
	"may":    true,
	"can":    true,
}

func obligationDensity(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	hits := 0
	for _, w := range words {
		w = strings.ToLower(strings.Trim(w, ".,;:!?()\"'"))
		if obligationWords[w] {
			hits++
		}
	}
	return float64(hits) / float64(len(words))
}

func mixedCase(text string) bool {
	var upper, lower bool
	for _, r := range text {
		if unicode.IsUpper(r) {
			upper = true
		}
		if unicode.IsLower(r) {
			lower = true
		}
		if upper && lower {
			return true
		}
	}
	return false
}

func hasLetter(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
