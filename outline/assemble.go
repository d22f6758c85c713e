package outline

import (
	"regexp"
	"sort"
	"strings"

	"github.com/strucdoc/strata/model"
)

// Assembler merges per-page candidate lists into the final outline. It
// restores reading order, suppresses repeated page furniture, selects
// the document title, and maps tier ranks to heading levels. Assembly
// is pure: the same candidates always produce the same outline.
type Assembler struct {
	config Config
}

// NewAssembler creates an assembler with default configuration.
func NewAssembler() *Assembler {
	return NewAssemblerWithConfig(DefaultConfig())
}

// NewAssemblerWithConfig creates an assembler with custom
// configuration.
func NewAssemblerWithConfig(config Config) *Assembler {
	config.sanitize()
	return &Assembler{config: config}
}

// Assemble builds the outline from per-page classification results.
// Entries appear in reading order: ascending page, then vertical
// position, then horizontal position. A rank-r size promotion becomes
// level r+1; pattern promotions land one past the deepest level the
// size tiers produced, or level 1 when no size tier exists. The
// selected title is consumed: it does not repeat as an entry.
func (a *Assembler) Assemble(pages [][]Candidate) model.Outline {
	var accepted []Candidate
	for _, page := range pages {
		for _, c := range page {
			if c.Accepted {
				accepted = append(accepted, c)
			}
		}
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		fa, fb := accepted[i].Fragment, accepted[j].Fragment
		if fa.Page != fb.Page {
			return fa.Page < fb.Page
		}
		if fa.Y != fb.Y {
			return fa.Y < fb.Y
		}
		return fa.X < fb.X
	})

	accepted = a.suppressFurniture(accepted)

	var outline model.Outline
	titleIdx := a.selectTitle(accepted)
	if titleIdx >= 0 {
		outline.Title = accepted[titleIdx].Fragment.Text
	}

	deepest := 0
	for i, c := range accepted {
		if i == titleIdx || c.Reason != SizeOnly {
			continue
		}
		if level := c.TierRank + 1; level > deepest {
			deepest = level
		}
	}
	fallback := deepest + 1

	for i, c := range accepted {
		if i == titleIdx {
			continue
		}
		level := fallback
		if c.Reason == SizeOnly {
			level = c.TierRank + 1
		}
		outline.Add(model.Entry{
			Text:  c.Fragment.Text,
			Level: level,
			Page:  c.Fragment.Page,
		})
	}
	return outline
}

var digitRunRe = regexp.MustCompile(`\d+`)

// normalizeRepeats folds case and collapses digit runs so "Chapter 3"
// and "Chapter 12" compare equal when hunting for running headers.
func normalizeRepeats(text string) string {
	return digitRunRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), "#")
}

// suppressFurniture drops accepted text whose normalized form recurs on
// at least RepeatPageLimit distinct pages. Page furniture is set in
// heading-like type but describes the page, not the document.
func (a *Assembler) suppressFurniture(cands []Candidate) []Candidate {
	if len(cands) == 0 {
		return cands
	}
	pagesByKey := make(map[string]map[int]bool)
	for _, c := range cands {
		key := normalizeRepeats(c.Fragment.Text)
		if pagesByKey[key] == nil {
			pagesByKey[key] = make(map[int]bool)
		}
		pagesByKey[key][c.Fragment.Page] = true
	}

	kept := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if len(pagesByKey[normalizeRepeats(c.Fragment.Text)]) >= a.config.RepeatPageLimit {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// selectTitle returns the index of the title candidate, or -1. Within
// the first TitlePageWindow pages, the most prominent tier is tried
// first: the earliest size-promoted candidate at that tier passing the
// likely-title shape wins. Pattern promotions never title a document;
// a title is a prominence claim, and pattern evidence carries none.
func (a *Assembler) selectTitle(cands []Candidate) int {
	maxRank := -1
	for _, c := range cands {
		if c.Fragment.Page > a.config.TitlePageWindow {
			break
		}
		if c.Reason == SizeOnly && c.TierRank > maxRank {
			maxRank = c.TierRank
		}
	}
	for rank := 0; rank <= maxRank; rank++ {
		for i, c := range cands {
			if c.Fragment.Page > a.config.TitlePageWindow {
				break
			}
			if c.Reason != SizeOnly || c.TierRank != rank {
				continue
			}
			if a.likelyTitle(c.Fragment.Text) {
				return i
			}
		}
	}
	return -1
}

// likelyTitle is the shape test for title text: mixed case, a bounded
// word count, and no continuation lead. Single words and shouting caps
// stay in the outline instead.
func (a *Assembler) likelyTitle(text string) bool {
	words := strings.Fields(text)
	if len(words) < a.config.MinHeadingWords || len(words) > a.config.MaxHeadingWords {
		return false
	}
	return mixedCase(text) && !continuationLead(text)
}
