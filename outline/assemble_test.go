package outline

import (
	"testing"

	"github.com/strucdoc/strata/model"
)

func sizeCand(text string, rank, pageNum int, x, y float64) Candidate {
	return Candidate{
		Fragment: model.Fragment{Text: text, FontSize: 24 - 4*float64(rank), Page: pageNum, X: x, Y: y},
		TierRank: rank,
		Accepted: true,
		Reason:   SizeOnly,
	}
}

func patternCand(text string, rank, pageNum int, y float64) Candidate {
	return Candidate{
		Fragment: model.Fragment{Text: text, FontSize: 12, Bold: true, Page: pageNum, X: 72, Y: y},
		TierRank: rank,
		Accepted: true,
		Reason:   SizeAndPattern,
	}
}

func rejectedCand(text string, pageNum int, y float64) Candidate {
	return Candidate{
		Fragment: model.Fragment{Text: text, FontSize: 12, Page: pageNum, X: 72, Y: y},
		TierRank: -1,
		Reason:   RejectedBody,
	}
}

func TestAssembleOrdering(t *testing.T) {
	a := NewAssembler()

	// Deliberately shuffled within and across pages; two entries share a
	// line on page 2 and must order by X.
	pages := [][]Candidate{
		{
			sizeCand("Second On Page One", 1, 1, 72, 400),
			sizeCand("First On Page One", 1, 1, 72, 100),
		},
		{
			sizeCand("Right Column", 1, 2, 300, 90),
			sizeCand("Left Column", 1, 2, 72, 90),
			sizeCand("Lower Entry", 1, 2, 72, 500),
		},
	}

	outline := a.Assemble(pages)
	want := []string{
		"First On Page One",
		"Second On Page One",
		"Left Column",
		"Right Column",
		"Lower Entry",
	}
	if len(outline.Entries) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(outline.Entries))
	}
	for i, text := range want {
		if outline.Entries[i].Text != text {
			t.Errorf("Entry %d: expected %q, got %q", i, text, outline.Entries[i].Text)
		}
	}
}

func TestAssembleLevelsFromRanks(t *testing.T) {
	a := NewAssembler()

	pages := [][]Candidate{{
		sizeCand("Top Tier", 0, 3, 72, 100),
		sizeCand("Second Tier", 1, 3, 72, 200),
		sizeCand("Third Tier", 2, 3, 72, 300),
	}}

	outline := a.Assemble(pages)
	if len(outline.Entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(outline.Entries))
	}
	for i, want := range []int{1, 2, 3} {
		if outline.Entries[i].Level != want {
			t.Errorf("Entry %d: expected level %d, got %d", i, want, outline.Entries[i].Level)
		}
	}
}

func TestAssembleTitleConsumed(t *testing.T) {
	a := NewAssembler()

	pages := [][]Candidate{
		{
			sizeCand("Annual Report 2024", 0, 1, 72, 80),
			sizeCand("Financial Summary", 1, 1, 72, 200),
		},
		{
			sizeCand("Operating Costs", 1, 2, 72, 100),
		},
	}

	outline := a.Assemble(pages)
	if outline.Title != "Annual Report 2024" {
		t.Fatalf("Expected title %q, got %q", "Annual Report 2024", outline.Title)
	}
	if len(outline.Entries) != 2 {
		t.Fatalf("Expected title consumed, got %d entries", len(outline.Entries))
	}
	for _, e := range outline.Entries {
		if e.Text == outline.Title {
			t.Errorf("Title %q repeated as an entry", e.Text)
		}
	}
}

func TestAssembleTitleRankFallthrough(t *testing.T) {
	a := NewAssembler()

	// The top tier is shouting caps and fails the title shape; the next
	// tier provides the title instead.
	pages := [][]Candidate{{
		sizeCand("CONFIDENTIAL DRAFT", 0, 1, 72, 60),
		sizeCand("Getting Started Guide", 1, 1, 72, 140),
		sizeCand("Installation Steps", 1, 1, 72, 300),
	}}

	outline := a.Assemble(pages)
	if outline.Title != "Getting Started Guide" {
		t.Fatalf("Expected fallthrough title %q, got %q", "Getting Started Guide", outline.Title)
	}
	// The caps entry stays in the outline; only the title is consumed.
	if len(outline.Entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(outline.Entries))
	}
	if outline.Entries[0].Text != "CONFIDENTIAL DRAFT" {
		t.Errorf("Expected caps entry kept, got %q", outline.Entries[0].Text)
	}
}

func TestAssembleTitleWindowBound(t *testing.T) {
	a := NewAssembler()

	pages := [][]Candidate{{
		sizeCand("Deep Chapter Heading", 0, 3, 72, 100),
	}}

	outline := a.Assemble(pages)
	if outline.Title != "" {
		t.Errorf("Expected no title outside the page window, got %q", outline.Title)
	}
	if len(outline.Entries) != 1 {
		t.Fatalf("Expected the heading kept as an entry, got %d", len(outline.Entries))
	}
}

func TestAssembleNoTitleFromPattern(t *testing.T) {
	a := NewAssembler()

	pages := [][]Candidate{{
		patternCand("Meeting Agenda Notes", 0, 1, 100),
	}}

	outline := a.Assemble(pages)
	if outline.Title != "" {
		t.Errorf("Expected pattern promotion never titles, got %q", outline.Title)
	}
	if len(outline.Entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(outline.Entries))
	}
}

func TestAssembleFurnitureSuppressed(t *testing.T) {
	a := NewAssembler()

	pages := [][]Candidate{
		{
			sizeCand("Annual Report 2024", 0, 1, 72, 80),
			sizeCand("Quarter 1 Results", 1, 1, 72, 700),
		},
		{
			sizeCand("Financial Overview", 1, 2, 72, 100),
			sizeCand("Quarter 2 Results", 1, 2, 72, 700),
		},
		{
			sizeCand("Quarter 3 Results", 1, 3, 72, 700),
		},
	}

	outline := a.Assemble(pages)

	// "Quarter N Results" digit-normalizes to one key on three distinct
	// pages and is dropped everywhere.
	for _, e := range outline.Entries {
		if normalizeRepeats(e.Text) == "quarter # results" {
			t.Errorf("Expected furniture suppressed, found %q", e.Text)
		}
	}
	if outline.Title != "Annual Report 2024" {
		t.Errorf("Expected title kept, got %q", outline.Title)
	}
	if len(outline.Entries) != 1 || outline.Entries[0].Text != "Financial Overview" {
		t.Fatalf("Expected only the genuine heading, got %+v", outline.Entries)
	}
}

func TestAssembleFurnitureBelowLimitKept(t *testing.T) {
	a := NewAssembler()

	// Same digit-normalized key on two distinct pages, below the
	// three-page repeat limit.
	pages := [][]Candidate{
		{sizeCand("Draft Revision 1", 0, 1, 72, 100)},
		{sizeCand("Draft Revision 2", 0, 4, 72, 100)},
	}

	outline := a.Assemble(pages)
	if outline.Title != "Draft Revision 1" {
		t.Errorf("Expected first occurrence as title, got %q", outline.Title)
	}
	if len(outline.Entries) != 1 || outline.Entries[0].Text != "Draft Revision 2" {
		t.Fatalf("Expected second occurrence kept, got %+v", outline.Entries)
	}
}

func TestAssemblePatternFallbackLevel(t *testing.T) {
	a := NewAssembler()

	pages := [][]Candidate{{
		sizeCand("Part One", 0, 3, 72, 80),
		sizeCand("Overview Section", 1, 3, 72, 160),
		patternCand("Key Decisions Made", 2, 3, 400),
	}}

	outline := a.Assemble(pages)
	if len(outline.Entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(outline.Entries))
	}
	if got := outline.Entries[2].Level; got != 3 {
		t.Errorf("Expected pattern level one past deepest (3), got %d", got)
	}
}

func TestAssemblePatternOnlyLevelOne(t *testing.T) {
	a := NewAssembler()

	pages := [][]Candidate{{
		patternCand("Meeting Agenda", 0, 1, 100),
		patternCand("Action Items", 0, 1, 300),
	}}

	outline := a.Assemble(pages)
	if len(outline.Entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(outline.Entries))
	}
	for i, e := range outline.Entries {
		if e.Level != 1 {
			t.Errorf("Entry %d: expected level 1 with no size tiers, got %d", i, e.Level)
		}
	}
}

func TestAssembleIgnoresRejected(t *testing.T) {
	a := NewAssembler()

	pages := [][]Candidate{{
		rejectedCand("Ordinary prose line", 1, 100),
		sizeCand("Real Heading Here", 0, 1, 72, 50),
		rejectedCand("More prose text", 1, 200),
	}}

	outline := a.Assemble(pages)
	if outline.Title != "Real Heading Here" {
		t.Errorf("Expected title from the only accepted candidate, got %q", outline.Title)
	}
	if len(outline.Entries) != 0 {
		t.Errorf("Expected no entries, got %+v", outline.Entries)
	}
}

func TestAssembleEmpty(t *testing.T) {
	a := NewAssembler()

	outline := a.Assemble(nil)
	if !outline.IsEmpty() {
		t.Error("Expected empty outline for no candidates")
	}

	outline = a.Assemble([][]Candidate{{}, {}})
	if !outline.IsEmpty() {
		t.Error("Expected empty outline for empty pages")
	}
}
