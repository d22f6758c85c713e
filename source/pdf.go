package source

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/strucdoc/strata/model"
)

// PDFSource loads PDF files. The underlying reader reports text one
// glyph at a time, so loading is mostly line assembly: glyphs group
// into visual lines and each line becomes one fragment carrying the
// dominant font of its glyphs.
type PDFSource struct{}

// Load reads every page of the PDF at path. The context is consulted
// between pages; cancellation abandons the load with the context's
// error.
func (s *PDFSource) Load(ctx context.Context, path string) ([]model.PageFragments, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	total := reader.NumPage()
	pages := make([]model.PageFragments, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pg := reader.Page(i)
		if pg.V.IsNull() {
			pages = append(pages, model.PageFragments{Page: i})
			continue
		}
		content := pg.Content()
		pages = append(pages, model.PageFragments{
			Page:      i,
			Fragments: assembleLines(content.Text, i),
		})
	}
	return pages, nil
}

// lineTolerance is the vertical distance in points within which glyphs
// belong to the same visual line.
const lineTolerance = 2.0

// assembleLines groups glyph-level text into line fragments. Glyphs
// sort top-down (PDF Y grows upward) then left-right; fragment Y is
// flipped into reading order, distance from the topmost line's box.
func assembleLines(glyphs []pdf.Text, pageNum int) []model.Fragment {
	if len(glyphs) == 0 {
		return nil
	}

	ordered := make([]pdf.Text, len(glyphs))
	copy(ordered, glyphs)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Y != ordered[j].Y {
			return ordered[i].Y > ordered[j].Y
		}
		return ordered[i].X < ordered[j].X
	})

	var lines [][]pdf.Text
	var current []pdf.Text
	var anchorY float64
	for _, g := range ordered {
		if current == nil || anchorY-g.Y > lineTolerance {
			if current != nil {
				lines = append(lines, current)
			}
			current = []pdf.Text{g}
			anchorY = g.Y
			continue
		}
		current = append(current, g)
	}
	if current != nil {
		lines = append(lines, current)
	}

	frags := make([]model.Fragment, 0, len(lines))
	boxes := make([]model.BBox, 0, len(lines))
	for _, line := range lines {
		if f, box, ok := lineFragment(line, pageNum); ok {
			frags = append(frags, f)
			boxes = append(boxes, box)
		}
	}
	if len(frags) == 0 {
		return nil
	}

	maxTop := boxes[0].Top()
	for _, box := range boxes[1:] {
		if box.Top() > maxTop {
			maxTop = box.Top()
		}
	}
	for i := range frags {
		frags[i].Y = maxTop - boxes[i].Top()
	}
	return frags
}

// lineFragment joins one line's glyphs into a fragment plus the box
// they cover. A horizontal gap wider than a fifth of the font size
// reads as a word break. The fragment's Y is filled in by the caller
// once the page extent is known.
func lineFragment(line []pdf.Text, pageNum int) (model.Fragment, model.BBox, bool) {
	sort.SliceStable(line, func(i, j int) bool {
		return line[i].X < line[j].X
	})

	var b strings.Builder
	sizeCount := make(map[float64]int)
	fontCount := make(map[string]int)
	boldGlyphs := 0
	box := glyphBox(line[0])
	for i, g := range line {
		if i > 0 {
			gb := glyphBox(g)
			if gap := gb.Left() - box.Right(); gap > g.FontSize*0.2 {
				b.WriteByte(' ')
			}
			box = box.Union(gb)
		}
		b.WriteString(g.S)
		sizeCount[g.FontSize]++
		fontCount[g.Font]++
		if fontIsBold(g.Font) {
			boldGlyphs++
		}
	}

	text := strings.Join(strings.Fields(b.String()), " ")
	if text == "" {
		return model.Fragment{}, model.BBox{}, false
	}

	return model.Fragment{
		Text:     text,
		FontSize: dominantSize(sizeCount),
		FontName: dominantFont(fontCount),
		Bold:     boldGlyphs*2 >= len(line),
		Page:     pageNum,
		X:        box.Left(),
	}, box, true
}

// glyphBox approximates a glyph's extent: the baseline anchors the
// bottom and the font size stands in for the height.
func glyphBox(g pdf.Text) model.BBox {
	return model.NewBBox(g.X, g.Y, g.W, g.FontSize)
}

func dominantSize(counts map[float64]int) float64 {
	var best float64
	bestCount := 0
	for size, count := range counts {
		if count > bestCount || (count == bestCount && size > best) {
			best = size
			bestCount = count
		}
	}
	return best
}

func dominantFont(counts map[string]int) string {
	var best string
	bestCount := 0
	for font, count := range counts {
		if count > bestCount || (count == bestCount && font < best) {
			best = font
			bestCount = count
		}
	}
	return best
}

// fontIsBold recognizes bold emphasis from PostScript font names, the
// only emphasis signal PDFs reliably carry.
func fontIsBold(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range []string{"bold", "black", "heavy"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
