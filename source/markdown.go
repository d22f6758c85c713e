package source

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"

	"github.com/strucdoc/strata/model"
)

// MarkdownSource loads Markdown files using goldmark. ATX and setext
// heading levels map onto the synthetic size ladder; every other block
// contributes body-size text.
type MarkdownSource struct{}

// Load parses the Markdown file at path as a single page.
func (s *MarkdownSource) Load(ctx context.Context, path string) ([]model.PageFragments, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read markdown %s: %w", path, err)
	}

	md := goldmark.New()
	doc := md.Parser().Parse(gtext.NewReader(src))

	pg := model.PageFragments{Page: 1}
	y := 72.0
	emit := func(text string, size float64) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		pg.Fragments = append(pg.Fragments, model.Fragment{
			Text:     text,
			FontSize: size,
			Page:     1,
			X:        72,
			Y:        y,
		})
		y += 14
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			emit(string(node.Text(src)), sizeForLevel(node.Level))
		default:
			emit(blockText(n, src), styledBodySize)
		}
	}
	return []model.PageFragments{pg}, nil
}

// blockText flattens the inline text of a non-heading block. Blocks
// without inline children (fenced code, HTML blocks) fall back to
// their raw source lines.
func blockText(n ast.Node, src []byte) string {
	var b strings.Builder
	var walk func(ast.Node)
	walk = func(node ast.Node) {
		if t, ok := node.(*ast.Text); ok {
			b.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				b.WriteByte('\n')
			}
			return
		}
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			walk(c)
		}
	}
	walk(n)

	if b.Len() == 0 && n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			b.Write(lines.At(i).Value(src))
		}
	}
	return strings.TrimSpace(b.String())
}
