package source

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/strucdoc/strata/model"
)

// HTMLSource loads HTML files. Heading elements map onto the synthetic
// size ladder, the document <title> outranks them all, and
// paragraph-like elements contribute body-size text. Script, style,
// and page chrome are skipped.
type HTMLSource struct{}

// Load parses the HTML file at path as a single page.
func (s *HTMLSource) Load(ctx context.Context, path string) ([]model.PageFragments, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open html %s: %w", path, err)
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse html %s: %w", path, err)
	}

	pg := model.PageFragments{Page: 1}
	y := 72.0
	emit := func(text string, size float64) {
		text = strings.Join(strings.Fields(text), " ")
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

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "title":
				emit(textContent(n), titleTagSize)
				return
			case "p", "li", "td", "blockquote", "pre":
				emit(textContent(n), styledBodySize)
				return
			}
			if level := htmlHeadingLevel(n.Data); level > 0 {
				emit(textContent(n), sizeForLevel(level))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return []model.PageFragments{pg}, nil
}

func htmlHeadingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

// textContent flattens every text node under n.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
