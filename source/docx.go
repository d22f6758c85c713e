package source

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/strucdoc/strata/model"
)

// DOCXSource loads Word documents. Word carries structure as named
// paragraph styles rather than geometry, so heading styles map onto
// the synthetic size ladder and every other paragraph becomes
// body-size text.
type DOCXSource struct{}

// Load parses the Word document at path. Word has no page layout at
// parse time; the whole document loads as page 1.
func (s *DOCXSource) Load(ctx context.Context, path string) ([]model.PageFragments, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open docx %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat docx %s: %w", path, err)
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("parse docx %s: %w", path, err)
	}

	pg := model.PageFragments{Page: 1}
	y := 72.0
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := paragraphText(para)
		if text == "" {
			continue
		}

		size := styledBodySize
		if level := headingLevelOf(para); level > 0 {
			size = sizeForLevel(level)
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
	return []model.PageFragments{pg}, nil
}

func headingLevelOf(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	return headingLevelForStyle(para.Properties.Style.Val)
}

// headingLevelForStyle reads Word's built-in heading styles, which
// appear both in the internal ("Heading1") and the display ("heading
// 1") spelling depending on the producing application.
func headingLevelForStyle(style string) int {
	s := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(style)), " ", "")
	if !strings.HasPrefix(s, "heading") {
		return 0
	}
	digit := strings.TrimPrefix(s, "heading")
	if len(digit) != 1 || digit[0] < '1' || digit[0] > '6' {
		return 0
	}
	return int(digit[0] - '0')
}

func paragraphText(para *docx.Paragraph) string {
	var b strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				b.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(b.String())
}
