package source

import (
	"context"
	"testing"
)

func TestHTMLSourceLoad(t *testing.T) {
	path := writeTemp(t, "admin.html", `<!DOCTYPE html>
<html>
<head>
  <title>Server Admin Guide</title>
  <script>var tracked = true;</script>
  <style>body { margin: 0; }</style>
</head>
<body>
  <h1>Setup</h1>
  <p>Install the package from the mirror.</p>
  <h2>Network Config</h2>
  <p>Edit the interfaces file by hand.</p>
  <ul><li>restart the daemon</li></ul>
</body>
</html>
`)

	pages, err := (&HTMLSource{}).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(pages) != 1 || pages[0].Page != 1 {
		t.Fatalf("Expected one page numbered 1, got %+v", pages)
	}

	want := []struct {
		text string
		size float64
	}{
		{"Server Admin Guide", titleTagSize},
		{"Setup", 22},
		{"Install the package from the mirror.", styledBodySize},
		{"Network Config", 20},
		{"Edit the interfaces file by hand.", styledBodySize},
		{"restart the daemon", styledBodySize},
	}
	frags := pages[0].Fragments
	if len(frags) != len(want) {
		t.Fatalf("Expected %d fragments, got %+v", len(want), frags)
	}
	for i, w := range want {
		if frags[i].Text != w.text {
			t.Errorf("Fragment %d: expected text %q, got %q", i, w.text, frags[i].Text)
		}
		if frags[i].FontSize != w.size {
			t.Errorf("Fragment %d: expected size %v, got %v", i, w.size, frags[i].FontSize)
		}
	}
}

func TestHTMLSourceSkipsChrome(t *testing.T) {
	path := writeTemp(t, "chrome.html", `<html><body>
<nav><h1>Site Navigation</h1></nav>
<header><p>Banner text</p></header>
<h2>Actual Content</h2>
<p>The only real paragraph.</p>
<footer><p>Copyright footer</p></footer>
</body></html>`)

	pages, err := (&HTMLSource{}).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	frags := pages[0].Fragments
	if len(frags) != 2 {
		t.Fatalf("Expected chrome skipped, got %+v", frags)
	}
	if frags[0].Text != "Actual Content" {
		t.Errorf("Expected %q first, got %q", "Actual Content", frags[0].Text)
	}
}

func TestHTMLHeadingLevel(t *testing.T) {
	tests := []struct {
		tag  string
		want int
	}{
		{"h1", 1},
		{"h3", 3},
		{"h6", 6},
		{"h7", 0},
		{"h0", 0},
		{"div", 0},
		{"hr", 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := htmlHeadingLevel(tt.tag); got != tt.want {
			t.Errorf("htmlHeadingLevel(%q) = %d, want %d", tt.tag, got, tt.want)
		}
	}
}

func TestHTMLSourceInlineMarkup(t *testing.T) {
	path := writeTemp(t, "inline.html", `<html><body><h1>Mixed <em>Emphasis</em> Heading</h1><p>Body text here.</p></body></html>`)

	pages, err := (&HTMLSource{}).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	frags := pages[0].Fragments
	if len(frags) == 0 {
		t.Fatal("Expected fragments")
	}
	if frags[0].Text != "Mixed Emphasis Heading" {
		t.Errorf("Expected flattened inline markup, got %q", frags[0].Text)
	}
}
