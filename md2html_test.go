package md2doc

import (
	"context"
	"strings"
	"testing"
)

func TestGoldmarkConverterToHTML(t *testing.T) {
	t.Parallel()

	c := newGoldmarkConverter()
	ctx := context.Background()

	tests := []struct {
		name     string
		input    string
		contains []string
	}{
		{
			name:     "heading and paragraph",
			input:    "# Title\n\nbody text",
			contains: []string{"<h1", "Title", "<p>", "body text"},
		},
		{
			name:     "standalone document wrapper",
			input:    "text",
			contains: []string{"<!DOCTYPE html>", "<head>", "<body>", "</html>"},
		},
		{
			name:     "gfm table",
			input:    "| A | B |\n|---|---|\n| 1 | 2 |",
			contains: []string{"<table>", "<th>A</th>", "<td>2</td>"},
		},
		{
			name:     "strikethrough",
			input:    "~~gone~~",
			contains: []string{"<del>gone</del>"},
		},
		{
			name:     "fenced code is class-highlighted",
			input:    "```go\nfunc main() {}\n```",
			contains: []string{"class=\"chroma\"", "main"},
		},
		{
			name:     "local file image src survives rendering",
			input:    "![fig](file:///tmp/assets/fig.png)",
			contains: []string{`src="file:///tmp/assets/fig.png"`, `alt="fig"`},
		},
		{
			name:     "footnotes render reference and body",
			input:    "claim[^1]\n\n[^1]: the evidence",
			contains: []string{"footnote-ref", `class="footnotes"`, "the evidence"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := c.ToHTML(ctx, tt.input)
			if err != nil {
				t.Fatalf("ToHTML() error = %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("ToHTML(%q) missing %q:\n%s", tt.input, want, got)
				}
			}
		})
	}
}

func TestGoldmarkConverterCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newGoldmarkConverter()
	if _, err := c.ToHTML(ctx, "# x"); err == nil {
		t.Error("ToHTML() = nil error, want cancellation")
	}
}
