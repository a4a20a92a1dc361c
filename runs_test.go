package md2doc

import (
	"reflect"
	"testing"

	"github.com/yuin/goldmark/ast"
)

func TestScanInline(t *testing.T) {
	t.Parallel()

	base := runStyle{Font: "Times New Roman", Size: 12}
	plain := func(text string) TextRun { return base.run(text) }
	bold := func(text string) TextRun {
		st := base
		st.Bold = true
		return st.run(text)
	}
	code := func(text string) TextRun {
		st := base
		st.Font = codeFont
		st.Shaded = true
		return st.run(text)
	}
	math := func(text string) TextRun {
		st := base
		st.Font = mathFont
		return st.run(text)
	}

	tests := []struct {
		name     string
		input    string
		expected []TextRun
	}{
		{
			name:     "plain text is a single run",
			input:    "just words",
			expected: []TextRun{plain("just words")},
		},
		{
			name:  "mixed bold formula and code",
			input: "**bold** and $x^2$ and `code`",
			expected: []TextRun{
				bold("bold"),
				plain(" and "),
				math("x²"),
				plain(" and "),
				code("code"),
			},
		},
		{
			name:  "code span swallows dollar signs",
			input: "`a $b` c$ d",
			expected: []TextRun{
				code("a $b"),
				plain(" c$ d"),
			},
		},
		{
			name:  "block math delimiters",
			input: "see $$\\frac{1}{2}$$ here",
			expected: []TextRun{
				plain("see "),
				math("(1/2)"),
				plain(" here"),
			},
		},
		{
			name:     "double backtick code span",
			input:    "``literal``",
			expected: []TextRun{code("literal")},
		},
		{
			name:  "adjacent styled spans without separator text",
			input: "**a**`b`",
			expected: []TextRun{
				bold("a"),
				code("b"),
			},
		},
		{
			name:     "unterminated delimiter stays literal",
			input:    "a $b never closes",
			expected: []TextRun{plain("a $b never closes")},
		},
		{
			name:     "empty input yields no runs",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := scanInline(tt.input, base)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("scanInline(%q) = %+v, want %+v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestBuildRuns(t *testing.T) {
	t.Parallel()

	base := runStyle{Font: "Times New Roman", Size: 12}

	// firstBlock parses markdown and returns its first block token.
	firstBlock := func(t *testing.T, markdown string) ([]byte, ast.Node) {
		t.Helper()
		source := []byte(markdown)
		doc := parseMarkdown(newMarkdownLexer(), source)
		n := doc.FirstChild()
		if n == nil {
			t.Fatalf("no block parsed from %q", markdown)
		}
		return source, n
	}

	t.Run("emphasis levels map to italic and bold", func(t *testing.T) {
		t.Parallel()
		source, n := firstBlock(t, "*it* and **b**")
		runs := buildRuns(n, source, base)

		var foundItalic, foundBold bool
		for _, r := range runs {
			if r.Text == "it" && r.Italic && !r.Bold {
				foundItalic = true
			}
			if r.Text == "b" && r.Bold && !r.Italic {
				foundBold = true
			}
		}
		if !foundItalic || !foundBold {
			t.Errorf("runs = %+v, want italic %q and bold %q runs", runs, "it", "b")
		}
	})

	t.Run("strikethrough", func(t *testing.T) {
		t.Parallel()
		source, n := firstBlock(t, "~~gone~~")
		runs := buildRuns(n, source, base)
		if len(runs) != 1 || runs[0].Text != "gone" || !runs[0].Strike {
			t.Errorf("runs = %+v, want single struck run %q", runs, "gone")
		}
	})

	t.Run("code span carries monospace shading", func(t *testing.T) {
		t.Parallel()
		source, n := firstBlock(t, "`x := 1`")
		runs := buildRuns(n, source, base)
		if len(runs) != 1 || runs[0].Text != "x := 1" || runs[0].Font != codeFont || !runs[0].Shaded {
			t.Errorf("runs = %+v, want shaded %s run", runs, codeFont)
		}
	})

	t.Run("link text is colored and underlined", func(t *testing.T) {
		t.Parallel()
		source, n := firstBlock(t, "[site](https://example.com)")
		runs := buildRuns(n, source, base)
		if len(runs) != 1 || runs[0].Text != "site" || runs[0].Color != linkColor || !runs[0].Underline {
			t.Errorf("runs = %+v, want underlined link run %q", runs, "site")
		}
	})

	t.Run("hard break becomes break run", func(t *testing.T) {
		t.Parallel()
		source, n := firstBlock(t, "one  \ntwo")
		runs := buildRuns(n, source, base)

		var hasBreak bool
		for _, r := range runs {
			if r.IsBreak {
				hasBreak = true
			}
		}
		if !hasBreak {
			t.Errorf("runs = %+v, want a break run", runs)
		}
	})

	t.Run("raw html inline is stripped to text", func(t *testing.T) {
		t.Parallel()
		source, n := firstBlock(t, "a <b>x</b> c")
		runs := buildRuns(n, source, base)

		var joined string
		for _, r := range runs {
			joined += r.Text
		}
		if joined != "a x c" {
			t.Errorf("joined text = %q, want %q", joined, "a x c")
		}
	})

	t.Run("formula inside plain text is transcoded", func(t *testing.T) {
		t.Parallel()
		source, n := firstBlock(t, "area $\\pi r^2$ done")
		runs := buildRuns(n, source, base)

		var found bool
		for _, r := range runs {
			if r.Text == "π r²" && r.Font == mathFont {
				found = true
			}
		}
		if !found {
			t.Errorf("runs = %+v, want math run %q", runs, "π r²")
		}
	})
}
