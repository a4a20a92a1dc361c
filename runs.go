package md2doc

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// TextRun is a maximal span of inline content sharing one uniform
// style. A single inline markdown span always decomposes to zero or
// more runs with uniform styling; runs never span style regions.
type TextRun struct {
	Text      string
	Bold      bool
	Italic    bool
	Strike    bool
	Underline bool
	Color     string  // RGB hex without leading '#', empty = inherit
	Font      string  // override, empty = block font
	Size      float64 // points, 0 = block size
	Shaded    bool    // light background (code)
	IsBreak   bool    // forced line break; Text is empty
}

// Inline style constants.
const (
	codeFont   = "Consolas"
	mathFont   = "Cambria Math"
	linkColor  = "0563C1"
	quoteColor = "666666"
)

// runStyle is the inherited style context for run construction. Font
// and size default to the paragraph style unless the block context
// (heading, code, quote) supplies its own.
type runStyle struct {
	Font      string
	Size      float64
	Bold      bool
	Italic    bool
	Strike    bool
	Underline bool
	Color     string
	Shaded    bool
}

// run materializes a TextRun carrying this style.
func (st runStyle) run(text string) TextRun {
	return TextRun{
		Text:      text,
		Bold:      st.Bold,
		Italic:    st.Italic,
		Strike:    st.Strike,
		Underline: st.Underline,
		Color:     st.Color,
		Font:      st.Font,
		Size:      st.Size,
		Shaded:    st.Shaded,
	}
}

// breakRun is a forced line break run.
func breakRun() TextRun {
	return TextRun{IsBreak: true}
}

// inlinePattern finds the earliest-starting match among the four raw
// inline classes in one left-to-right pass: code spans (single or
// double backtick), block math, inline math, bold. A single alternation
// keeps the classes from misreading each other's content; in
// particular, a code span whose backtick starts before a '$' swallows
// the dollar sign, so code wins over formulas. This precedence is
// deliberate and order-sensitive; overlapping delimiters beyond that
// rule are an accepted limitation.
var inlinePattern = regexp.MustCompile("(``[^`]+``|`[^`]+`)|(\\$\\$[^$]+\\$\\$)|(\\$[^$\n]+\\$)|(\\*\\*[^*]+\\*\\*)")

// Submatch group indexes into inlinePattern.
const (
	groupCode      = 1
	groupBlockMath = 2
	groupMath      = 3
	groupBold      = 4
)

// scanInline splits raw text into styled runs by repeatedly taking the
// earliest match of inlinePattern: preceding text becomes a plain run,
// the match a styled run, until the input is exhausted. Text with no
// match becomes a single run.
func scanInline(text string, base runStyle) []TextRun {
	var runs []TextRun
	rest := text
	for rest != "" {
		loc := inlinePattern.FindStringSubmatchIndex(rest)
		if loc == nil {
			runs = append(runs, base.run(rest))
			break
		}
		if loc[0] > 0 {
			runs = append(runs, base.run(rest[:loc[0]]))
		}
		match := rest[loc[0]:loc[1]]
		runs = append(runs, styledInlineRun(match, loc, base))
		rest = rest[loc[1]:]
	}
	return runs
}

// styledInlineRun builds the run for one inlinePattern match.
func styledInlineRun(match string, loc []int, base runStyle) TextRun {
	switch {
	case loc[2*groupCode] >= 0:
		st := base
		st.Font = codeFont
		st.Shaded = true
		return st.run(strings.Trim(match, "`"))
	case loc[2*groupBlockMath] >= 0:
		st := base
		st.Font = mathFont
		return st.run(TranscodeFormula(strings.TrimSuffix(strings.TrimPrefix(match, "$$"), "$$")))
	case loc[2*groupMath] >= 0:
		st := base
		st.Font = mathFont
		return st.run(TranscodeFormula(strings.Trim(match, "$")))
	default:
		st := base
		st.Bold = true
		return st.run(strings.Trim(match, "*"))
	}
}

// buildRuns converts the inline children of node into styled runs,
// dispatching on token kind. Plain text segments go through scanInline
// so embedded formulas (which the block lexer does not recognize) are
// still caught. Unrecognized kinds degrade to a plain run of their
// text; nothing is dropped silently.
func buildRuns(node ast.Node, source []byte, base runStyle) []TextRun {
	var runs []TextRun
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		runs = append(runs, buildRun(c, source, base)...)
	}
	return runs
}

// buildRun converts one inline token into runs.
func buildRun(n ast.Node, source []byte, base runStyle) []TextRun {
	switch t := n.(type) {
	case *ast.Text:
		text := string(t.Segment.Value(source))
		runs := scanInline(text, base)
		if t.HardLineBreak() {
			runs = append(runs, breakRun())
		} else if t.SoftLineBreak() {
			runs = append(runs, base.run(" "))
		}
		return runs
	case *ast.Emphasis:
		st := base
		if t.Level >= 2 {
			st.Bold = true
		} else {
			st.Italic = true
		}
		return []TextRun{st.run(inlineText(n, source))}
	case *east.Strikethrough:
		st := base
		st.Strike = true
		return []TextRun{st.run(inlineText(n, source))}
	case *ast.CodeSpan:
		st := base
		st.Font = codeFont
		st.Shaded = true
		return []TextRun{st.run(inlineText(n, source))}
	case *ast.Link:
		st := base
		st.Color = linkColor
		st.Underline = true
		return []TextRun{st.run(inlineText(n, source))}
	case *ast.AutoLink:
		st := base
		st.Color = linkColor
		st.Underline = true
		return []TextRun{st.run(string(t.URL(source)))}
	case *ast.Image:
		// Images are block-level concerns; inside a pure inline context
		// only the alt text survives.
		return []TextRun{base.run(inlineText(n, source))}
	case *ast.RawHTML:
		return []TextRun{base.run(stripHTMLTags(segmentsText(t.Segments, source)))}
	case *ast.String:
		return scanInline(string(t.Value), base)
	default:
		return []TextRun{base.run(inlineText(n, source))}
	}
}
