package md2doc

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// newMarkdownLexer builds the Goldmark instance used as the token-tree
// lexer for the docx path. GFM adds tables, strikethrough, and
// autolinks; no renderer options matter here because only the parser
// runs.
func newMarkdownLexer() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)
}

// parseMarkdown lexes source into a token tree.
func parseMarkdown(md goldmark.Markdown, source []byte) ast.Node {
	return md.Parser().Parse(text.NewReader(source))
}

// htmlTagPattern matches HTML tags for stripping.
var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTMLTags removes tags, keeping the text between them.
func stripHTMLTags(s string) string {
	return strings.TrimSpace(htmlTagPattern.ReplaceAllString(s, ""))
}

// flattenText collects the text content of node and all descendants,
// preferring structured Text/String tokens.
func flattenText(node ast.Node, source []byte) string {
	var sb strings.Builder
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		switch t := n.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			walk(c)
		}
	}
	walk(node)
	return sb.String()
}

// inlineText extracts the visible text of an inline token. Structured
// sub-tokens are preferred; when a token has none, the raw source
// segment is used with markdown delimiter characters stripped.
func inlineText(n ast.Node, source []byte) string {
	if s := flattenText(n, source); s != "" {
		return s
	}
	// Only block tokens carry source lines; Lines panics on inlines.
	if n.Type() == ast.TypeBlock {
		return strings.Trim(rawText(n, source), "*_~`")
	}
	return ""
}

// rawText returns the raw source text of a block token (the lines the
// lexer attributed to it).
func rawText(n ast.Node, source []byte) string {
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		return ""
	}
	var sb strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// segmentsText joins the values of a segment list.
func segmentsText(segs *text.Segments, source []byte) string {
	if segs == nil {
		return ""
	}
	var sb strings.Builder
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		sb.Write(seg.Value(source))
	}
	return sb.String()
}

// collectImageRefs walks the whole token tree and returns every
// distinct image reference in first-seen order. Used by the docx path
// to warm the per-pass image cache before block construction.
func collectImageRefs(doc ast.Node, source []byte) []string {
	var refs []string
	seen := make(map[string]struct{})
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		img, ok := n.(*ast.Image)
		if !ok {
			return ast.WalkContinue, nil
		}
		ref := string(img.Destination)
		if ref == "" {
			return ast.WalkContinue, nil
		}
		if _, dup := seen[ref]; !dup {
			seen[ref] = struct{}{}
			refs = append(refs, ref)
		}
		return ast.WalkContinue, nil
	})
	return refs
}
