package md2doc

import (
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"go.uber.org/zap"
)

// BlockElement is the closed set of document-model elements produced by
// one conversion pass. Elements are created once from the token tree,
// never mutated afterwards, and owned exclusively by the assembler's
// output sequence; nothing holds a back-reference to source tokens or
// to other elements.
type BlockElement interface {
	blockElement()
}

// Heading is a heading block; Depth is the source depth (styling clamps
// depths beyond 4).
type Heading struct {
	Depth int
	Runs  []TextRun
}

// Paragraph is a body paragraph. Indent is the first-line indent in
// character counts.
type Paragraph struct {
	Runs   []TextRun
	Indent float64
}

// Blockquote is one quoted inner paragraph with a left border marker.
type Blockquote struct {
	Runs []TextRun
}

// CodeBlock holds one monospaced, shaded run per physical source line.
type CodeBlock struct {
	Lines []TextRun
}

// ListItem is one flattened list entry. Nesting is represented by
// repeated items with increasing Level and hanging-indent semantics,
// not by child pointers.
type ListItem struct {
	Ordered bool
	Level   int
	Prefix  string
	Runs    []TextRun
}

// TableCell is one cell's runs.
type TableCell struct {
	Runs []TextRun
}

// Table carries header cells and body rows. Column counts are whatever
// the source rows declare; ragged tables pass through as-is.
type Table struct {
	HeaderCells []TableCell
	BodyRows    [][]TableCell
}

// Rule is a horizontal rule: an empty block with a bottom border.
type Rule struct{}

// Image is an embedded image with its display box in pixels.
type Image struct {
	Data     []byte
	WidthPx  int
	HeightPx int
}

// ImagePlaceholder stands in for an image that failed to resolve, so
// the document stays valid and the failure is visible.
type ImagePlaceholder struct {
	AltText     string
	OriginalRef string
}

// RawText is the fallback element for unrecognized or malformed tokens.
type RawText struct {
	Runs []TextRun
}

func (Heading) blockElement()          {}
func (Paragraph) blockElement()        {}
func (Blockquote) blockElement()       {}
func (CodeBlock) blockElement()        {}
func (ListItem) blockElement()         {}
func (Table) blockElement()            {}
func (Rule) blockElement()             {}
func (Image) blockElement()            {}
func (ImagePlaceholder) blockElement() {}
func (RawText) blockElement()          {}

// Fixed display box for embedded images; source formats rarely carry
// intrinsic dimensions.
const (
	imageBoxWidthPx  = 400
	imageBoxHeightPx = 300
)

// bulletGlyphs cycle every 3 nesting levels.
var bulletGlyphs = [3]string{"●", "○", "▪"}

// blockBuilder converts block tokens into document-model elements.
type blockBuilder struct {
	source []byte
	sheet  *StyleSheet
	para   paragraphFormat
	images *imageCache
	logger *zap.Logger

	// buildHook intercepts token construction in tests.
	buildHook func(n ast.Node) ([]BlockElement, bool)
}

// newBlockBuilder creates a builder for one conversion pass.
func newBlockBuilder(source []byte, sheet *StyleSheet, images *imageCache, logger *zap.Logger) *blockBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &blockBuilder{
		source: source,
		sheet:  sheet,
		para:   resolveParagraph(sheet),
		images: images,
		logger: logger,
	}
}

// baseStyle is the paragraph-derived inherited run style.
func (b *blockBuilder) baseStyle() runStyle {
	return runStyle{Font: b.para.FontFamily, Size: b.para.FontSize}
}

// Build walks the top-level tokens and emits the flat element sequence.
// Cancellation is honored between top-level tokens only; a started
// token always finishes.
func (b *blockBuilder) Build(ctx context.Context, doc ast.Node) ([]BlockElement, error) {
	var out []BlockElement
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		out = append(out, b.buildToken(ctx, n)...)
	}
	return out, nil
}

// buildToken builds the elements for one token. A panic while building
// is caught here, at the token-iteration boundary, and degraded to a
// best-effort raw-text element so one malformed token cannot fail the
// whole document.
func (b *blockBuilder) buildToken(ctx context.Context, n ast.Node) (els []BlockElement) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Warn("block construction failed, substituting raw text",
				zap.String("kind", n.Kind().String()),
				zap.Any("cause", r))
			els = []BlockElement{b.fallback(n)}
		}
	}()

	if b.buildHook != nil {
		if hooked, ok := b.buildHook(n); ok {
			return hooked
		}
	}

	switch n.Kind() {
	case ast.KindHeading:
		return []BlockElement{b.buildHeading(n.(*ast.Heading))}
	case ast.KindParagraph:
		return b.buildParagraph(ctx, n)
	case ast.KindBlockquote:
		return b.buildBlockquote(n)
	case ast.KindFencedCodeBlock, ast.KindCodeBlock:
		return []BlockElement{b.buildCodeBlock(n)}
	case ast.KindList:
		var items []BlockElement
		b.appendListItems(n.(*ast.List), 0, &items)
		return items
	case east.KindTable:
		return []BlockElement{b.buildTable(n.(*east.Table))}
	case ast.KindThematicBreak:
		return []BlockElement{Rule{}}
	case ast.KindHTMLBlock:
		return []BlockElement{b.buildHTML(n.(*ast.HTMLBlock))}
	default:
		// Never drop a token silently; content loss must be observable.
		return []BlockElement{b.fallback(n)}
	}
}

// buildHeading flattens the heading text into one run styled by the
// resolved heading format for min(depth, 4).
func (b *blockBuilder) buildHeading(h *ast.Heading) BlockElement {
	f := resolveHeading(b.sheet, h.Level)
	st := runStyle{Font: f.FontFamily, Size: f.FontSize, Bold: true}
	text := flattenText(h, b.source)
	if text == "" {
		text = rawText(h, b.source)
	}
	return Heading{
		Depth: h.Level,
		Runs:  []TextRun{st.run(text)},
	}
}

// buildParagraph emits one Paragraph, unless the paragraph contains an
// image token: then each image becomes its own element interleaved with
// Paragraph elements for adjacent non-empty text children, preserving
// source order.
//
// The no-image path deliberately re-scans the paragraph's raw text so
// inline formulas, which the block lexer does not recognize, are still
// caught.
func (b *blockBuilder) buildParagraph(ctx context.Context, n ast.Node) []BlockElement {
	base := b.baseStyle()

	if !containsImage(n) {
		raw := strings.ReplaceAll(rawText(n, b.source), "\n", " ")
		runs := scanInline(raw, base)
		return []BlockElement{Paragraph{Runs: runs, Indent: b.para.FirstLineIndent}}
	}

	var els []BlockElement
	var pending []TextRun
	flush := func() {
		if len(pending) > 0 {
			els = append(els, Paragraph{Runs: pending, Indent: b.para.FirstLineIndent})
			pending = nil
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if img, ok := c.(*ast.Image); ok {
			flush()
			els = append(els, b.buildImage(ctx, img))
			continue
		}
		runs := buildRun(c, b.source, base)
		if !emptyRuns(runs) {
			pending = append(pending, runs...)
		}
	}
	flush()
	return els
}

// containsImage reports whether any direct inline child is an image.
func containsImage(n ast.Node) bool {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Kind() == ast.KindImage {
			return true
		}
	}
	return false
}

// emptyRuns reports whether runs carry no visible content.
func emptyRuns(runs []TextRun) bool {
	for _, r := range runs {
		if r.IsBreak || r.Text != "" {
			return false
		}
	}
	return true
}

// buildImage resolves the reference through the pass cache and degrades
// to a placeholder carrying the alt text and the verbatim reference
// when resolution failed.
func (b *blockBuilder) buildImage(ctx context.Context, img *ast.Image) BlockElement {
	ref := string(img.Destination)
	alt := flattenText(img, b.source)
	data, err := b.images.Get(ctx, ref)
	if err != nil || len(data) == 0 {
		b.logger.Info("substituting image placeholder", zap.String("ref", ref))
		return ImagePlaceholder{AltText: alt, OriginalRef: ref}
	}
	return Image{Data: data, WidthPx: imageBoxWidthPx, HeightPx: imageBoxHeightPx}
}

// buildBlockquote emits one Blockquote element per inner paragraph with
// italic, muted runs. A quote with no structured paragraphs quotes its
// raw text.
func (b *blockBuilder) buildBlockquote(n ast.Node) []BlockElement {
	st := b.baseStyle()
	st.Italic = true
	st.Color = quoteColor

	var els []BlockElement
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Kind() != ast.KindParagraph {
			continue
		}
		runs := buildRuns(c, b.source, st)
		if !emptyRuns(runs) {
			els = append(els, Blockquote{Runs: runs})
		}
	}
	if len(els) == 0 {
		els = append(els, Blockquote{Runs: []TextRun{st.run(rawText(n, b.source))}})
	}
	return els
}

// buildCodeBlock emits one monospaced, shaded run per physical line.
// Blank lines become a single space so the shading still renders.
func (b *blockBuilder) buildCodeBlock(n ast.Node) BlockElement {
	st := b.baseStyle()
	st.Font = codeFont
	st.Shaded = true

	lines := n.Lines()
	var runs []TextRun
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := trimLineEnding(string(seg.Value(b.source)))
		if line == "" {
			line = " "
		}
		runs = append(runs, st.run(line))
	}
	return CodeBlock{Lines: runs}
}

// trimLineEnding removes a trailing newline (and CR) from one line.
func trimLineEnding(line string) string {
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line
}

// appendListItems flattens a possibly nested list into (level, item)
// pairs: each parent item is immediately followed by all of its nested
// items, depth-first.
func (b *blockBuilder) appendListItems(list *ast.List, level int, out *[]BlockElement) {
	base := b.baseStyle()
	ordinal := list.Start
	if ordinal == 0 {
		ordinal = 1
	}

	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		var runs []TextRun
		var nested []*ast.List
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if sub, ok := c.(*ast.List); ok {
				nested = append(nested, sub)
				continue
			}
			runs = append(runs, buildRuns(c, b.source, base)...)
		}
		if emptyRuns(runs) {
			runs = []TextRun{base.run(rawText(item, b.source))}
		}

		var prefix string
		if list.IsOrdered() {
			prefix = fmt.Sprintf("%d. ", ordinal)
			ordinal++
		} else {
			prefix = bulletGlyphs[level%len(bulletGlyphs)] + " "
		}

		*out = append(*out, ListItem{
			Ordered: list.IsOrdered(),
			Level:   level,
			Prefix:  prefix,
			Runs:    runs,
		})
		for _, sub := range nested {
			b.appendListItems(sub, level+1, out)
		}
	}
}

// buildTable gives header cells bold styling and body cells plain
// styling. Alignment and shading of the header are applied by the
// writer.
func (b *blockBuilder) buildTable(t *east.Table) BlockElement {
	base := b.baseStyle()
	headerStyle := base
	headerStyle.Bold = true

	var table Table
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		switch row.Kind() {
		case east.KindTableHeader:
			table.HeaderCells = b.buildCells(row, headerStyle)
		case east.KindTableRow:
			table.BodyRows = append(table.BodyRows, b.buildCells(row, base))
		}
	}
	return table
}

// buildCells converts one table row's cells.
func (b *blockBuilder) buildCells(row ast.Node, st runStyle) []TableCell {
	var cells []TableCell
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		cells = append(cells, TableCell{Runs: buildRuns(c, b.source, st)})
	}
	return cells
}

// buildHTML strips tags and passes the remaining text through.
func (b *blockBuilder) buildHTML(h *ast.HTMLBlock) BlockElement {
	text := segmentsText(h.Lines(), b.source)
	if h.HasClosure() {
		text += string(h.ClosureLine.Value(b.source))
	}
	return RawText{Runs: []TextRun{b.baseStyle().run(stripHTMLTags(text))}}
}

// fallback builds a best-effort plain-text element from a token's text
// or raw source.
func (b *blockBuilder) fallback(n ast.Node) BlockElement {
	text := flattenText(n, b.source)
	if text == "" && n.Type() == ast.TypeBlock {
		text = rawText(n, b.source)
	}
	return RawText{Runs: []TextRun{b.baseStyle().run(text)}}
}
