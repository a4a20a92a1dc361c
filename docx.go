package md2doc

import (
	"bytes"
	"context"
	"fmt"

	"github.com/unidoc/unioffice/color"
	"github.com/unidoc/unioffice/common"
	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/measurement"
	"github.com/unidoc/unioffice/schema/soo/ofc/sharedTypes"
	"github.com/unidoc/unioffice/schema/soo/wml"
	"go.uber.org/zap"
)

// docxWriter serializes a block element sequence into an OOXML package.
type docxWriter interface {
	Write(ctx context.Context, elements []BlockElement, sheet *StyleSheet) ([]byte, error)
}

// Compile-time interface check.
var _ docxWriter = (*uniofficeWriter)(nil)

// uniofficeWriter writes the document model through unioffice.
type uniofficeWriter struct {
	logger *zap.Logger
}

// newUniofficeWriter creates a writer.
func newUniofficeWriter(logger *zap.Logger) *uniofficeWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &uniofficeWriter{logger: logger}
}

// Conversion constants.
const (
	twipsPerPoint  = 20
	lineUnitTwips  = 240 // one line in ST_LineSpacingRuleAuto units
	listIndentTwip = 420 // per nesting level
	quoteIndentTw  = 360
	borderEighthPt = 8
)

// Write builds the OOXML package from the element sequence. Writing is
// not cancellable mid-package; the context is only consulted up front.
func (w *uniofficeWriter) Write(ctx context.Context, elements []BlockElement, sheet *StyleSheet) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := document.New()
	para := resolveParagraph(sheet)

	for _, el := range elements {
		switch el := el.(type) {
		case Heading:
			w.writeHeading(doc, el, sheet)
		case Paragraph:
			w.writeParagraph(doc, el, para)
		case Blockquote:
			w.writeBlockquote(doc, el, para)
		case CodeBlock:
			w.writeCodeBlock(doc, el, para)
		case ListItem:
			w.writeListItem(doc, el, para)
		case Table:
			w.writeTable(doc, el, para)
		case Rule:
			w.writeRule(doc)
		case Image:
			w.writeImage(doc, el, para)
		case ImagePlaceholder:
			w.writePlaceholder(doc, el, para)
		case RawText:
			w.writeRawText(doc, el, para)
		}
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, fmt.Errorf("saving package: %w", err)
	}
	return buf.Bytes(), nil
}

// alignmentValue maps the style alignment enum to WML justification.
func alignmentValue(a string) wml.ST_Jc {
	switch a {
	case AlignCenter:
		return wml.ST_JcCenter
	case AlignRight:
		return wml.ST_JcRight
	case AlignJustify:
		return wml.ST_JcBoth
	default:
		return wml.ST_JcLeft
	}
}

// setLineSpacing applies a line-height multiplier.
func setLineSpacing(pp document.ParagraphProperties, multiplier float64) {
	if multiplier <= 0 {
		return
	}
	pp.Spacing().SetLineSpacing(
		measurement.Distance(multiplier*lineUnitTwips)*measurement.Twips,
		wml.ST_LineSpacingRuleAuto,
	)
}

func (w *uniofficeWriter) writeHeading(doc *document.Document, el Heading, sheet *StyleSheet) {
	f := resolveHeading(sheet, el.Depth)
	p := doc.AddParagraph()
	pp := p.Properties()
	pp.SetAlignment(alignmentValue(f.Alignment))
	pp.Spacing().SetBefore(measurement.Distance(f.SpacingBefore) * measurement.Point)
	pp.Spacing().SetAfter(measurement.Distance(f.SpacingAfter) * measurement.Point)
	setLineSpacing(pp, f.LineHeight)
	w.writeRuns(p, el.Runs, f.FontFamily, f.FontSize)
}

func (w *uniofficeWriter) writeParagraph(doc *document.Document, el Paragraph, para paragraphFormat) {
	p := doc.AddParagraph()
	pp := p.Properties()
	pp.Spacing().SetAfter(measurement.Distance(para.SpacingAfter) * measurement.Point)
	setLineSpacing(pp, para.LineHeight)
	if el.Indent > 0 {
		firstLine := uint64(el.Indent * para.FontSize * twipsPerPoint)
		pp.X().Ind = &wml.CT_Ind{FirstLineAttr: twipsUnsigned(firstLine)}
	}
	w.writeRuns(p, el.Runs, para.FontFamily, para.FontSize)
}

func (w *uniofficeWriter) writeBlockquote(doc *document.Document, el Blockquote, para paragraphFormat) {
	p := doc.AddParagraph()
	pp := p.Properties()
	pp.Spacing().SetAfter(measurement.Distance(para.SpacingAfter) * measurement.Point)
	setLineSpacing(pp, para.LineHeight)

	ppr := pp.X()
	ppr.Ind = &wml.CT_Ind{LeftAttr: twipsSigned(quoteIndentTw)}
	ppr.PBdr = wml.NewCT_PBdr()
	ppr.PBdr.Left = singleBorder()

	w.writeRuns(p, el.Runs, para.FontFamily, para.FontSize)
}

func (w *uniofficeWriter) writeCodeBlock(doc *document.Document, el CodeBlock, para paragraphFormat) {
	for _, line := range el.Lines {
		p := doc.AddParagraph()
		setLineSpacing(p.Properties(), 1)
		w.writeRuns(p, []TextRun{line}, para.FontFamily, para.FontSize)
	}
}

func (w *uniofficeWriter) writeListItem(doc *document.Document, el ListItem, para paragraphFormat) {
	p := doc.AddParagraph()
	pp := p.Properties()
	setLineSpacing(pp, para.LineHeight)

	// Hanging indent proportional to nesting level so wrapped lines
	// align under the item text, not the marker.
	left := int64(el.Level+1) * listIndentTwip
	pp.X().Ind = &wml.CT_Ind{
		LeftAttr:    twipsSigned(left),
		HangingAttr: twipsUnsigned(uint64(listIndentTwip)),
	}

	marker := runStyle{Font: para.FontFamily, Size: para.FontSize}.run(el.Prefix)
	w.writeRuns(p, append([]TextRun{marker}, el.Runs...), para.FontFamily, para.FontSize)
}

func (w *uniofficeWriter) writeTable(doc *document.Document, el Table, para paragraphFormat) {
	tbl := doc.AddTable()
	tbl.Properties().SetWidthPercent(100)
	tbl.Properties().Borders().SetAll(wml.ST_BorderSingle, color.Auto, 0.5*measurement.Point)

	if len(el.HeaderCells) > 0 {
		row := tbl.AddRow()
		for _, cell := range el.HeaderCells {
			c := row.AddCell()
			c.Properties().SetShading(wml.ST_ShdClear, color.Auto, color.LightGray)
			p := c.AddParagraph()
			p.Properties().SetAlignment(wml.ST_JcCenter)
			w.writeRuns(p, cell.Runs, para.FontFamily, para.FontSize)
		}
	}
	for _, cells := range el.BodyRows {
		row := tbl.AddRow()
		for _, cell := range cells {
			c := row.AddCell()
			p := c.AddParagraph()
			w.writeRuns(p, cell.Runs, para.FontFamily, para.FontSize)
		}
	}
}

// writeRule emits an empty paragraph carrying only a bottom border.
func (w *uniofficeWriter) writeRule(doc *document.Document) {
	p := doc.AddParagraph()
	ppr := p.Properties().X()
	ppr.PBdr = wml.NewCT_PBdr()
	ppr.PBdr.Bottom = singleBorder()
}

// writeImage embeds resolved image bytes centered in a fixed display
// box. The bytes stay in memory; the package is only materialized at
// Save time, so nothing on disk may be reclaimed before then.
func (w *uniofficeWriter) writeImage(doc *document.Document, el Image, para paragraphFormat) {
	img, err := common.ImageFromBytes(el.Data)
	if err == nil {
		var ref common.ImageRef
		ref, err = doc.AddImage(img)
		if err == nil {
			p := doc.AddParagraph()
			p.Properties().SetAlignment(wml.ST_JcCenter)
			var inline document.InlineDrawing
			inline, err = p.AddRun().AddDrawingInline(ref)
			if err == nil {
				inline.SetSize(
					measurement.Distance(el.WidthPx)*measurement.Pixel96,
					measurement.Distance(el.HeightPx)*measurement.Pixel96,
				)
				return
			}
		}
	}
	// Degrade to a placeholder rather than failing the pass.
	w.logger.Warn("embedding image failed, substituting placeholder", zap.Error(err))
	w.writePlaceholder(doc, ImagePlaceholder{AltText: "image"}, para)
}

func (w *uniofficeWriter) writePlaceholder(doc *document.Document, el ImagePlaceholder, para paragraphFormat) {
	p := doc.AddParagraph()
	p.Properties().SetAlignment(wml.ST_JcCenter)

	text := "[image"
	if el.AltText != "" {
		text += ": " + el.AltText
	}
	if el.OriginalRef != "" {
		text += " (" + el.OriginalRef + ")"
	}
	text += "]"

	st := runStyle{Font: para.FontFamily, Size: para.FontSize, Italic: true, Color: quoteColor}
	w.writeRuns(p, []TextRun{st.run(text)}, para.FontFamily, para.FontSize)
}

func (w *uniofficeWriter) writeRawText(doc *document.Document, el RawText, para paragraphFormat) {
	p := doc.AddParagraph()
	pp := p.Properties()
	pp.Spacing().SetAfter(measurement.Distance(para.SpacingAfter) * measurement.Point)
	setLineSpacing(pp, para.LineHeight)
	w.writeRuns(p, el.Runs, para.FontFamily, para.FontSize)
}

// writeRuns appends runs to a paragraph, falling back to the block
// font/size when a run has no override.
func (w *uniofficeWriter) writeRuns(p document.Paragraph, runs []TextRun, font string, size float64) {
	for _, run := range runs {
		r := p.AddRun()
		if run.IsBreak {
			r.AddBreak()
			continue
		}
		r.AddText(run.Text)

		props := r.Properties()
		f := run.Font
		if f == "" {
			f = font
		}
		props.SetFontFamily(f)

		sz := run.Size
		if sz == 0 {
			sz = size
		}
		props.SetSize(measurement.Distance(sz) * measurement.Point)

		if run.Bold {
			props.SetBold(true)
		}
		if run.Italic {
			props.SetItalic(true)
		}
		if run.Strike {
			props.SetStrikeThrough(true)
		}
		if run.Underline {
			props.SetUnderline(wml.ST_UnderlineSingle, color.FromHex(linkColor))
		}
		if run.Color != "" {
			props.SetColor(color.FromHex(run.Color))
		}
		if run.Shaded {
			props.SetHighlight(wml.ST_HighlightColorLightGray)
		}
	}
}

// singleBorder builds a thin single border for paragraph edges.
func singleBorder() *wml.CT_Border {
	b := wml.NewCT_Border()
	b.ValAttr = wml.ST_BorderSingle
	sz := uint64(borderEighthPt)
	space := uint64(1)
	b.SzAttr = &sz
	b.SpaceAttr = &space
	return b
}

// twipsSigned wraps a signed twips value for WML indent attributes.
func twipsSigned(v int64) *wml.ST_SignedTwipsMeasure {
	return &wml.ST_SignedTwipsMeasure{Int64: &v}
}

// twipsUnsigned wraps an unsigned twips value for WML indent attributes.
func twipsUnsigned(v uint64) *sharedTypes.ST_TwipsMeasure {
	return &sharedTypes.ST_TwipsMeasure{ST_UnsignedDecimalNumber: &v}
}
