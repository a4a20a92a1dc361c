package md2doc

import (
	"fmt"
	"strings"
)

// buildStyleCSS renders the resolved style sheet as CSS so one
// StyleSheet drives both the docx and pdf targets. Character-count
// first-line indents translate to em units.
func buildStyleCSS(sheet *StyleSheet) string {
	para := resolveParagraph(sheet)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(
		"body { font-family: %q, serif; font-size: %.4gpt; line-height: %.4g; }\n",
		para.FontFamily, para.FontSize, para.LineHeight,
	))
	sb.WriteString(fmt.Sprintf(
		"p { margin: 0 0 %.4gpt 0; text-indent: %.4gem; }\n",
		para.SpacingAfter, para.FirstLineIndent,
	))

	for depth := 1; depth <= 4; depth++ {
		h := resolveHeading(sheet, depth)
		sb.WriteString(fmt.Sprintf(
			"h%d { font-family: %q, serif; font-size: %.4gpt; line-height: %.4g; text-align: %s; margin: %.4gpt 0 %.4gpt 0; }\n",
			depth, h.FontFamily, h.FontSize, h.LineHeight, cssAlignment(h.Alignment), h.SpacingBefore, h.SpacingAfter,
		))
	}

	// Deeper headings clamp to the depth-4 style.
	h4 := resolveHeading(sheet, 4)
	sb.WriteString(fmt.Sprintf(
		"h5, h6 { font-family: %q, serif; font-size: %.4gpt; text-align: %s; }\n",
		h4.FontFamily, h4.FontSize, cssAlignment(h4.Alignment),
	))

	sb.WriteString("blockquote { border-left: 3px solid #ccc; margin-left: 0; padding-left: 1em; color: #" + quoteColor + "; font-style: italic; }\n")
	sb.WriteString("code, pre { font-family: " + codeFont + ", monospace; background: #f2f2f2; }\n")
	sb.WriteString("table { border-collapse: collapse; width: 100%; }\n")
	sb.WriteString("th, td { border: 1px solid #999; padding: 4px 8px; }\n")
	sb.WriteString("th { background: #d9d9d9; text-align: center; }\n")
	sb.WriteString("img { display: block; margin: 0 auto; max-width: 400px; max-height: 300px; }\n")
	sb.WriteString("a { color: #" + linkColor + "; }\n")
	return sb.String()
}

// cssAlignment maps the alignment enum to a CSS text-align value.
func cssAlignment(a string) string {
	if a == AlignJustify {
		return "justify"
	}
	if a == "" {
		return AlignLeft
	}
	return a
}
