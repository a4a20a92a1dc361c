package md2doc

import (
	"bytes"
	"context"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// htmlConverter abstracts Markdown to HTML conversion for the pdf path.
type htmlConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// goldmarkConverter renders Markdown to a standalone HTML5 document.
// This is the full renderer for the pdf route; the docx route uses only
// the parser (see newMarkdownLexer).
type goldmarkConverter struct {
	md goldmark.Markdown
}

func newGoldmarkConverter() *goldmarkConverter {
	return &goldmarkConverter{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Footnote,
				highlighting.NewHighlighting(
					// Classes instead of inline styles so the injected
					// stylesheet keeps control over code colors.
					highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
				),
			),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
				html.WithXHTML(),
				// The input is locally generated and rendered in a
				// controlled headless browser. Without this the renderer
				// blanks the file:// srcs the asset rewrite produces.
				html.WithUnsafe(),
			),
		),
	}
}

// ToHTML renders content into a complete HTML document. Goldmark has no
// context support, so rendering runs in a goroutine and the select
// races it against cancellation.
func (c *goldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type rendered struct {
		html string
		err  error
	}
	out := make(chan rendered, 1)

	go func() {
		var body bytes.Buffer
		if err := c.md.Convert([]byte(content), &body); err != nil {
			out <- rendered{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		out <- rendered{html: wrapHTMLDocument(body.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-out:
		return r.html, r.err
	}
}

// wrapHTMLDocument embeds a rendered fragment in a minimal HTML5 shell.
// The empty head is the anchor point for CSS injection.
func wrapHTMLDocument(fragment string) string {
	return `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Document</title>
</head>
<body>
` + fragment + `
</body>
</html>`
}
