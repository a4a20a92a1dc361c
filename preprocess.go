package md2doc

import (
	"context"
	"regexp"
)

// markdownPreprocessor normalizes raw markdown before conversion.
type markdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
)

// commonMarkPreprocessor normalizes line endings and compresses blank
// line runs. The md pass-through target bypasses preprocessing entirely
// so round-trip identity holds.
type commonMarkPreprocessor struct{}

// PreprocessMarkdown normalizes content for the docx and pdf targets.
// A cancelled context returns the content untouched.
func (p *commonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}
	content = crlfOrCR.ReplaceAllString(content, "\n")
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}
