// Package md2doc converts Markdown documents to Word (.docx), PDF, or
// plain Markdown output.
//
// # Quick Start
//
// Create a service, convert markdown, and close when done:
//
//	svc := md2doc.New()
//	defer svc.Close()
//
//	result, err := svc.Convert(ctx, md2doc.Input{
//	    Markdown:   "# Hello\n\nWorld",
//	    Format:     md2doc.FormatDocx,
//	    OutputPath: "output.docx",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The result always carries the output bytes (result.Buffer); a file is
// written only when Input.OutputPath is set.
//
// # Conversion Pipeline
//
// The docx target builds a structured document model:
//
//  1. Markdown preprocessing (line normalization)
//  2. Lexing into a token tree via Goldmark (GFM)
//  3. Concurrent image pre-resolution (local assets, paths, remote URLs)
//  4. Block element construction (headings, paragraphs, lists, tables,
//     code blocks, images) with styled inline runs
//  5. OOXML package serialization via unioffice
//
// The pdf target reuses the HTML route: Goldmark renders HTML with GFM
// and syntax highlighting, the style sheet is injected as CSS, and
// headless Chrome (go-rod) paginates the result.
//
// The md target is a byte-identical pass-through.
//
// # Style Sheets
//
// A StyleSheet controls fonts, sizes, spacing, and alignment per block
// kind (paragraph plus heading depths 1-4; deeper headings clamp to 4).
// Unset fields fall back per field to built-in defaults:
//
//	result, err := svc.Convert(ctx, md2doc.Input{
//	    Markdown: content,
//	    Format:   md2doc.FormatDocx,
//	    Style: &md2doc.StyleSheet{
//	        Paragraph: &md2doc.ParagraphStyle{FontSize: 14},
//	    },
//	})
//
// Style sheets can also be loaded from YAML files with LoadStyleSheet.
//
// # Inline Formulas
//
// LaTeX-like math inside $...$ or $$...$$ is transcoded to a best-effort
// Unicode approximation (TranscodeFormula is also exported standalone for
// live-preview use). This is display-only: nested fractions and
// multi-level sub/superscripts cannot be represented faithfully.
//
// # Parallel Processing
//
// For batch conversion, use ServicePool to bound concurrent browser
// instances:
//
//	pool := md2doc.NewServicePool(4)
//	defer pool.Close()
//
//	svc := pool.Acquire()
//	defer pool.Release(svc)
//
// # Browser Requirements
//
// The pdf target requires Chrome/Chromium; go-rod downloads a managed
// Chromium on first run. Set ROD_BROWSER_BIN to use a pre-installed
// binary (containers, CI); the sandbox is disabled automatically when
// that variable or CI=true is set.
package md2doc
