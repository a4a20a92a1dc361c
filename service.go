package md2doc

import (
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"github.com/alnah/go-md2doc/internal/assetstore"
	"github.com/alnah/go-md2doc/internal/fileutil"
)

// appName names the per-user asset directory
// (<user documents>/md2doc_Assets/images/).
const appName = "md2doc"

// outputFileMode is the permission for written output files.
const outputFileMode = 0o644

// Service orchestrates the markdown conversion pipeline. One Convert
// call owns its own image cache and element sequence; no mutable state
// crosses conversion passes.
type Service struct {
	cfg    serviceConfig
	logger *zap.Logger

	lexer         goldmark.Markdown
	preprocessor  markdownPreprocessor
	htmlConverter htmlConverter
	cssInjector   cssInjector
	pdfConverter  pdfConverter
	docxWriter    docxWriter
	resolver      imageResolver
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithAssetRoot).
func New(opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{
			timeout:      defaultTimeout,
			fetchTimeout: defaultFetchTimeout,
		},
		logger:        zap.NewNop(),
		lexer:         newMarkdownLexer(),
		preprocessor:  &commonMarkPreprocessor{},
		htmlConverter: newGoldmarkConverter(),
		cssInjector:   &cssInjection{},
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.cfg.assetRoot == "" {
		// Best effort; an unresolvable home directory just means asset
		// references degrade to placeholders.
		if root, err := assetstore.DefaultRoot(appName); err == nil {
			s.cfg.assetRoot = root
		}
	}

	// Create collaborators if not injected (e.g., by tests)
	if s.resolver == nil {
		s.resolver = newAssetImageResolver(s.cfg.assetRoot, s.cfg.httpClient, s.cfg.fetchTimeout, s.logger)
	}
	if s.docxWriter == nil {
		s.docxWriter = newUniofficeWriter(s.logger)
	}
	if s.pdfConverter == nil {
		s.pdfConverter = newRodConverter(s.cfg.timeout)
	}

	return s
}

// Convert runs the pipeline for the requested format. The result always
// carries the output bytes; a file is written only when
// input.OutputPath is set. Callers get either a success result or a
// single descriptive error; internal degradation (image placeholders,
// malformed tokens) never surfaces as partial failure.
func (s *Service) Convert(ctx context.Context, input Input) (*Result, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var (
		buf []byte
		err error
	)
	switch input.Format {
	case FormatMarkdown:
		// Pass-through: byte-identical to the input.
		buf = []byte(input.Markdown)
	case FormatDocx:
		buf, err = s.convertWord(ctx, input)
	case FormatPDF:
		buf, err = s.convertPDF(ctx, input)
	}
	if err != nil {
		return nil, err
	}

	result := &Result{Buffer: buf}
	if input.OutputPath != "" {
		if err := fileutil.AtomicWriteFile(input.OutputPath, buf, outputFileMode); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		result.Path = input.OutputPath
	}
	return result, nil
}

// convertWord builds the document model and serializes it to an OOXML
// package. Two phases: first every distinct image reference in the
// token tree is resolved concurrently into the pass-scoped cache, then
// block construction walks the tree against the warm cache.
func (s *Service) convertWord(ctx context.Context, input Input) ([]byte, error) {
	content := s.preprocessor.PreprocessMarkdown(ctx, input.Markdown)
	source := []byte(content)
	doc := parseMarkdown(s.lexer, source)

	cache := newImageCache(s.resolver)
	refs := collectImageRefs(doc, source)
	if len(refs) > 0 {
		s.logger.Debug("pre-resolving images", zap.Int("count", len(refs)))
		cache.Warm(ctx, refs)
	}

	builder := newBlockBuilder(source, input.Style, cache, s.logger)
	elements, err := builder.Build(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWordConversion, err)
	}

	data, err := s.docxWriter.Write(ctx, elements, input.Style)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWordConversion, err)
	}
	return data, nil
}

// convertPDF renders through the HTML route: goldmark HTML with the
// style sheet injected as CSS, paginated by headless Chrome.
func (s *Service) convertPDF(ctx context.Context, input Input) ([]byte, error) {
	content := s.preprocessor.PreprocessMarkdown(ctx, input.Markdown)
	content = rewriteAssetRefs(content, s.cfg.assetRoot)

	htmlContent, err := s.htmlConverter.ToHTML(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFConversion, err)
	}
	htmlContent = s.cssInjector.InjectCSS(ctx, htmlContent, buildStyleCSS(input.Style))

	pdfBytes, err := s.pdfConverter.ToPDF(ctx, htmlContent)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFConversion, err)
	}
	return pdfBytes, nil
}

// Close releases resources (headless Chrome browser).
func (s *Service) Close() error {
	if s.pdfConverter != nil {
		return s.pdfConverter.Close()
	}
	return nil
}
