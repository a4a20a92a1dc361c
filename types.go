package md2doc

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Output format constants.
const (
	FormatDocx     = "docx"
	FormatPDF      = "pdf"
	FormatMarkdown = "md"
)

// Input contains conversion parameters.
type Input struct {
	Markdown   string      // Markdown content (required)
	Format     string      // "docx", "pdf", or "md" (required)
	OutputPath string      // Destination file (optional, empty = buffer only)
	Style      *StyleSheet // Style overrides (optional, nil = defaults)
}

// Result holds the output of a conversion.
type Result struct {
	Path   string // Written file path, empty when no OutputPath was given
	Buffer []byte // Output bytes, always populated
}

// isValidFormat checks if format is a known output format.
func isValidFormat(format string) bool {
	switch format {
	case FormatDocx, FormatPDF, FormatMarkdown:
		return true
	}
	return false
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout      time.Duration // overall PDF rendering timeout
	fetchTimeout time.Duration // per remote image fetch
	assetRoot    string        // local asset store root
	httpClient   *http.Client
}

// Default timeouts.
const (
	defaultTimeout      = 30 * time.Second
	defaultFetchTimeout = 10 * time.Second
)

// WithTimeout sets the PDF conversion timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("md2doc: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithFetchTimeout sets the per-fetch timeout for remote images.
// On expiry the fetch counts as a failure and the image degrades to a
// placeholder. Panics if d <= 0.
func WithFetchTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("md2doc: WithFetchTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.fetchTimeout = d
	}
}

// WithAssetRoot sets the local asset store root directory used to
// resolve mdasset:// and assets/images/ references.
func WithAssetRoot(dir string) Option {
	return func(s *Service) {
		s.cfg.assetRoot = dir
	}
}

// WithHTTPClient sets the client used for remote image fetches.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) {
		s.cfg.httpClient = c
	}
}

// WithLogger sets the structured logger. Defaults to zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// validateInput checks that required fields are present and valid.
func validateInput(input Input) error {
	if input.Markdown == "" {
		return ErrEmptyMarkdown
	}
	if !isValidFormat(input.Format) {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, input.Format)
	}
	if err := input.Style.Validate(); err != nil {
		return err
	}
	return nil
}
