package md2doc

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown     = errors.New("markdown content cannot be empty")
	ErrUnsupportedFormat = errors.New("unsupported output format")

	// Stage tags for fatal conversion failures.
	ErrWordConversion = errors.New("word conversion failed")
	ErrPDFConversion  = errors.New("pdf conversion failed")
	ErrWriteOutput    = errors.New("writing output failed")

	// HTML/PDF rendering errors (pdf target).
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Image resolution errors. These never escape a conversion pass;
	// the block builder degrades them to placeholder elements.
	ErrImageNotFound = errors.New("image not found")
	ErrImageFetch    = errors.New("image fetch failed")
	ErrNotAnImage    = errors.New("resolved bytes are not an image")

	// Style sheet validation errors.
	ErrInvalidStyleValue = errors.New("invalid style value")
	ErrInvalidAlignment  = errors.New("invalid alignment")
	ErrStyleSheetParse   = errors.New("failed to parse style sheet")
)
