package main

import (
	"errors"
	"os"

	md2doc "github.com/alnah/go-md2doc"
)

// Exit codes for the md2doc CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, style sheet, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// Sentinel errors for CLI I/O operations.
var (
	ErrNoInput      = errors.New("no input files given")
	ErrReadMarkdown = errors.New("failed to read markdown file")
	ErrMultiOutput  = errors.New("--output requires exactly one input file")
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, md2doc.ErrBrowserConnect) ||
		errors.Is(err, md2doc.ErrPageCreate) ||
		errors.Is(err, md2doc.ErrPageLoad) ||
		errors.Is(err, md2doc.ErrPDFGeneration) ||
		errors.Is(err, md2doc.ErrPDFConversion) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, md2doc.ErrWriteOutput) {
		return ExitIO
	}

	// Usage/validation errors (exit 2)
	if errors.Is(err, ErrMultiOutput) ||
		errors.Is(err, md2doc.ErrEmptyMarkdown) ||
		errors.Is(err, md2doc.ErrUnsupportedFormat) ||
		errors.Is(err, md2doc.ErrInvalidStyleValue) ||
		errors.Is(err, md2doc.ErrInvalidAlignment) ||
		errors.Is(err, md2doc.ErrStyleSheetParse) {
		return ExitUsage
	}

	return ExitGeneral
}
