package md2doc

import (
	"fmt"
	"os"

	"github.com/alnah/go-md2doc/internal/yamlutil"
)

// Alignment values for heading styles.
const (
	AlignLeft    = "left"
	AlignCenter  = "center"
	AlignRight   = "right"
	AlignJustify = "justify"
)

// isValidAlignment checks alignment against the closed enum.
// Empty means "unset" and is valid (falls back to the default).
func isValidAlignment(a string) bool {
	switch a {
	case "", AlignLeft, AlignCenter, AlignRight, AlignJustify:
		return true
	}
	return false
}

// ParagraphStyle configures body paragraphs. Zero-valued fields fall
// back to built-in defaults field by field; fields where zero is a
// meaningful value are pointers.
type ParagraphStyle struct {
	FontFamily      string   `yaml:"fontFamily"`      // empty = default
	FontSize        float64  `yaml:"fontSize"`        // points, 0 = default
	LineHeight      float64  `yaml:"lineHeight"`      // multiplier, 0 = default
	SpacingAfter    *float64 `yaml:"spacingAfter"`    // points, nil = default
	FirstLineIndent *float64 `yaml:"firstLineIndent"` // character count, nil = default
}

// HeadingStyle configures one heading depth.
type HeadingStyle struct {
	FontFamily    string   `yaml:"fontFamily"`
	FontSize      float64  `yaml:"fontSize"`
	LineHeight    float64  `yaml:"lineHeight"`
	Alignment     string   `yaml:"alignment"` // left, center, right, justify
	SpacingBefore *float64 `yaml:"spacingBefore"`
	SpacingAfter  *float64 `yaml:"spacingAfter"`
}

// StyleSheet holds style overrides per block kind: one paragraph slot
// and four heading slots for depths 1-4. Heading depths greater than 4
// clamp to 4. A nil StyleSheet or nil slot means all defaults.
type StyleSheet struct {
	Paragraph *ParagraphStyle `yaml:"paragraph"`
	Heading1  *HeadingStyle   `yaml:"heading1"`
	Heading2  *HeadingStyle   `yaml:"heading2"`
	Heading3  *HeadingStyle   `yaml:"heading3"`
	Heading4  *HeadingStyle   `yaml:"heading4"`
}

// heading returns the override slot for a clamped depth, or nil.
func (s *StyleSheet) heading(depth int) *HeadingStyle {
	if s == nil {
		return nil
	}
	switch clampHeadingDepth(depth) {
	case 1:
		return s.Heading1
	case 2:
		return s.Heading2
	case 3:
		return s.Heading3
	default:
		return s.Heading4
	}
}

// clampHeadingDepth clamps a heading depth to the supported 1-4 range.
func clampHeadingDepth(depth int) int {
	if depth < 1 {
		return 1
	}
	if depth > 4 {
		return 4
	}
	return depth
}

// Validate checks that all numeric fields are non-negative and that
// alignments belong to the closed enum. Returns nil if s is nil.
func (s *StyleSheet) Validate() error {
	if s == nil {
		return nil
	}
	if p := s.Paragraph; p != nil {
		if err := validateNonNegative("paragraph", p.FontSize, p.LineHeight, p.SpacingAfter, p.FirstLineIndent); err != nil {
			return err
		}
	}
	for depth := 1; depth <= 4; depth++ {
		h := s.heading(depth)
		if h == nil {
			continue
		}
		name := fmt.Sprintf("heading%d", depth)
		if err := validateNonNegative(name, h.FontSize, h.LineHeight, h.SpacingBefore, h.SpacingAfter); err != nil {
			return err
		}
		if !isValidAlignment(h.Alignment) {
			return fmt.Errorf("%w: %s: %q", ErrInvalidAlignment, name, h.Alignment)
		}
	}
	return nil
}

// validateNonNegative rejects negative numeric style fields. Values may
// be float64 or *float64 (nil pointers are skipped).
func validateNonNegative(block string, values ...any) error {
	for _, v := range values {
		switch n := v.(type) {
		case float64:
			if n < 0 {
				return fmt.Errorf("%w: %s: negative value %.2f", ErrInvalidStyleValue, block, n)
			}
		case *float64:
			if n != nil && *n < 0 {
				return fmt.Errorf("%w: %s: negative value %.2f", ErrInvalidStyleValue, block, *n)
			}
		}
	}
	return nil
}

// paragraphFormat is a fully resolved paragraph style; every field set.
type paragraphFormat struct {
	FontFamily      string
	FontSize        float64
	LineHeight      float64
	SpacingAfter    float64
	FirstLineIndent float64
}

// headingFormat is a fully resolved heading style.
type headingFormat struct {
	FontFamily    string
	FontSize      float64
	LineHeight    float64
	Alignment     string
	SpacingBefore float64
	SpacingAfter  float64
}

// Built-in defaults used when a style field is unset.
var defaultParagraphFormat = paragraphFormat{
	FontFamily:      "Times New Roman",
	FontSize:        12,
	LineHeight:      1.5,
	SpacingAfter:    8,
	FirstLineIndent: 2,
}

var defaultHeadingFormats = [4]headingFormat{
	{FontFamily: "Times New Roman", FontSize: 22, LineHeight: 1.5, Alignment: AlignCenter, SpacingBefore: 12, SpacingAfter: 12},
	{FontFamily: "Times New Roman", FontSize: 18, LineHeight: 1.5, Alignment: AlignLeft, SpacingBefore: 10, SpacingAfter: 6},
	{FontFamily: "Times New Roman", FontSize: 15, LineHeight: 1.5, Alignment: AlignLeft, SpacingBefore: 8, SpacingAfter: 4},
	{FontFamily: "Times New Roman", FontSize: 13, LineHeight: 1.5, Alignment: AlignLeft, SpacingBefore: 6, SpacingAfter: 4},
}

// resolveParagraph merges the paragraph override with built-in defaults
// field by field. Pure; safe for concurrent conversion passes.
func resolveParagraph(s *StyleSheet) paragraphFormat {
	f := defaultParagraphFormat
	if s == nil || s.Paragraph == nil {
		return f
	}
	p := s.Paragraph
	if p.FontFamily != "" {
		f.FontFamily = p.FontFamily
	}
	if p.FontSize > 0 {
		f.FontSize = p.FontSize
	}
	if p.LineHeight > 0 {
		f.LineHeight = p.LineHeight
	}
	if p.SpacingAfter != nil {
		f.SpacingAfter = *p.SpacingAfter
	}
	if p.FirstLineIndent != nil {
		f.FirstLineIndent = *p.FirstLineIndent
	}
	return f
}

// resolveHeading merges the heading override for the clamped depth with
// built-in defaults field by field.
func resolveHeading(s *StyleSheet, depth int) headingFormat {
	f := defaultHeadingFormats[clampHeadingDepth(depth)-1]
	h := s.heading(depth)
	if h == nil {
		return f
	}
	if h.FontFamily != "" {
		f.FontFamily = h.FontFamily
	}
	if h.FontSize > 0 {
		f.FontSize = h.FontSize
	}
	if h.LineHeight > 0 {
		f.LineHeight = h.LineHeight
	}
	if h.Alignment != "" {
		f.Alignment = h.Alignment
	}
	if h.SpacingBefore != nil {
		f.SpacingBefore = *h.SpacingBefore
	}
	if h.SpacingAfter != nil {
		f.SpacingAfter = *h.SpacingAfter
	}
	return f
}

// LoadStyleSheet reads a YAML style sheet from path. Unknown fields are
// rejected so typos surface instead of silently falling back.
func LoadStyleSheet(path string) (*StyleSheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading style sheet: %w", err)
	}
	var sheet StyleSheet
	if err := yamlutil.UnmarshalStrict(data, &sheet); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStyleSheetParse, err)
	}
	if err := sheet.Validate(); err != nil {
		return nil, err
	}
	return &sheet, nil
}
