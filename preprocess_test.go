package md2doc

import (
	"context"
	"testing"
)

func TestPreprocessMarkdown(t *testing.T) {
	t.Parallel()

	p := &commonMarkPreprocessor{}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "crlf normalized",
			input:    "a\r\nb\r\nc",
			expected: "a\nb\nc",
		},
		{
			name:     "bare cr normalized",
			input:    "a\rb",
			expected: "a\nb",
		},
		{
			name:     "blank lines compressed to two",
			input:    "a\n\n\n\n\nb",
			expected: "a\n\nb",
		},
		{
			name:     "double blank preserved",
			input:    "a\n\nb",
			expected: "a\n\nb",
		},
		{
			name:     "mixed endings and excess blanks",
			input:    "a\r\n\r\n\r\n\r\nb",
			expected: "a\n\nb",
		},
		{
			name:     "clean input untouched",
			input:    "# Title\n\nbody",
			expected: "# Title\n\nbody",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := p.PreprocessMarkdown(context.Background(), tt.input)
			if got != tt.expected {
				t.Errorf("PreprocessMarkdown(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestPreprocessMarkdownCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &commonMarkPreprocessor{}
	input := "a\r\nb"
	if got := p.PreprocessMarkdown(ctx, input); got != input {
		t.Errorf("cancelled preprocess modified content: %q", got)
	}
}
