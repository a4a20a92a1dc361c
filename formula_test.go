package md2doc

import "testing"

func TestTranscodeFormula(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "greek letter with superscript",
			input:    `\alpha^2`,
			expected: "α²",
		},
		{
			name:     "fraction flattens to division",
			input:    `\frac{1}{2}`,
			expected: "(1/2)",
		},
		{
			name:     "braced subscript",
			input:    `x_{1}`,
			expected: "x₁",
		},
		{
			name:     "bare subscript",
			input:    `a_n`,
			expected: "aₙ",
		},
		{
			name:     "braced superscript run",
			input:    `x^{10}`,
			expected: "x¹⁰",
		},
		{
			name:     "square root",
			input:    `\sqrt{x^2 + y^2}`,
			expected: "√(x² + y²)",
		},
		{
			name:     "relations and operators",
			input:    `a \leq b \times c \neq d`,
			expected: "a ≤ b × c ≠ d",
		},
		{
			name:     "arrow and infinity",
			input:    `n \to \infty`,
			expected: "n → ∞",
		},
		{
			name:     "text wrapper stripped",
			input:    `\text{speed} = v`,
			expected: "speed = v",
		},
		{
			name:     "mathbf wrapper stripped",
			input:    `\mathbf{F} = ma`,
			expected: "F = ma",
		},
		{
			name:     "remaining braces stripped",
			input:    `{a}{b}`,
			expected: "ab",
		},
		{
			name:     "whitespace collapsed and trimmed",
			input:    "  a   +   b  ",
			expected: "a + b",
		},
		{
			name:     "unrecognized command passes through",
			input:    `\unknown`,
			expected: `\unknown`,
		},
		{
			name:     "unmapped superscript char passes through",
			input:    `x^@`,
			expected: "x@",
		},
		{
			name:     "sum with sub and superscript",
			input:    `\sum_{i=1}^{n} i`,
			expected: "∑ᵢ₌₁ⁿ i",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := TranscodeFormula(tt.input)
			if got != tt.expected {
				t.Errorf("TranscodeFormula(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTranscodeFormulaDeterministic(t *testing.T) {
	t.Parallel()

	input := `\frac{\alpha^2}{\beta_1}`
	first := TranscodeFormula(input)
	second := TranscodeFormula(input)
	if first != second {
		t.Errorf("TranscodeFormula not deterministic: %q vs %q", first, second)
	}
}
