package md2doc

import (
	"regexp"
	"strings"
)

// TranscodeFormula rewrites LaTeX-like math markup into a Unicode
// approximation suitable for targets without native TeX rendering.
//
// This is a display-only approximation, not a math renderer: nested
// fractions and multi-level sub/superscripts cannot be represented
// faithfully. Output is best-effort Unicode; unrecognized commands pass
// through verbatim.
//
// The function is pure and deterministic but not idempotent: output
// may still contain characters that coincidentally match input patterns
// on a second pass.
func TranscodeFormula(latex string) string {
	s := latex

	// Order matters: later steps assume earlier normalization.
	s = substituteCommands(s)
	s = expandSuperscripts(s)
	s = expandSubscripts(s)
	s = flattenFractions(s)
	s = flattenRoots(s)
	s = stripWrappers(s)
	s = stripBraces(s)
	s = collapseWhitespace(s)

	return s
}

// Precompiled regex patterns for formula transcoding.
var (
	commandPattern     = regexp.MustCompile(`\\[a-zA-Z]+`)
	superscriptPattern = regexp.MustCompile(`\^\{([^{}]*)\}|\^(.)`)
	subscriptPattern   = regexp.MustCompile(`_\{([^{}]*)\}|_(.)`)
	fractionPattern    = regexp.MustCompile(`\\frac\{([^{}]*)\}\{([^{}]*)\}`)
	rootPattern        = regexp.MustCompile(`\\sqrt\{([^{}]*)\}`)
	wrapperPattern     = regexp.MustCompile(`\\(?:text|mathrm|mathbf|mathit|operatorname)\{([^{}]*)\}`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
)

// latexCommands maps exact backslash commands to Unicode characters.
// Exact match on the full command; no longest-match ordering needed.
var latexCommands = map[string]string{
	// Greek lowercase
	`\alpha`: "α", `\beta`: "β", `\gamma`: "γ", `\delta`: "δ",
	`\epsilon`: "ε", `\varepsilon`: "ε", `\zeta`: "ζ", `\eta`: "η",
	`\theta`: "θ", `\vartheta`: "ϑ", `\iota`: "ι", `\kappa`: "κ",
	`\lambda`: "λ", `\mu`: "μ", `\nu`: "ν", `\xi`: "ξ",
	`\pi`: "π", `\rho`: "ρ", `\sigma`: "σ", `\tau`: "τ",
	`\upsilon`: "υ", `\phi`: "φ", `\varphi`: "φ", `\chi`: "χ",
	`\psi`: "ψ", `\omega`: "ω",
	// Greek uppercase
	`\Gamma`: "Γ", `\Delta`: "Δ", `\Theta`: "Θ", `\Lambda`: "Λ",
	`\Xi`: "Ξ", `\Pi`: "Π", `\Sigma`: "Σ", `\Upsilon`: "Υ",
	`\Phi`: "Φ", `\Psi`: "Ψ", `\Omega`: "Ω",
	// Operators
	`\times`: "×", `\div`: "÷", `\pm`: "±", `\mp`: "∓",
	`\cdot`: "·", `\ast`: "∗", `\sum`: "∑", `\prod`: "∏",
	`\int`: "∫", `\oint`: "∮", `\partial`: "∂", `\nabla`: "∇",
	`\infty`: "∞", `\degree`: "°", `\circ`: "∘",
	// Relations
	`\leq`: "≤", `\le`: "≤", `\geq`: "≥", `\ge`: "≥",
	`\neq`: "≠", `\ne`: "≠", `\approx`: "≈", `\equiv`: "≡",
	`\sim`: "∼", `\simeq`: "≃", `\propto`: "∝",
	`\ll`: "≪", `\gg`: "≫",
	// Sets and logic
	`\in`: "∈", `\notin`: "∉", `\subset`: "⊂", `\supset`: "⊃",
	`\subseteq`: "⊆", `\supseteq`: "⊇", `\cup`: "∪", `\cap`: "∩",
	`\emptyset`: "∅", `\varnothing`: "∅",
	`\forall`: "∀", `\exists`: "∃", `\neg`: "¬",
	`\land`: "∧", `\wedge`: "∧", `\lor`: "∨", `\vee`: "∨",
	`\perp`: "⊥", `\parallel`: "∥", `\angle`: "∠",
	// Arrows
	`\rightarrow`: "→", `\to`: "→", `\leftarrow`: "←",
	`\Rightarrow`: "⇒", `\Leftarrow`: "⇐",
	`\leftrightarrow`: "↔", `\Leftrightarrow`: "⇔",
	`\uparrow`: "↑", `\downarrow`: "↓", `\mapsto`: "↦",
	// Ellipses
	`\cdots`: "⋯", `\ldots`: "…", `\dots`: "…", `\vdots`: "⋮",
	// Sizing commands carry no content; strip them.
	`\left`: "", `\right`: "", `\big`: "", `\Big`: "",
}

// superscriptGlyphs maps characters to their superscript forms.
var superscriptGlyphs = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴',
	'5': '⁵', '6': '⁶', '7': '⁷', '8': '⁸', '9': '⁹',
	'+': '⁺', '-': '⁻', '=': '⁼', '(': '⁽', ')': '⁾',
	'a': 'ᵃ', 'b': 'ᵇ', 'c': 'ᶜ', 'd': 'ᵈ', 'e': 'ᵉ',
	'f': 'ᶠ', 'g': 'ᵍ', 'h': 'ʰ', 'i': 'ⁱ', 'j': 'ʲ',
	'k': 'ᵏ', 'l': 'ˡ', 'm': 'ᵐ', 'n': 'ⁿ', 'o': 'ᵒ',
	'p': 'ᵖ', 'r': 'ʳ', 's': 'ˢ', 't': 'ᵗ', 'u': 'ᵘ',
	'v': 'ᵛ', 'w': 'ʷ', 'x': 'ˣ', 'y': 'ʸ', 'z': 'ᶻ',
}

// subscriptGlyphs maps characters to their subscript forms.
var subscriptGlyphs = map[rune]rune{
	'0': '₀', '1': '₁', '2': '₂', '3': '₃', '4': '₄',
	'5': '₅', '6': '₆', '7': '₇', '8': '₈', '9': '₉',
	'+': '₊', '-': '₋', '=': '₌', '(': '₍', ')': '₎',
	'a': 'ₐ', 'e': 'ₑ', 'h': 'ₕ', 'i': 'ᵢ', 'j': 'ⱼ',
	'k': 'ₖ', 'l': 'ₗ', 'm': 'ₘ', 'n': 'ₙ', 'o': 'ₒ',
	'p': 'ₚ', 'r': 'ᵣ', 's': 'ₛ', 't': 'ₜ', 'u': 'ᵤ',
	'v': 'ᵥ', 'x': 'ₓ',
}

// substituteCommands replaces known backslash commands with Unicode.
// Unknown commands pass through verbatim for later steps to handle.
func substituteCommands(s string) string {
	return commandPattern.ReplaceAllStringFunc(s, func(cmd string) string {
		if repl, ok := latexCommands[cmd]; ok {
			return repl
		}
		return cmd
	})
}

// expandSuperscripts rewrites ^{chars} and ^c through the superscript
// glyph table. Unmapped characters pass through unchanged.
func expandSuperscripts(s string) string {
	return superscriptPattern.ReplaceAllStringFunc(s, func(m string) string {
		return mapGlyphs(superscriptArg(m), superscriptGlyphs)
	})
}

// expandSubscripts rewrites _{chars} and _c through the subscript glyph
// table.
func expandSubscripts(s string) string {
	return subscriptPattern.ReplaceAllStringFunc(s, func(m string) string {
		return mapGlyphs(subscriptArg(m), subscriptGlyphs)
	})
}

// superscriptArg extracts the argument from a ^{...} or ^c match.
func superscriptArg(m string) string {
	return scriptArg(m, "^")
}

// subscriptArg extracts the argument from a _{...} or _c match.
func subscriptArg(m string) string {
	return scriptArg(m, "_")
}

// scriptArg strips the leading marker and optional braces from a
// super/subscript match.
func scriptArg(m, marker string) string {
	arg := strings.TrimPrefix(m, marker)
	if strings.HasPrefix(arg, "{") && strings.HasSuffix(arg, "}") {
		arg = arg[1 : len(arg)-1]
	}
	return arg
}

// mapGlyphs maps each rune through the table, passing unmapped runes
// through unchanged.
func mapGlyphs(s string, table map[rune]rune) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if g, ok := table[r]; ok {
			sb.WriteRune(g)
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// flattenFractions rewrites \frac{A}{B} to (A/B). Textual, not a
// rendered fraction; nested fractions are out of reach.
func flattenFractions(s string) string {
	return fractionPattern.ReplaceAllString(s, "($1/$2)")
}

// flattenRoots rewrites \sqrt{A} to √(A).
func flattenRoots(s string) string {
	return rootPattern.ReplaceAllString(s, "√($1)")
}

// stripWrappers unwraps \text{}, \mathrm{}, \mathbf{} and friends to
// their argument.
func stripWrappers(s string) string {
	return wrapperPattern.ReplaceAllString(s, "$1")
}

// stripBraces removes any remaining bare braces.
func stripBraces(s string) string {
	s = strings.ReplaceAll(s, "{", "")
	return strings.ReplaceAll(s, "}", "")
}

// collapseWhitespace reduces whitespace runs to single spaces and trims.
func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}
