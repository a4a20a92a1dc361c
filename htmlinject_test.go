package md2doc

import (
	"context"
	"strings"
	"testing"
)

func TestInjectCSS(t *testing.T) {
	t.Parallel()

	injector := &cssInjection{}
	ctx := context.Background()

	tests := []struct {
		name     string
		html     string
		css      string
		contains string
	}{
		{
			name:     "inserts before closing head",
			html:     "<html><head><title>t</title></head><body></body></html>",
			css:      "p { color: red; }",
			contains: "<style>p { color: red; }</style></head>",
		},
		{
			name:     "inserts after body tag when no head",
			html:     "<html><body class=\"x\"><p>hi</p></body></html>",
			css:      "p { margin: 0; }",
			contains: "<body class=\"x\"><style>",
		},
		{
			name:     "prepends when neither head nor body",
			html:     "<p>fragment</p>",
			css:      "p {}",
			contains: "<style>p {}</style><p>",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := injector.InjectCSS(ctx, tt.html, tt.css)
			if !strings.Contains(got, tt.contains) {
				t.Errorf("InjectCSS() = %q, want substring %q", got, tt.contains)
			}
		})
	}

	t.Run("empty css is a no-op", func(t *testing.T) {
		t.Parallel()
		html := "<html><head></head></html>"
		if got := injector.InjectCSS(ctx, html, ""); got != html {
			t.Errorf("InjectCSS() = %q, want unchanged input", got)
		}
	})

	t.Run("style-closing sequences are escaped", func(t *testing.T) {
		t.Parallel()
		got := injector.InjectCSS(ctx, "<html><head></head></html>", "</style><script>evil()</script>")
		if strings.Contains(got, "</style><script>") {
			t.Errorf("InjectCSS() did not sanitize closing sequence: %q", got)
		}
	})

	t.Run("cancelled context leaves html untouched", func(t *testing.T) {
		t.Parallel()
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		html := "<html><head></head></html>"
		if got := injector.InjectCSS(cancelled, html, "p {}"); got != html {
			t.Errorf("InjectCSS() = %q, want unchanged input", got)
		}
	})
}
