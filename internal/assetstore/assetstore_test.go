package assetstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestValidateName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "simple name", input: "figure.png", wantErr: false},
		{name: "name with dots", input: "fig.v2.png", wantErr: false},
		{name: "empty", input: "", wantErr: true},
		{name: "forward slash", input: "a/b.png", wantErr: true},
		{name: "backslash", input: `a\b.png`, wantErr: true},
		{name: "traversal", input: "..secret", wantErr: true},
		{name: "nul byte", input: "a\x00b.png", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateName(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAssetName) {
					t.Errorf("ValidateName(%q) = %v, want %v", tt.input, err, ErrInvalidAssetName)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateName(%q) = %v, want nil", tt.input, err)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	t.Run("existing asset resolves to its path", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		dir := ImagesDir(root)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		want := filepath.Join(dir, "fig.png")
		if err := os.WriteFile(want, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}

		got, err := Lookup(root, "fig.png")
		if err != nil {
			t.Fatalf("Lookup() error = %v", err)
		}
		if got != want {
			t.Errorf("Lookup() = %q, want %q", got, want)
		}
	})

	t.Run("missing asset", func(t *testing.T) {
		t.Parallel()
		_, err := Lookup(t.TempDir(), "absent.png")
		if !errors.Is(err, ErrAssetNotFound) {
			t.Errorf("Lookup() error = %v, want %v", err, ErrAssetNotFound)
		}
	})

	t.Run("directory is not an asset", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		if err := os.MkdirAll(filepath.Join(ImagesDir(root), "sub"), 0o755); err != nil {
			t.Fatal(err)
		}

		_, err := Lookup(root, "sub")
		if !errors.Is(err, ErrAssetNotFound) {
			t.Errorf("Lookup() error = %v, want %v", err, ErrAssetNotFound)
		}
	})

	t.Run("invalid name never touches the filesystem", func(t *testing.T) {
		t.Parallel()
		_, err := Lookup(t.TempDir(), "../escape.png")
		if !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("Lookup() error = %v, want %v", err, ErrInvalidAssetName)
		}
	})
}

func TestDefaultRoot(t *testing.T) {
	t.Parallel()

	root, err := DefaultRoot("md2doc")
	if err != nil {
		t.Fatalf("DefaultRoot() error = %v", err)
	}
	if filepath.Base(root) != "md2doc_Assets" {
		t.Errorf("DefaultRoot() = %q, want suffix md2doc_Assets", root)
	}
}
