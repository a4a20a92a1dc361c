package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	md2doc "github.com/alnah/go-md2doc"
	"go.uber.org/zap"
)

func TestRun(t *testing.T) {
	t.Parallel()

	newPool := func(t *testing.T) *md2doc.ServicePool {
		t.Helper()
		pool := md2doc.NewServicePool(2)
		t.Cleanup(func() { _ = pool.Close() })
		return pool
	}

	writeInput := func(t *testing.T, name, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("no inputs", func(t *testing.T) {
		t.Parallel()
		err := run(&cliFlags{format: "md"}, nil, newPool(t), zap.NewNop())
		if !errors.Is(err, ErrNoInput) {
			t.Errorf("run() error = %v, want %v", err, ErrNoInput)
		}
	})

	t.Run("output with multiple inputs", func(t *testing.T) {
		t.Parallel()
		err := run(&cliFlags{format: "md", output: "out.md"}, []string{"a.md", "b.md"}, newPool(t), zap.NewNop())
		if !errors.Is(err, ErrMultiOutput) {
			t.Errorf("run() error = %v, want %v", err, ErrMultiOutput)
		}
	})

	t.Run("missing input file", func(t *testing.T) {
		t.Parallel()
		err := run(&cliFlags{format: "md"}, []string{filepath.Join(t.TempDir(), "absent.md")}, newPool(t), zap.NewNop())
		if !errors.Is(err, ErrReadMarkdown) {
			t.Errorf("run() error = %v, want %v", err, ErrReadMarkdown)
		}
	})

	t.Run("missing style sheet", func(t *testing.T) {
		t.Parallel()
		input := writeInput(t, "a.md", "# x")
		flags := &cliFlags{format: "md", style: filepath.Join(t.TempDir(), "absent.yaml")}
		err := run(flags, []string{input}, newPool(t), zap.NewNop())
		if err == nil {
			t.Error("run() = nil error, want style sheet load failure")
		}
	})

	t.Run("converts next to the input by default", func(t *testing.T) {
		t.Parallel()
		input := writeInput(t, "notes.md", "# Title\n\nbody")
		err := run(&cliFlags{format: "md"}, []string{input}, newPool(t), zap.NewNop())
		if err != nil {
			t.Fatalf("run() error = %v", err)
		}
		// Same path: the md target replaces .md with .md.
		data, err := os.ReadFile(input)
		if err != nil {
			t.Fatalf("reading output: %v", err)
		}
		if string(data) != "# Title\n\nbody" {
			t.Errorf("output = %q, want pass-through content", data)
		}
	})

	t.Run("explicit output path wins", func(t *testing.T) {
		t.Parallel()
		input := writeInput(t, "notes.md", "content")
		output := filepath.Join(t.TempDir(), "renamed.md")
		err := run(&cliFlags{format: "md", output: output}, []string{input}, newPool(t), zap.NewNop())
		if err != nil {
			t.Fatalf("run() error = %v", err)
		}
		if _, err := os.Stat(output); err != nil {
			t.Errorf("expected output at %q: %v", output, err)
		}
	})

	t.Run("batch conversion reports every failure", func(t *testing.T) {
		t.Parallel()
		good := writeInput(t, "good.md", "fine")
		missing := filepath.Join(t.TempDir(), "gone.md")
		err := run(&cliFlags{format: "md"}, []string{good, missing}, newPool(t), zap.NewNop())
		if !errors.Is(err, ErrReadMarkdown) {
			t.Errorf("run() error = %v, want %v for the missing input", err, ErrReadMarkdown)
		}
	})
}
