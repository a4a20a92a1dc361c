package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	md2doc "github.com/alnah/go-md2doc"
	"go.uber.org/zap"
)

// run converts every input file, fanning out across the service pool.
func run(flags *cliFlags, inputs []string, pool *md2doc.ServicePool, logger *zap.Logger) error {
	if len(inputs) == 0 {
		return ErrNoInput
	}
	if flags.output != "" && len(inputs) != 1 {
		return ErrMultiOutput
	}

	var style *md2doc.StyleSheet
	if flags.style != "" {
		var err error
		style, err = md2doc.LoadStyleSheet(flags.style)
		if err != nil {
			return err
		}
	}

	ctx := context.Background()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, input := range inputs {
		wg.Add(1)
		go func(input string) {
			defer wg.Done()
			if err := convertOne(ctx, flags, input, style, pool, logger); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(input)
	}
	wg.Wait()

	return errors.Join(errs...)
}

// convertOne converts a single file using a pooled service.
func convertOne(ctx context.Context, flags *cliFlags, input string, style *md2doc.StyleSheet, pool *md2doc.ServicePool, logger *zap.Logger) error {
	content, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrReadMarkdown, input, err)
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = replaceExtension(input, flags.format)
	}

	svc := pool.Acquire()
	defer pool.Release(svc)

	result, err := svc.Convert(ctx, md2doc.Input{
		Markdown:   string(content),
		Format:     flags.format,
		OutputPath: outputPath,
		Style:      style,
	})
	if err != nil {
		return fmt.Errorf("converting %s: %w", input, err)
	}

	logger.Info("converted",
		zap.String("input", input),
		zap.String("output", result.Path),
		zap.Int("bytes", len(result.Buffer)))
	return nil
}

// replaceExtension swaps a file's extension for the target format's.
func replaceExtension(path, format string) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	return base + "." + format
}
