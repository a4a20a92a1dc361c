package main

import (
	"fmt"
	"time"

	flag "github.com/spf13/pflag"
)

// cliFlags holds parsed command-line flags.
type cliFlags struct {
	format    string
	output    string
	style     string
	assetsDir string
	timeout   time.Duration
	workers   int
	verbose   bool
	version   bool
}

const usageText = `Usage: md2doc [flags] <file.md> [file.md ...]

Convert Markdown files to Word (.docx), PDF, or plain Markdown.

Flags:
  -f, --format string     output format: docx, pdf, md (default "docx")
  -o, --output string     output file (single input only; default: input name with new extension)
  -s, --style string      YAML style sheet file
      --assets-dir string local asset store root (default: <documents>/md2doc_Assets)
      --timeout duration  PDF rendering timeout (default 30s)
  -w, --workers int       parallel conversions (default: auto)
  -v, --verbose           verbose logging
      --version           print version and exit
`

// parseFlags parses args (including the program name at args[0]) and
// returns the flags and positional input paths.
func parseFlags(args []string) (*cliFlags, []string, error) {
	flags := &cliFlags{}

	fs := flag.NewFlagSet("md2doc", flag.ContinueOnError)
	fs.Usage = func() { fmt.Print(usageText) }

	fs.StringVarP(&flags.format, "format", "f", "docx", "output format: docx, pdf, md")
	fs.StringVarP(&flags.output, "output", "o", "", "output file (single input only)")
	fs.StringVarP(&flags.style, "style", "s", "", "YAML style sheet file")
	fs.StringVar(&flags.assetsDir, "assets-dir", "", "local asset store root")
	fs.DurationVar(&flags.timeout, "timeout", 30*time.Second, "PDF rendering timeout")
	fs.IntVarP(&flags.workers, "workers", "w", 0, "parallel conversions (0 = auto)")
	fs.BoolVarP(&flags.verbose, "verbose", "v", false, "verbose logging")
	fs.BoolVar(&flags.version, "version", false, "print version and exit")

	if err := fs.Parse(args[1:]); err != nil {
		return nil, nil, err
	}
	return flags, fs.Args(), nil
}
