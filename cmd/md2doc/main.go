package main

import (
	"fmt"
	"os"

	md2doc "github.com/alnah/go-md2doc"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	flags, inputs, err := parseFlags(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitUsage)
	}

	if flags.version {
		fmt.Println("md2doc", Version)
		os.Exit(ExitSuccess)
	}

	// Configure GOMAXPROCS with conditional logging
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if flags.verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	logger := newLogger(flags.verbose)
	defer func() { _ = logger.Sync() }()

	opts := []md2doc.Option{
		md2doc.WithTimeout(flags.timeout),
		md2doc.WithLogger(logger),
	}
	if flags.assetsDir != "" {
		opts = append(opts, md2doc.WithAssetRoot(flags.assetsDir))
	}

	pool := md2doc.NewServicePool(md2doc.ResolvePoolSize(flags.workers), opts...)
	defer func() { _ = pool.Close() }()

	if err := run(flags, inputs, pool, logger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// newLogger builds a console logger; verbose enables debug output.
func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
