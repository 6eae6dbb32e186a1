package main

import (
	"context"
	"flag"
	"fmt"

	"go.uber.org/zap"

	"github.com/ligustah/trawl/internal/naming"
	"github.com/ligustah/trawl/internal/resume"
	"github.com/ligustah/trawl/internal/store"
)

// runScan reports the resume state of an output location without fetching.
func runScan(args []string) int {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cf := addConfigFlags(fs)
	var verbose bool
	fs.BoolVar(&verbose, "v", false, "Log each unreadable or unparsable file")

	fs.Usage = func() {
		fmt.Fprintln(stderr, `Usage: trawl scan [options]

Show the index the next fetch starts at and how many distinct items the
output location already holds.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return ExitSuccess
		}
		return ExitInvalidArgs
	}

	cfg, err := cf.load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	level := "error"
	if verbose {
		level = "warn"
	}
	logger, err := newLogger(level, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitGeneralError
	}
	defer logger.Sync()

	ctx := context.Background()

	st, err := store.Open(ctx, cfg.Output)
	if err != nil {
		logger.Error("cannot open output", zap.String("output", cfg.Output), zap.Error(err))
		return ExitStorageError
	}
	defer st.Close()

	scheme := naming.Scheme{
		Prefix:      cfg.Prefix,
		Extension:   cfg.Extension,
		ContentType: naming.DefaultContentType,
	}
	res, err := resume.Scan(ctx, st, scheme, logger)
	if err != nil {
		logger.Error("cannot scan output", zap.String("output", cfg.Output), zap.Error(err))
		return ExitStorageError
	}

	fmt.Fprintf(stdout, "Output:         %s\n", cfg.Output)
	fmt.Fprintf(stdout, "Files:          %d\n", res.Files)
	fmt.Fprintf(stdout, "Matched names:  %d\n", res.Matched)
	fmt.Fprintf(stdout, "Unique digests: %d\n", res.Digests.Len())
	fmt.Fprintf(stdout, "Next file:      %s\n", scheme.Name(res.NextIndex))
	if n := len(res.Warnings); n > 0 {
		fmt.Fprintf(stdout, "Unparsable:     %d\n", n)
	}
	if n := len(res.Unreadable); n > 0 {
		fmt.Fprintf(stdout, "Unreadable:     %d\n", n)
	}
	return ExitSuccess
}
