package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ligustah/trawl/internal/downloader"
	"github.com/ligustah/trawl/internal/fetcher"
	trawlhttp "github.com/ligustah/trawl/internal/http"
	"github.com/ligustah/trawl/internal/naming"
	"github.com/ligustah/trawl/internal/progress"
	"github.com/ligustah/trawl/internal/resume"
	"github.com/ligustah/trawl/internal/store"
)

// runFetch downloads items from the source URL into the output location,
// continuing after the highest index already stored and skipping content
// that is already present.
func runFetch(args []string) int {
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cf := addConfigFlags(fs)
	addFetchFlags(fs, cf)

	fs.Usage = func() {
		fmt.Fprintln(stderr, `Usage: trawl fetch [options]

Fetch items from a single URL, skip content that is already stored and name
new files <prefix>_<index><extension>, continuing after the highest index in
the output location. Missing -count and -workers are asked for interactively.

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

	if cfg.Count == 0 {
		r := bufio.NewReader(stdin)
		cfg.Count, err = promptPositiveInt(r, stdout,
			"Enter the number of images to download: ", 0)
		if err != nil {
			fmt.Fprintf(stderr, "Error: reading count: %v\n", err)
			return ExitInvalidArgs
		}
		if cf.override.Workers == 0 {
			cfg.Workers, err = promptPositiveInt(r, stdout,
				fmt.Sprintf("Enter the number of workers to use (default is %d, more workers are faster but can overwhelm the server): ", cfg.Workers),
				cfg.Workers)
			if err != nil {
				fmt.Fprintf(stderr, "Error: reading workers: %v\n", err)
				return ExitInvalidArgs
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fs.Usage()
		return ExitInvalidArgs
	}

	logger, err := newLogger(cfg.LogLevel, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}
	defer logger.Sync()

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(stderr, "\n[trawl] Received interrupt, finishing in-flight items...")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Open output location; failing here aborts before anything is fetched.
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

	scan, err := resume.Scan(ctx, st, scheme, logger)
	if err != nil {
		logger.Error("cannot scan output", zap.String("output", cfg.Output), zap.Error(err))
		return ExitStorageError
	}
	logger.Info("resuming",
		zap.String("output", cfg.Output),
		zap.String("first", scheme.Name(scan.NextIndex)),
		zap.Int("existing_files", scan.Files),
		zap.Int("unique_digests", scan.Digests.Len()),
	)

	client := trawlhttp.NewClient(trawlhttp.Options{
		MaxIdleConnsPerHost: cfg.Workers,
		Timeout:             cfg.Timeout,
		RateLimit:           cfg.RateLimit,
		Burst:               cfg.Burst,
		UserAgent:           cfg.UserAgent,
	})
	f, err := fetcher.New(client, cfg.URL, scheme)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	// Setup progress reporter
	var reporter *progress.Reporter
	if cfg.Progress {
		reporter = progress.NewReporter(progress.Options{
			Total:     cfg.Count,
			Workers:   cfg.Workers,
			Output:    stderr,
			SourceURL: cfg.URL,
		})
		reporter.Start()
	}

	summary, err := downloader.Download(ctx, f, st, downloader.Options{
		StartIndex: scan.NextIndex,
		Count:      cfg.Count,
		Workers:    cfg.Workers,
		Digests:    scan.Digests,
		Progress:   reporter,
		Logger:     logger,
	})
	if reporter != nil {
		reporter.Stop()
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitGeneralError
	}

	if reporter == nil {
		fmt.Fprintf(stderr, "[trawl] Download complete: %d downloaded | %d duplicate | %d failed\n",
			summary.Downloaded, summary.Duplicates, summary.Failed)
	}

	if !summary.OK() {
		logger.Warn("some items failed", zap.Int("failed", summary.Failed), zap.Error(summary.Err()))
		if ctx.Err() != nil {
			fmt.Fprintln(stderr, "[trawl] Interrupted; run again to continue")
		}
		return ExitPartialFailure
	}
	return ExitSuccess
}
