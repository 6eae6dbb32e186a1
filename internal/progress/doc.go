// Package progress provides progress reporting for a download run.
//
// This package renders a terminal progress bar counting settled items and
// prints a one-line summary when the run ends.
//
// # Usage
//
//	reporter := progress.NewReporter(Options{
//	    Total:     100,
//	    Workers:   4,
//	    SourceURL: "https://pic.re/image",
//	    Output:    os.Stderr,
//	})
//
//	reporter.Start()
//	defer reporter.Stop()
//
//	// Update as items settle
//	reporter.ItemDownloaded(size)
//	reporter.ItemDuplicate()
//	reporter.ItemFailed()
//
// # Output Format
//
//	[trawl] Fetching: https://pic.re/image
//	[trawl] Items: 100 | Workers: 4
//	items  42% |████████          | (42/100, 3 it/s)
//	[trawl] Download complete: 40 downloaded | 1 duplicate | 1 failed | 12.40 MB in 14s
package progress
