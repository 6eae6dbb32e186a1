// Package downloader coordinates concurrent item fetches against one source.
//
// Indices [StartIndex, StartIndex+Count) are handed to a fixed pool of
// workers. Each worker fetches an item, admits its digest into the shared
// [digest.Set] and stores the item only when the digest was new. Items whose
// content has been seen before are dropped.
//
// # Usage
//
//	summary, err := downloader.Download(ctx, fetcher, store, Options{
//	    StartIndex: scan.NextIndex,
//	    Count:      100,
//	    Workers:    4,
//	    Digests:    scan.Digests,
//	})
//
// # Worker Pool
//
// Workers receive indices from a channel and run each one to completion
// (fetch, hash, admit, write) before taking the next. Every dispatched index
// settles as downloaded, duplicate or failed; there is no early stop. A
// failure is recorded against its index and never affects sibling items.
//
// # Cancellation
//
// Cancelling ctx does not stop dispatch. Fetches that have not started fail
// fast and are reported as failed. Writes of already fetched items are not
// cancelled.
package downloader
