// Package http provides the HTTP client used to fetch items.
//
// This package handles:
//   - Connection pooling sized to the worker count
//   - A per-request timeout
//   - Request pacing shared by all workers
//   - Mapping of non-success status codes to typed errors
//
// Each call makes exactly one attempt. Failed items are reported to the
// caller, never retried here.
//
// # Usage
//
//	client := http.NewClient(Options{
//	    MaxIdleConnsPerHost: 8,
//	    Timeout:             10 * time.Second,
//	    RateLimit:           5,
//	})
//
//	resp, err := client.Get(ctx, url)
//	// resp.Body, resp.ContentType, resp.ContentDisposition
package http
