// Package fetcher performs a single item fetch from the source endpoint.
package fetcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/ligustah/trawl/internal/digest"
	trawlhttp "github.com/ligustah/trawl/internal/http"
	"github.com/ligustah/trawl/internal/naming"
)

// Getter is the part of the HTTP client the fetcher needs.
type Getter interface {
	Get(ctx context.Context, url string) (*trawlhttp.Response, error)
}

// Item is a fetched, buffered and hashed payload that has not been stored yet.
type Item struct {
	Index       int
	Name        string
	ContentType string
	Data        []byte
	Digest      digest.Digest
}

// TransportError reports a failed fetch: a network failure, a timeout or a
// non-success status.
type TransportError struct {
	Index int
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetch item %d: %v", e.Index, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Fetcher fetches items from one URL.
type Fetcher struct {
	client Getter
	url    string
	scheme naming.Scheme
}

// New returns a Fetcher for url.
func New(client Getter, url string, scheme naming.Scheme) (*Fetcher, error) {
	if client == nil {
		return nil, errors.New("fetcher: nil client")
	}
	if url == "" {
		return nil, errors.New("fetcher: empty url")
	}
	return &Fetcher{client: client, url: url, scheme: scheme}, nil
}

// Fetch performs one request for index. It never writes anything; the
// caller decides whether the item is stored.
func (f *Fetcher) Fetch(ctx context.Context, index int) (*Item, error) {
	resp, err := f.client.Get(ctx, f.url)
	if err != nil {
		return nil, &TransportError{Index: index, Err: err}
	}

	return &Item{
		Index:       index,
		Name:        f.scheme.FromResponse(index, resp.ContentType, resp.ContentDisposition),
		ContentType: resp.ContentType,
		Data:        resp.Body,
		Digest:      digest.Sum(resp.Body),
	}, nil
}
