package downloader

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/ligustah/trawl/internal/digest"
	"github.com/ligustah/trawl/internal/fetcher"
	"github.com/ligustah/trawl/internal/progress"
)

// DefaultWorkers is used when Options.Workers is not positive.
const DefaultWorkers = 4

// Fetcher fetches the item for one index.
type Fetcher interface {
	Fetch(ctx context.Context, index int) (*fetcher.Item, error)
}

// Writer stores an item under a name. It must not replace existing items.
type Writer interface {
	Create(ctx context.Context, key string, data []byte) error
}

// Options configures the downloader.
type Options struct {
	// StartIndex is the first index to dispatch. Must be at least 1.
	StartIndex int

	// Count is the number of indices to dispatch.
	Count int

	// Workers is the number of parallel download workers.
	Workers int

	// Digests is shared by all workers and updated as items are stored.
	// A new empty set is used when nil.
	Digests *digest.Set

	// Progress is an optional progress reporter.
	Progress *progress.Reporter

	// Logger receives one line per settled item.
	Logger *zap.Logger
}

// Kind classifies how an item settled.
type Kind int

const (
	// Downloaded means the item was new and has been stored.
	Downloaded Kind = iota
	// Duplicate means the item's content was already stored.
	Duplicate
	// Failed means the item could not be fetched or stored.
	Failed
)

func (k Kind) String() string {
	switch k {
	case Downloaded:
		return "downloaded"
	case Duplicate:
		return "duplicate"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Outcome records how one index settled.
type Outcome struct {
	Kind   Kind
	Index  int
	Name   string
	Digest digest.Digest
	Size   int64
	Err    error
}

// Summary aggregates the outcomes of a run.
type Summary struct {
	Downloaded int
	Duplicates int
	Failed     int

	// Outcomes is ordered by index.
	Outcomes []Outcome
}

// OK reports whether no item failed.
func (s *Summary) OK() bool {
	return s.Failed == 0
}

// Errors returns the errors of failed items, ordered by index.
func (s *Summary) Errors() []error {
	var errs []error
	for _, o := range s.Outcomes {
		if o.Kind == Failed {
			errs = append(errs, o.Err)
		}
	}
	return errs
}

// Err joins the errors of all failed items, or returns nil.
func (s *Summary) Err() error {
	return errors.Join(s.Errors()...)
}

// Download dispatches opts.Count indices starting at opts.StartIndex to a
// pool of workers and blocks until every one of them has settled. The
// returned error only reports invalid arguments; per-item failures are in
// the summary.
func Download(ctx context.Context, f Fetcher, w Writer, opts Options) (*Summary, error) {
	if f == nil {
		return nil, errors.New("downloader: nil fetcher")
	}
	if w == nil {
		return nil, errors.New("downloader: nil writer")
	}
	if opts.StartIndex < 1 {
		return nil, fmt.Errorf("downloader: start index must be at least 1, got %d", opts.StartIndex)
	}
	if opts.Count < 0 {
		return nil, fmt.Errorf("downloader: count must not be negative, got %d", opts.Count)
	}

	// Apply defaults
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Workers > opts.Count {
		opts.Workers = opts.Count
	}
	if opts.Digests == nil {
		opts.Digests = digest.NewSet()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	summary := &Summary{Outcomes: make([]Outcome, 0, opts.Count)}
	if opts.Count == 0 {
		return summary, nil
	}

	var (
		mu       sync.Mutex
		outcomes = summary.Outcomes
	)

	jobs := make(chan int, opts.Workers)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				o := downloadItem(ctx, f, w, index, opts)

				mu.Lock()
				outcomes = append(outcomes, o)
				mu.Unlock()
			}
		}()
	}

	// Feed every index; all of them must settle.
	for index := opts.StartIndex; index < opts.StartIndex+opts.Count; index++ {
		jobs <- index
	}
	close(jobs)

	wg.Wait()

	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Index < outcomes[j].Index })
	summary.Outcomes = outcomes
	for _, o := range outcomes {
		switch o.Kind {
		case Downloaded:
			summary.Downloaded++
		case Duplicate:
			summary.Duplicates++
		case Failed:
			summary.Failed++
		}
	}

	return summary, nil
}

// downloadItem fetches, deduplicates and stores a single index.
func downloadItem(ctx context.Context, f Fetcher, w Writer, index int, opts Options) Outcome {
	log := opts.Logger.With(zap.Int("index", index))
	reporter := opts.Progress
	if reporter != nil {
		reporter.ItemStarted()
	}

	fail := func(o Outcome) Outcome {
		log.Error("download failed", zap.Error(o.Err))
		if reporter != nil {
			reporter.ItemFailed()
		}
		return o
	}

	item, err := f.Fetch(ctx, index)
	if err != nil {
		return fail(Outcome{Kind: Failed, Index: index, Err: err})
	}

	o := Outcome{
		Index:  index,
		Name:   item.Name,
		Digest: item.Digest,
		Size:   int64(len(item.Data)),
	}

	if !opts.Digests.Admit(item.Digest) {
		o.Kind = Duplicate
		log.Info("skipped duplicate", zap.String("digest", item.Digest.String()))
		if reporter != nil {
			reporter.ItemDuplicate()
		}
		return o
	}

	// The item is already in memory; an interrupt should not discard it.
	if err := w.Create(context.WithoutCancel(ctx), item.Name, item.Data); err != nil {
		opts.Digests.Forget(item.Digest)
		o.Kind = Failed
		o.Err = fmt.Errorf("write item %d: %w", index, err)
		return fail(o)
	}

	o.Kind = Downloaded
	log.Info("downloaded", zap.String("name", item.Name), zap.Int64("bytes", o.Size))
	if reporter != nil {
		reporter.ItemDownloaded(o.Size)
	}
	return o
}
