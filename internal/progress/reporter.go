package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Options configures the progress reporter.
type Options struct {
	// Total is the number of items the run will dispatch.
	Total int

	// Workers is the number of parallel workers.
	Workers int

	// Output is where to write progress output.
	// Default: os.Stderr
	Output io.Writer

	// SourceURL is the URL being fetched (for display).
	SourceURL string

	// Throttle limits how often the bar is redrawn.
	// Default: 100ms
	Throttle time.Duration
}

// Counts is a snapshot of settled items.
type Counts struct {
	Downloaded int
	Duplicates int
	Failed     int
	InProgress int
	Bytes      int64
}

// Reporter outputs human-readable progress information.
type Reporter struct {
	opts Options
	bar  *progressbar.ProgressBar

	downloaded atomic.Int32
	duplicates atomic.Int32
	failed     atomic.Int32
	inProgress atomic.Int32
	bytes      atomic.Int64

	mu        sync.Mutex
	startTime time.Time
	started   bool
	stopped   bool
}

// NewReporter creates a new progress reporter.
func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.Throttle == 0 {
		opts.Throttle = 100 * time.Millisecond
	}

	bar := progressbar.NewOptions(opts.Total,
		progressbar.OptionSetWriter(opts.Output),
		progressbar.OptionSetDescription("items"),
		progressbar.OptionSetItsString("item"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(opts.Throttle),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	return &Reporter{
		opts: opts,
		bar:  bar,
	}
}

// Start prints the header and begins timing.
func (r *Reporter) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.started = true
	r.startTime = time.Now()

	fmt.Fprintf(r.opts.Output, "[trawl] Fetching: %s\n", r.opts.SourceURL)
	fmt.Fprintf(r.opts.Output, "[trawl] Items: %d | Workers: %d\n", r.opts.Total, r.opts.Workers)
}

// Stop finishes the bar and prints the summary. It is safe to call more
// than once.
func (r *Reporter) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	start := r.startTime
	r.mu.Unlock()

	_ = r.bar.Finish()

	c := r.Counts()
	var elapsed time.Duration
	if !start.IsZero() {
		elapsed = time.Since(start)
	}
	fmt.Fprintf(r.opts.Output, "\n[trawl] Download complete: %d downloaded | %d duplicate | %d failed | %s in %s\n",
		c.Downloaded,
		c.Duplicates,
		c.Failed,
		formatBytes(c.Bytes),
		formatDuration(elapsed),
	)
}

// ItemStarted marks an item as in progress.
func (r *Reporter) ItemStarted() {
	r.inProgress.Add(1)
}

// ItemDownloaded marks an item as stored.
func (r *Reporter) ItemDownloaded(size int64) {
	r.bytes.Add(size)
	r.downloaded.Add(1)
	r.settle()
}

// ItemDuplicate marks an item as skipped for duplicate content.
func (r *Reporter) ItemDuplicate() {
	r.duplicates.Add(1)
	r.settle()
}

// ItemFailed marks an item as failed.
func (r *Reporter) ItemFailed() {
	r.failed.Add(1)
	r.settle()
}

// Counts returns the current tallies.
func (r *Reporter) Counts() Counts {
	return Counts{
		Downloaded: int(r.downloaded.Load()),
		Duplicates: int(r.duplicates.Load()),
		Failed:     int(r.failed.Load()),
		InProgress: int(r.inProgress.Load()),
		Bytes:      r.bytes.Load(),
	}
}

func (r *Reporter) settle() {
	r.inProgress.Add(-1)
	_ = r.bar.Add(1)
}

// formatBytes formats bytes as a human-readable string.
func formatBytes(b int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case b >= GB:
		return fmt.Sprintf("%.2f GB", float64(b)/float64(GB))
	case b >= MB:
		return fmt.Sprintf("%.2f MB", float64(b)/float64(MB))
	case b >= KB:
		return fmt.Sprintf("%.2f KB", float64(b)/float64(KB))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatDuration formats a duration as a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}
