package progress

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0 B"},
		{100, "100 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1024 * 1024, "1.00 MB"},
		{256 * 1024 * 1024, "256.00 MB"},
		{1024 * 1024 * 1024, "1.00 GB"},
	}

	for _, tt := range tests {
		result := formatBytes(tt.input)
		if result != tt.expected {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input    time.Duration
		expected string
	}{
		{0, "0s"},
		{14 * time.Second, "14s"},
		{90 * time.Second, "1m 30s"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1h 2m 3s"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.input); got != tt.expected {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestReporterCounts(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(Options{
		Total:     10,
		Workers:   4,
		Output:    &buf,
		SourceURL: "https://example.com/image",
	})
	r.Start()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.ItemStarted()
			switch {
			case i < 6:
				r.ItemDownloaded(100)
			case i < 8:
				r.ItemDuplicate()
			default:
				r.ItemFailed()
			}
		}(i)
	}
	wg.Wait()

	c := r.Counts()
	if c.Downloaded != 6 || c.Duplicates != 2 || c.Failed != 2 {
		t.Errorf("unexpected counts %+v", c)
	}
	if c.InProgress != 0 {
		t.Errorf("expected 0 in progress, got %d", c.InProgress)
	}
	if c.Bytes != 600 {
		t.Errorf("expected 600 bytes, got %d", c.Bytes)
	}

	r.Stop()
	r.Stop() // idempotent

	out := buf.String()
	if !strings.Contains(out, "[trawl] Fetching: https://example.com/image") {
		t.Errorf("missing header in output: %q", out)
	}
	if !strings.Contains(out, "Download complete: 6 downloaded | 2 duplicate | 2 failed | 600 B") {
		t.Errorf("missing summary in output: %q", out)
	}
	if strings.Count(out, "Download complete") != 1 {
		t.Errorf("expected summary once, got %q", out)
	}
}
