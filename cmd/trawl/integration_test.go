//go:build integration

package main

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"gocloud.dev/blob"

	"github.com/ligustah/trawl/internal/testutils"
)

func TestCLIFetchToBucket(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	server := testutils.StartPayloadServer(t, testutils.Unique())

	t.Log("Starting Minio container...")
	minio := testutils.StartMinioContainer(t, ctx, "trawl-fetch")
	defer func() {
		if err := minio.Close(ctx); err != nil {
			t.Logf("failed to terminate minio container: %v", err)
		}
	}()

	t.Run("first_run", func(t *testing.T) {
		if res := runCLI(t, "", "fetch", "-env-file", "", "-url", server.URL, "-output", minio.BucketURL, "-count", "3"); res.code != ExitSuccess {
			t.Fatalf("fetch failed with exit code %d", res.code)
		}
	})

	t.Run("resume", func(t *testing.T) {
		if res := runCLI(t, "", "fetch", "-env-file", "", "-url", server.URL, "-output", minio.BucketURL, "-count", "2"); res.code != ExitSuccess {
			t.Fatalf("fetch failed with exit code %d", res.code)
		}
	})

	bkt, err := blob.OpenBucket(ctx, minio.BucketURL)
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	defer bkt.Close()

	seen := make(map[string]bool)
	for i := 1; i <= 5; i++ {
		key := fmt.Sprintf("image_%d.webp", i)
		data, err := bkt.ReadAll(ctx, key)
		if err != nil {
			t.Fatalf("read %s: %v", key, err)
		}
		seen[string(data)] = true
	}
	if len(seen) != 5 {
		t.Errorf("stored %d distinct payloads, want 5", len(seen))
	}

	res := runCLI(t, "", "scan", "-env-file", "", "-output", minio.BucketURL)
	if res.code != ExitSuccess {
		t.Fatalf("scan failed with exit code %d", res.code)
	}
	if !strings.Contains(res.stdout, "Next file:      image_6.webp") {
		t.Errorf("scan output missing next file:\n%s", res.stdout)
	}
}
