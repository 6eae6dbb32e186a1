package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestOpenCreatesDirectory(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "a", "b", "picre_varied_images")

	s, err := Open(ctx, dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info.IsDir() {
		t.Fatal("expected a directory")
	}
	if s.Dir() != dir {
		t.Errorf("expected Dir %s, got %s", dir, s.Dir())
	}
}

func TestOpenFailsWhenDirectoryCannotBeCreated(t *testing.T) {
	ctx := context.Background()
	parent := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(parent, []byte("x"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := Open(ctx, filepath.Join(parent, "out")); err == nil {
		t.Fatal("expected error when parent is a regular file")
	}
}

func TestCreateAndList(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(ctx, dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if err := s.Create(ctx, "image_2.webp", []byte("two")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Create(ctx, "image_1.webp", []byte("one")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	objs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(objs) != 2 {
		t.Fatalf("expected 2 objects, got %d: %v", len(objs), objs)
	}
	if objs[0].Key != "image_1.webp" || objs[1].Key != "image_2.webp" {
		t.Errorf("unexpected keys: %v", objs)
	}
	if objs[0].Size != 3 {
		t.Errorf("expected size 3, got %d", objs[0].Size)
	}

	// Only the items themselves land on disk.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if ext := filepath.Ext(e.Name()); ext == ".attrs" || ext == ".tmp" {
			t.Errorf("unexpected file %s", e.Name())
		}
	}

	got, err := os.ReadFile(filepath.Join(dir, "image_1.webp"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(got) != "one" {
		t.Errorf("expected 'one', got %q", got)
	}
}

func TestCreateDoesNotOverwrite(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(ctx, dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if err := s.Create(ctx, "image_1.webp", []byte("first")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err = s.Create(ctx, "image_1.webp", []byte("second"))
	if !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	got, err := s.ReadAll(ctx, "image_1.webp")
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "first" {
		t.Errorf("expected original content, got %q", got)
	}
}

func TestCreateConcurrentSameKey(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(ctx, dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	const writers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created []string
		exists  int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			payload := fmt.Sprintf("writer-%d", i)
			err := s.Create(ctx, "image_1.webp", []byte(payload))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created = append(created, payload)
			case errors.Is(err, ErrExists):
				exists++
			default:
				t.Errorf("Create: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if len(created) != 1 || exists != writers-1 {
		t.Fatalf("expected 1 create and %d ErrExists, got %d and %d", writers-1, len(created), exists)
	}
	got, err := os.ReadFile(filepath.Join(dir, "image_1.webp"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(got) != created[0] {
		t.Errorf("expected winner's content %q, got %q", created[0], got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the item on disk, got %v", entries)
	}
}

func TestListIncludesEveryRegularFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	for _, name := range []string{"image_1.webp", "notes.attrs", "x__0x2f__y.webp"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0644); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}

	s, err := Open(ctx, dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	objs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var keys []string
	for _, o := range objs {
		keys = append(keys, o.Key)
	}
	want := "image_1.webp,notes.attrs,x__0x2f__y.webp"
	if got := strings.Join(keys, ","); got != want {
		t.Errorf("expected keys %s, got %s", want, got)
	}

	data, err := s.ReadAll(ctx, "notes.attrs")
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != "notes.attrs" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestCreateBucketDoesNotOverwrite(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, "mem://")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if err := s.Create(ctx, "image_1.webp", []byte("first")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Create(ctx, "image_1.webp", []byte("second")); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
}

func TestCreateRejectsInvalidKeys(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, "mem://")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	for _, key := range []string{"", ".", "..", "a/b.webp", `a\b.webp`} {
		if err := s.Create(ctx, key, []byte("x")); err == nil {
			t.Errorf("expected error for key %q", key)
		}
	}
}

func TestOpenMissing(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, "mem://")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if _, err := s.Open(ctx, "image_9.webp"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.ReadAll(ctx, "image_9.webp"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemBucketRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, "mem://")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if s.Dir() != "" {
		t.Errorf("expected no local dir for mem bucket, got %s", s.Dir())
	}
	if err := s.Create(ctx, "image_1.webp", []byte("payload")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	r, err := s.Open(ctx, "image_1.webp")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "payload" {
		t.Errorf("expected 'payload', got %q", got)
	}
}
