package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
	"gocloud.dev/gcerrors"
)

// Common errors.
var (
	ErrExists   = errors.New("store: object already exists")
	ErrNotFound = errors.New("store: object not found")
)

// Object describes a stored item.
type Object struct {
	Key  string
	Size int64
}

// Store is an output location: a local directory or a blob bucket.
type Store struct {
	bucket *blob.Bucket
	dir    string
}

// Open opens location. A location without a URL scheme is a local directory,
// which is created if missing.
func Open(ctx context.Context, location string) (*Store, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, errors.New("store: empty location")
	}

	if isURL(location) {
		bkt, err := blob.OpenBucket(ctx, location)
		if err != nil {
			return nil, fmt.Errorf("store: open bucket %s: %w", location, err)
		}
		return &Store{bucket: bkt}, nil
	}

	dir, err := filepath.Abs(location)
	if err != nil {
		return nil, fmt.Errorf("store: resolve %s: %w", location, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the local directory backing the store, or "" for buckets.
func (s *Store) Dir() string {
	return s.dir
}

// List returns the top-level objects, sorted by key. For a local directory
// every regular file is listed under its file name; subdirectories are
// skipped.
func (s *Store) List(ctx context.Context) ([]Object, error) {
	if s.dir != "" {
		return s.listDir()
	}

	var objs []Object
	it := s.bucket.List(&blob.ListOptions{Delimiter: "/"})
	for {
		obj, err := it.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("store: list: %w", err)
		}
		if obj.IsDir {
			continue
		}
		objs = append(objs, Object{Key: obj.Key, Size: obj.Size})
	}

	sort.Slice(objs, func(i, j int) bool { return objs[i].Key < objs[j].Key })
	return objs, nil
}

func (s *Store) listDir() ([]Object, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}

	var objs []Object
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		var size int64
		if info, err := e.Info(); err == nil {
			size = info.Size()
		}
		objs = append(objs, Object{Key: e.Name(), Size: size})
	}
	// os.ReadDir already sorts by name.
	return objs, nil
}

// Open opens key for reading. The caller must close the reader.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if s.dir != "" {
		f, err := os.Open(filepath.Join(s.dir, key))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
			}
			return nil, fmt.Errorf("store: open %s: %w", key, err)
		}
		return f, nil
	}

	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if isNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("store: open %s: %w", key, err)
	}
	return r, nil
}

// ReadAll returns the contents of key.
func (s *Store) ReadAll(ctx context.Context, key string) ([]byte, error) {
	r, err := s.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", key, err)
	}
	return data, nil
}

// Create writes data under key and returns ErrExists if key is taken.
//
// In a local directory the data is written to a temporary file that is then
// hard-linked into place, so an existing file is never replaced and readers
// never see a partial item. Buckets only get an existence check before the
// write; two writers racing on the same key in a bucket can still overwrite
// each other.
func (s *Store) Create(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if s.dir != "" {
		return s.createFile(key, data)
	}

	if ok, err := s.bucket.Exists(ctx, key); err == nil && ok {
		return fmt.Errorf("%w: %s", ErrExists, key)
	}
	if err := s.bucket.WriteAll(ctx, key, data, nil); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

func (s *Store) createFile(key string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".trawl-*.tmp")
	if err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	_, err = io.Copy(tmp, bytes.NewReader(data))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}

	if err := os.Link(tmp.Name(), filepath.Join(s.dir, key)); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrExists, key)
		}
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

// Close releases the bucket, if any.
func (s *Store) Close() error {
	if s.bucket == nil {
		return nil
	}
	return s.bucket.Close()
}

func validateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("store: invalid key %q", key)
	}
	return nil
}

func isURL(location string) bool {
	return strings.Contains(location, "://")
}

func isNotExist(err error) bool {
	return gcerrors.Code(err) == gcerrors.NotFound
}
