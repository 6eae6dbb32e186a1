// Package resume recovers where a previous run stopped by inspecting the
// output location.
//
// Two passes are made over the location. Filenames that follow the naming
// scheme establish the next free index; every object, whatever its name, is
// hashed so its content counts toward duplicate detection.
package resume

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ligustah/trawl/internal/digest"
	"github.com/ligustah/trawl/internal/naming"
	"github.com/ligustah/trawl/internal/store"
)

// Result is the outcome of a scan.
type Result struct {
	// NextIndex is one past the highest parsed index, or 1 if none parsed.
	NextIndex int

	// Digests holds the digest of every readable object.
	Digests *digest.Set

	// Files is the number of objects found.
	Files int

	// Matched is the number of objects whose index was parsed.
	Matched int

	// Warnings lists names that matched the scheme but had no usable index.
	Warnings []error

	// Unreadable lists objects that could not be hashed.
	Unreadable []string
}

// Scan inspects s and returns the next free index and the digests of
// everything already stored. Only listing failures are returned as errors.
func Scan(ctx context.Context, s *store.Store, scheme naming.Scheme, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	objs, err := s.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("resume: %w", err)
	}

	res := &Result{
		NextIndex: 1,
		Digests:   digest.NewSet(),
		Files:     len(objs),
	}

	maxIndex := 0
	for _, obj := range objs {
		idx, matched, err := scheme.Parse(obj.Key)
		if err != nil {
			var w *naming.ParseWarning
			if errors.As(err, &w) {
				logger.Warn("skipping unparsable filename", zap.String("name", obj.Key), zap.String("reason", w.Reason))
				res.Warnings = append(res.Warnings, err)
			}
			continue
		}
		if !matched {
			continue
		}
		res.Matched++
		if idx > maxIndex {
			maxIndex = idx
		}
	}
	if maxIndex > 0 {
		res.NextIndex = maxIndex + 1
	}

	for _, obj := range objs {
		d, err := hashObject(ctx, s, obj.Key)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("skipping unreadable file", zap.String("name", obj.Key), zap.Error(err))
			res.Unreadable = append(res.Unreadable, obj.Key)
			continue
		}
		res.Digests.Admit(d)
	}

	return res, nil
}

func hashObject(ctx context.Context, s *store.Store, key string) (digest.Digest, error) {
	if dir := s.Dir(); dir != "" {
		return digest.SumFile(filepath.Join(dir, key))
	}

	r, err := s.Open(ctx, key)
	if err != nil {
		return digest.Digest{}, &digest.ReadError{Path: key, Err: err}
	}
	defer r.Close()

	d, err := digest.SumReader(r)
	if err != nil {
		return digest.Digest{}, &digest.ReadError{Path: key, Err: err}
	}
	return d, nil
}
