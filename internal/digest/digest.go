package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
)

// Size is the length of a digest in bytes.
const Size = sha256.Size

// chunkSize bounds how much of a source is read at once.
const chunkSize = 32 * 1024

// Digest is the SHA-256 sum of some content.
type Digest [Size]byte

// String returns the lowercase hex encoding of d.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// ReadError is returned when a source cannot be read for hashing.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("digest: read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// IsNotExist reports whether err is a ReadError for a missing source.
func IsNotExist(err error) bool {
	var re *ReadError
	return errors.As(err, &re) && errors.Is(re.Err, os.ErrNotExist)
}

// Sum returns the digest of b.
func Sum(b []byte) Digest {
	return Digest(sha256.Sum256(b))
}

// SumReader hashes r until EOF, reading at most 32 KiB at a time.
func SumReader(r io.Reader) (Digest, error) {
	var d Digest
	h := sha256.New()
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return d, err
	}
	copy(d[:], h.Sum(nil))
	return d, nil
}

// SumFile hashes the file at path. Any failure is reported as a *ReadError.
func SumFile(path string) (Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Digest{}, &ReadError{Path: path, Err: err}
	}
	defer f.Close()

	d, err := SumReader(f)
	if err != nil {
		return Digest{}, &ReadError{Path: path, Err: err}
	}
	return d, nil
}
