package digest

import "sync"

// Set is a set of digests safe for concurrent use.
type Set struct {
	mu sync.Mutex
	m  map[Digest]struct{}
}

// NewSet returns a set seeded with ds.
func NewSet(ds ...Digest) *Set {
	s := &Set{m: make(map[Digest]struct{}, len(ds))}
	for _, d := range ds {
		s.m[d] = struct{}{}
	}
	return s
}

// Admit inserts d and reports whether it was absent. Exactly one of any
// number of concurrent Admit calls for the same digest returns true.
func (s *Set) Admit(d Digest) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m == nil {
		s.m = make(map[Digest]struct{})
	}
	if _, ok := s.m[d]; ok {
		return false
	}
	s.m[d] = struct{}{}
	return true
}

// Forget removes d. It is meant for rolling back an Admit whose content
// could not be stored.
func (s *Set) Forget(d Digest) {
	s.mu.Lock()
	delete(s.m, d)
	s.mu.Unlock()
}

// Len returns the number of digests in the set.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}
