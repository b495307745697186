package field

import (
	"sort"
	"strings"

	"github.com/ngageoint/six-library-sub005/internal/hash"
)

// Store maps qualified tags to fields.
//
// Tags are indexed by their xxHash64 with a short bucket per hash, so distinct
// tags sharing a hash never overwrite each other. The store exclusively owns
// every field put into it. Iteration order is unspecified; the canonical order
// of a TRE's fields comes only from walking its program.
//
// Note: Store is NOT safe for concurrent use.
type Store struct {
	buckets map[uint64][]entry
	count   int
}

type entry struct {
	tag   string
	field *Field
}

// Match is a single result of FindMatching.
type Match struct {
	Tag   string
	Field *Field
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{buckets: make(map[uint64][]entry)}
}

// Len returns the number of stored fields.
func (s *Store) Len() int { return s.count }

// Get returns the field stored under tag.
func (s *Store) Get(tag string) (*Field, bool) {
	for _, e := range s.buckets[hash.ID(tag)] {
		if e.tag == tag {
			return e.field, true
		}
	}

	return nil, false
}

// Has reports whether tag is present.
func (s *Store) Has(tag string) bool {
	_, ok := s.Get(tag)
	return ok
}

// Set stores f under tag, replacing any previous field.
func (s *Store) Set(tag string, f *Field) {
	id := hash.ID(tag)
	bucket := s.buckets[id]
	for i := range bucket {
		if bucket[i].tag == tag {
			bucket[i].field = f
			return
		}
	}

	s.buckets[id] = append(bucket, entry{tag: tag, field: f})
	s.count++
}

// Remove deletes tag and returns the field it held.
func (s *Store) Remove(tag string) (*Field, bool) {
	id := hash.ID(tag)
	bucket := s.buckets[id]
	for i, e := range bucket {
		if e.tag != tag {
			continue
		}
		bucket = append(bucket[:i], bucket[i+1:]...)
		if len(bucket) == 0 {
			delete(s.buckets, id)
		} else {
			s.buckets[id] = bucket
		}
		s.count--

		return e.field, true
	}

	return nil, false
}

// Clear removes every field.
func (s *Store) Clear() {
	for k := range s.buckets {
		delete(s.buckets, k)
	}
	s.count = 0
}

// Range calls fn for every stored field until fn returns false.
func (s *Store) Range(fn func(tag string, f *Field) bool) {
	for _, bucket := range s.buckets {
		for _, e := range bucket {
			if !fn(e.tag, e.field) {
				return
			}
		}
	}
}

// FindMatching returns every field whose tag contains substr. Results are
// sorted by tag so repeated queries are stable; callers must not read
// traversal order into them.
func (s *Store) FindMatching(substr string) []Match {
	var out []Match
	s.Range(func(tag string, f *Field) bool {
		if strings.Contains(tag, substr) {
			out = append(out, Match{Tag: tag, Field: f})
		}

		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })

	return out
}

// Clone returns a deep copy of the store.
func (s *Store) Clone() *Store {
	c := &Store{buckets: make(map[uint64][]entry, len(s.buckets)), count: s.count}
	for id, bucket := range s.buckets {
		cp := make([]entry, len(bucket))
		for i, e := range bucket {
			cp[i] = entry{tag: e.tag, field: e.field.Clone()}
		}
		c.buckets[id] = cp
	}

	return c
}
