// Package collision detects field tags that a program declares more than
// once, and distinct tags that share a 64-bit hash.
package collision

import (
	"fmt"

	"github.com/ngageoint/six-library-sub005/errs"
)

// Tracker records tags in declaration order together with their hashes.
//
// A repeated tag is legal in a program (alternative If blocks commonly reuse
// a tag), but outside such blocks the later field overwrites the earlier one
// in the field store, so repeats are reported for diagnostics. Hash
// collisions only set a flag: field.Store keeps colliding tags in the same
// bucket.
type Tracker struct {
	byHash       map[uint64][]string
	tags         []string
	duplicates   []string
	hasCollision bool
}

// NewTracker creates a new collision tracker.
func NewTracker() *Tracker {
	return &Tracker{
		byHash: make(map[uint64][]string),
		tags:   make([]string, 0),
	}
}

// Track records tag under its hash id. It reports whether tag had already
// been tracked. An empty tag returns errs.ErrInvalidTag.
func (t *Tracker) Track(tag string, id uint64) (bool, error) {
	if tag == "" {
		return false, fmt.Errorf("%w: empty field tag", errs.ErrInvalidTag)
	}

	bucket := t.byHash[id]
	for _, existing := range bucket {
		if existing == tag {
			t.duplicates = append(t.duplicates, tag)
			return true, nil
		}
	}
	if len(bucket) > 0 {
		t.hasCollision = true
	}

	t.byHash[id] = append(bucket, tag)
	t.tags = append(t.tags, tag)

	return false, nil
}

// HasCollision returns true if two distinct tags shared a hash.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// Tags returns the distinct tags in the order they were first tracked.
func (t *Tracker) Tags() []string {
	return t.tags
}

// Duplicates returns every repeated tag, once per repetition.
func (t *Tracker) Duplicates() []string {
	return t.duplicates
}

// Count returns the number of distinct tags.
func (t *Tracker) Count() int {
	return len(t.tags)
}

// Reset clears all tracked tags and collision state.
func (t *Tracker) Reset() {
	clear(t.byHash)
	t.tags = t.tags[:0]
	t.duplicates = t.duplicates[:0]
	t.hasCollision = false
}
