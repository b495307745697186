// Package hash computes the 64-bit keys used to index qualified TRE tags.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given qualified tag.
func ID(tag string) uint64 {
	return xxhash.Sum64String(tag)
}

// Digest hashes a tag assembled from a base name and its loop suffixes without
// building the intermediate string.
func Digest(base string, suffixes ...string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(base)
	for _, s := range suffixes {
		_, _ = d.WriteString(s)
	}

	return d.Sum64()
}
