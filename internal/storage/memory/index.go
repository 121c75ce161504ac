// Package memory implements the in-process dual index over URL records:
// two sharded hash tables, keyed by short code and by original URL, chaining
// shared nodes so each record is stored exactly once.
package memory

import (
	"fmt"
	"iter"

	"github.com/Shreecharana24/URL-shortner/internal/models"
)

// DefaultBucketCount matches the table size of the classic prime-sharded layout.
const DefaultBucketCount = 1009

// node lives in one code-table chain and one URL-table chain at the same
// time, so removal must unlink it from both.
type node struct {
	record   *models.URL
	nextCode *node
	nextURL  *node
}

// Index is the unsynchronized dual index. A record is reachable from the
// code table if and only if it is reachable from the URL table. Callers are
// responsible for serializing access; the mapping engine wraps every
// operation in a single lock domain.
type Index struct {
	codeBuckets []*node
	urlBuckets  []*node
	size        int
}

// New creates an empty Index with the given number of buckets per table.
// Non-positive counts fall back to DefaultBucketCount.
func New(bucketCount int) *Index {
	if bucketCount <= 0 {
		bucketCount = DefaultBucketCount
	}

	return &Index{
		codeBuckets: make([]*node, bucketCount),
		urlBuckets:  make([]*node, bucketCount),
	}
}

// hash is djb2 reduced to a bucket index. Both tables use it, each over its
// own key domain.
func (ix *Index) hash(key string) int {
	h := uint64(5381)
	for i := 0; i < len(key); i++ {
		h = h<<5 + h + uint64(key[i])
	}
	return int(h % uint64(len(ix.codeBuckets)))
}

// LookupCode returns the record for a short code, if any. Chain traversal
// compares full keys, since distinct keys may share a bucket.
func (ix *Index) LookupCode(code string) (*models.URL, bool) {
	for n := ix.codeBuckets[ix.hash(code)]; n != nil; n = n.nextCode {
		if n.record.ShortCode == code {
			return n.record, true
		}
	}
	return nil, false
}

// LookupURL returns the record for an original URL, if any.
func (ix *Index) LookupURL(url string) (*models.URL, bool) {
	for n := ix.urlBuckets[ix.hash(url)]; n != nil; n = n.nextURL {
		if n.record.OriginalURL == url {
			return n.record, true
		}
	}
	return nil, false
}

// Insert links rec into both tables' bucket chains by head insertion.
// The caller must have checked that neither key is present; Insert trusts
// that check and performs none of its own.
func (ix *Index) Insert(rec *models.URL) {
	n := &node{record: rec}

	hc := ix.hash(rec.ShortCode)
	n.nextCode = ix.codeBuckets[hc]
	ix.codeBuckets[hc] = n

	hu := ix.hash(rec.OriginalURL)
	n.nextURL = ix.urlBuckets[hu]
	ix.urlBuckets[hu] = n

	ix.size++
}

// Remove unlinks the record for code from both tables and returns it.
// The second return is false when the code is absent. A record reachable
// from one table but not the other means the index is corrupt, which is
// unrecoverable; Remove panics rather than leaving a dangling half-link.
func (ix *Index) Remove(code string) (*models.URL, bool) {
	hc := ix.hash(code)

	var target *node
	var prev *node
	for n := ix.codeBuckets[hc]; n != nil; n = n.nextCode {
		if n.record.ShortCode == code {
			target = n
			break
		}
		prev = n
	}
	if target == nil {
		return nil, false
	}

	if prev != nil {
		prev.nextCode = target.nextCode
	} else {
		ix.codeBuckets[hc] = target.nextCode
	}

	// Unlink the same node from the URL chain by identity, not by key.
	hu := ix.hash(target.record.OriginalURL)
	prev = nil
	for n := ix.urlBuckets[hu]; n != nil; n = n.nextURL {
		if n == target {
			if prev != nil {
				prev.nextURL = target.nextURL
			} else {
				ix.urlBuckets[hu] = target.nextURL
			}

			target.nextCode = nil
			target.nextURL = nil
			ix.size--
			return target.record, true
		}
		prev = n
	}

	panic(fmt.Sprintf("memory.Index: record %q present in code table but missing from url table", code))
}

// All iterates over every record in code-table bucket order, then chain
// order. It reads the live chains, so callers mutating the index must not
// do so mid-iteration.
func (ix *Index) All() iter.Seq[*models.URL] {
	return func(yield func(*models.URL) bool) {
		for _, head := range ix.codeBuckets {
			for n := head; n != nil; n = n.nextCode {
				if !yield(n.record) {
					return
				}
			}
		}
	}
}

// Len returns the number of records in the index.
func (ix *Index) Len() int {
	return ix.size
}

// Occupancy counts the buckets holding at least one record in the code
// table and the URL table respectively. It is a coarse distribution
// diagnostic, not a record count.
func (ix *Index) Occupancy() (codeBuckets, urlBuckets int) {
	for i := range ix.codeBuckets {
		if ix.codeBuckets[i] != nil {
			codeBuckets++
		}
		if ix.urlBuckets[i] != nil {
			urlBuckets++
		}
	}
	return codeBuckets, urlBuckets
}

// Clear drops every record from both tables.
func (ix *Index) Clear() {
	for i := range ix.codeBuckets {
		ix.codeBuckets[i] = nil
		ix.urlBuckets[i] = nil
	}
	ix.size = 0
}
