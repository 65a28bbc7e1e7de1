// Package bucket implements the mutex-guarded set of line-content digests shared by every
// reference job feeding a single Denoiser.Run (spec.md §4). Digests are produced by
// github.com/cespare/xxhash/v2, a fast non-cryptographic hash already exercised by
// artifact.Line's lazy Hash method, so the bucket stores the same uint64 values Line.Hash
// returns without any re-hashing at insertion time.
package bucket

import "sync"

// Bucket is a concurrency-safe set of 64-bit digests. The zero value is not usable (Insert
// would write to a nil map); construct with New.
type Bucket struct {
	mu   sync.RWMutex
	seen map[uint64]struct{}
}

// New returns an empty Bucket sized for roughly n expected entries.
func New(n int) *Bucket {
	if n < 0 {
		n = 0
	}
	return &Bucket{seen: make(map[uint64]struct{}, n)}
}

// Insert adds h to the set. Safe for concurrent use by multiple reference jobs.
func (b *Bucket) Insert(h uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seen[h] = struct{}{}
}

// InsertAll adds every digest in hs to the set in a single critical section, avoiding one
// lock/unlock round-trip per line when a reference job has a full batch ready at once.
func (b *Bucket) InsertAll(hs []uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, h := range hs {
		b.seen[h] = struct{}{}
	}
}

// Contains reports whether h has been inserted. Safe for concurrent use alongside Insert;
// callers that need "has every reference finished inserting" as a precondition must enforce
// that ordering themselves (the Denoiser does so via pool.WaitAll before diffing).
func (b *Bucket) Contains(h uint64) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.seen[h]
	return ok
}

// Len reports the number of distinct digests currently in the set.
func (b *Bucket) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.seen)
}
