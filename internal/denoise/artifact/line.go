// Package artifact implements the decoded line-indexed buffer (File) and its Line views,
// grounded on original_source/src/log-reader.hpp's file<CharT>/line<CharT> pair. CharT is
// realized as a UTF-8 byte throughout: every Line holds direct sub-slices of its owning
// File's frozen backing arrays rather than raw pointers, which gives "no reallocation after
// indexing" for free as long as nothing appends to those arrays after Build runs.
package artifact

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
	"github.com/lucastoro/denoiser/internal/denoise/pattern"
)

const asciiWhitespace = " \t\n\r\f\v"

// Line is a view over a contiguous, non-overlapping region of its File's mutable buffer, with
// an associated frozen region of the immutable buffer used for display. Line is not safe for
// concurrent mutation from multiple goroutines; the denoiser pipeline assigns each Line to
// exactly one worker per pass.
type Line struct {
	file      *File
	number    int
	mut       []byte
	original  []byte
	hash      uint64
	hashValid bool
}

func newLine(file *File, number int, mut, original []byte) *Line {
	return &Line{file: file, number: number, mut: mut, original: original}
}

// Number returns the line's 1-based position within its owning File.
func (l *Line) Number() int { return l.number }

// File returns the owning File. The reference never implies ownership.
func (l *Line) File() *File { return l.file }

// Str returns the original, immutable display text of the line.
func (l *Line) Str() []byte { return l.original }

// Mut returns the current, possibly-edited extent of the line, used for hashing and
// diagnostics. A suppressed line returns an empty slice.
func (l *Line) Mut() []byte { return l.mut }

// Suppressed reports whether the line's mutable extent is currently empty.
func (l *Line) Suppressed() bool { return len(l.mut) == 0 }

// Suppress empties the line's mutable extent if pat matches anywhere within it. A no-op on an
// already-suppressed line or a non-matching pattern.
func (l *Line) Suppress(pat pattern.Pattern) {
	if len(l.mut) == 0 {
		return
	}
	if pat.Match(l.mut) {
		l.mut = l.mut[:0]
		l.invalidate()
	}
}

// Remove deletes every non-overlapping, left-to-right match of pat from the line's mutable
// extent, then trims ASCII whitespace from both ends. A no-op on an already-suppressed line.
func (l *Line) Remove(pat pattern.Pattern) {
	if len(l.mut) == 0 {
		return
	}
	l.mut = pat.RemoveAll(l.mut)
	l.mut = bytes.Trim(l.mut, asciiWhitespace)
	l.invalidate()
}

func (l *Line) invalidate() {
	l.hash = 0
	l.hashValid = false
}

// Hash returns a 64-bit fingerprint of the line's current mutable extent, computing and
// caching it on first call. A suppressed line hashes the empty byte sequence. The digest is a
// fingerprint (cespare/xxhash/v2, the teacher pack's non-cryptographic hash of choice for this
// purpose), not a security primitive: collisions are tolerated at the ordinary birthday-bound
// rate for a 64-bit hash.
func (l *Line) Hash() uint64 {
	if !l.hashValid {
		l.hash = xxhash.Sum64(l.mut)
		l.hashValid = true
	}
	return l.hash
}
