package artifact

import "unicode/utf8"

// Builder is the DataConsumer contract Fetcher delivers decoded code points through
// (spec.md §4.5): SizeHint reserves capacity up front when the source advertises one (e.g. an
// HTTP Content-Length), and OnData appends one decoded code point, re-encoded as UTF-8, to
// both the mutable and immutable buffers. Build freezes the buffers and constructs the line
// index; a Builder must not be reused after Build is called.
type Builder struct {
	alias   string
	mutData []byte
	immData []byte
}

// NewBuilder returns a Builder for an artifact known by alias.
func NewBuilder(alias string) *Builder {
	return &Builder{alias: alias}
}

// SizeHint pre-reserves capacity for roughly n bytes of decoded content, amortizing the
// repeated appends OnData performs. A no-op if n <= 0.
func (b *Builder) SizeHint(n int) {
	if n <= 0 {
		return
	}
	if cap(b.mutData) < n {
		grown := make([]byte, len(b.mutData), n)
		copy(grown, b.mutData)
		b.mutData = grown
	}
	if cap(b.immData) < n {
		grown := make([]byte, len(b.immData), n)
		copy(grown, b.immData)
		b.immData = grown
	}
}

// OnData appends one decoded code point, UTF-8 encoded, to both buffers.
func (b *Builder) OnData(r rune) {
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	b.mutData = append(b.mutData, buf[:n]...)
	b.immData = append(b.immData, buf[:n]...)
}

// Build freezes the decoded buffers and scans them once to build the line index: a new line
// begins at the first non-separator byte following any separator run, and ends at the next
// '\n' or '\r'. Trailing unterminated text forms a final line. Mirrors
// log-reader.hpp's build_table byte-for-byte; scanning at the byte level is safe here because
// '\n'/'\r' are single-byte code points that never appear as UTF-8 continuation bytes.
func (b *Builder) Build() *File {
	f := &File{alias: b.alias, mutData: b.mutData, immData: b.immData}

	start := -1
	for i, c := range f.mutData {
		switch {
		case start >= 0 && isEndline(c):
			f.appendLine(start, i)
			start = -1
		case start < 0 && !isEndline(c):
			start = i
		}
	}
	if start >= 0 {
		f.appendLine(start, len(f.mutData))
	}

	return f
}

func (f *File) appendLine(start, end int) {
	number := len(f.lines) + 1
	f.lines = append(f.lines, newLine(f, number, f.mutData[start:end], f.immData[start:end]))
}

func isEndline(c byte) bool { return c == '\n' || c == '\r' }
