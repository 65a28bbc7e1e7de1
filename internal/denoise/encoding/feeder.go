// Package encoding turns a raw byte stream, delivered either by pulling (a local file) or by
// pushing (HTTP body chunks), into a sequence of Unicode code points. It realizes spec.md
// §4.4's Feeder/Decoder trait pair: grounded on original_source/src/encoding.hpp for the
// per-encoding decode logic and on original_source/src/log-downloader.hpp for the
// push-style buffered delivery a streaming HTTP client needs.
package encoding

// Feeder is a byte source a Decoder consumes one byte at a time, with the ability to push a
// byte back when a decode attempt turns out to need more lookahead than it consumed.
type Feeder interface {
	// Get returns the next byte and true, or false if none is currently available.
	// "Unavailable" means permanent end-of-stream on a pull feeder and "no more bytes buffered
	// right now" on a push feeder — Decoder implementations tell the two apart via the status
	// they return, not via Get's own result.
	Get() (byte, bool)

	// Push appends a byte produced by an external source (e.g. an HTTP response body chunk).
	// StreamFeeder does not support this and panics if called.
	Push(b byte)

	// Putback returns a previously-Get byte to the front of the feeder, for decoders that read
	// ahead before discovering the sequence is invalid or incomplete.
	Putback(b byte)
}

// StreamFeeder pulls bytes from an underlying io.ByteReader-like source on demand. It backs
// local-file decoding, where the whole stream is available synchronously.
type StreamFeeder struct {
	read    func() (byte, error)
	putback []byte
	atEnd   bool
}

// ByteSource is the minimal pull interface StreamFeeder needs; *bufio.Reader satisfies it via
// ReadByte.
type ByteSource interface {
	ReadByte() (byte, error)
}

// NewStreamFeeder wraps src for pull-style decoding.
func NewStreamFeeder(src ByteSource) *StreamFeeder {
	return &StreamFeeder{read: src.ReadByte}
}

func (f *StreamFeeder) Get() (byte, bool) {
	if n := len(f.putback); n > 0 {
		b := f.putback[n-1]
		f.putback = f.putback[:n-1]
		return b, true
	}
	if f.atEnd {
		return 0, false
	}
	b, err := f.read()
	if err != nil {
		f.atEnd = true
		return 0, false
	}
	return b, true
}

// Push is unsupported on a pull-style feeder, matching spec.md §4.4's "push is unsupported"
// for the stream feeder.
func (f *StreamFeeder) Push(byte) {
	panic("encoding: StreamFeeder does not support Push")
}

func (f *StreamFeeder) Putback(b byte) {
	f.putback = append(f.putback, b)
}

// BufferedFeeder is a FIFO of bytes fed by push-style delivery (an HTTP client handing over
// response body chunks as they arrive). Get drains from the front; Push appends at the back;
// Putback re-inserts at the front, ahead of anything already buffered.
type BufferedFeeder struct {
	buf []byte
}

// NewBufferedFeeder returns an empty push-style feeder.
func NewBufferedFeeder() *BufferedFeeder {
	return &BufferedFeeder{}
}

func (f *BufferedFeeder) Get() (byte, bool) {
	if len(f.buf) == 0 {
		return 0, false
	}
	b := f.buf[0]
	f.buf = f.buf[1:]
	return b, true
}

func (f *BufferedFeeder) Push(b byte) {
	f.buf = append(f.buf, b)
}

func (f *BufferedFeeder) Putback(b byte) {
	f.buf = append([]byte{b}, f.buf...)
}

// PushAll appends an entire chunk at once, avoiding one append-and-grow per byte when an HTTP
// client hands over a multi-kilobyte read.
func (f *BufferedFeeder) PushAll(chunk []byte) {
	f.buf = append(f.buf, chunk...)
}

// Len reports how many bytes are currently buffered and not yet consumed.
func (f *BufferedFeeder) Len() int {
	return len(f.buf)
}

var (
	_ Feeder = (*StreamFeeder)(nil)
	_ Feeder = (*BufferedFeeder)(nil)
)
