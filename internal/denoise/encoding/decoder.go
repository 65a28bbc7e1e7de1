package encoding

import (
	"fmt"
	"strings"

	pkgerrors "github.com/lucastoro/denoiser/pkg/errors"
)

// Status is the outcome of a single Decoder invocation.
type Status int

const (
	// Ok means r holds a freshly decoded code point.
	Ok Status = iota
	// End means the feeder is permanently exhausted; r is not meaningful.
	End
	// Incomplete means the feeder ran out of bytes mid-sequence; every byte consumed so far
	// has been put back, and the caller should retry once more bytes are available.
	Incomplete
)

// Decoder turns the next available bytes on f into one Unicode code point.
type Decoder func(f Feeder) (r rune, status Status, err error)

// DecodeASCII implements the US-ASCII decoder of spec.md §4.4: one byte, valid only if <= 0x7F.
func DecodeASCII(f Feeder) (rune, Status, error) {
	b, ok := f.Get()
	if !ok {
		return 0, End, nil
	}
	if b > 0x7F {
		return 0, Ok, pkgerrors.Encoding("%#x is not a valid ASCII character", b)
	}
	return rune(b), Ok, nil
}

// DecodeLatin1 implements the ISO-8859-1 decoder: every byte value is a valid code point.
func DecodeLatin1(f Feeder) (rune, Status, error) {
	b, ok := f.Get()
	if !ok {
		return 0, End, nil
	}
	return rune(b), Ok, nil
}

// DecodeUTF8 implements the classical 1-4 byte UTF-8 decode with strict continuation-byte
// validation, mirroring original_source/src/encoding.hpp's UTF8<T> template. On running out
// of bytes mid-sequence every byte consumed so far is put back (so a later retry with more
// data sees the whole sequence again) and Incomplete is returned.
func DecodeUTF8(f Feeder) (rune, Status, error) {
	a, ok := f.Get()
	if !ok {
		return 0, End, nil
	}

	if a&0x80 == 0 { // 0aaaaaaa
		return rune(a), Ok, nil
	}

	switch {
	case a&0xE0 == 0xC0: // 110aaaaa 10bbbbbb
		return decodeContinuation(f, []byte{a}, rune(a&0x1F), 1)
	case a&0xF0 == 0xE0: // 1110aaaa 10bbbbbb 10cccccc
		return decodeContinuation(f, []byte{a}, rune(a&0x0F), 2)
	case a&0xF8 == 0xF0: // 11110aaa 10bbbbbb 10cccccc 10dddddd
		return decodeContinuation(f, []byte{a}, rune(a&0x07), 3)
	default:
		return 0, Ok, pkgerrors.Encoding("unexpected UTF-8 lead byte: %#x", a)
	}
}

// decodeContinuation reads n continuation bytes, accumulating into acc, validating each is
// 10xxxxxx. consumed tracks every byte read so far (including the lead byte already passed in
// via the caller) so that a short read can put everything back verbatim.
func decodeContinuation(f Feeder, consumed []byte, acc rune, n int) (rune, Status, error) {
	for i := 0; i < n; i++ {
		b, ok := f.Get()
		if !ok {
			putbackAll(f, consumed)
			return 0, Incomplete, nil
		}
		if b&0xC0 != 0x80 {
			return 0, Ok, pkgerrors.Encoding("unexpected UTF-8 continuation byte: %#x", b)
		}
		consumed = append(consumed, b)
		acc = (acc << 6) | rune(b&0x3F)
	}
	return acc, Ok, nil
}

// putbackAll returns bytes to the feeder in reverse order so that a subsequent Get sequence
// reproduces the original byte order.
func putbackAll(f Feeder, consumed []byte) {
	for i := len(consumed) - 1; i >= 0; i-- {
		f.Putback(consumed[i])
	}
}

// ResolveDecoder maps a charset name, case-insensitively, to a Decoder. It supports exactly
// the three encodings spec.md §4.4 names.
func ResolveDecoder(charset string) (Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "utf-8", "utf8":
		return DecodeUTF8, nil
	case "us-ascii", "ascii":
		return DecodeASCII, nil
	case "iso-8859-1", "latin1":
		return DecodeLatin1, nil
	default:
		return nil, pkgerrors.Config("unsupported charset: %s", charset)
	}
}

// MustResolveDecoder is ResolveDecoder for call sites that already validated charset (e.g.
// constants), panicking instead of threading an error for an input that cannot vary at
// runtime.
func MustResolveDecoder(charset string) Decoder {
	d, err := ResolveDecoder(charset)
	if err != nil {
		panic(fmt.Sprintf("encoding: %v", err))
	}
	return d
}
