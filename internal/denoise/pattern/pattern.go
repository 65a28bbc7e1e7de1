// Package pattern implements the tagged-union Pattern value used by filters and normalizers:
// either a literal substring or a compiled regular expression.
package pattern

import (
	"bytes"
	"regexp"

	pkgerrors "github.com/lucastoro/denoiser/pkg/errors"
)

// Kind distinguishes the two branches of a Pattern.
type Kind int

const (
	Literal Kind = iota
	Regex
)

// Pattern is immutable after construction and safe to share by value across goroutines.
type Pattern struct {
	kind Kind
	text string
	expr *regexp.Regexp
}

// NewLiteral builds a literal substring pattern. Construction never fails.
func NewLiteral(text string) Pattern {
	return Pattern{kind: Literal, text: text}
}

// NewRegex compiles expr and builds a regex pattern. Construction is the only failing
// operation on Pattern; an invalid expression surfaces as a ConfigError.
func NewRegex(expr string) (Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{}, pkgerrors.Config("invalid regular expression %q: %v", expr, err)
	}
	return Pattern{kind: Regex, expr: re}, nil
}

// MustRegex is like NewRegex but panics on an invalid expression. Useful for patterns
// compiled from trusted, already-validated sources (tests, fixtures).
func MustRegex(expr string) Pattern {
	p, err := NewRegex(expr)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Pattern) IsLiteral() bool { return p.kind == Literal }
func (p Pattern) IsRegex() bool   { return p.kind == Regex }

// Text returns the literal text for a Literal pattern, or "" otherwise.
func (p Pattern) Text() string { return p.text }

// Expr returns the compiled expression for a Regex pattern, or nil otherwise.
func (p Pattern) Expr() *regexp.Regexp { return p.expr }

// Match reports whether the pattern matches anywhere within b.
func (p Pattern) Match(b []byte) bool {
	switch p.kind {
	case Literal:
		return bytes.Contains(b, []byte(p.text))
	case Regex:
		return p.expr.Match(b)
	default:
		return false
	}
}

// RemoveAll deletes every non-overlapping, left-to-right match of the pattern from b and
// returns the shrunk slice. It mutates b in place: matched bytes are overwritten by shifting
// the remaining suffix left, never allocating new backing storage.
func (p Pattern) RemoveAll(b []byte) []byte {
	switch p.kind {
	case Literal:
		return removeLiteral(b, p.text)
	case Regex:
		return removeRegex(b, p.expr)
	default:
		return b
	}
}

func removeLiteral(b []byte, lit string) []byte {
	if len(lit) == 0 || len(b) == 0 {
		return b
	}
	litBytes := []byte(lit)
	write, read := 0, 0
	n := len(b)
	for read < n {
		idx := bytes.Index(b[read:], litBytes)
		if idx < 0 {
			copy(b[write:], b[read:])
			write += n - read
			read = n
			break
		}
		copy(b[write:], b[read:read+idx])
		write += idx
		read += idx + len(litBytes)
	}
	return b[:write]
}

func removeRegex(b []byte, re *regexp.Regexp) []byte {
	locs := re.FindAllIndex(b, -1)
	if len(locs) == 0 {
		return b
	}
	write, read := 0, 0
	for _, loc := range locs {
		copy(b[write:], b[read:loc[0]])
		write += loc[0] - read
		read = loc[1]
	}
	copy(b[write:], b[read:])
	write += len(b) - read
	return b[:write]
}
