// Package errors implements the denoiser's error taxonomy: ConfigError, NotFoundError,
// IOError, EncodingError, and UsageError (spec.md §7). Each is a Kind-tagged *Error built on
// top of internal/errors.With so the underlying cause, when present, stays reachable through
// errors.Is/errors.As.
package errors

import (
	"errors"
	"fmt"

	internalerrors "github.com/lucastoro/denoiser/internal/errors"
)

// Kind identifies which branch of the taxonomy an Error belongs to.
type Kind int

const (
	// KindConfig covers malformed YAML, invalid regex, and missing required fields.
	KindConfig Kind = iota
	// KindNotFound covers a local path or HTTP resource that does not exist.
	KindNotFound
	// KindIO covers transport or file errors other than "not found".
	KindIO
	// KindEncoding covers an invalid byte sequence for the active decoder.
	KindEncoding
	// KindUsage covers CLI misuse.
	KindUsage
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config error"
	case KindNotFound:
		return "not found"
	case KindIO:
		return "io error"
	case KindEncoding:
		return "encoding error"
	case KindUsage:
		return "usage error"
	default:
		return "error"
	}
}

// Error is the taxonomy's concrete error type.
type Error struct {
	Kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.msg, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.err }

func newError(kind Kind, cause error, format string, args ...any) error {
	e := &Error{Kind: kind, msg: fmt.Sprintf(format, args...), err: cause}
	if cause == nil {
		return e
	}
	// internal/errors.With keeps both e and cause independently reachable via errors.Is/As:
	// e is the base, so its formatted message (which already folds in cause) is what
	// Error() returns, while cause stays reachable for errors.Is(err, cause) equality checks.
	return internalerrors.With(e, cause)
}

// Config builds a KindConfig error.
func Config(format string, args ...any) error { return newError(KindConfig, nil, format, args...) }

// ConfigWrap builds a KindConfig error wrapping cause.
func ConfigWrap(cause error, format string, args ...any) error {
	return newError(KindConfig, cause, format, args...)
}

// NotFound builds a KindNotFound error.
func NotFound(format string, args ...any) error {
	return newError(KindNotFound, nil, format, args...)
}

// NotFoundWrap builds a KindNotFound error wrapping cause.
func NotFoundWrap(cause error, format string, args ...any) error {
	return newError(KindNotFound, cause, format, args...)
}

// IO builds a KindIO error wrapping cause.
func IO(cause error, format string, args ...any) error {
	return newError(KindIO, cause, format, args...)
}

// Encoding builds a KindEncoding error.
func Encoding(format string, args ...any) error {
	return newError(KindEncoding, nil, format, args...)
}

// Usage builds a KindUsage error.
func Usage(format string, args ...any) error {
	return newError(KindUsage, nil, format, args...)
}

// Is reports whether the first *Error found in err's chain (in errors.As order) belongs to
// kind. An *Error of another kind wrapped further down the chain is not consulted.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
