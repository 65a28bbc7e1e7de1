// Package logger adapts the spec's level-gated event sink (Critical, Error, Warning, Info,
// Profile, Debug) onto go.uber.org/zap, the same logging backbone the teacher codebase uses.
// The core denoiser packages depend only on the Sink interface, never on *ZapSink directly, so
// the logging/profiling backend stays an injectable, replaceable collaborator.
package logger

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is a bitmask, mirroring the original C++ implementation's log::level_t: several
// levels can be enabled at once and a sink checks membership with a bitwise AND rather than
// a single ordinal threshold like zap's own AtomicLevel.
type Level uint8

const (
	LevelCritical Level = 1 << iota
	LevelError
	LevelWarning
	LevelInfo
	LevelProfile
	LevelDebug
)

// Default is the level set active with no CLI verbosity flags: only failures worth a human's
// attention are reported.
const Default = LevelCritical | LevelError | LevelWarning

// All enables every level, equivalent to the CLI's --debug flag.
const All = LevelCritical | LevelError | LevelWarning | LevelInfo | LevelProfile | LevelDebug

// Has reports whether every bit set in want is also set in l.
func (l Level) Has(want Level) bool { return l&want == want }

// Sink is the injectable event sink the core denoiser packages emit through (spec.md §4.8).
// A Sink must be safe for concurrent use: reference-fetch workers and the target's own
// prepare pass may log through the same Sink from different goroutines.
type Sink interface {
	Critical(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Warning(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Profile(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)

	// Enabled reports whether lvl is active, letting callers skip building expensive fields
	// (e.g. a formatted duration) for a level nobody will observe.
	Enabled(lvl Level) bool
}

// ZapSink is the production Sink, backed by a *zap.Logger. Critical maps to zap's Error
// severity (there is no higher-than-Error zap level short of DPanic/Panic/Fatal, which the spec's
// "critical" tier does not intend to invoke) tagged with a "critical" field so it can still
// be told apart from an ordinary Error event downstream.
type ZapSink struct {
	logger *zap.Logger
	levels Level
}

var _ Sink = (*ZapSink)(nil)

// New wraps an existing *zap.Logger with the spec's bitmask level gate.
func New(zapLogger *zap.Logger, levels Level) *ZapSink {
	return &ZapSink{logger: zapLogger, levels: levels}
}

// NewNop returns a Sink that discards everything, for tests and library callers that don't
// want denoiser events at all.
func NewNop() *ZapSink {
	return &ZapSink{logger: zap.NewNop(), levels: 0}
}

// NewConsole builds a ZapSink writing human-readable, colorized lines to stderr, matching the
// teacher's pkg/logger.NewLogger("text", ...) console configuration.
func NewConsole(levels Level) (*ZapSink, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.CallerKey = ""
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.DisableCaller = true

	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return New(zapLogger, levels), nil
}

func (s *ZapSink) Enabled(lvl Level) bool { return s.levels.Has(lvl) }

func (s *ZapSink) Critical(msg string, fields ...zap.Field) {
	if s.Enabled(LevelCritical) {
		s.logger.Error(msg, append(fields, zap.Bool("critical", true))...)
	}
}

func (s *ZapSink) Error(msg string, fields ...zap.Field) {
	if s.Enabled(LevelError) {
		s.logger.Error(msg, fields...)
	}
}

func (s *ZapSink) Warning(msg string, fields ...zap.Field) {
	if s.Enabled(LevelWarning) {
		s.logger.Warn(msg, fields...)
	}
}

func (s *ZapSink) Info(msg string, fields ...zap.Field) {
	if s.Enabled(LevelInfo) {
		s.logger.Info(msg, fields...)
	}
}

func (s *ZapSink) Profile(msg string, fields ...zap.Field) {
	if s.Enabled(LevelProfile) {
		s.logger.Info(msg, append(fields, zap.Bool("profile", true))...)
	}
}

func (s *ZapSink) Debug(msg string, fields ...zap.Field) {
	if s.Enabled(LevelDebug) {
		s.logger.Debug(msg, fields...)
	}
}

// Elapsed records how long a named operation took, gated by LevelProfile, mirroring the
// teacher-adjacent original_source/main.cpp profile() helper that timed and logged each
// pipeline stage (fetch, filter, normalize, hash).
func Elapsed(sink Sink, name string, start time.Time) {
	if sink.Enabled(LevelProfile) {
		sink.Profile("stage complete", zap.String("stage", name), zap.Duration("elapsed", time.Since(start)))
	}
}
