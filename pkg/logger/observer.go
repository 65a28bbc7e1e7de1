package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// Logs is the subset of zaptest/observer.ObservedLogs that tests need to assert on emitted
// records without importing the observer package directly everywhere.
type Logs interface {
	// Len returns the number of items in the collection.
	Len() int

	// All returns a copy of all the observed logs.
	All() []observer.LoggedEntry

	// TakeAll returns a copy of all the observed logs, and truncates the observed
	// slice.
	TakeAll() []observer.LoggedEntry
}

var _ Logs = (*observer.ObservedLogs)(nil)

// NewObserverSink builds a Sink backed by an in-memory observer core, for tests that need to
// assert which denoiser events were emitted at which level.
func NewObserverSink(levels Level) (*ZapSink, Logs) {
	observerCore, logs := observer.New(zap.DebugLevel)
	return New(zap.New(observerCore), levels), logs
}
