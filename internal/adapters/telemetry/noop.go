// Package telemetry provides build-progress recording adapters.
package telemetry

import (
	"context"

	"github.com/benv-dev/benv/internal/core/ports"
)

// NoOp is a no-op implementation of ports.Telemetry for non-interactive
// invocations and tests.
type NoOp struct{}

// NewNoOp creates a new NoOp recorder.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Record returns the context unchanged and a vertex that discards events.
func (n *NoOp) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	return ctx, &NoOpVertex{}
}

// Close does nothing.
func (n *NoOp) Close() error { return nil }

// NoOpVertex discards all vertex events.
type NoOpVertex struct{}

// Complete does nothing.
func (v *NoOpVertex) Complete(error) {}

// Cached does nothing.
func (v *NoOpVertex) Cached() {}
