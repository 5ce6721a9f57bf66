// Package engine adapts the external chart calculation engine.
//
// The engine is a pure collaborator: one call per "generate" action, one
// immutable result or an error, never a partial result. Adapters here only
// move bytes; astronomy stays on the other side of the boundary.
package engine

import (
	"context"
	"time"

	chart "github.com/nholding/kundli-view/internal/chart/domain"
)

// Engine computes a chart for one birth.
type Engine interface {
	ComputeChart(ctx context.Context, in BirthData) (*chart.Result, error)
}

// Func adapts a plain function to Engine.
type Func func(ctx context.Context, in BirthData) (*chart.Result, error)

// ComputeChart calls f.
func (f Func) ComputeChart(ctx context.Context, in BirthData) (*chart.Result, error) {
	return f(ctx, in)
}

// WithTimeout bounds every ComputeChart call of e by d. A non-positive d
// returns e unchanged.
func WithTimeout(e Engine, d time.Duration) Engine {
	if d <= 0 {
		return e
	}
	return Func(func(ctx context.Context, in BirthData) (*chart.Result, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return e.ComputeChart(ctx, in)
	})
}
