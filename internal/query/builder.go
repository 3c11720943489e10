package query

import (
	"context"

	"recordbase/internal/core/apperror"
)

type builderState int

const (
	stateUnconfigured builderState = iota
	stateConfigured
	stateExecuted
)

// Builder wires a source, a registry and one request's Params into a single
// execution. One search = one builder instance: the state machine is
// Unconfigured -> Configured -> Executed, and both configuring after Execute
// and executing twice fail with an invalid-state error, so a builder (and
// the closures it captured) can never leak across unrelated requests.
//
// A builder is not safe for concurrent use; each logical request must own
// its own instance.
type Builder[T any] struct {
	state     builderState
	err       error
	src       Source[T]
	reg       *Registry[T]
	params    Params
	hasParams bool
	include   ApplyInclude[T]
	project   func(T) T
}

// NewBuilder creates an unconfigured builder for entity type T.
func NewBuilder[T any]() *Builder[T] {
	return &Builder[T]{}
}

// Source sets the queryable source. Required before Execute.
func (b *Builder[T]) Source(src Source[T]) *Builder[T] {
	if b.guard() {
		b.src = src
	}
	return b
}

// Registry sets the field registry. Required before Execute.
func (b *Builder[T]) Registry(reg *Registry[T]) *Builder[T] {
	if b.guard() {
		b.reg = reg
	}
	return b
}

// Params sets the request parameter model. Required before Execute.
func (b *Builder[T]) Params(p Params) *Builder[T] {
	if b.guard() {
		b.params = p
		b.hasParams = true
	}
	return b
}

// Include sets the entity owner's eager-load function. Optional; without it
// include hints are ignored.
func (b *Builder[T]) Include(fn ApplyInclude[T]) *Builder[T] {
	if b.guard() {
		b.include = fn
	}
	return b
}

// Project sets a per-item projection applied after materialization.
// Optional; defaults to identity.
func (b *Builder[T]) Project(fn func(T) T) *Builder[T] {
	if b.guard() {
		b.project = fn
	}
	return b
}

// Err reports the first invalid-state error recorded by the fluent setters,
// if any. Execute surfaces the same error.
func (b *Builder[T]) Err() error {
	return b.err
}

// guard checks and advances the configuration state. A setter called after
// execution records a sticky invalid-state error instead of mutating the
// builder.
func (b *Builder[T]) guard() bool {
	if b.state == stateExecuted {
		if b.err == nil {
			b.err = apperror.NewInvalidState("query builder reconfigured after execution")
		}
		return false
	}
	b.state = stateConfigured
	return true
}

// Execute runs the pipeline exactly once. Missing required configuration,
// re-execution and post-execution reconfiguration all fail with distinct
// invalid-state errors; source failures propagate unmodified semantics
// (wrapped, no retry, no suppression).
func (b *Builder[T]) Execute(ctx context.Context) (Page[T], error) {
	if b.state == stateExecuted {
		return Page[T]{}, apperror.NewInvalidState("query builder already executed")
	}
	if b.err != nil {
		return Page[T]{}, b.err
	}
	if b.src == nil {
		return Page[T]{}, apperror.NewInvalidState("query builder has no source")
	}
	if b.reg == nil {
		return Page[T]{}, apperror.NewInvalidState("query builder has no field registry")
	}
	if !b.hasParams {
		return Page[T]{}, apperror.NewInvalidState("query builder has no params")
	}

	b.state = stateExecuted
	return execute(ctx, b.src, b.reg, b.params, b.include, b.project)
}
