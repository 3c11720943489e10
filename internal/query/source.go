package query

import "context"

// Source is the opaque, composable queryable-source contract the engine
// builds operations onto. Implementations must be value-chained: every
// method returns a derived source and leaves the receiver untouched, so a
// base source can be safely shared as the starting point of many requests.
//
// The engine only ever composes these operations; it never inspects or
// mutates a source's internal representation.
type Source[T any] interface {
	// Filter narrows the source to items matching the predicate tree.
	Filter(c Clause[T]) Source[T]

	// Order appends one sort key. The first call establishes the primary
	// order; each subsequent call breaks ties left by the previous keys.
	Order(key SortKey[T]) Source[T]

	// Skip drops the first n items of the ordered sequence.
	Skip(n int) Source[T]

	// Take keeps at most n items.
	Take(n int) Source[T]

	// Count returns the number of items the current composition would
	// yield, ignoring ordering.
	Count(ctx context.Context) (int64, error)

	// All materializes the composition into a concrete slice. This is the
	// only point where the underlying storage is actually read.
	All(ctx context.Context) ([]T, error)
}

// SortKey is one (accessor, direction) pair of a compiled ordering.
type SortKey[T any] struct {
	Field Field[T]
	Desc  bool
}

// ApplyInclude is supplied by the entity owner and encapsulates whatever
// eager-loading mechanism the storage layer uses. The engine only gates
// which names may reach it: the function receives registry-approved hint
// names and nothing else.
type ApplyInclude[T any] func(src Source[T], names []string) Source[T]
