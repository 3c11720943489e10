package query

import (
	"context"
	"sort"
	"strings"
)

// SliceSource adapts a plain slice to the Source contract, evaluating the
// predicate tree directly through the registry accessors. It backs the
// engine's tests and in-memory reference-data lists (cached catalogs that
// never reach the database).
//
// Chaining copies the composition state, never the backing slice; the slice
// must not be mutated while sources derived from it are live.
type SliceSource[T any] struct {
	items   []T
	filters []Clause[T]
	order   []SortKey[T]
	skip    int
	take    int
}

// NewSliceSource wraps items into a composable source.
func NewSliceSource[T any](items []T) *SliceSource[T] {
	return &SliceSource[T]{items: items, take: -1}
}

func (s *SliceSource[T]) clone() *SliceSource[T] {
	out := *s
	out.filters = append([]Clause[T](nil), s.filters...)
	out.order = append([]SortKey[T](nil), s.order...)
	return &out
}

// Filter implements Source.
func (s *SliceSource[T]) Filter(c Clause[T]) Source[T] {
	out := s.clone()
	out.filters = append(out.filters, c)
	return out
}

// Order implements Source.
func (s *SliceSource[T]) Order(key SortKey[T]) Source[T] {
	out := s.clone()
	out.order = append(out.order, key)
	return out
}

// Skip implements Source.
func (s *SliceSource[T]) Skip(n int) Source[T] {
	out := s.clone()
	out.skip = n
	return out
}

// Take implements Source.
func (s *SliceSource[T]) Take(n int) Source[T] {
	out := s.clone()
	out.take = n
	return out
}

// Count implements Source.
func (s *SliceSource[T]) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return int64(len(s.filtered())), nil
}

// All implements Source.
func (s *SliceSource[T]) All(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items := s.filtered()

	if len(s.order) > 0 {
		// SliceStable keeps the incoming order for full ties, so pagination
		// is deterministic even when every key compares equal.
		sort.SliceStable(items, func(i, j int) bool {
			return s.less(items[i], items[j])
		})
	}

	if s.skip > 0 {
		if s.skip >= len(items) {
			return []T{}, nil
		}
		items = items[s.skip:]
	}
	if s.take >= 0 && s.take < len(items) {
		items = items[:s.take]
	}
	return items, nil
}

func (s *SliceSource[T]) filtered() []T {
	out := make([]T, 0, len(s.items))
	for _, item := range s.items {
		keep := true
		for _, c := range s.filters {
			if !evalClause(c, item) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, item)
		}
	}
	return out
}

// less compares two items along the sort keys: ties on key n are broken by
// key n+1. Nulls order before any value ascending (and after, descending).
func (s *SliceSource[T]) less(a, b T) bool {
	for _, key := range s.order {
		av := key.Field.Get(a)
		bv := key.Field.Get(b)

		var c int
		switch {
		case av == nil && bv == nil:
			c = 0
		case av == nil:
			c = -1
		case bv == nil:
			c = 1
		default:
			c = compareValues(key.Field.Kind, av, bv)
		}
		if c == 0 {
			continue
		}
		if key.Desc {
			return c > 0
		}
		return c < 0
	}
	return false
}

// evalClause decides whether an item satisfies a predicate tree. Null field
// values follow SQL three-valued logic: they satisfy only Null clauses.
func evalClause[T any](c Clause[T], item T) bool {
	switch n := c.(type) {
	case And[T]:
		for _, sub := range n.Clauses {
			if !evalClause(sub, item) {
				return false
			}
		}
		return true
	case Or[T]:
		for _, sub := range n.Clauses {
			if evalClause(sub, item) {
				return true
			}
		}
		return false
	case Compare[T]:
		v := n.Field.Get(item)
		if v == nil {
			return false
		}
		cmp := compareValues(n.Field.Kind, v, n.Value)
		switch n.Op {
		case OpEq:
			return cmp == 0
		case OpNeq:
			return cmp != 0
		case OpGt:
			return cmp > 0
		case OpGte:
			return cmp >= 0
		case OpLt:
			return cmp < 0
		case OpLte:
			return cmp <= 0
		}
		return false
	case Null[T]:
		isNull := n.Field.Get(item) == nil
		return isNull != n.Negate
	case Match[T]:
		v := n.Field.Get(item)
		if v == nil {
			return false
		}
		text := canonicalString(n.Field.Kind, v)
		switch n.Kind {
		case MatchContains:
			return strings.Contains(text, n.Value)
		case MatchPrefix:
			return strings.HasPrefix(text, n.Value)
		case MatchSuffix:
			return strings.HasSuffix(text, n.Value)
		}
		return false
	}
	return false
}
