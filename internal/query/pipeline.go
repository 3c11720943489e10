package query

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"recordbase/pkg/logger"
)

var tracer = otel.Tracer("recordbase/query")

// Page is the sole externally visible output shape: one materialized page of
// items plus the total count over the filtered-but-unpaginated set.
type Page[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
}

// MapPage projects a page's items into another type, keeping the pagination
// envelope. Handlers use it for entity -> DTO mapping.
func MapPage[T, R any](p Page[T], fn func(T) R) Page[R] {
	items := make([]R, len(p.Items))
	for i, item := range p.Items {
		items[i] = fn(item)
	}
	return Page[R]{
		Items:      items,
		TotalCount: p.TotalCount,
		Page:       p.Page,
		PageSize:   p.PageSize,
	}
}

// execute runs the fixed pipeline: includes -> predicate -> free-text
// fallback -> count -> sort (or default) -> paginate -> project ->
// materialize. It is a pure transformation over immutable inputs and holds
// no state across calls; concurrent executions over the same registry and
// base source are safe.
func execute[T any](
	ctx context.Context,
	src Source[T],
	reg *Registry[T],
	p Params,
	include ApplyInclude[T],
	project func(T) T,
) (Page[T], error) {
	ctx, span := tracer.Start(ctx, "query.execute")
	defer span.End()

	src = ResolveIncludes(src, reg, p.Include, include)

	pred, dropped := CompileFilters(reg, p.Filters)
	if len(dropped) > 0 {
		logger.Debug(ctx, "filter clauses dropped", "clauses", dropped)
	}

	// Free-text fallback: an extra substring clause on the canonical search
	// field, ANDed with whatever the filters compiled to.
	if term := strings.TrimSpace(p.FreeText); term != "" && reg.searchKey != "" {
		if field, ok := reg.filterField(reg.searchKey); ok {
			clause := Match[T]{Kind: MatchContains, Field: field, Value: term}
			if pred == nil {
				pred = clause
			} else {
				pred = And[T]{Clauses: []Clause[T]{pred, clause}}
			}
		}
	}

	if pred != nil {
		src = src.Filter(pred)
	}

	// Count is order-independent, so it runs over the filtered set before
	// sort and pagination are composed on.
	total, err := src.Count(ctx)
	if err != nil {
		return Page[T]{}, fmt.Errorf("count: %w", err)
	}

	keys := CompileSort(reg, p.Sort)
	if len(keys) == 0 {
		keys = fallbackSort(reg)
	}
	for _, key := range keys {
		src = src.Order(key)
	}

	page, size := clampPaging(p.Page, p.PageSize)
	src = src.Skip((page - 1) * size).Take(size)

	// Abort before the source is actually read; partial results are never
	// returned.
	if err := ctx.Err(); err != nil {
		return Page[T]{}, err
	}

	items, err := src.All(ctx)
	if err != nil {
		return Page[T]{}, fmt.Errorf("materialize: %w", err)
	}

	if project != nil {
		for i := range items {
			items[i] = project(items[i])
		}
	}

	span.SetAttributes(
		attribute.Int64("query.total_count", total),
		attribute.Int("query.page", page),
		attribute.Int("query.page_size", size),
	)

	return Page[T]{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   size,
	}, nil
}

// clampPaging normalizes pagination inputs: page >= 1, pageSize within
// [1, MaxPageSize]. A zero pageSize means the caller never set one and gets
// the default.
func clampPaging(page, size int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if size == 0 {
		size = DefaultPageSize
	}
	if size < 1 {
		size = 1
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}
