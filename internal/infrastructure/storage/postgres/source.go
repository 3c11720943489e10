package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"recordbase/internal/query"
)

var tracer = otel.Tracer("recordbase/postgres")

// Querier is the subset of pgx executors the storage layer needs; both
// *pgxpool.Pool and pgx.Tx satisfy it.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Preload loads one named relation for an already materialized page of
// entities (second query per relation).
type Preload[T any] func(ctx context.Context, items []T) error

// TableSource adapts one table to the query.Source contract by lowering the
// engine's predicate tree into squirrel conditions and scanning rows with
// pgxscan. All composition methods are value-chained; the base source a
// repository builds once per request is never mutated by the engine.
type TableSource[T any] struct {
	db       Querier
	table    string
	q        squirrel.SelectBuilder
	preloads map[string]Preload[T]
	pending  []string
}

// NewTableSource creates a source selecting cols from table.
func NewTableSource[T any](db Querier, table string, cols []string) *TableSource[T] {
	q := squirrel.StatementBuilder.
		PlaceholderFormat(squirrel.Dollar).
		Select(cols...).
		From(table)
	return &TableSource[T]{
		db:       db,
		table:    table,
		q:        q,
		preloads: make(map[string]Preload[T]),
	}
}

// WithPreload registers the loader for one eager-load hint name. Called by
// the owning repository at source construction time.
func (s *TableSource[T]) WithPreload(name string, fn Preload[T]) *TableSource[T] {
	s.preloads[name] = fn
	return s
}

// Where adds a fixed condition outside the dynamic engine (soft-delete
// gates, tenant scoping).
func (s *TableSource[T]) Where(cond squirrel.Sqlizer) *TableSource[T] {
	out := s.clone()
	out.q = out.q.Where(cond)
	return out
}

// ApplyInclude returns the eager-load function handed to the query builder.
// The engine has already validated the names against the registry allow-set;
// names without a registered preload are ignored.
func (s *TableSource[T]) ApplyInclude() query.ApplyInclude[T] {
	return func(src query.Source[T], names []string) query.Source[T] {
		ts, ok := src.(*TableSource[T])
		if !ok {
			return src
		}
		out := ts.clone()
		out.pending = append(out.pending, names...)
		return out
	}
}

func (s *TableSource[T]) clone() *TableSource[T] {
	out := *s
	out.pending = append([]string(nil), s.pending...)
	return &out
}

// Filter implements query.Source.
func (s *TableSource[T]) Filter(c query.Clause[T]) query.Source[T] {
	out := s.clone()
	if cond := lowerClause[T](c); cond != nil {
		out.q = out.q.Where(cond)
	}
	return out
}

// Order implements query.Source.
func (s *TableSource[T]) Order(key query.SortKey[T]) query.Source[T] {
	out := s.clone()
	dir := "ASC"
	if key.Desc {
		dir = "DESC"
	}
	out.q = out.q.OrderBy(key.Field.Column + " " + dir)
	return out
}

// Skip implements query.Source.
func (s *TableSource[T]) Skip(n int) query.Source[T] {
	out := s.clone()
	if n > 0 {
		out.q = out.q.Offset(uint64(n))
	}
	return out
}

// Take implements query.Source.
func (s *TableSource[T]) Take(n int) query.Source[T] {
	out := s.clone()
	if n >= 0 {
		out.q = out.q.Limit(uint64(n))
	}
	return out
}

// Count implements query.Source. Counts over the filtered composition as a
// subselect, the same way the catalog repositories count before paginating.
func (s *TableSource[T]) Count(ctx context.Context) (int64, error) {
	countQ := squirrel.StatementBuilder.
		PlaceholderFormat(squirrel.Dollar).
		Select("COUNT(*)").
		FromSelect(s.q, "sub")

	sql, args, err := countQ.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var total int64
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count %s: %w", s.table, err)
	}
	return total, nil
}

// All implements query.Source: executes the composed SELECT, scans the rows
// and runs any requested preloads over the materialized page.
func (s *TableSource[T]) All(ctx context.Context) ([]T, error) {
	ctx, span := tracer.Start(ctx, "postgres.materialize",
		trace.WithAttributes(attribute.String("db.table", s.table)))
	defer span.End()

	sql, args, err := s.q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []T
	if err := pgxscan.Select(ctx, s.db, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", s.table, err)
	}

	for _, name := range s.pending {
		fn, ok := s.preloads[name]
		if !ok {
			continue
		}
		if err := fn(ctx, items); err != nil {
			return nil, fmt.Errorf("preload %s: %w", name, err)
		}
	}

	return items, nil
}

// ToSQL renders the current composition. Exposed for tests and debugging.
func (s *TableSource[T]) ToSQL() (string, []any, error) {
	return s.q.ToSql()
}

// lowerClause translates the engine's predicate tree into squirrel
// conditions. Substring operators on non-textual columns cast to text first.
func lowerClause[T any](c query.Clause[T]) squirrel.Sqlizer {
	switch n := c.(type) {
	case query.And[T]:
		conj := squirrel.And{}
		for _, sub := range n.Clauses {
			if cond := lowerClause[T](sub); cond != nil {
				conj = append(conj, cond)
			}
		}
		if len(conj) == 0 {
			return nil
		}
		return conj
	case query.Or[T]:
		disj := squirrel.Or{}
		for _, sub := range n.Clauses {
			if cond := lowerClause[T](sub); cond != nil {
				disj = append(disj, cond)
			}
		}
		if len(disj) == 0 {
			return nil
		}
		return disj
	case query.Compare[T]:
		col := n.Field.Column
		switch n.Op {
		case query.OpEq:
			return squirrel.Eq{col: n.Value}
		case query.OpNeq:
			return squirrel.NotEq{col: n.Value}
		case query.OpGt:
			return squirrel.Gt{col: n.Value}
		case query.OpGte:
			return squirrel.GtOrEq{col: n.Value}
		case query.OpLt:
			return squirrel.Lt{col: n.Value}
		case query.OpLte:
			return squirrel.LtOrEq{col: n.Value}
		}
		return nil
	case query.Null[T]:
		if n.Negate {
			return squirrel.NotEq{n.Field.Column: nil}
		}
		return squirrel.Eq{n.Field.Column: nil}
	case query.Match[T]:
		var pattern string
		switch n.Kind {
		case query.MatchContains:
			pattern = "%" + n.Value + "%"
		case query.MatchPrefix:
			pattern = n.Value + "%"
		case query.MatchSuffix:
			pattern = "%" + n.Value
		default:
			return nil
		}
		col := n.Field.Column
		if !textualColumn(n.Field.Kind) {
			return squirrel.Expr(col+"::text ILIKE ?", pattern)
		}
		return squirrel.ILike{col: pattern}
	}
	return nil
}

func textualColumn(k query.Kind) bool {
	return k == query.KindString || k == query.KindEnum
}
