package query

import (
	"sort"
	"strings"
)

// CompareOp identifies an ordering/equality comparison.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNeq
	OpGt
	OpGte
	OpLt
	OpLte
)

// MatchKind identifies a substring operator.
type MatchKind int

const (
	MatchContains MatchKind = iota
	MatchPrefix
	MatchSuffix
)

// Clause is one node of a compiled predicate tree. The compiler builds the
// tree from the raw filter map; each source backend lowers it into its
// native filtering mechanism (closures in memory, squirrel conditions in
// SQL). A tree is constructed fresh per execution and owned by the pipeline
// invocation that built it.
type Clause[T any] interface {
	isClause()
}

// And is the conjunction of its sub-clauses.
type And[T any] struct {
	Clauses []Clause[T]
}

// Or is the disjunction of its sub-clauses.
type Or[T any] struct {
	Clauses []Clause[T]
}

// Compare applies Op between a field's value and a coerced literal.
// Per SQL three-valued logic a null field value never satisfies a Compare,
// including OpNeq.
type Compare[T any] struct {
	Op    CompareOp
	Field Field[T]
	Value any
}

// Null tests a field for null; Negate turns it into "is not null".
type Null[T any] struct {
	Field  Field[T]
	Negate bool
}

// Match applies a substring operator. Non-textual fields are matched against
// their canonical string form.
type Match[T any] struct {
	Kind  MatchKind
	Field Field[T]
	Value string
}

func (And[T]) isClause()     {}
func (Or[T]) isClause()      {}
func (Compare[T]) isClause() {}
func (Null[T]) isClause()    {}
func (Match[T]) isClause()   {}

// CompileFilters turns the raw filter map into a single predicate tree, or
// nil when no clause survives compilation.
//
// Unregistered fields, unknown operators, operators applied to unsuitable
// kinds and unparsable values are all dropped: the request degrades by
// omission and never fails. Dropped clause keys ("field.op") are returned
// for diagnostic logging.
func CompileFilters[T any](reg *Registry[T], filters map[string]map[string]string) (Clause[T], []string) {
	if len(filters) == 0 {
		return nil, nil
	}

	// Maps are unordered; compile in alphabetical order so the resulting
	// tree (and any SQL lowered from it) is deterministic per request.
	fieldNames := make([]string, 0, len(filters))
	for name := range filters {
		fieldNames = append(fieldNames, name)
	}
	sort.Strings(fieldNames)

	var groups []Clause[T]
	var dropped []string

	for _, name := range fieldNames {
		ops := filters[name]
		field, ok := reg.filterField(name)
		if !ok {
			for op := range ops {
				dropped = append(dropped, name+"."+op)
			}
			continue
		}

		opNames := make([]string, 0, len(ops))
		for op := range ops {
			opNames = append(opNames, op)
		}
		sort.Strings(opNames)

		var clauses []Clause[T]
		for _, op := range opNames {
			clause, ok := compileClause(field, op, ops[op])
			if !ok {
				dropped = append(dropped, name+"."+op)
				continue
			}
			clauses = append(clauses, clause)
		}

		if len(clauses) > 0 {
			groups = append(groups, conjoin(clauses))
		}
	}

	if len(groups) == 0 {
		return nil, dropped
	}
	return conjoin(groups), dropped
}

// compileClause dispatches one (field, operator, raw value) triple.
func compileClause[T any](f Field[T], op, raw string) (Clause[T], bool) {
	switch strings.ToLower(strings.TrimSpace(op)) {
	case "eq":
		if isNullLiteral(raw) {
			return Null[T]{Field: f}, true
		}
		return compileCompare(f, OpEq, raw)
	case "neq", "ne":
		if isNullLiteral(raw) {
			return Null[T]{Field: f, Negate: true}, true
		}
		return compileCompare(f, OpNeq, raw)
	case "notnull":
		// Alias; the raw value is ignored.
		return Null[T]{Field: f, Negate: true}, true
	case "gt":
		return compileOrdered(f, OpGt, raw)
	case "gte":
		return compileOrdered(f, OpGte, raw)
	case "lt":
		return compileOrdered(f, OpLt, raw)
	case "lte":
		return compileOrdered(f, OpLte, raw)
	case "in":
		return compileIn(f, raw)
	case "contains":
		return compileMatch(f, MatchContains, raw)
	case "startswith":
		return compileMatch(f, MatchPrefix, raw)
	case "endswith":
		return compileMatch(f, MatchSuffix, raw)
	}
	return nil, false
}

func compileCompare[T any](f Field[T], op CompareOp, raw string) (Clause[T], bool) {
	v, ok := parseValue(f, raw)
	if !ok {
		return nil, false
	}
	return Compare[T]{Op: op, Field: f, Value: v}, true
}

func compileOrdered[T any](f Field[T], op CompareOp, raw string) (Clause[T], bool) {
	if !f.Kind.orderable() {
		return nil, false
	}
	return compileCompare(f, op, raw)
}

// compileIn splits the raw value on commas and ORs per-item equality
// clauses. Unparsable items are individually dropped; the clause survives as
// long as at least one item parses.
func compileIn[T any](f Field[T], raw string) (Clause[T], bool) {
	var clauses []Clause[T]
	for _, item := range strings.Split(raw, ",") {
		v, ok := parseValue(f, strings.TrimSpace(item))
		if !ok {
			continue
		}
		clauses = append(clauses, Compare[T]{Op: OpEq, Field: f, Value: v})
	}
	switch len(clauses) {
	case 0:
		return nil, false
	case 1:
		return clauses[0], true
	default:
		return Or[T]{Clauses: clauses}, true
	}
}

func compileMatch[T any](f Field[T], kind MatchKind, raw string) (Clause[T], bool) {
	if raw == "" {
		return nil, false
	}
	return Match[T]{Kind: kind, Field: f, Value: raw}, true
}

func conjoin[T any](clauses []Clause[T]) Clause[T] {
	if len(clauses) == 1 {
		return clauses[0]
	}
	return And[T]{Clauses: clauses}
}

func isNullLiteral(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "null")
}
