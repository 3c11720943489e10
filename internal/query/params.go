// Package query implements the dynamic list-query engine: a whitelist-driven
// compiler that turns untyped, client-supplied search parameters into a
// composed, executable query against an arbitrary entity type.
//
// The flow is: a binder produces Params from raw request values, the entity
// owner supplies a Registry declaring which field names are actionable, the
// compiler builds a predicate tree and sort keys from the two, and the
// single-use Builder runs the pipeline against a Source and returns a Page.
package query

// Pagination bounds. PageSize is clamped into [1, MaxPageSize] at execution
// time; a zero PageSize means "not set" and falls back to DefaultPageSize.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 500
)

// Params is the normalized representation of one client search request.
// It is pure data: produced once by a binder and treated as immutable from
// then on.
type Params struct {
	// FreeText is an unstructured search term, matched against the
	// registry's canonical search field when one is declared.
	FreeText string

	// Filters maps field name -> operator name -> raw value. A field may
	// carry several operators at once (e.g. both gte and lte on a date).
	Filters map[string]map[string]string

	// Sort is a comma-separated list of field names; a leading '-' marks
	// descending order.
	Sort string

	// Include is a comma-separated list of eager-load hint names.
	Include string

	Page     int
	PageSize int
}

// NewParams returns Params with default pagination.
func NewParams() Params {
	return Params{
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
	}
}

// Filter returns a copy of p with one more filter clause set. Intended for
// building requests in code (services, tests); HTTP requests go through the
// binder instead.
func (p Params) Filter(field, op, value string) Params {
	filters := make(map[string]map[string]string, len(p.Filters)+1)
	for f, ops := range p.Filters {
		inner := make(map[string]string, len(ops))
		for k, v := range ops {
			inner[k] = v
		}
		filters[f] = inner
	}
	if filters[field] == nil {
		filters[field] = make(map[string]string, 1)
	}
	filters[field][op] = value
	p.Filters = filters
	return p
}
