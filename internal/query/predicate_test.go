package query

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// orderRow is the fixture entity for engine tests.
type orderRow struct {
	ID        uuid.UUID
	Number    string
	Status    string
	Qty       int64
	Amount    decimal.Decimal
	Note      *string
	Active    bool
	CreatedAt time.Time
}

var orderStatuses = []string{"draft", "posted", "canceled"}

func newOrderRegistry() *Registry[orderRow] {
	return NewRegistry[orderRow]().
		Field("number", String[orderRow]("number", func(o orderRow) any { return o.Number })).
		Field("status", Enum[orderRow]("status", orderStatuses, func(o orderRow) any { return o.Status })).
		Field("qty", Int64[orderRow]("qty", func(o orderRow) any { return o.Qty })).
		Field("amount", Decimal[orderRow]("amount", func(o orderRow) any { return o.Amount })).
		Field("createdAt", Time[orderRow]("created_at", func(o orderRow) any { return o.CreatedAt })).
		Filterable("active", Bool[orderRow]("active", func(o orderRow) any { return o.Active })).
		Filterable("note", String[orderRow]("note", func(o orderRow) any {
			if o.Note == nil {
				return nil
			}
			return *o.Note
		})).
		Filterable("id", UUID[orderRow]("id", func(o orderRow) any { return o.ID })).
		Includes("lines").
		SearchOn("number").
		DefaultSort("createdAt")
}

func strPtr(s string) *string { return &s }

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func sampleOrders() []orderRow {
	return []orderRow{
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), Number: "ORD-001", Status: "draft", Qty: 5, Amount: decimal.NewFromInt(100), Note: strPtr("rush"), Active: true, CreatedAt: day(1)},
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), Number: "ORD-002", Status: "posted", Qty: 20, Amount: decimal.NewFromInt(250), Note: nil, Active: true, CreatedAt: day(2)},
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000003"), Number: "ORD-003", Status: "posted", Qty: 8, Amount: decimal.NewFromInt(75), Note: strPtr("partial"), Active: false, CreatedAt: day(3)},
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000004"), Number: "INV-004", Status: "canceled", Qty: 1, Amount: decimal.NewFromInt(999), Note: nil, Active: true, CreatedAt: day(4)},
	}
}

// filterNumbers compiles the filter map and returns the numbers of matching
// sample orders, in natural order.
func filterNumbers(t *testing.T, filters map[string]map[string]string) ([]string, []string) {
	t.Helper()

	reg := newOrderRegistry()
	pred, dropped := CompileFilters(reg, filters)

	src := Source[orderRow](NewSliceSource(sampleOrders()))
	if pred != nil {
		src = src.Filter(pred)
	}
	items, err := src.All(context.Background())
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}

	numbers := make([]string, 0, len(items))
	for _, o := range items {
		numbers = append(numbers, o.Number)
	}
	return numbers, dropped
}

func TestCompileFilters_Operators(t *testing.T) {
	tests := []struct {
		name        string
		filters     map[string]map[string]string
		want        []string
		wantDropped []string
	}{
		{
			name:    "eq on enum",
			filters: map[string]map[string]string{"status": {"eq": "posted"}},
			want:    []string{"ORD-002", "ORD-003"},
		},
		{
			name:    "eq enum is case insensitive",
			filters: map[string]map[string]string{"status": {"eq": "POSTED"}},
			want:    []string{"ORD-002", "ORD-003"},
		},
		{
			name:    "neq skips null values",
			filters: map[string]map[string]string{"note": {"neq": "rush"}},
			want:    []string{"ORD-003"},
		},
		{
			name:    "null literal compiles to is-null",
			filters: map[string]map[string]string{"note": {"eq": "null"}},
			want:    []string{"ORD-002", "INV-004"},
		},
		{
			name:    "neq null compiles to is-not-null",
			filters: map[string]map[string]string{"note": {"neq": "null"}},
			want:    []string{"ORD-001", "ORD-003"},
		},
		{
			name:    "range on int64",
			filters: map[string]map[string]string{"qty": {"gte": "5", "lte": "10"}},
			want:    []string{"ORD-001", "ORD-003"},
		},
		{
			name:    "gt on decimal",
			filters: map[string]map[string]string{"amount": {"gt": "99.99"}},
			want:    []string{"ORD-001", "ORD-002", "INV-004"},
		},
		{
			name:    "in list",
			filters: map[string]map[string]string{"status": {"in": "draft,canceled"}},
			want:    []string{"ORD-001", "INV-004"},
		},
		{
			name:    "in keeps parsable items only",
			filters: map[string]map[string]string{"qty": {"in": "1, bogus, 20"}},
			want:    []string{"ORD-002", "INV-004"},
		},
		{
			name:    "contains",
			filters: map[string]map[string]string{"number": {"contains": "ORD"}},
			want:    []string{"ORD-001", "ORD-002", "ORD-003"},
		},
		{
			name:    "startswith",
			filters: map[string]map[string]string{"number": {"startswith": "INV"}},
			want:    []string{"INV-004"},
		},
		{
			name:    "endswith",
			filters: map[string]map[string]string{"number": {"endswith": "002"}},
			want:    []string{"ORD-002"},
		},
		{
			name:    "uuid eq",
			filters: map[string]map[string]string{"id": {"eq": "00000000-0000-0000-0000-000000000003"}},
			want:    []string{"ORD-003"},
		},
		{
			name:        "unknown field dropped",
			filters:     map[string]map[string]string{"ghost": {"eq": "x"}},
			want:        []string{"ORD-001", "ORD-002", "ORD-003", "INV-004"},
			wantDropped: []string{"ghost.eq"},
		},
		{
			name:        "unknown operator dropped",
			filters:     map[string]map[string]string{"qty": {"between": "1,5"}},
			want:        []string{"ORD-001", "ORD-002", "ORD-003", "INV-004"},
			wantDropped: []string{"qty.between"},
		},
		{
			name:        "unparsable value dropped",
			filters:     map[string]map[string]string{"qty": {"eq": "many"}},
			want:        []string{"ORD-001", "ORD-002", "ORD-003", "INV-004"},
			wantDropped: []string{"qty.eq"},
		},
		{
			name:        "ordered operator on bool dropped",
			filters:     map[string]map[string]string{"active": {"gt": "false"}},
			want:        []string{"ORD-001", "ORD-002", "ORD-003", "INV-004"},
			wantDropped: []string{"active.gt"},
		},
		{
			name:        "empty match value dropped",
			filters:     map[string]map[string]string{"number": {"contains": ""}},
			want:        []string{"ORD-001", "ORD-002", "ORD-003", "INV-004"},
			wantDropped: []string{"number.contains"},
		},
		{
			name: "dropped clause leaves the rest intact",
			filters: map[string]map[string]string{
				"status": {"eq": "posted"},
				"qty":    {"eq": "many"},
			},
			want:        []string{"ORD-002", "ORD-003"},
			wantDropped: []string{"qty.eq"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dropped := filterNumbers(t, tt.filters)

			if len(got) != len(tt.want) {
				t.Fatalf("matched rows mismatch\nwant: %v\ngot:  %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("matched rows mismatch\nwant: %v\ngot:  %v", tt.want, got)
				}
			}

			if len(dropped) != len(tt.wantDropped) {
				t.Fatalf("dropped mismatch\nwant: %v\ngot:  %v", tt.wantDropped, dropped)
			}
			for i := range dropped {
				if dropped[i] != tt.wantDropped[i] {
					t.Errorf("dropped mismatch\nwant: %v\ngot:  %v", tt.wantDropped, dropped)
				}
			}
		})
	}
}

func TestCompileFilters_Deterministic(t *testing.T) {
	reg := newOrderRegistry()
	filters := map[string]map[string]string{
		"qty":    {"gte": "1", "lte": "50"},
		"status": {"eq": "posted"},
		"number": {"contains": "ORD"},
	}

	first, _ := CompileFilters(reg, filters)
	root, ok := first.(And[orderRow])
	if !ok {
		t.Fatalf("expected top-level conjunction, got %T", first)
	}
	// Alphabetical field order regardless of map iteration.
	if len(root.Clauses) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(root.Clauses))
	}
	if _, ok := root.Clauses[0].(Match[orderRow]); !ok {
		t.Errorf("expected number group first, got %T", root.Clauses[0])
	}
}

func TestCompileFilters_Empty(t *testing.T) {
	reg := newOrderRegistry()

	pred, dropped := CompileFilters[orderRow](reg, nil)
	if pred != nil || dropped != nil {
		t.Errorf("expected nil clause for empty filters, got %v (%v)", pred, dropped)
	}

	pred, _ = CompileFilters(reg, map[string]map[string]string{"ghost": {"eq": "x"}})
	if pred != nil {
		t.Errorf("expected nil clause when nothing survives, got %v", pred)
	}
}
