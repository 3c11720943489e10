package query

import (
	"context"
	"testing"
)

func sortedNumbers(t *testing.T, sortExpr string) []string {
	t.Helper()

	reg := newOrderRegistry()
	src := Source[orderRow](NewSliceSource(sampleOrders()))

	keys := CompileSort(reg, sortExpr)
	if len(keys) == 0 {
		keys = fallbackSort(reg)
	}
	for _, key := range keys {
		src = src.Order(key)
	}

	items, err := src.All(context.Background())
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	numbers := make([]string, 0, len(items))
	for _, o := range items {
		numbers = append(numbers, o.Number)
	}
	return numbers
}

func TestCompileSort(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want []string
	}{
		{
			name: "ascending",
			expr: "qty",
			want: []string{"INV-004", "ORD-001", "ORD-003", "ORD-002"},
		},
		{
			name: "descending",
			expr: "-amount",
			want: []string{"INV-004", "ORD-002", "ORD-001", "ORD-003"},
		},
		{
			name: "secondary key breaks ties",
			expr: "status,-qty",
			want: []string{"INV-004", "ORD-001", "ORD-002", "ORD-003"},
		},
		{
			name: "unknown key skipped",
			expr: "ghost,qty",
			want: []string{"INV-004", "ORD-001", "ORD-003", "ORD-002"},
		},
		{
			name: "empty expression falls back to createdAt desc",
			expr: "",
			want: []string{"INV-004", "ORD-003", "ORD-002", "ORD-001"},
		},
		{
			name: "all keys unknown falls back to createdAt desc",
			expr: "ghost,-phantom",
			want: []string{"INV-004", "ORD-003", "ORD-002", "ORD-001"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sortedNumbers(t, tt.expr)
			if len(got) != len(tt.want) {
				t.Fatalf("order mismatch\nwant: %v\ngot:  %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("order mismatch\nwant: %v\ngot:  %v", tt.want, got)
				}
			}
		})
	}
}

func TestSort_NullsOrderFirst(t *testing.T) {
	reg := NewRegistry[orderRow]().
		Sortable("note", String[orderRow]("note", func(o orderRow) any {
			if o.Note == nil {
				return nil
			}
			return *o.Note
		}))

	keys := CompileSort(reg, "note")
	src := Source[orderRow](NewSliceSource(sampleOrders()))
	for _, key := range keys {
		src = src.Order(key)
	}

	items, err := src.All(context.Background())
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	// Null notes first ascending; ties keep natural order.
	if items[0].Number != "ORD-002" || items[1].Number != "INV-004" {
		t.Errorf("expected null notes first, got %s, %s", items[0].Number, items[1].Number)
	}
}

func TestFallbackSort_NoDefaultKey(t *testing.T) {
	reg := NewRegistry[orderRow]().
		Field("qty", Int64[orderRow]("qty", func(o orderRow) any { return o.Qty }))

	if keys := fallbackSort(reg); keys != nil {
		t.Errorf("expected no fallback without default key, got %v", keys)
	}
}
