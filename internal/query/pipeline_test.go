package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSearch(t *testing.T, p Params) Page[orderRow] {
	t.Helper()

	page, err := NewBuilder[orderRow]().
		Source(NewSliceSource(sampleOrders())).
		Registry(newOrderRegistry()).
		Params(p).
		Execute(context.Background())
	require.NoError(t, err)
	return page
}

func TestExecute_CountsBeforePagination(t *testing.T) {
	p := NewParams()
	p.Sort = "qty"
	p.PageSize = 2

	page := runSearch(t, p)

	assert.Equal(t, int64(4), page.TotalCount)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "INV-004", page.Items[0].Number)
	assert.Equal(t, "ORD-001", page.Items[1].Number)

	p.Page = 2
	page = runSearch(t, p)

	assert.Equal(t, int64(4), page.TotalCount)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "ORD-003", page.Items[0].Number)
	assert.Equal(t, "ORD-002", page.Items[1].Number)
}

func TestExecute_FilterReducesCount(t *testing.T) {
	p := NewParams().Filter("status", "eq", "posted")
	p.Sort = "qty"

	page := runSearch(t, p)

	assert.Equal(t, int64(2), page.TotalCount)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "ORD-003", page.Items[0].Number)
}

func TestExecute_FreeTextSearch(t *testing.T) {
	p := NewParams()
	p.FreeText = "INV"

	page := runSearch(t, p)

	assert.Equal(t, int64(1), page.TotalCount)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "INV-004", page.Items[0].Number)
}

func TestExecute_FreeTextAndsWithFilters(t *testing.T) {
	p := NewParams().Filter("status", "eq", "posted")
	p.FreeText = "ORD"
	p.Sort = "qty"

	page := runSearch(t, p)

	assert.Equal(t, int64(2), page.TotalCount)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "ORD-003", page.Items[0].Number)
	assert.Equal(t, "ORD-002", page.Items[1].Number)
}

func TestExecute_PageBeyondData(t *testing.T) {
	p := NewParams()
	p.Page = 10

	page := runSearch(t, p)

	assert.Equal(t, int64(4), page.TotalCount)
	assert.Empty(t, page.Items)
	assert.Equal(t, 10, page.Page)
}

func TestExecute_Includes(t *testing.T) {
	var applied []string
	apply := func(src Source[orderRow], names []string) Source[orderRow] {
		applied = names
		return src
	}

	p := NewParams()
	p.Include = "lines, ghost ,"

	_, err := NewBuilder[orderRow]().
		Source(NewSliceSource(sampleOrders())).
		Registry(newOrderRegistry()).
		Params(p).
		Include(apply).
		Execute(context.Background())
	require.NoError(t, err)

	// Only allow-listed names reach the loader.
	assert.Equal(t, []string{"lines"}, applied)
}

func TestExecute_Project(t *testing.T) {
	p := NewParams()
	p.PageSize = 1
	p.Sort = "qty"

	page, err := NewBuilder[orderRow]().
		Source(NewSliceSource(sampleOrders())).
		Registry(newOrderRegistry()).
		Params(p).
		Project(func(o orderRow) orderRow {
			o.Note = nil
			return o
		}).
		Execute(context.Background())
	require.NoError(t, err)

	require.Len(t, page.Items, 1)
	assert.Nil(t, page.Items[0].Note)
	// Projection runs after count; the total still covers all rows.
	assert.Equal(t, int64(4), page.TotalCount)
}

func TestExecute_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBuilder[orderRow]().
		Source(NewSliceSource(sampleOrders())).
		Registry(newOrderRegistry()).
		Params(NewParams()).
		Execute(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClampPaging(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		size     int
		wantPage int
		wantSize int
	}{
		{"defaults pass through", 1, 20, 1, 20},
		{"zero size means unset", 3, 0, 3, DefaultPageSize},
		{"negative page clamps to first", -2, 10, 1, 10},
		{"zero page clamps to first", 0, 10, 1, 10},
		{"negative size clamps to one", 1, -5, 1, 1},
		{"oversized clamps to max", 1, 10000, 1, MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, size := clampPaging(tt.page, tt.size)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantSize, size)
		})
	}
}

func TestMapPage(t *testing.T) {
	page := Page[orderRow]{
		Items:      sampleOrders()[:2],
		TotalCount: 4,
		Page:       1,
		PageSize:   2,
	}

	out := MapPage(page, func(o orderRow) string { return o.Number })

	assert.Equal(t, []string{"ORD-001", "ORD-002"}, out.Items)
	assert.Equal(t, int64(4), out.TotalCount)
	assert.Equal(t, 1, out.Page)
	assert.Equal(t, 2, out.PageSize)
}
