package activitylog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPaginateSeed(t *testing.T) {
	sorted := Sort(seed(t), DefaultSort())

	first := Paginate(sorted, 1)
	require.Equal(t, 1, first.Page)
	require.Equal(t, 2, first.TotalPages)
	require.Equal(t, 12, first.TotalItems)
	require.Equal(t, []string{"TRX-001", "TRX-002", "TRX-003", "TRX-004", "TRX-005", "TRX-006"}, ids(first.Items))

	second := Paginate(sorted, 2)
	require.Equal(t, []string{"TRX-007", "TRX-008", "TRX-009", "TRX-010", "TRX-011", "TRX-012"}, ids(second.Items))
}

func TestPaginateClampsPageNumber(t *testing.T) {
	sorted := Sort(seed(t), DefaultSort())

	require.Equal(t, 2, Paginate(sorted, 9).Page)
	require.Equal(t, 1, Paginate(sorted, 0).Page)
	require.Equal(t, 1, Paginate(sorted, -3).Page)

	partial := Paginate(sorted[:11], 2)
	require.Len(t, partial.Items, 5)
}

func TestPaginateEmptyView(t *testing.T) {
	page := Paginate(nil, 4)
	require.Equal(t, 1, page.Page)
	require.Equal(t, 1, page.TotalPages)
	require.Equal(t, 0, page.TotalItems)
	require.NotNil(t, page.Items)
	require.Empty(t, page.Items)
}

func TestPaginateCoversWholeView(t *testing.T) {
	records := seed(t)

	for n := 0; n <= len(records); n++ {
		view := records[:n]
		total := TotalPages(n)

		var joined []Record
		for p := 1; p <= total; p++ {
			page := Paginate(view, p)
			require.LessOrEqual(t, len(page.Items), PageSize)
			joined = append(joined, page.Items...)
		}
		require.Len(t, joined, n)
		if n > 0 {
			require.Equal(t, ids(view), ids(joined))
		}
	}
}
