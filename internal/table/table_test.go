package table

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type row struct {
	ID   int64
	HWB  string
	Mode string
}

var cols = []Column[row]{
	{Key: "hwb", Label: "HWB", Value: func(r row) string { return r.HWB }},
	{Key: "mode", Label: "Mode", Value: func(r row) string { return r.Mode }},
}

func sampleRows(n int) []row {
	out := make([]row, 0, n)
	for i := 1; i <= n; i++ {
		mode := "Door to Door"
		if i%2 == 0 {
			mode = "Pier to Pier"
		}
		out = append(out, row{ID: int64(i), HWB: "HWB-" + strconv.Itoa(1000+i), Mode: mode})
	}
	return out
}

func TestFilterMatchesAnyRenderedColumnCaseInsensitive(t *testing.T) {
	rows := sampleRows(10)

	got := Filter(rows, cols, "PIER")
	require.Len(t, got, 5)
	for _, r := range got {
		require.Equal(t, "Pier to Pier", r.Mode)
	}

	// Exactness: the filtered set equals rows whose rendered cells contain
	// the substring, nothing more, nothing less.
	got = Filter(rows, cols, "hwb-100")
	want := 0
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.HWB), "hwb-100") {
			want++
		}
	}
	require.Len(t, got, want)

	require.Len(t, Filter(rows, cols, ""), 10)
	require.Empty(t, Filter(rows, cols, "no-such-value"))
}

func TestPaginationBounds(t *testing.T) {
	rows := sampleRows(23)

	p := Paginate(rows, 1, 10)
	require.Equal(t, 3, p.TotalPages)
	require.Equal(t, 23, p.TotalItems)
	require.False(t, p.CanPrev)
	require.True(t, p.CanNext)
	require.Len(t, p.Rows, 10)

	p = Paginate(rows, 3, 10)
	require.Equal(t, 3, p.Current)
	require.True(t, p.CanPrev)
	require.False(t, p.CanNext, "CanNext is false iff current == totalPages")
	require.Len(t, p.Rows, 3)

	// Requesting past the end clamps; current never exceeds ceil(total/size).
	p = Paginate(rows, 99, 10)
	require.Equal(t, 3, p.Current)
	require.False(t, p.CanNext)

	p = Paginate([]row{}, 1, 10)
	require.Equal(t, 1, p.Current)
	require.Equal(t, 1, p.TotalPages)
	require.False(t, p.CanNext)
	require.Empty(t, p.Rows)
}

func TestSortTriState(t *testing.T) {
	rows := []row{{HWB: "HWB-3"}, {HWB: "HWB-1"}, {HWB: "HWB-2"}}

	st := State{}
	st = NextSort(st, "hwb")
	require.Equal(t, SortAsc, st.SortDir)
	sorted := Sort(rows, cols, st.SortKey, st.SortDir)
	require.Equal(t, "HWB-1", sorted[0].HWB)

	st = NextSort(st, "hwb")
	require.Equal(t, SortDesc, st.SortDir)
	sorted = Sort(rows, cols, st.SortKey, st.SortDir)
	require.Equal(t, "HWB-3", sorted[0].HWB)

	st = NextSort(st, "hwb")
	require.Equal(t, SortNone, st.SortDir)
	sorted = Sort(rows, cols, st.SortKey, st.SortDir)
	require.Equal(t, "HWB-3", sorted[0].HWB, "original order preserved when sort is off")

	// Switching column restarts at ascending.
	st = NextSort(st, "hwb")
	st = NextSort(st, "mode")
	require.Equal(t, "mode", st.SortKey)
	require.Equal(t, SortAsc, st.SortDir)
}

func TestApplyComposesFilterSortPaginate(t *testing.T) {
	rows := sampleRows(30)
	p := Apply(rows, cols, State{Query: "door", SortKey: "hwb", SortDir: SortDesc, Page: 2, PageSize: 5})
	require.Equal(t, 15, p.TotalItems)
	require.Equal(t, 3, p.TotalPages)
	require.Len(t, p.Rows, 5)
	require.True(t, p.Rows[0].HWB > p.Rows[4].HWB)
}

func TestBulkBar(t *testing.T) {
	sel := Selection{}
	require.False(t, BulkBarFor(sel).Visible)

	sel.Toggle(7)
	bar := BulkBarFor(sel)
	require.True(t, bar.Visible)
	require.True(t, bar.EditEnabled)

	sel.Toggle(9)
	bar = BulkBarFor(sel)
	require.True(t, bar.Visible)
	require.False(t, bar.EditEnabled, "edit requires exactly one selected row")
	require.Equal(t, []int64{7, 9}, sel.IDs())

	sel.Toggle(7)
	sel.Toggle(9)
	require.False(t, BulkBarFor(sel).Visible)
}
