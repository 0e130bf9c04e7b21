// Package table implements the shared listing behaviour used by every index
// page: global substring filtering, tri-state single-column sorting and
// fixed-size pagination, all computed in process over the full fetched
// collection. The remote API is never asked to page.
package table

import (
	"sort"
	"strings"
	"time"
)

// SortDir is the tri-state sort direction cycled by header clicks.
type SortDir int

const (
	SortNone SortDir = iota
	SortAsc
	SortDesc
)

// Column describes one rendered column of a table.
type Column[T any] struct {
	Key   string
	Label string
	// Value renders the cell text; filtering and default sorting both work
	// on this rendered form, matching what the user sees.
	Value func(T) string
}

// State captures the user-adjustable listing parameters.
type State struct {
	Query    string
	SortKey  string
	SortDir  SortDir
	Page     int
	PageSize int
}

// Page is a fully resolved table view.
type Page[T any] struct {
	Rows       []T
	TotalItems int
	TotalPages int
	Current    int
	CanPrev    bool
	CanNext    bool
}

// PrevPage is the page number the previous-page link targets.
func (p Page[T]) PrevPage() int {
	if p.Current <= 1 {
		return 1
	}
	return p.Current - 1
}

// NextPage is the page number the next-page link targets.
func (p Page[T]) NextPage() int {
	if p.Current >= p.TotalPages {
		return p.TotalPages
	}
	return p.Current + 1
}

// DefaultPageSize is used when the state carries no explicit size.
const DefaultPageSize = 10

// Apply filters, sorts and pages rows according to state.
func Apply[T any](rows []T, cols []Column[T], st State) Page[T] {
	filtered := Filter(rows, cols, st.Query)
	sorted := Sort(filtered, cols, st.SortKey, st.SortDir)
	return Paginate(sorted, st.Page, st.PageSize)
}

// Filter keeps rows where the query appears, case-insensitively, in at least
// one rendered column value. An empty query keeps everything.
func Filter[T any](rows []T, cols []Column[T], query string) []T {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return rows
	}
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		for _, col := range cols {
			if col.Value == nil {
				continue
			}
			if strings.Contains(strings.ToLower(col.Value(row)), query) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// Sort orders rows by the rendered value of the column identified by key.
// SortNone returns the input order untouched.
func Sort[T any](rows []T, cols []Column[T], key string, dir SortDir) []T {
	if dir == SortNone || key == "" {
		return rows
	}
	var col *Column[T]
	for i := range cols {
		if cols[i].Key == key {
			col = &cols[i]
			break
		}
	}
	if col == nil || col.Value == nil {
		return rows
	}
	out := append([]T(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := strings.ToLower(col.Value(out[i])), strings.ToLower(col.Value(out[j]))
		if dir == SortAsc {
			return a < b
		}
		return a > b
	})
	return out
}

// Paginate slices rows into the requested fixed-size page. The current page
// is clamped into [1, totalPages] so it can never exceed
// ceil(totalItems/pageSize).
func Paginate[T any](rows []T, page, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(rows)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page[T]{
		Rows:       rows[start:end],
		TotalItems: total,
		TotalPages: totalPages,
		Current:    page,
		CanPrev:    page > 1,
		CanNext:    page != totalPages,
	}
}

// NextSort cycles a header click through ascending, descending and off.
// Clicking a different column restarts at ascending.
func NextSort(st State, key string) State {
	if st.SortKey != key {
		st.SortKey = key
		st.SortDir = SortAsc
		return st
	}
	switch st.SortDir {
	case SortNone:
		st.SortDir = SortAsc
	case SortAsc:
		st.SortDir = SortDesc
	case SortDesc:
		st.SortKey = ""
		st.SortDir = SortNone
	}
	return st
}

// Selection is the set of checked row IDs, reported upward by the table.
type Selection map[int64]struct{}

// Toggle flips membership of id.
func (s Selection) Toggle(id int64) {
	if _, ok := s[id]; ok {
		delete(s, id)
		return
	}
	s[id] = struct{}{}
}

// IDs returns the selected ids in ascending order.
func (s Selection) IDs() []int64 {
	out := make([]int64, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// BulkBarFadeDelay is how long the floating action bar waits before hiding,
// so rapid selection changes do not flicker it.
const BulkBarFadeDelay = 150 * time.Millisecond

// BulkBar models the selection-driven floating toolbar.
type BulkBar struct {
	Visible     bool
	EditEnabled bool
	Count       int
}

// BulkBarFor derives the toolbar state from the current selection. Edit only
// makes sense for a single row; Print, Download and Delete take the whole
// selection.
func BulkBarFor(sel Selection) BulkBar {
	n := len(sel)
	return BulkBar{
		Visible:     n > 0,
		EditEnabled: n == 1,
		Count:       n,
	}
}
