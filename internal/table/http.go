package table

import (
	"net/http"
	"strconv"
)

// StateFromQuery reads the listing parameters every index page shares from
// the request query string: search, sort, dir (asc|desc) and page.
func StateFromQuery(r *http.Request) State {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	dir := SortNone
	switch r.URL.Query().Get("dir") {
	case "asc":
		dir = SortAsc
	case "desc":
		dir = SortDesc
	}
	return State{
		Query:    r.URL.Query().Get("search"),
		SortKey:  r.URL.Query().Get("sort"),
		SortDir:  dir,
		Page:     page,
		PageSize: DefaultPageSize,
	}
}
