package server

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/safar/vendor-portal/internal/listview"
	"github.com/safar/vendor-portal/internal/store"
)

type listResponse[T any] struct {
	store.OffsetPage[T]
	View    listview.ViewMode `json:"view"`
	Query   string            `json:"query"`
	Facets  map[string]string `json:"facets"`
	Summary any               `json:"summary,omitempty"`
}

// writeList answers a list screen. format=xlsx exports the whole filtered set;
// otherwise the set is paged and the requested view mode echoed back.
func writeList[T any](s *Server, w http.ResponseWriter, r *http.Request, f listview.Filter, items []T, sheet func([]T) listview.Sheet, summary any) {
	q := r.URL.Query()

	if q.Get("format") == "xlsx" {
		out := sheet(items)
		w.Header().Set("Content-Type", listview.XLSXContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, out.Name))
		if err := listview.WriteXLSX(w, out); err != nil {
			log.Printf("Export %s: %v", out.Name, err)
		}
		return
	}

	mode, err := listview.ParseViewMode(q.Get("view"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	facets := make(map[string]string, len(f.Facets))
	for k, v := range f.Facets {
		facets[k] = v
	}

	s.render(w, r, http.StatusOK, listResponse[T]{
		OffsetPage: store.Paginate(items, page, pageSize),
		View:       mode,
		Query:      f.Query,
		Facets:     facets,
		Summary:    summary,
	}, nil)
}
