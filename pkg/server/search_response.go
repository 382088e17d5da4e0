package server

import (
	"github.com/matst80/slask-facets/pkg/facet"
	"github.com/matst80/slask-facets/pkg/types"
)

type FacetResponse struct {
	Facets           map[string]facet.CategoryState `json:"facets"`
	Categories       []string                       `json:"categories"`
	Active           map[string]types.ValueSet      `json:"active"`
	ActiveCategories []string                       `json:"activeCategories"`
	Count            int                            `json:"count"`
	Items            []types.DataItem               `json:"items,omitempty"`
	Page             int                            `json:"page,omitempty"`
	PageSize         int                            `json:"pageSize,omitempty"`
	Query            string                         `json:"query"`
}

type EnabledResponse struct {
	Category string `json:"category"`
	Enabled  int    `json:"enabled"`
}

type ItemsUpdatedResponse struct {
	Version uint64 `json:"version"`
	Items   int    `json:"items"`
}

func pageItems(items []types.Item, page, size int) []types.DataItem {
	start := len(items)
	if size > 0 && page <= len(items)/size {
		start = page * size
	}
	end := min(start+size, len(items))
	ret := make([]types.DataItem, 0, end-start)
	for _, item := range items[start:end] {
		if d, ok := item.(*types.DataItem); ok {
			ret = append(ret, *d)
			continue
		}
		ret = append(ret, types.DataItem{Id: item.GetId()})
	}
	return ret
}

func newFacetResponse(e *facet.Engine, req *FacetRequest, rawQuery string) FacetResponse {
	filtered := e.FilteredItems()
	ret := FacetResponse{
		Facets:           e.Facets(),
		Categories:       e.Categories(),
		Active:           e.ActiveFacets(),
		ActiveCategories: e.ActiveCategories(),
		Count:            len(filtered),
		Query:            rawQuery,
	}
	if req.WithItems {
		ret.Items = pageItems(filtered, req.Page, req.PageSize)
		ret.Page = req.Page
		ret.PageSize = req.PageSize
	}
	return ret
}
