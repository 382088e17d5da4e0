package server

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"

	"github.com/gorilla/schema"

	"github.com/matst80/slask-facets/pkg/query"
	"github.com/matst80/slask-facets/pkg/types"
)

// FacetRequest holds the parameters that are not facet selections. Their keys
// start with an underscore so they never collide with a category query key.
type FacetRequest struct {
	Category string `schema:"_category"`
	Value    string `schema:"_value"`
	Page     int    `schema:"_page"`
	PageSize int    `schema:"_size,default:40"`
	// WithItems is set when _page or _size was given.
	WithItems bool `schema:"-"`
	// Selections are the remaining query pairs in request order.
	Selections []query.Pair `schema:"-"`
}

var reservedKeys = []string{"_category", "_value", "_page", "_size"}

// ValidateCategories rejects configurations whose query keys would be
// stripped as request parameters.
func ValidateCategories(categories []types.CategoryConfig) error {
	for _, c := range categories {
		if c.Category == "" {
			return fmt.Errorf("category without key")
		}
		if slices.Contains(reservedKeys, c.GetQueryKey()) {
			return fmt.Errorf("category %s uses reserved query key %s", c.Category, c.GetQueryKey())
		}
	}
	return nil
}

var decoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

func GetFacetRequest(r *http.Request, result *FacetRequest) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	if err := decoder.Decode(result, r.Form); err != nil {
		return err
	}
	if result.Page < 0 {
		return fmt.Errorf("invalid page %d", result.Page)
	}
	if result.PageSize <= 0 {
		return fmt.Errorf("invalid size %d", result.PageSize)
	}
	result.WithItems = r.Form.Has("_page") || r.Form.Has("_size")

	pairs, err := query.Parse(r.URL.RawQuery)
	if err != nil {
		return err
	}
	result.Selections = query.Without(pairs, reservedKeys...)
	return nil
}

// CacheKey is the normalized request, selections in order followed by paging.
func (f *FacetRequest) CacheKey() string {
	key := query.Encode(f.Selections)
	if f.WithItems {
		key += "|" + strconv.Itoa(f.Page) + ":" + strconv.Itoa(f.PageSize)
	}
	return key
}
