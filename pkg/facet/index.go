package facet

import (
	"github.com/matst80/slask-facets/pkg/types"
)

// Index is the facet catalog for one item collection. It is rebuilt
// wholesale on every collection change and mutated in place in between.
type Index struct {
	Items  []types.Item
	Fields map[string]*KeyField
	order  []string
}

// BuildIndex scans the items once per configured category. Duplicate
// category keys collapse onto the first configuration.
func BuildIndex(items []types.Item, configs []types.CategoryConfig) *Index {
	idx := &Index{
		Items:  items,
		Fields: make(map[string]*KeyField, len(configs)),
		order:  make([]string, 0, len(configs)),
	}
	for _, config := range configs {
		if _, ok := idx.Fields[config.Category]; ok {
			continue
		}
		field := EmptyKeyField(config)
		for position, item := range items {
			if item == nil {
				continue
			}
			field.AddValueLink(item.GetFacetValues(config.Category), position)
		}
		idx.Fields[config.Category] = field
		idx.order = append(idx.order, config.Category)
	}
	return idx
}

// Categories returns the configured categories in configuration order.
func (i *Index) Categories() []string {
	return i.order
}

func (i *Index) GetField(category string) (*KeyField, bool) {
	f, ok := i.Fields[category]
	return f, ok
}

func (i *Index) GetState(category, value string) (*FacetValueState, bool) {
	f, ok := i.Fields[category]
	if !ok {
		return nil, false
	}
	s, ok := f.State[value]
	return s, ok
}

// CategoryForQueryKey finds the first category whose query key is key.
func (i *Index) CategoryForQueryKey(key string) (string, bool) {
	for _, category := range i.order {
		if i.Fields[category].GetQueryKey() == key {
			return category, true
		}
	}
	return "", false
}
