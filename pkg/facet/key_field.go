package facet

import (
	"github.com/matst80/slask-facets/pkg/types"
)

type FacetValueState struct {
	IsActive   bool            `json:"isActive"`
	IsDisabled bool            `json:"isDisabled"`
	Type       types.FacetType `json:"type"`
}

// KeyField holds one category: the state of every value seen in the item
// collection and the positions of the items carrying it.
type KeyField struct {
	types.CategoryConfig
	Keys   map[string]types.ItemList
	State  map[string]*FacetValueState
	values []string
}

func EmptyKeyField(config types.CategoryConfig) *KeyField {
	return &KeyField{
		CategoryConfig: config,
		Keys:           map[string]types.ItemList{},
		State:          map[string]*FacetValueState{},
		values:         []string{},
	}
}

func (f *KeyField) AddValueLink(values []string, position int) {
	for _, value := range values {
		if value == "" {
			continue
		}
		if ids, ok := f.Keys[value]; ok {
			ids.AddId(position)
			continue
		}
		f.Keys[value] = types.ItemList{position: struct{}{}}
		f.State[value] = &FacetValueState{
			Type: f.GetType(),
		}
		f.values = append(f.values, value)
	}
}

// Match returns the union of the items carrying any of the values.
func (f *KeyField) Match(values types.ValueSet) types.ItemList {
	ret := types.NewItemList()
	for value := range values {
		if ids, ok := f.Keys[value]; ok {
			ret.Merge(ids)
		}
	}
	return ret
}

// Values returns the values in the order they were first seen.
func (f *KeyField) Values() []string {
	return f.values
}

func (f *KeyField) ActiveValues() types.ValueSet {
	ret := types.ValueSet{}
	for _, value := range f.values {
		if f.State[value].IsActive {
			ret.Add(value)
		}
	}
	return ret
}

func (f *KeyField) HasActive() bool {
	for _, state := range f.State {
		if state.IsActive {
			return true
		}
	}
	return false
}

func (f *KeyField) EnabledCount() int {
	count := 0
	for _, state := range f.State {
		if !state.IsDisabled {
			count++
		}
	}
	return count
}

func (f *KeyField) UniqueCount() int {
	return len(f.Keys)
}

func (f *KeyField) TotalCount() int {
	total := 0
	for _, ids := range f.Keys {
		total += len(ids)
	}
	return total
}
