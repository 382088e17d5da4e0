package facet

import (
	"github.com/matst80/slask-facets/pkg/types"
)

// Deactivation is an active value that lost all its matching items and was
// switched off during a resolve pass.
type Deactivation struct {
	Category string `json:"category"`
	Value    string `json:"value"`
}

// Resolve recomputes the disabled flag of every value.
//
// Categories with an active selection are resolved against the selections of
// all other categories, the last changed one after everything else. Categories
// without a selection are resolved against the global match. An empty
// lastChanged means no category has been touched since the last rebuild.
//
// A forced deactivation changes the selections seen by categories resolved
// earlier in the same pass, so passes repeat until one deactivates nothing.
// Active flags only ever go from true to false, which bounds the loop.
func Resolve(idx *Index, lastChanged string) []Deactivation {
	if idx == nil {
		return nil
	}
	ret := make([]Deactivation, 0)
	for {
		forced := resolvePass(idx, lastChanged)
		if len(forced) == 0 {
			return ret
		}
		ret = append(ret, forced...)
	}
}

func resolvePass(idx *Index, lastChanged string) []Deactivation {
	enableAll(idx)

	ret := make([]Deactivation, 0)
	for _, category := range idx.order {
		if category == lastChanged || !idx.Fields[category].HasActive() {
			continue
		}
		ret = append(ret, disableUnreachable(idx, category)...)
	}

	ret = append(ret, disableByFilteredItems(idx)...)

	if lastChanged != "" {
		ret = append(ret, disableUnreachable(idx, lastChanged)...)
	}
	return ret
}

func enableAll(idx *Index) {
	for _, field := range idx.Fields {
		for _, state := range field.State {
			state.IsDisabled = false
		}
	}
}

// disableUnreachable disables the values of category that no item matching
// the other categories' selections carries.
func disableUnreachable(idx *Index, category string) []Deactivation {
	field, ok := idx.Fields[category]
	if !ok {
		return nil
	}
	matching := idx.MatchingIds(idx.ActiveSelections(), category)
	return disableMissing(field, matching)
}

// disableByFilteredItems disables values outside the global match in every
// category that has no selection of its own.
func disableByFilteredItems(idx *Index) []Deactivation {
	ret := make([]Deactivation, 0)
	filtered := idx.FilteredIds()
	for _, category := range idx.order {
		field := idx.Fields[category]
		if field.HasActive() {
			continue
		}
		ret = append(ret, disableMissing(field, filtered)...)
	}
	return ret
}

// disableMissing disables every value whose items are all outside matching.
// A disabled value can not stay selected.
func disableMissing(field *KeyField, matching types.ItemList) []Deactivation {
	ret := make([]Deactivation, 0)
	for _, value := range field.values {
		if field.Keys[value].HasIntersection(matching) {
			continue
		}
		state := field.State[value]
		state.IsDisabled = true
		if !state.IsActive {
			continue
		}
		state.IsActive = false
		ret = append(ret, Deactivation{Category: field.Category, Value: value})
	}
	return ret
}
