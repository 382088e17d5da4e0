package facet

import (
	"github.com/matst80/slask-facets/pkg/types"
)

// ActiveSelections returns the active values of every category that has any.
func (i *Index) ActiveSelections() map[string]types.ValueSet {
	ret := make(map[string]types.ValueSet)
	for _, category := range i.order {
		active := i.Fields[category].ActiveValues()
		if active.Len() > 0 {
			ret[category] = active
		}
	}
	return ret
}

// MatchingIds returns the items that carry at least one selected value in
// every constrained category, skipping exclude. Selection type is not
// consulted. Categories missing from the index are ignored.
func (i *Index) MatchingIds(selections map[string]types.ValueSet, exclude string) types.ItemList {
	var ret types.ItemList
	for _, category := range i.order {
		if category == exclude {
			continue
		}
		selected, ok := selections[category]
		if !ok || selected.Len() == 0 {
			continue
		}
		ids := i.Fields[category].Match(selected)
		if ret == nil {
			ret = ids
		} else {
			ret.Intersect(ids)
		}
		if ret.IsEmpty() {
			return ret
		}
	}
	if ret == nil {
		return types.AllItems(len(i.Items))
	}
	return ret
}

// FilteredIds matches against every active selection.
func (i *Index) FilteredIds() types.ItemList {
	return i.MatchingIds(i.ActiveSelections(), "")
}

// MatchingItems returns the items in ids, in collection order.
func (i *Index) MatchingItems(ids types.ItemList) []types.Item {
	ret := make([]types.Item, 0, ids.Len())
	for position, item := range i.Items {
		if item != nil && ids.Contains(position) {
			ret = append(ret, item)
		}
	}
	return ret
}
