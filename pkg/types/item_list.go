package types

import (
	"maps"
	"slices"
)

// ItemList is a set of item positions within one item collection.
type ItemList map[int]struct{}

var empty = struct{}{}

func NewItemList() ItemList {
	return ItemList{}
}

// AllItems returns a list holding every position in a collection of length n.
func AllItems(n int) ItemList {
	ret := make(ItemList, n)
	for i := range n {
		ret[i] = empty
	}
	return ret
}

func (i ItemList) AddId(id int) {
	i[id] = empty
}

func (i ItemList) Contains(id int) bool {
	_, ok := i[id]
	return ok
}

func (i ItemList) Len() int {
	return len(i)
}

func (i ItemList) IsEmpty() bool {
	return len(i) == 0
}

func (i ItemList) Merge(other ItemList) {
	maps.Copy(i, other)
}

func (a ItemList) Intersect(b ItemList) {
	for id := range a {
		if _, ok := b[id]; !ok {
			delete(a, id)
		}
	}
}

func (i ItemList) HasIntersection(other ItemList) bool {
	small, large := i, other
	if len(small) > len(large) {
		small, large = large, small
	}
	for id := range small {
		if _, ok := large[id]; ok {
			return true
		}
	}
	return false
}

func (i ItemList) Clone() ItemList {
	return maps.Clone(i)
}

func (i ItemList) ToSlice() []int {
	return slices.Sorted(maps.Keys(i))
}
