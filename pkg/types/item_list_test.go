package types

import (
	"reflect"
	"testing"
)

func TestItemListIntersect(t *testing.T) {
	a := ItemList{1: empty, 2: empty, 3: empty}
	b := ItemList{2: empty, 3: empty, 4: empty}
	a.Intersect(b)
	if !reflect.DeepEqual(a.ToSlice(), []int{2, 3}) {
		t.Errorf("Expected [2 3] but got %v", a.ToSlice())
	}
}

func TestItemListMerge(t *testing.T) {
	a := ItemList{1: empty}
	a.Merge(ItemList{2: empty, 5: empty})
	if !reflect.DeepEqual(a.ToSlice(), []int{1, 2, 5}) {
		t.Errorf("Expected [1 2 5] but got %v", a.ToSlice())
	}
}

func TestItemListHasIntersection(t *testing.T) {
	tests := []struct {
		a, b     ItemList
		expected bool
	}{
		{ItemList{1: empty}, ItemList{1: empty, 2: empty}, true},
		{ItemList{1: empty, 2: empty, 3: empty}, ItemList{3: empty}, true},
		{ItemList{1: empty}, ItemList{2: empty}, false},
		{ItemList{}, ItemList{2: empty}, false},
		{nil, ItemList{2: empty}, false},
	}
	for _, test := range tests {
		if got := test.a.HasIntersection(test.b); got != test.expected {
			t.Errorf("HasIntersection(%v, %v): expected %v, got %v", test.a.ToSlice(), test.b.ToSlice(), test.expected, got)
		}
	}
}

func TestAllItems(t *testing.T) {
	all := AllItems(3)
	if !reflect.DeepEqual(all.ToSlice(), []int{0, 1, 2}) {
		t.Errorf("Expected [0 1 2] but got %v", all.ToSlice())
	}
	if !AllItems(0).IsEmpty() {
		t.Errorf("Expected empty list for zero items")
	}
}

func TestItemListCloneIsIndependent(t *testing.T) {
	a := ItemList{1: empty}
	b := a.Clone()
	b.AddId(2)
	if a.Contains(2) {
		t.Errorf("Expected clone to not share storage")
	}
}
