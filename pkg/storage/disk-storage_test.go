package storage

import (
	"os"
	"path"
	"reflect"
	"testing"

	"github.com/matst80/slask-facets/pkg/types"
)

func TestSaveAndLoadItems(t *testing.T) {
	d := NewDiskStorage(t.TempDir())
	items := []types.DataItem{
		{Id: 1, Title: "first", Facets: map[string][]string{"color": {"red"}}},
		{Id: 2, Title: "second", Facets: map[string][]string{"color": {"blue"}, "size": {"S", "M"}}},
	}
	if err := d.SaveItems(items); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	loaded, err := d.LoadItems()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !reflect.DeepEqual(loaded, items) {
		t.Errorf("Expected %v, got %v", items, loaded)
	}
}

func TestLoadPlainJsonItems(t *testing.T) {
	dir := t.TempDir()
	data := `[{"id":3,"facets":{"color":["green"]}}]`
	if err := os.WriteFile(path.Join(dir, itemsFile), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	loaded, err := NewDiskStorage(dir).LoadItems()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(loaded) != 1 || loaded[0].Id != 3 || loaded[0].Facets["color"][0] != "green" {
		t.Errorf("Expected item 3 with color green, got %v", loaded)
	}
}

func TestLoadMissingItems(t *testing.T) {
	if _, err := NewDiskStorage(t.TempDir()).LoadItems(); err == nil {
		t.Errorf("Expected error for missing items file")
	}
}

func TestSaveAndLoadCategories(t *testing.T) {
	d := NewDiskStorage(t.TempDir())
	categories := []types.CategoryConfig{
		{Category: "color", Label: "Färg", QueryKey: "c"},
		{Category: "size", Type: types.FacetTypeOr},
	}
	if err := d.SaveCategories(categories); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	loaded, err := d.LoadCategories()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !reflect.DeepEqual(loaded, categories) {
		t.Errorf("Expected %v, got %v", categories, loaded)
	}
}
