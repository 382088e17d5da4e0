package main

import (
	"flag"
	"log"
	"maps"
	"os"
	"slices"

	"github.com/matst80/slask-facets/pkg/storage"
	"github.com/matst80/slask-facets/pkg/types"
)

var dataDir = "data"
var writeCategories = flag.Bool("categories", true, "write facets.json when it is missing")

func init() {
	if d, ok := os.LookupEnv("DATA_DIR"); ok {
		dataDir = d
	}
}

// categoriesFromItems lists every facet category used by the items in lexical order.
func categoriesFromItems(items []types.DataItem) []types.CategoryConfig {
	seen := map[string]struct{}{}
	for _, item := range items {
		for category := range item.Facets {
			seen[category] = struct{}{}
		}
	}
	ret := make([]types.CategoryConfig, 0, len(seen))
	for _, category := range slices.Sorted(maps.Keys(seen)) {
		ret = append(ret, types.CategoryConfig{Category: category})
	}
	return ret
}

func main() {
	flag.Parse()
	s := storage.NewDiskStorage(dataDir)

	items, err := s.LoadItems()
	if err != nil {
		log.Fatalf("Could not load items: %v", err)
	}
	if err = s.SaveItems(items); err != nil {
		log.Fatalf("Could not save items: %v", err)
	}
	log.Printf("Saved %d items", len(items))

	if !*writeCategories {
		return
	}
	if _, err = s.LoadCategories(); err == nil {
		log.Printf("Keeping existing categories")
		return
	}
	categories := categoriesFromItems(items)
	if err = s.SaveCategories(categories); err != nil {
		log.Fatalf("Could not save categories: %v", err)
	}
	log.Printf("Saved %d categories", len(categories))
}
