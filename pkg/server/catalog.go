package server

import (
	"encoding/binary"
	"maps"
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/matst80/slask-facets/pkg/facet"
	"github.com/matst80/slask-facets/pkg/query"
	"github.com/matst80/slask-facets/pkg/types"
)

// Snapshot is one immutable version of the item collection and its category
// configuration. Version counts replacements within this process; Hash
// identifies the content, so equal collections on different nodes share
// cache entries and different ones never do.
type Snapshot struct {
	Version    uint64
	Hash       uint64
	Items      []types.DataItem
	Categories []types.CategoryConfig
	items      []types.Item
}

func newSnapshot(version uint64, items []types.DataItem, categories []types.CategoryConfig) *Snapshot {
	return &Snapshot{
		Version:    version,
		Hash:       contentHash(items, categories),
		Items:      items,
		Categories: categories,
		items:      types.AsItems(items),
	}
}

func contentHash(items []types.DataItem, categories []types.CategoryConfig) uint64 {
	d := xxhash.New()
	var buf [8]byte
	writeString := func(v string) {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(v)))
		d.Write(buf[:])
		d.WriteString(v)
	}
	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		d.Write(buf[:])
	}
	writeInt(len(categories))
	for _, c := range categories {
		writeString(c.Category)
		writeString(c.Label)
		writeString(c.QueryKey)
		writeString(string(c.Type))
	}
	writeInt(len(items))
	for _, item := range items {
		writeInt(int(item.Id))
		writeString(item.Title)
		writeInt(len(item.Facets))
		for _, category := range slices.Sorted(maps.Keys(item.Facets)) {
			writeString(category)
			values := item.Facets[category]
			writeInt(len(values))
			for _, v := range values {
				writeString(v)
			}
		}
	}
	return d.Sum64()
}

// Engine builds a query backed engine over the snapshot.
func (s *Snapshot) Engine(store query.Store) *facet.Engine {
	return facet.NewEngine(s.items, facet.Config{
		Facets:    s.Categories,
		WithQuery: true,
		Immediate: true,
	}, store)
}

func (s *Snapshot) HasCategory(category string) bool {
	for _, c := range s.Categories {
		if c.Category == category {
			return true
		}
	}
	return false
}

// Catalog holds the current snapshot. Every replacement gets a new version.
type Catalog struct {
	mu       sync.RWMutex
	snapshot *Snapshot
}

func NewCatalog(items []types.DataItem, categories []types.CategoryConfig) *Catalog {
	c := &Catalog{snapshot: newSnapshot(1, items, categories)}
	totalItems.Set(float64(len(items)))
	return c
}

func (c *Catalog) Snapshot() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// ReplaceItems swaps in a new item collection, keeping the categories.
func (c *Catalog) ReplaceItems(items []types.DataItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = newSnapshot(c.snapshot.Version+1, items, c.snapshot.Categories)
	totalItems.Set(float64(len(items)))
	catalogVersion.Set(float64(c.snapshot.Version))
}

func (c *Catalog) ReplaceCategories(categories []types.CategoryConfig) error {
	if err := ValidateCategories(categories); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = newSnapshot(c.snapshot.Version+1, c.snapshot.Items, categories)
	catalogVersion.Set(float64(c.snapshot.Version))
	return nil
}
