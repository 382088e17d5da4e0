package facet

import (
	"sync"

	"github.com/matst80/slask-facets/pkg/types"
)

// LockedEngine serializes every operation on an Engine so that a whole
// mutation and its resolve pass is one critical section.
type LockedEngine struct {
	mu     sync.Mutex
	engine *Engine
}

func NewLockedEngine(engine *Engine) *LockedEngine {
	return &LockedEngine{engine: engine}
}

// Do runs fn with exclusive access to the engine.
func (l *LockedEngine) Do(fn func(e *Engine)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.engine)
}

func (l *LockedEngine) OnItemsChanged(items []types.Item) {
	l.Do(func(e *Engine) { e.OnItemsChanged(items) })
}

func (l *LockedEngine) AddFacet(category, value string) {
	l.Do(func(e *Engine) { e.AddFacet(category, value) })
}

func (l *LockedEngine) RemoveFacet(category, value string) {
	l.Do(func(e *Engine) { e.RemoveFacet(category, value) })
}

func (l *LockedEngine) ToggleFacet(category, value string) {
	l.Do(func(e *Engine) { e.ToggleFacet(category, value) })
}

func (l *LockedEngine) RemoveAllFacets() {
	l.Do(func(e *Engine) { e.RemoveAllFacets() })
}

func (l *LockedEngine) GetEnabledFacetCount(category string) (count int) {
	l.Do(func(e *Engine) { count = e.GetEnabledFacetCount(category) })
	return
}

func (l *LockedEngine) Facets() (ret map[string]CategoryState) {
	l.Do(func(e *Engine) { ret = e.Facets() })
	return
}

func (l *LockedEngine) ActiveFacets() (ret map[string]types.ValueSet) {
	l.Do(func(e *Engine) { ret = e.ActiveFacets() })
	return
}

func (l *LockedEngine) FilteredItems() (ret []types.Item) {
	l.Do(func(e *Engine) { ret = e.FilteredItems() })
	return
}

func (l *LockedEngine) Count() (count int) {
	l.Do(func(e *Engine) { count = e.Count() })
	return
}
