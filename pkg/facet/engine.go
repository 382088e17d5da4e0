package facet

import (
	"strings"

	"github.com/matst80/slask-facets/pkg/query"
	"github.com/matst80/slask-facets/pkg/types"
)

type Config struct {
	Facets []types.CategoryConfig `json:"facets"`
	// WithQuery mirrors selections into the query store and replays them on rebuild.
	WithQuery bool `json:"withQuery"`
	// Immediate builds the index in NewEngine instead of waiting for the first OnItemsChanged.
	Immediate bool `json:"immediate"`
}

type CategoryState struct {
	Label    string                     `json:"label"`
	QueryKey string                     `json:"queryKey"`
	Facets   map[string]FacetValueState `json:"facets"`
}

// Engine tracks facet selections over one item collection. Every mutation
// runs a full resolve before it returns. An Engine is not safe for
// concurrent use, see LockedEngine.
//
// Operations on unknown categories or values, or before the first index
// build, do nothing.
type Engine struct {
	config      Config
	categories  []string
	index       *Index
	lastChanged string
	store       query.Store
}

func NewEngine(items []types.Item, config Config, store query.Store) *Engine {
	e := &Engine{
		config:     config,
		categories: distinctCategories(config.Facets),
		store:      store,
	}
	if config.Immediate {
		e.OnItemsChanged(items)
	}
	return e
}

func distinctCategories(configs []types.CategoryConfig) []string {
	seen := make(map[string]struct{}, len(configs))
	ret := make([]string, 0, len(configs))
	for _, c := range configs {
		if _, ok := seen[c.Category]; ok {
			continue
		}
		seen[c.Category] = struct{}{}
		ret = append(ret, c.Category)
	}
	return ret
}

func (e *Engine) withQuery() bool {
	return e.config.WithQuery && e.store != nil
}

// OnItemsChanged rebuilds the index for a new item collection. All selection
// state is reset and then restored from the query store.
func (e *Engine) OnItemsChanged(items []types.Item) {
	e.index = BuildIndex(items, e.config.Facets)
	e.lastChanged = ""
	e.update()

	if e.withQuery() {
		e.replayQuery()
	}
}

func (e *Engine) replayQuery() {
	for _, pair := range e.store.Read() {
		category, ok := e.index.CategoryForQueryKey(pair.Key)
		if !ok {
			continue
		}
		for value := range strings.SplitSeq(pair.Value, ",") {
			e.activate(category, value)
		}
	}
}

func (e *Engine) update() {
	for _, d := range Resolve(e.index, e.lastChanged) {
		e.removeFromQuery(d.Category, d.Value)
	}
}

func (e *Engine) lookup(category, value string) (*FacetValueState, bool) {
	if e.index == nil {
		return nil, false
	}
	return e.index.GetState(category, value)
}

func (e *Engine) activate(category, value string) bool {
	state, ok := e.lookup(category, value)
	if !ok {
		return false
	}
	e.lastChanged = category
	state.IsActive = true
	e.update()
	return state.IsActive
}

func (e *Engine) AddFacet(category, value string) {
	state, ok := e.lookup(category, value)
	if !ok {
		return
	}
	wasActive := state.IsActive
	if e.activate(category, value) && !wasActive {
		e.addToQuery(category, value)
	}
}

func (e *Engine) RemoveFacet(category, value string) {
	state, ok := e.lookup(category, value)
	if !ok {
		return
	}
	e.lastChanged = category
	state.IsActive = false
	e.update()
	e.removeFromQuery(category, value)
}

func (e *Engine) ToggleFacet(category, value string) {
	state, ok := e.lookup(category, value)
	if !ok {
		return
	}
	if state.IsActive {
		e.RemoveFacet(category, value)
		return
	}
	e.AddFacet(category, value)
}

// RemoveAllFacets removes the active values one at a time.
func (e *Engine) RemoveAllFacets() {
	if e.index == nil {
		return
	}
	for _, category := range e.ActiveCategories() {
		field := e.index.Fields[category]
		for _, value := range field.Values() {
			if field.State[value].IsActive {
				e.RemoveFacet(category, value)
			}
		}
	}
}

// GetEnabledFacetCount returns the number of values in category that are not disabled.
func (e *Engine) GetEnabledFacetCount(category string) int {
	if e.index == nil {
		return 0
	}
	field, ok := e.index.GetField(category)
	if !ok {
		return 0
	}
	return field.EnabledCount()
}

func (e *Engine) addToQuery(category, value string) {
	if !e.withQuery() {
		return
	}
	query.Append(e.store, e.queryKey(category), value)
}

func (e *Engine) removeFromQuery(category, value string) {
	if !e.withQuery() {
		return
	}
	query.Remove(e.store, e.queryKey(category), value)
}

func (e *Engine) queryKey(category string) string {
	if field, ok := e.index.GetField(category); ok {
		return field.GetQueryKey()
	}
	return category
}

// Facets returns a copy of the whole facet tree, nil before the first build.
func (e *Engine) Facets() map[string]CategoryState {
	if e.index == nil {
		return nil
	}
	ret := make(map[string]CategoryState, len(e.index.Fields))
	for category, field := range e.index.Fields {
		facets := make(map[string]FacetValueState, len(field.State))
		for value, state := range field.State {
			facets[value] = *state
		}
		ret[category] = CategoryState{
			Label:    field.GetLabel(),
			QueryKey: field.GetQueryKey(),
			Facets:   facets,
		}
	}
	return ret
}

// Categories returns the configured categories in configuration order.
func (e *Engine) Categories() []string {
	return e.categories
}

func (e *Engine) ActiveFacets() map[string]types.ValueSet {
	if e.index == nil {
		return map[string]types.ValueSet{}
	}
	return e.index.ActiveSelections()
}

// ActiveCategories returns the categories with a selection, in configuration order.
func (e *Engine) ActiveCategories() []string {
	ret := make([]string, 0)
	if e.index == nil {
		return ret
	}
	for _, category := range e.index.Categories() {
		if e.index.Fields[category].HasActive() {
			ret = append(ret, category)
		}
	}
	return ret
}

func (e *Engine) FilteredItems() []types.Item {
	if e.index == nil {
		return []types.Item{}
	}
	return e.index.MatchingItems(e.index.FilteredIds())
}

func (e *Engine) Count() int {
	return len(e.FilteredItems())
}
