package types

type ItemId uint32

// Item is anything that can be faceted. The engine only reads it.
type Item interface {
	GetId() ItemId
	GetFacetValues(category string) []string
}

type DataItem struct {
	Id     ItemId              `json:"id"`
	Title  string              `json:"title,omitempty"`
	Facets map[string][]string `json:"facets"`
}

func (d *DataItem) GetId() ItemId {
	return d.Id
}

func (d *DataItem) GetFacetValues(category string) []string {
	if d == nil || d.Facets == nil {
		return nil
	}
	return d.Facets[category]
}

func (d *DataItem) GetTitle() string {
	return d.Title
}

// AsItems converts a decoded collection into the interface slice the engine consumes.
func AsItems(items []DataItem) []Item {
	ret := make([]Item, len(items))
	for i := range items {
		ret[i] = &items[i]
	}
	return ret
}
