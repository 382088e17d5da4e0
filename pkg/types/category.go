package types

type FacetType string

const (
	FacetTypeAnd FacetType = "and"
	// FacetTypeOr is accepted in configuration and carried on every facet value
	// but matching does not consult it.
	FacetTypeOr FacetType = "or"
)

type CategoryConfig struct {
	Category string    `json:"category"`
	Label    string    `json:"label,omitempty"`
	QueryKey string    `json:"queryKey,omitempty"`
	Type     FacetType `json:"type,omitempty"`
}

func (c *CategoryConfig) GetLabel() string {
	if c.Label == "" {
		return c.Category
	}
	return c.Label
}

func (c *CategoryConfig) GetQueryKey() string {
	if c.QueryKey == "" {
		return c.Category
	}
	return c.QueryKey
}

func (c *CategoryConfig) GetType() FacetType {
	if c.Type == "" {
		return FacetTypeAnd
	}
	return c.Type
}
