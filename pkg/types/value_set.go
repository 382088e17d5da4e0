package types

import (
	"maps"
	"slices"

	"github.com/matst80/slask-facets/pkg/common/jsoncompat"
)

type ValueSet map[string]struct{}

func NewValueSet(values ...string) ValueSet {
	ret := make(ValueSet, len(values))
	for _, v := range values {
		ret[v] = struct{}{}
	}
	return ret
}

func (s ValueSet) Add(value string) {
	s[value] = struct{}{}
}

func (s ValueSet) Contains(value string) bool {
	_, ok := s[value]
	return ok
}

func (s ValueSet) Len() int {
	return len(s)
}

// Sorted returns the values in lexical order.
func (s ValueSet) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

func (s ValueSet) MarshalJSON() ([]byte, error) {
	return jsoncompat.Marshal(s.Sorted())
}

func (s *ValueSet) UnmarshalJSON(data []byte) error {
	var values []string
	if err := jsoncompat.Unmarshal(data, &values); err != nil {
		return err
	}
	*s = NewValueSet(values...)
	return nil
}
