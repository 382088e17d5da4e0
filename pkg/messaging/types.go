package messaging

import (
	"fmt"

	"github.com/matst80/slask-facets/pkg/common/jsoncompat"
	"github.com/matst80/slask-facets/pkg/types"
)

type ChangeTopic string

// Topic ties an exchange name to the payload type carried on it.
type Topic[V any] struct {
	Name ChangeTopic
}

var (
	ItemsReplaced = Topic[[]types.DataItem]{Name: "items_replaced"}
	Tracking      = Topic[[]any]{Name: "tracking"}
)

func (t Topic[V]) Encode(data V) ([]byte, error) {
	return jsoncompat.Marshal(data)
}

func (t Topic[V]) Decode(body []byte) (V, error) {
	var data V
	if err := jsoncompat.Unmarshal(body, &data); err != nil {
		return data, fmt.Errorf("decode %s: %w", t.Name, err)
	}
	return data, nil
}

// Deliver decodes body and hands it to handle together with the sending node.
func (t Topic[V]) Deliver(body []byte, origin string, handle func(origin string, data V) error) error {
	data, err := t.Decode(body)
	if err != nil {
		return err
	}
	return handle(origin, data)
}

// TopicName is the exchange and queue name of topic under prefix.
func TopicName(prefix string, topic ChangeTopic) string {
	return fmt.Sprintf("%s_%s", prefix, topic)
}
