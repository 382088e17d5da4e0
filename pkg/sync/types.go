package sync

import (
	"github.com/matst80/slask-facets/pkg/messaging"
	"github.com/matst80/slask-facets/pkg/types"
)

type RabbitConfig struct {
	Url    string
	VHost  string
	Prefix string
	// NodeId is sent as the origin of published collections. A listener
	// with the same NodeId skips them.
	NodeId string
}

func (c RabbitConfig) prefix() string {
	if c.Prefix == "" {
		return "global"
	}
	return c.Prefix
}

// ItemsHandler receives a whole replacement item collection.
type ItemsHandler interface {
	ReplaceItems(items []types.DataItem)
}

type ItemsHandlerFunc func(items []types.DataItem)

func (f ItemsHandlerFunc) ReplaceItems(items []types.DataItem) {
	f(items)
}

var itemsTopic = messaging.ItemsReplaced
