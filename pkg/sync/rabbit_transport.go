package sync

import (
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/matst80/slask-facets/pkg/messaging"
	"github.com/matst80/slask-facets/pkg/types"
)

func dial(config RabbitConfig) (*amqp.Connection, error) {
	return amqp.DialConfig(config.Url, amqp.Config{
		Vhost:      config.VHost,
		Properties: amqp.NewConnectionProperties(),
	})
}

// RabbitItemsPublisher announces replaced item collections to other nodes.
type RabbitItemsPublisher struct {
	RabbitConfig
	connection *amqp.Connection
}

func (t *RabbitItemsPublisher) Connect() error {
	conn, err := dial(t.RabbitConfig)
	if err != nil {
		return err
	}
	t.connection = conn
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	return messaging.DefineTopic(ch, t.prefix(), itemsTopic.Name)
}

func (t *RabbitItemsPublisher) SendItems(items []types.DataItem) error {
	if t.connection == nil {
		return fmt.Errorf("not connected")
	}
	return messaging.Send(t.connection, t.prefix(), itemsTopic, t.NodeId, items)
}

func (t *RabbitItemsPublisher) Close() error {
	if t.connection == nil || t.connection.IsClosed() {
		return nil
	}
	return t.connection.Close()
}

// RabbitItemsListener hands every received collection to its handler.
type RabbitItemsListener struct {
	RabbitConfig
	Handler    ItemsHandler
	connection *amqp.Connection
}

func (t *RabbitItemsListener) Connect() error {
	conn, err := dial(t.RabbitConfig)
	if err != nil {
		return err
	}
	t.connection = conn
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	if err = messaging.Listen(ch, t.prefix(), itemsTopic, t.handleItems); err != nil {
		return err
	}
	log.Printf("Listening for item collections on %s", messaging.TopicName(t.prefix(), itemsTopic.Name))
	return nil
}

func (t *RabbitItemsListener) handleItems(origin string, items []types.DataItem) error {
	if t.NodeId != "" && origin == t.NodeId {
		return nil
	}
	log.Printf("Got item collection with %d items from %s", len(items), origin)
	t.Handler.ReplaceItems(items)
	return nil
}

func (t *RabbitItemsListener) Close() error {
	if t.connection == nil || t.connection.IsClosed() {
		return nil
	}
	return t.connection.Close()
}
