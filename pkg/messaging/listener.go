package messaging

import (
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

func DeclareBindAndConsume(ch *amqp.Channel, prefix string, topic ChangeTopic) (<-chan amqp.Delivery, error) {
	name := TopicName(prefix, topic)
	q, err := ch.QueueDeclare(
		"",    // name
		false, // durable
		false, // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, err
	}
	err = ch.QueueBind(q.Name, name, name, false, nil)
	if err != nil {
		return nil, err
	}
	return ch.Consume(
		q.Name,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
}

// Listen acks every delivery handled without error. A delivery that fails to
// decode or handle is rejected without requeue and the listener keeps going.
func Listen[V any](ch *amqp.Channel, prefix string, topic Topic[V], handle func(origin string, data V) error) error {
	fc, err := DeclareBindAndConsume(ch, prefix, topic.Name)
	if err != nil {
		return err
	}

	go func(msgs <-chan amqp.Delivery) {
		defer ch.Close()
		for d := range msgs {
			if err := topic.Deliver(d.Body, d.AppId, handle); err != nil {
				log.Printf("Error processing %s message: %v", topic.Name, err)
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
		log.Printf("Stopped listening to %s", TopicName(prefix, topic.Name))
	}(fc)
	return nil
}
