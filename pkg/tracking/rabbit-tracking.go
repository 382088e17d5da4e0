package tracking

import (
	"log"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/matst80/slask-facets/pkg/common"
	"github.com/matst80/slask-facets/pkg/messaging"
)

const trackingPrefix = "global"

// EventSender delivers one batch of events.
type EventSender interface {
	Send(events []any) error
	Close() error
}

type rabbitSender struct {
	connection *amqp.Connection
	origin     string
}

func (s *rabbitSender) Send(events []any) error {
	return messaging.Send(s.connection, trackingPrefix, messaging.Tracking, s.origin, events)
}

func (s *rabbitSender) Close() error {
	return s.connection.Close()
}

func dialSender(url, origin string) (*rabbitSender, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()
	if err = messaging.DefineTopic(ch, trackingPrefix, messaging.Tracking.Name); err != nil {
		conn.Close()
		return nil, err
	}
	return &rabbitSender{connection: conn, origin: origin}, nil
}

// QueueTracking batches events through a queue handler before sending.
type QueueTracking struct {
	country string
	sender  EventSender
	queue   *common.QueueHandler[any]
	now     func() time.Time
}

const batchSize = 50

// NewRabbitTracking sends event batches tagged with nodeId as their origin.
func NewRabbitTracking(url, country, nodeId string) (*QueueTracking, error) {
	sender, err := dialSender(url, nodeId)
	if err != nil {
		return nil, err
	}
	return NewQueueTracking(sender, country, time.Second), nil
}

func NewQueueTracking(sender EventSender, country string, interval time.Duration) *QueueTracking {
	t := &QueueTracking{
		country: country,
		sender:  sender,
		now:     time.Now,
	}
	t.queue = common.NewQueueHandlerWithInterval(t.sendBatch, batchSize, interval)
	return t
}

func (t *QueueTracking) sendBatch(events []any) {
	if err := t.sender.Send(events); err != nil {
		log.Printf("Error sending %d tracking events: %v", len(events), err)
	}
}

func (t *QueueTracking) base(sessionId string, event uint16) *BaseEvent {
	return &BaseEvent{SessionId: sessionId, Country: t.country, Event: event, Time: t.now()}
}

func (t *QueueTracking) TrackSession(sessionId string, r *http.Request) {
	t.queue.Add(Session{
		BaseEvent: t.base(sessionId, sessionEvent),
		UserAgent: r.UserAgent(),
		Ip:        clientIp(r),
		Language:  r.Header.Get("Accept-Language"),
	})
}

func (t *QueueTracking) TrackFacet(sessionId string, action Action, category, value string, results int) {
	t.queue.Add(FacetEvent{
		BaseEvent: t.base(sessionId, facetEvent),
		Action:    action,
		Category:  category,
		Value:     value,
		Results:   results,
	})
}

// Close flushes queued events and closes the sender.
func (t *QueueTracking) Close() error {
	t.queue.Stop()
	return t.sender.Close()
}
