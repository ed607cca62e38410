package realtime

import (
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

const changesExchange = "respos.changes"

// AMQPBus fans change events out through a RabbitMQ fanout exchange so
// several API processes can serve the same floor. Local subscriptions are
// fed from the consumed queue, so a process also sees its own publishes
// (the consume loop delivers them back, same as every peer).
type AMQPBus struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	local *Hub
	done  chan struct{}
}

// DialAMQP connects, declares the fanout exchange and an exclusive queue
// for this process, and starts the delivery loop.
func DialAMQP(url string) (*AMQPBus, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(changesExchange, "fanout", false, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, "", changesExchange, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}
	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("consume: %w", err)
	}

	b := &AMQPBus{conn: conn, ch: ch, local: NewHub(), done: make(chan struct{})}
	go b.deliver(deliveries)
	return b, nil
}

func (b *AMQPBus) deliver(deliveries <-chan amqp.Delivery) {
	defer close(b.done)
	for d := range deliveries {
		var ev ChangeEvent
		if err := json.Unmarshal(d.Body, &ev); err != nil {
			log.Printf("realtime: dropping malformed change event: %v", err)
			continue
		}
		b.local.Publish(ev)
	}
}

func (b *AMQPBus) Subscribe(collection Collection, filter Filter) *Subscription {
	return b.local.Subscribe(collection, filter)
}

// Publish sends the event to the exchange. A broker failure is logged,
// not returned: the mutation already committed, and clients converge on
// the next event or a manual refresh.
func (b *AMQPBus) Publish(ev ChangeEvent) {
	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("realtime: marshal change event: %v", err)
		return
	}
	err = b.ch.Publish(changesExchange, string(ev.Collection), false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		log.Printf("realtime: publish change event: %v", err)
	}
}

// Close shuts the channel and connection down and waits for the delivery
// loop to drain.
func (b *AMQPBus) Close() {
	if b.ch != nil {
		_ = b.ch.Close()
	}
	if b.conn != nil {
		_ = b.conn.Close()
	}
	<-b.done
}
