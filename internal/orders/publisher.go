package orders

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	d "github.com/dejidee0/litwaypickss-eccomerce/internal/checkout/domain"
)

const Topic = "orders.completed"

// messageWriter is what Publisher needs from kafka.Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes completed orders to Kafka, keyed by order id so all
// events for one order land on the same partition.
type Publisher struct {
	writer messageWriter
}

func NewPublisher(brokers ...string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w}
}

func (p *Publisher) PublishCompleted(ctx context.Context, order d.CompletedOrder) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order %v: %w", order.OrderID, err)
	}

	msg := kafka.Message{
		Key:   []byte(order.OrderID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("OrderCompleted")},
		},
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
