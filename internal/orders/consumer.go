package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/segmentio/kafka-go"

	d "github.com/dejidee0/litwaypickss-eccomerce/internal/checkout/domain"
)

// Consumer reads completed orders off Kafka and feeds them to the
// recorder. Duplicate deliveries are skipped.
type Consumer struct {
	recorder *Recorder
	reader   *kafka.Reader
}

func NewConsumer(recorder *Recorder, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    Topic,
		GroupID:  "litway-orders",
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{recorder, reader}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		log.Printf("error closing kafka reader: %v", err)
	}
}

func (c *Consumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Printf("error reading message: %v", err)
		return
	}
	c.handle(m)
}

func (c *Consumer) handle(m kafka.Message) {
	var order d.CompletedOrder
	if err := json.Unmarshal(m.Value, &order); err != nil {
		log.Printf("error parsing message: %v", err)
		return
	}
	if order.OrderID == "" {
		log.Printf("skipping order event with no order_id")
		return
	}

	if !c.recorder.Record(order) {
		log.Printf("order %s already recorded, skipping", order.OrderID)
		return
	}
	log.Printf("order %s recorded for user %s", order.OrderID, order.UserID)
}
