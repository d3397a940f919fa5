package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/Yatin2505/E-Commerce1-backend/internal/domain"
)

// OrderEvent is the JSON envelope written to the order-events topic.
type OrderEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	OrderID    string    `json:"order_id"`
	UserID     string    `json:"user_id"`
	TotalPrice float64   `json:"total_price"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "order-events",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) OrderCreated(ctx context.Context, order *domain.Order) {
	p.publish(ctx, EventOrderCreated, order)
}

func (p *KafkaPublisher) OrderCancelled(ctx context.Context, order *domain.Order) {
	p.publish(ctx, EventOrderCancelled, order)
}

func (p *KafkaPublisher) publish(ctx context.Context, eventType string, order *domain.Order) {
	event := OrderEvent{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		OrderID:    order.ID,
		UserID:     order.UserID,
		TotalPrice: order.TotalPrice,
		Status:     string(order.OrderStatus),
		OccurredAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event for order %s: %v", eventType, order.ID, err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(order.ID), // order_id for ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Printf("failed to publish %s event for order %s: %v", eventType, order.ID, err)
	}
}

func (p *KafkaPublisher) Close() {
	if err := p.writer.Close(); err != nil {
		log.Printf("error closing kafka writer: %v", err)
	}
}
