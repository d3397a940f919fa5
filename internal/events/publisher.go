package events

import (
	"context"

	"github.com/Yatin2505/E-Commerce1-backend/internal/domain"
)

const (
	EventOrderCreated   = "order.created"
	EventOrderCancelled = "order.cancelled"
)

// Publisher emits order lifecycle events for downstream consumers
// (notifications, analytics). Publishing is fire-and-forget: a broker
// failure must never fail the order operation that triggered it.
type Publisher interface {
	OrderCreated(ctx context.Context, order *domain.Order)
	OrderCancelled(ctx context.Context, order *domain.Order)
}

// NopPublisher is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) OrderCreated(context.Context, *domain.Order)   {}
func (NopPublisher) OrderCancelled(context.Context, *domain.Order) {}
