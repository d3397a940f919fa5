package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Yatin2505/E-Commerce1-backend/internal/domain"
)

// OrderRepository defines the interface for order data operations. Orders
// are append-mostly: after Create only the status fields ever change.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	UpdateStatusFields(ctx context.Context, order *domain.Order) error
}

type mongoOrderRepository struct {
	collection *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) OrderRepository {
	return &mongoOrderRepository{collection: db.Collection("orders")}
}

func (m *mongoOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	now := time.Now()
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	order.CreatedAt = now
	order.UpdatedAt = now

	if _, err := m.collection.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (m *mongoOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order

	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &order, nil
}

func (m *mongoOrderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	return m.list(ctx, bson.M{"user_id": userID})
}

func (m *mongoOrderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return m.list(ctx, bson.M{})
}

func (m *mongoOrderRepository) list(ctx context.Context, filter bson.M) ([]*domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []*domain.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	return orders, nil
}

// UpdateStatusFields persists the mutable part of an order: the two status
// enums and their timestamps. Line items and total are never rewritten.
func (m *mongoOrderRepository) UpdateStatusFields(ctx context.Context, order *domain.Order) error {
	order.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"order_status":   order.OrderStatus,
		"payment_status": order.PaymentStatus,
		"paid_at":        order.PaidAt,
		"delivered_at":   order.DeliveredAt,
		"updated_at":     order.UpdatedAt,
	}}

	result, err := m.collection.UpdateOne(ctx, bson.M{"_id": order.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}
