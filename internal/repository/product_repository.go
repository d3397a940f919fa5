package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Yatin2505/E-Commerce1-backend/internal/domain"
)

// ProductFilter narrows a product listing. Page is 1-based.
type ProductFilter struct {
	Keyword  string
	Category domain.Category
	Page     int
	PageSize int
}

// ProductRepository defines the interface for product data operations.
// Consumers define this interface, not the MongoDB implementation.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, int64, error)
	TopRated(ctx context.Context, limit int) ([]*domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error

	// AdjustStock atomically applies delta to the product's stock count.
	// A negative delta that would drive stock below zero is rejected with
	// ErrInsufficientStock and has no effect. The check and the write are a
	// single conditional update, so concurrent adjustments on the same
	// product cannot interleave.
	AdjustStock(ctx context.Context, id string, delta int) error

	AddReview(ctx context.Context, id string, review domain.Review, rating float64, numReviews int) error
}

type mongoProductRepository struct {
	collection *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProductRepository{collection: db.Collection("products")}
}

func (m *mongoProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product

	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &product, nil
}

func (m *mongoProductRepository) List(ctx context.Context, filter ProductFilter) ([]*domain.Product, int64, error) {
	query := bson.M{}
	if filter.Keyword != "" {
		query["name"] = bson.M{"$regex": primitive.Regex{Pattern: filter.Keyword, Options: "i"}}
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}

	total, err := m.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 12
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(pageSize * (page - 1))).
		SetLimit(int64(pageSize))

	cursor, err := m.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []*domain.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, total, nil
}

func (m *mongoProductRepository) TopRated(ctx context.Context, limit int) ([]*domain.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := m.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list top rated products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []*domain.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

func (m *mongoProductRepository) Create(ctx context.Context, p *domain.Product) error {
	now := time.Now()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := m.collection.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (m *mongoProductRepository) Update(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"category":    p.Category,
		"image":       p.Image,
		"stock":       p.Stock,
		"updated_at":  p.UpdatedAt,
	}}

	result, err := m.collection.UpdateOne(ctx, bson.M{"_id": p.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (m *mongoProductRepository) Delete(ctx context.Context, id string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (m *mongoProductRepository) AdjustStock(ctx context.Context, id string, delta int) error {
	filter := bson.M{"_id": id}
	if delta < 0 {
		// Conditional update: only matches while stock can absorb the
		// decrement, which keeps the floor at zero under concurrency.
		filter["stock"] = bson.M{"$gte": -delta}
	}

	update := bson.M{
		"$inc": bson.M{"stock": delta},
		"$set": bson.M{"updated_at": time.Now()},
	}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}
	if result.MatchedCount == 0 {
		// Either the product is missing or the floor condition failed.
		n, countErr := m.collection.CountDocuments(ctx, bson.M{"_id": id})
		if countErr != nil {
			return fmt.Errorf("failed to adjust stock: %w", countErr)
		}
		if n == 0 {
			return ErrProductNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}

func (m *mongoProductRepository) AddReview(ctx context.Context, id string, review domain.Review, rating float64, numReviews int) error {
	update := bson.M{
		"$push": bson.M{"reviews": review},
		"$set": bson.M{
			"rating":      rating,
			"num_reviews": numReviews,
			"updated_at":  time.Now(),
		},
	}

	result, err := m.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to add review: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}
