// Package catalog owns product records: CRUD, listing with search and
// pagination, reviews and the cached lookup the cart and order flows read
// through. Stock is read here but only ever mutated by the inventory
// ledger or an administrative edit.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Yatin2505/E-Commerce1-backend/internal/cache"
	"github.com/Yatin2505/E-Commerce1-backend/internal/domain"
	"github.com/Yatin2505/E-Commerce1-backend/internal/repository"
)

const (
	DefaultPageSize = 12
	topRatedLimit   = 6
)

var (
	ErrInvalidProduct  = errors.New("invalid product fields")
	ErrInvalidReview   = errors.New("invalid review")
	ErrAlreadyReviewed = errors.New("product already reviewed")
)

type Service struct {
	repo  repository.ProductRepository
	cache cache.ProductCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewService(repo repository.ProductRepository, productCache cache.ProductCache) *Service {
	return &Service{
		repo:  repo,
		cache: productCache,
	}
}

// GetProduct is the hot read path: cache first, repository on miss, with
// singleflight so concurrent misses for one product hit Mongo once.
func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	v, err, _ := s.sfg.Do(id, func() (interface{}, error) {
		product, err := s.cache.Get(ctx, id)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		product, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		go func() {
			if err := s.cache.Set(context.Background(), id, product); err != nil {
				log.Printf("cache set error: %v", err)
			}
		}()

		return product, nil
	})

	if err != nil {
		return nil, err
	}
	return v.(*domain.Product), nil
}

// ListFilter mirrors the public listing query: keyword search on the name,
// optional category, 1-based page.
type ListFilter struct {
	Keyword  string
	Category domain.Category
	Page     int
}

// ListResult carries one page plus the totals the response envelope needs.
type ListResult struct {
	Products []*domain.Product
	Page     int
	Pages    int
	Total    int64
}

func (s *Service) ListProducts(ctx context.Context, filter ListFilter) (*ListResult, error) {
	if filter.Category != "" && !filter.Category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidProduct, filter.Category)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}

	products, total, err := s.repo.List(ctx, repository.ProductFilter{
		Keyword:  filter.Keyword,
		Category: filter.Category,
		Page:     page,
		PageSize: DefaultPageSize,
	})
	if err != nil {
		return nil, err
	}

	pages := int((total + DefaultPageSize - 1) / DefaultPageSize)
	return &ListResult{
		Products: products,
		Page:     page,
		Pages:    pages,
		Total:    total,
	}, nil
}

func (s *Service) TopRated(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.TopRated(ctx, topRatedLimit)
}

func (s *Service) CreateProduct(ctx context.Context, p *domain.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	if p.Image == "" {
		p.Image = "https://via.placeholder.com/300"
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) UpdateProduct(ctx context.Context, p *domain.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	s.invalidate(p.ID)
	return nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(id)
	return nil
}

// AddReview appends one review per user and refreshes the rating
// aggregate.
func (s *Service) AddReview(ctx context.Context, productID, userID, userName string, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidReview)
	}
	if comment == "" {
		return fmt.Errorf("%w: comment is required", ErrInvalidReview)
	}

	product, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product.ReviewedBy(userID) {
		return ErrAlreadyReviewed
	}

	review := domain.Review{
		UserID:    userID,
		Name:      userName,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now(),
	}

	product.Reviews = append(product.Reviews, review)
	product.RecalculateRating()

	if err := s.repo.AddReview(ctx, productID, review, product.Rating, product.NumReviews); err != nil {
		return err
	}
	s.invalidate(productID)
	return nil
}

func validateProduct(p *domain.Product) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidProduct)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", ErrInvalidProduct)
	}
	if !p.Category.IsValid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidProduct, p.Category)
	}
	return nil
}

func (s *Service) invalidate(productID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, productID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
