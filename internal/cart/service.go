package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Yatin2505/E-Commerce1-backend/internal/domain"
	"github.com/Yatin2505/E-Commerce1-backend/internal/repository"
)

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Catalog is the product lookup the cart validates against. The cart never
// mutates stock itself; it only checks the current snapshot, so a cart can
// go stale and checkout has to re-validate through the ledger.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

type Service struct {
	repo    repository.CartRepository
	catalog Catalog
}

func NewService(repo repository.CartRepository, catalog Catalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// Get returns the user's cart, lazily creating an empty one when none
// exists. A missing cart is not an error path.
func (s *Service) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.GetByUser(ctx, userID)
	if errors.Is(err, repository.ErrCartNotFound) {
		now := time.Now()
		return &domain.Cart{
			UserID:    userID,
			Items:     []domain.CartItem{},
			CreatedAt: now,
			UpdatedAt: now,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem merges quantity into an existing line item or appends a new one
// with the price captured now, then recomputes the total.
func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Validate against the requested quantity plus whatever is already in
	// the cart for this product.
	if quantity+cart.QuantityOf(productID) > product.Stock {
		return nil, fmt.Errorf("product %s: %w", productID, repository.ErrInsufficientStock)
	}

	if i := cart.ItemIndex(productID); i >= 0 {
		cart.Items[i].Quantity += quantity
	} else {
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: productID,
			Quantity:  quantity,
			Price:     product.Price,
			AddedAt:   time.Now(),
		})
	}

	cart.RecalculateTotal()
	if err := s.repo.Upsert(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity overwrites a line item's quantity, keeping its captured
// price, and recomputes the total.
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	i := cart.ItemIndex(productID)
	if i < 0 {
		return nil, repository.ErrItemNotFound
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Stock {
		return nil, fmt.Errorf("product %s: %w", productID, repository.ErrInsufficientStock)
	}

	cart.Items[i].Quantity = quantity
	cart.RecalculateTotal()
	if err := s.repo.Upsert(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem drops the line item if present. Removing an absent item is a
// no-op, not an error.
func (s *Service) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	i := cart.ItemIndex(productID)
	if i < 0 {
		return cart, nil
	}

	cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
	cart.RecalculateTotal()
	if err := s.repo.Upsert(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear empties the cart's items and zeroes the total. The cart document
// itself survives.
func (s *Service) Clear(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.Items = []domain.CartItem{}
	cart.RecalculateTotal()
	if err := s.repo.Upsert(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}
