package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yatin2505/E-Commerce1-backend/internal/domain"
	"github.com/Yatin2505/E-Commerce1-backend/internal/repository"
)

type mockRepository struct {
	m     sync.RWMutex
	carts map[string]*domain.Cart
	err   error
}

func newMockRepository() *mockRepository {
	return &mockRepository{carts: map[string]*domain.Cart{}}
}

func (m *mockRepository) GetByUser(_ context.Context, userID string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	cart, ok := m.carts[userID]
	if !ok {
		return nil, repository.ErrCartNotFound
	}
	copied := *cart
	copied.Items = append([]domain.CartItem(nil), cart.Items...)
	return &copied, nil
}

func (m *mockRepository) Upsert(_ context.Context, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	copied := *cart
	copied.Items = append([]domain.CartItem(nil), cart.Items...)
	m.carts[cart.UserID] = &copied
	return nil
}

type mockCatalog struct {
	m        sync.RWMutex
	products map[string]*domain.Product
}

func newMockCatalog(products ...*domain.Product) *mockCatalog {
	c := &mockCatalog{products: map[string]*domain.Product{}}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (m *mockCatalog) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockCatalog) setPrice(id string, price float64) {
	m.m.Lock()
	defer m.m.Unlock()
	m.products[id].Price = price
}

func newTestService(products ...*domain.Product) (*Service, *mockRepository) {
	repo := newMockRepository()
	return NewService(repo, newMockCatalog(products...)), repo
}

func TestGet_LazyCreatesEmptyCart(t *testing.T) {
	svc, _ := newTestService()

	cart, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", cart.UserID)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalPrice)
}

func TestAddItem_NewItemCapturesPrice(t *testing.T) {
	svc, _ := newTestService(&domain.Product{ID: "p1", Name: "Keyboard", Price: 49.90, Stock: 10})

	cart, err := svc.AddItem(context.Background(), "u1", "p1", 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.InDelta(t, 49.90, cart.Items[0].Price, 0.001)
	assert.InDelta(t, 99.80, cart.TotalPrice, 0.001)
}

func TestAddItem_MergesQuantities(t *testing.T) {
	svc, _ := newTestService(&domain.Product{ID: "p1", Price: 10, Stock: 10})

	_, err := svc.AddItem(context.Background(), "u1", "p1", 2)
	require.NoError(t, err)
	cart, err := svc.AddItem(context.Background(), "u1", "p1", 3)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.InDelta(t, 50, cart.TotalPrice, 0.001)
}

func TestAddItem_KeepsOriginalPriceOnMerge(t *testing.T) {
	catalog := newMockCatalog(&domain.Product{ID: "p1", Price: 10, Stock: 10})
	svc := NewService(newMockRepository(), catalog)

	_, err := svc.AddItem(context.Background(), "u1", "p1", 1)
	require.NoError(t, err)

	catalog.setPrice("p1", 20)
	cart, err := svc.AddItem(context.Background(), "u1", "p1", 1)
	require.NoError(t, err)

	// The captured price stays; only quantity merged.
	assert.InDelta(t, 10, cart.Items[0].Price, 0.001)
	assert.InDelta(t, 20, cart.TotalPrice, 0.001)
}

func TestAddItem_ProductNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.AddItem(context.Background(), "u1", "missing", 1)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestAddItem_InsufficientStock(t *testing.T) {
	svc, repo := newTestService(&domain.Product{ID: "p1", Price: 10, Stock: 3})

	_, err := svc.AddItem(context.Background(), "u1", "p1", 5)
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)

	// Cart unchanged: nothing was persisted.
	_, err = repo.GetByUser(context.Background(), "u1")
	assert.ErrorIs(t, err, repository.ErrCartNotFound)
}

func TestAddItem_CountsQuantityAlreadyInCart(t *testing.T) {
	svc, _ := newTestService(&domain.Product{ID: "p1", Price: 10, Stock: 5})

	_, err := svc.AddItem(context.Background(), "u1", "p1", 3)
	require.NoError(t, err)

	// 3 in cart + 3 requested > 5 in stock
	_, err = svc.AddItem(context.Background(), "u1", "p1", 3)
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)

	cart, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestUpdateQuantity_Validation(t *testing.T) {
	svc, _ := newTestService(&domain.Product{ID: "p1", Price: 10, Stock: 5})

	_, err := svc.UpdateQuantity(context.Background(), "u1", "p1", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	// No cart yet
	_, err = svc.UpdateQuantity(context.Background(), "u1", "p1", 2)
	assert.ErrorIs(t, err, repository.ErrCartNotFound)

	_, addErr := svc.AddItem(context.Background(), "u1", "p1", 1)
	require.NoError(t, addErr)

	_, err = svc.UpdateQuantity(context.Background(), "u1", "other", 2)
	assert.ErrorIs(t, err, repository.ErrItemNotFound)

	_, err = svc.UpdateQuantity(context.Background(), "u1", "p1", 6)
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)
}

func TestUpdateQuantity_OverwritesAndRecomputes(t *testing.T) {
	catalog := newMockCatalog(&domain.Product{ID: "p1", Price: 10, Stock: 10})
	svc := NewService(newMockRepository(), catalog)

	_, err := svc.AddItem(context.Background(), "u1", "p1", 2)
	require.NoError(t, err)

	catalog.setPrice("p1", 99)
	cart, err := svc.UpdateQuantity(context.Background(), "u1", "p1", 4)
	require.NoError(t, err)

	assert.Equal(t, 4, cart.Items[0].Quantity)
	// Price unchanged by a quantity update.
	assert.InDelta(t, 10, cart.Items[0].Price, 0.001)
	assert.InDelta(t, 40, cart.TotalPrice, 0.001)
}

func TestRemoveItem_IsIdempotent(t *testing.T) {
	svc, _ := newTestService(&domain.Product{ID: "p1", Price: 10, Stock: 10})

	_, err := svc.AddItem(context.Background(), "u1", "p1", 2)
	require.NoError(t, err)

	cart, err := svc.RemoveItem(context.Background(), "u1", "p1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalPrice)

	// Removing again is a no-op, not an error.
	cart, err = svc.RemoveItem(context.Background(), "u1", "p1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestClear_EmptiesItemsAndTotal(t *testing.T) {
	svc, _ := newTestService(
		&domain.Product{ID: "p1", Price: 10, Stock: 10},
		&domain.Product{ID: "p2", Price: 5, Stock: 10},
	)

	_, err := svc.AddItem(context.Background(), "u1", "p1", 1)
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), "u1", "p2", 2)
	require.NoError(t, err)

	cart, err := svc.Clear(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalPrice)

	// The cart document survives a clear.
	cart, err = svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestTotal_TracksEverySequenceOfMutations(t *testing.T) {
	svc, _ := newTestService(
		&domain.Product{ID: "p1", Price: 7.25, Stock: 20},
		&domain.Product{ID: "p2", Price: 3.10, Stock: 20},
		&domain.Product{ID: "p3", Price: 12.00, Stock: 20},
	)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", "p1", 2)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "u1", "p2", 4)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "u1", "p3", 1)
	require.NoError(t, err)
	_, err = svc.UpdateQuantity(ctx, "u1", "p2", 1)
	require.NoError(t, err)
	cart, err := svc.RemoveItem(ctx, "u1", "p3")
	require.NoError(t, err)

	expected := 0.0
	for _, item := range cart.Items {
		expected += item.Price * float64(item.Quantity)
	}
	assert.InDelta(t, expected, cart.TotalPrice, 0.001)
	assert.InDelta(t, 17.60, cart.TotalPrice, 0.001)
}
