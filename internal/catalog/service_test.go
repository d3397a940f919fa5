package catalog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yatin2505/E-Commerce1-backend/internal/cache"
	"github.com/Yatin2505/E-Commerce1-backend/internal/domain"
	"github.com/Yatin2505/E-Commerce1-backend/internal/repository"
)

type mockProductRepo struct {
	m        sync.Mutex
	products map[string]*domain.Product
	getCalls int
}

func newMockProductRepo(products ...*domain.Product) *mockProductRepo {
	r := &mockProductRepo{products: map[string]*domain.Product{}}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *mockProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.m.Lock()
	defer r.m.Unlock()
	r.getCalls++
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *p
	copied.Reviews = append([]domain.Review(nil), p.Reviews...)
	return &copied, nil
}

func (r *mockProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]*domain.Product, int64, error) {
	r.m.Lock()
	defer r.m.Unlock()
	var out []*domain.Product
	for _, p := range r.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *mockProductRepo) TopRated(_ context.Context, limit int) ([]*domain.Product, error) {
	r.m.Lock()
	defer r.m.Unlock()
	var out []*domain.Product
	for _, p := range r.products {
		if len(out) == limit {
			break
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *mockProductRepo) Create(_ context.Context, p *domain.Product) error {
	r.m.Lock()
	defer r.m.Unlock()
	if p.ID == "" {
		p.ID = "generated"
	}
	r.products[p.ID] = p
	return nil
}

func (r *mockProductRepo) Update(_ context.Context, p *domain.Product) error {
	r.m.Lock()
	defer r.m.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return repository.ErrProductNotFound
	}
	r.products[p.ID] = p
	return nil
}

func (r *mockProductRepo) Delete(_ context.Context, id string) error {
	r.m.Lock()
	defer r.m.Unlock()
	if _, ok := r.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *mockProductRepo) AdjustStock(_ context.Context, id string, delta int) error {
	r.m.Lock()
	defer r.m.Unlock()
	p, ok := r.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	if p.Stock+delta < 0 {
		return repository.ErrInsufficientStock
	}
	p.Stock += delta
	return nil
}

func (r *mockProductRepo) AddReview(_ context.Context, id string, review domain.Review, rating float64, numReviews int) error {
	r.m.Lock()
	defer r.m.Unlock()
	p, ok := r.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	p.Reviews = append(p.Reviews, review)
	p.Rating = rating
	p.NumReviews = numReviews
	return nil
}

type mockCache struct {
	m       sync.Mutex
	entries map[string]*domain.Product
	deletes []string
}

func newMockCache() *mockCache {
	return &mockCache{entries: map[string]*domain.Product{}}
}

func (c *mockCache) Get(_ context.Context, id string) (*domain.Product, error) {
	c.m.Lock()
	defer c.m.Unlock()
	p, ok := c.entries[id]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return p, nil
}

func (c *mockCache) Set(_ context.Context, id string, product *domain.Product) error {
	c.m.Lock()
	defer c.m.Unlock()
	c.entries[id] = product
	return nil
}

func (c *mockCache) Delete(_ context.Context, id string) error {
	c.m.Lock()
	defer c.m.Unlock()
	delete(c.entries, id)
	c.deletes = append(c.deletes, id)
	return nil
}

func (c *mockCache) has(id string) bool {
	c.m.Lock()
	defer c.m.Unlock()
	_, ok := c.entries[id]
	return ok
}

func (c *mockCache) deleted(id string) bool {
	c.m.Lock()
	defer c.m.Unlock()
	for _, d := range c.deletes {
		if d == id {
			return true
		}
	}
	return false
}

func TestGetProduct_CacheMissFillsCache(t *testing.T) {
	repo := newMockProductRepo(&domain.Product{ID: "p1", Name: "Keyboard", Price: 10})
	productCache := newMockCache()
	svc := NewService(repo, productCache)

	product, err := svc.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Keyboard", product.Name)

	// Cache fill is async
	assert.Eventually(t, func() bool { return productCache.has("p1") }, time.Second, 5*time.Millisecond)
}

func TestGetProduct_CacheHitSkipsRepository(t *testing.T) {
	repo := newMockProductRepo()
	productCache := newMockCache()
	require.NoError(t, productCache.Set(context.Background(), "p1", &domain.Product{ID: "p1", Name: "Cached"}))
	svc := NewService(repo, productCache)

	product, err := svc.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Cached", product.Name)
	assert.Equal(t, 0, repo.getCalls)
}

func TestGetProduct_NotFound(t *testing.T) {
	svc := NewService(newMockProductRepo(), newMockCache())

	_, err := svc.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestListProducts_RejectsUnknownCategory(t *testing.T) {
	svc := NewService(newMockProductRepo(), newMockCache())

	_, err := svc.ListProducts(context.Background(), ListFilter{Category: "gadgets"})
	assert.ErrorIs(t, err, ErrInvalidProduct)
}

func TestListProducts_NormalizesPage(t *testing.T) {
	repo := newMockProductRepo(&domain.Product{ID: "p1", Category: domain.CategoryBooks})
	svc := NewService(repo, newMockCache())

	result, err := svc.ListProducts(context.Background(), ListFilter{Page: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 1, result.Pages)
	assert.Equal(t, int64(1), result.Total)
}

func TestCreateProduct_Validation(t *testing.T) {
	svc := NewService(newMockProductRepo(), newMockCache())
	ctx := context.Background()

	err := svc.CreateProduct(ctx, &domain.Product{Price: 10, Category: domain.CategoryBooks})
	assert.ErrorIs(t, err, ErrInvalidProduct) // no name

	err = svc.CreateProduct(ctx, &domain.Product{Name: "X", Price: -1, Category: domain.CategoryBooks})
	assert.ErrorIs(t, err, ErrInvalidProduct)

	err = svc.CreateProduct(ctx, &domain.Product{Name: "X", Price: 1, Category: "gadgets"})
	assert.ErrorIs(t, err, ErrInvalidProduct)
}

func TestCreateProduct_DefaultsImage(t *testing.T) {
	repo := newMockProductRepo()
	svc := NewService(repo, newMockCache())

	p := &domain.Product{Name: "Keyboard", Price: 10, Stock: 5, Category: domain.CategoryElectronics}
	require.NoError(t, svc.CreateProduct(context.Background(), p))
	assert.NotEmpty(t, p.Image)
}

func TestUpdateProduct_InvalidatesCache(t *testing.T) {
	repo := newMockProductRepo(&domain.Product{ID: "p1", Name: "Keyboard", Price: 10, Category: domain.CategoryElectronics})
	productCache := newMockCache()
	require.NoError(t, productCache.Set(context.Background(), "p1", &domain.Product{ID: "p1", Name: "Stale"}))
	svc := NewService(repo, productCache)

	err := svc.UpdateProduct(context.Background(), &domain.Product{ID: "p1", Name: "Keyboard v2", Price: 12, Category: domain.CategoryElectronics})
	require.NoError(t, err)
	assert.True(t, productCache.deleted("p1"))
	assert.False(t, productCache.has("p1"))
}

func TestDeleteProduct_InvalidatesCache(t *testing.T) {
	repo := newMockProductRepo(&domain.Product{ID: "p1", Name: "Keyboard", Category: domain.CategoryElectronics})
	productCache := newMockCache()
	svc := NewService(repo, productCache)

	require.NoError(t, svc.DeleteProduct(context.Background(), "p1"))
	assert.True(t, productCache.deleted("p1"))

	err := svc.DeleteProduct(context.Background(), "p1")
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestAddReview_UpdatesRatingAggregate(t *testing.T) {
	repo := newMockProductRepo(&domain.Product{
		ID: "p1", Name: "Keyboard", Category: domain.CategoryElectronics,
		Reviews: []domain.Review{{UserID: "u1", Rating: 5}},
		Rating:  5, NumReviews: 1,
	})
	productCache := newMockCache()
	svc := NewService(repo, productCache)

	err := svc.AddReview(context.Background(), "p1", "u2", "Sam", 2, "keys rattle")
	require.NoError(t, err)

	stored := repo.products["p1"]
	assert.Equal(t, 2, stored.NumReviews)
	assert.InDelta(t, 3.5, stored.Rating, 0.001)
	assert.True(t, productCache.deleted("p1"))
}

func TestAddReview_OncePerUser(t *testing.T) {
	repo := newMockProductRepo(&domain.Product{
		ID: "p1", Name: "Keyboard", Category: domain.CategoryElectronics,
		Reviews: []domain.Review{{UserID: "u1", Rating: 4}},
	})
	svc := NewService(repo, newMockCache())

	err := svc.AddReview(context.Background(), "p1", "u1", "Sam", 5, "changed my mind")
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestAddReview_Validation(t *testing.T) {
	svc := NewService(newMockProductRepo(), newMockCache())
	ctx := context.Background()

	err := svc.AddReview(ctx, "p1", "u1", "Sam", 0, "bad")
	assert.ErrorIs(t, err, ErrInvalidReview)

	err = svc.AddReview(ctx, "p1", "u1", "Sam", 6, "bad")
	assert.ErrorIs(t, err, ErrInvalidReview)

	err = svc.AddReview(ctx, "p1", "u1", "Sam", 3, "")
	assert.ErrorIs(t, err, ErrInvalidReview)
}
