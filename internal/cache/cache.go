package cache

import (
	"context"
	"errors"

	"github.com/Yatin2505/E-Commerce1-backend/internal/domain"
)

type ProductCache interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
	Set(ctx context.Context, id string, product *domain.Product) error
	Delete(ctx context.Context, id string) error
}

var ErrCacheMiss = errors.New("cache miss")
