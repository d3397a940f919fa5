// Package inventory is the stock ledger: the only code path that mutates a
// product's stock count. All adjustments go through the repository's
// conditional update, so the stock can never go negative regardless of how
// many checkouts race on the same product.
package inventory

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Yatin2505/E-Commerce1-backend/internal/domain"
)

// StockAdjuster is the slice of the product repository the ledger needs.
type StockAdjuster interface {
	AdjustStock(ctx context.Context, id string, delta int) error
}

// Invalidator drops a cached product after its stock changed.
type Invalidator interface {
	Delete(ctx context.Context, id string) error
}

type Ledger struct {
	products StockAdjuster
	cache    Invalidator // optional
}

func NewLedger(products StockAdjuster, cache Invalidator) *Ledger {
	return &Ledger{products: products, cache: cache}
}

// Adjust applies delta to one product's stock. Negative reserves, positive
// releases. Returns repository.ErrInsufficientStock when the decrement
// would drive stock below zero.
func (l *Ledger) Adjust(ctx context.Context, productID string, delta int) error {
	if delta == 0 {
		return nil
	}
	if err := l.products.AdjustStock(ctx, productID, delta); err != nil {
		return err
	}
	l.invalidate(productID)
	return nil
}

// Reserve decrements stock for every item, all-or-nothing. When an item
// cannot be reserved, the reservations already applied are compensated in
// reverse order before the error is returned, so the caller never observes
// a half-reserved state.
func (l *Ledger) Reserve(ctx context.Context, items []domain.CartItem) error {
	for i, item := range items {
		if err := l.products.AdjustStock(ctx, item.ProductID, -item.Quantity); err != nil {
			l.rollback(ctx, items[:i])
			return fmt.Errorf("reserve product %s: %w", item.ProductID, err)
		}
		l.invalidate(item.ProductID)
	}
	return nil
}

func (l *Ledger) rollback(ctx context.Context, reserved []domain.CartItem) {
	for i := len(reserved) - 1; i >= 0; i-- {
		item := reserved[i]
		if err := l.products.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
			// Compensation failed; the units stay reserved and need manual
			// attention. Keep unwinding the rest.
			log.Printf("rollback of product %s qty %d failed: %v", item.ProductID, item.Quantity, err)
		}
	}
}

// Release returns stock for every order line, best-effort: a failed
// increment is logged and the loop continues, since over-restoration is a
// safer failure mode than leaving units locked up.
func (l *Ledger) Release(ctx context.Context, items []domain.OrderItem) {
	for _, item := range items {
		if err := l.products.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
			log.Printf("release of product %s qty %d failed: %v", item.ProductID, item.Quantity, err)
			continue
		}
		l.invalidate(item.ProductID)
	}
}

func (l *Ledger) invalidate(productID string) {
	if l.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := l.cache.Delete(ctx, productID); err != nil {
		log.Printf("cache invalidate error for product %s: %v", productID, err)
	}
}
