package order

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Yatin2505/E-Commerce1-backend/internal/domain"
	"github.com/Yatin2505/E-Commerce1-backend/internal/events"
	"github.com/Yatin2505/E-Commerce1-backend/internal/repository"
)

// Carts is the slice of the cart store the order engine needs: read the
// cart at checkout, clear it after the order is persisted.
type Carts interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Clear(ctx context.Context, userID string) (*domain.Cart, error)
}

// Catalog resolves products so order lines can snapshot name, image and
// the live price at order time.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

// Ledger adjusts stock. Reserve is all-or-nothing with internal
// compensation; Release is best-effort.
type Ledger interface {
	Reserve(ctx context.Context, items []domain.CartItem) error
	Release(ctx context.Context, items []domain.OrderItem)
}

type Service struct {
	orders    repository.OrderRepository
	carts     Carts
	catalog   Catalog
	ledger    Ledger
	publisher events.Publisher
}

func NewService(orders repository.OrderRepository, carts Carts, catalog Catalog, ledger Ledger, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		orders:    orders,
		carts:     carts,
		catalog:   catalog,
		ledger:    ledger,
		publisher: publisher,
	}
}

// Create converts the user's cart into an immutable order.
//
// The multi-step flow (snapshot, reserve, persist, clear) has no wrapping
// transaction; the ledger's reserve-with-compensation keeps it
// all-or-nothing from the caller's perspective. Line prices are taken from
// the live catalog at order time, not from the cart's captured prices, so
// a price change between add-to-cart and checkout is honored at the new
// price.
func (s *Service) Create(ctx context.Context, userID string, address domain.ShippingAddress, method domain.PaymentMethod) (*domain.Order, error) {
	if method == "" {
		method = domain.PaymentMethodCOD
	}
	if !method.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, method)
	}
	if !address.IsComplete() {
		return nil, ErrInvalidAddress
	}

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	items, total, err := s.snapshotItems(ctx, cart.Items)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.Reserve(ctx, cart.Items); err != nil {
		return nil, err
	}

	order := &domain.Order{
		UserID:          userID,
		Items:           items,
		ShippingAddress: address,
		PaymentMethod:   method,
		PaymentStatus:   domain.PaymentStatusPending,
		OrderStatus:     domain.OrderStatusProcessing,
		TotalPrice:      total,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		// The order never existed; give the reserved units back.
		s.releaseCartItems(ctx, cart.Items)
		return nil, err
	}

	if _, err := s.carts.Clear(ctx, userID); err != nil {
		// The order stands; a stale cart is recoverable by the user.
		log.Printf("failed to clear cart for user %s after order %s: %v", userID, order.ID, err)
	}

	s.publisher.OrderCreated(ctx, order)
	return order, nil
}

// snapshotItems resolves every cart line against the live catalog and
// freezes name, image and current price into order lines.
func (s *Service) snapshotItems(ctx context.Context, cartItems []domain.CartItem) ([]domain.OrderItem, float64, error) {
	items := make([]domain.OrderItem, 0, len(cartItems))
	total := 0.0

	for _, item := range cartItems {
		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, 0, fmt.Errorf("resolve product %s: %w", item.ProductID, err)
		}

		items = append(items, domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Image:     product.Image,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
		total += product.Price * float64(item.Quantity)
	}

	return items, total, nil
}

func (s *Service) releaseCartItems(ctx context.Context, items []domain.CartItem) {
	released := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		released = append(released, domain.OrderItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	s.ledger.Release(ctx, released)
}

// Cancel moves the order to cancelled and restores stock for every line.
// Cancelling a delivered or already-cancelled order is rejected, not a
// no-op, so a repeated cancel can never restore stock twice.
func (s *Service) Cancel(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrForbidden
	}
	if order.OrderStatus.IsTerminal() {
		return nil, fmt.Errorf("%w: order is %s", ErrIllegalTransition, order.OrderStatus)
	}

	order.OrderStatus = domain.OrderStatusCancelled
	if err := s.orders.UpdateStatusFields(ctx, order); err != nil {
		return nil, err
	}

	// Restore after the status flip so a concurrent second cancel cannot
	// double-restore; the restore itself is best-effort per line.
	s.ledger.Release(ctx, order.Items)

	s.publisher.OrderCancelled(ctx, order)
	return order, nil
}

// UpdateStatus applies an administrative order-status transition under the
// strict state machine. Cancellation is not reachable through this path
// because it has stock side effects; Cancel owns that flow.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if status == domain.OrderStatusCancelled {
		return nil, fmt.Errorf("%w: use cancel to revert stock", ErrIllegalTransition)
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.OrderStatus.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, order.OrderStatus, status)
	}

	order.OrderStatus = status
	if status == domain.OrderStatusDelivered {
		now := time.Now()
		order.DeliveredAt = &now
	}

	if err := s.orders.UpdateStatusFields(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdatePaymentStatus applies a payment-status transition. Moving to paid
// stamps PaidAt. No stock or cart side effects.
func (s *Service) UpdatePaymentStatus(ctx context.Context, orderID string, status domain.PaymentStatus) (*domain.Order, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.PaymentStatus.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, order.PaymentStatus, status)
	}

	order.PaymentStatus = status
	if status == domain.PaymentStatusPaid {
		now := time.Now()
		order.PaidAt = &now
	}

	if err := s.orders.UpdateStatusFields(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// GetByID returns the order when the requester owns it or is an admin.
func (s *Service) GetByID(ctx context.Context, userID string, isAdmin bool, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID && !isAdmin {
		return nil, ErrForbidden
	}
	return order, nil
}

// ListMine returns the user's orders, newest first.
func (s *Service) ListMine(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// ListAll returns every order plus the aggregate revenue over paid orders.
func (s *Service) ListAll(ctx context.Context) ([]*domain.Order, float64, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	revenue := 0.0
	for _, o := range orders {
		if o.PaymentStatus == domain.PaymentStatusPaid {
			revenue += o.TotalPrice
		}
	}
	return orders, revenue, nil
}
