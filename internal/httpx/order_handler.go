package httpx

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Yatin2505/E-Commerce1-backend/internal/domain"
)

// OrderService is what the handler needs from the order engine.
type OrderService interface {
	Create(ctx context.Context, userID string, address domain.ShippingAddress, method domain.PaymentMethod) (*domain.Order, error)
	Cancel(ctx context.Context, userID, orderID string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error)
	UpdatePaymentStatus(ctx context.Context, orderID string, status domain.PaymentStatus) (*domain.Order, error)
	GetByID(ctx context.Context, userID string, isAdmin bool, orderID string) (*domain.Order, error)
	ListMine(ctx context.Context, userID string) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, float64, error)
}

type OrderHandler struct {
	orders OrderService
}

func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) Register(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Get("/", h.ListMyOrders)
		r.Get("/{id}", h.GetOrder)
		r.Put("/{id}/cancel", h.CancelOrder)
		r.Put("/{id}/payment", h.UpdatePaymentStatus)

		r.Group(func(r chi.Router) {
			r.Use(RequireAdmin)
			r.Get("/admin/all", h.ListAllOrders)
			r.Put("/{id}/status", h.UpdateOrderStatus)
		})
	})
}

type CreateOrderRequestDTO struct {
	ShippingAddress domain.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method"`
}

type UpdateOrderStatusRequestDTO struct {
	OrderStatus string `json:"order_status"`
}

type UpdatePaymentStatusRequestDTO struct {
	PaymentStatus string `json:"payment_status"`
}

type ListOrdersResponseDTO struct {
	Count  int             `json:"count"`
	Orders []*domain.Order `json:"orders"`
}

type ListAllOrdersResponseDTO struct {
	Count        int             `json:"count"`
	TotalRevenue float64         `json:"total_revenue"`
	Orders       []*domain.Order `json:"orders"`
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())

	var req CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.orders.Create(r.Context(), identity.UserID, req.ShippingAddress, domain.PaymentMethod(req.PaymentMethod))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())

	orders, err := h.orders.ListMine(r.Context(), identity.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ListOrdersResponseDTO{Count: len(orders), Orders: orders})
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	orderID := chi.URLParam(r, "id")

	order, err := h.orders.GetByID(r.Context(), identity.UserID, identity.IsAdmin(), orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, revenue, err := h.orders.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ListAllOrdersResponseDTO{
		Count:        len(orders),
		TotalRevenue: revenue,
		Orders:       orders,
	})
}

func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	orderID := chi.URLParam(r, "id")

	order, err := h.orders.Cancel(r.Context(), identity.UserID, orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	var req UpdateOrderStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), orderID, domain.OrderStatus(req.OrderStatus))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	var req UpdatePaymentStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.orders.UpdatePaymentStatus(r.Context(), orderID, domain.PaymentStatus(req.PaymentStatus))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}
