package domain

import "time"

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled},
}

// CanTransitionTo reports whether the order status machine allows s -> next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending: {PaymentStatusPaid, PaymentStatusFailed},
	PaymentStatusPaid:    {PaymentStatusRefunded},
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCOD  PaymentMethod = "cod"
	PaymentMethodCard PaymentMethod = "card"
)

func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCOD || m == PaymentMethodCard
}

// OrderItem is a frozen snapshot of a product at purchase time. Name, image
// and price are denormalized so later catalog edits cannot alter the order.
type OrderItem struct {
	ProductID string  `bson:"product_id" json:"product_id"`
	Name      string  `bson:"name" json:"name"`
	Image     string  `bson:"image" json:"image"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Price     float64 `bson:"price" json:"price"`
}

type ShippingAddress struct {
	Address    string `bson:"address" json:"address"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state" json:"state"`
	PostalCode string `bson:"postal_code" json:"postal_code"`
	Phone      string `bson:"phone" json:"phone"`
}

// IsComplete reports whether every required address field is present.
func (a ShippingAddress) IsComplete() bool {
	return a.Address != "" && a.City != "" && a.State != "" &&
		a.PostalCode != "" && a.Phone != ""
}

// Order is immutable after creation except for the status fields and their
// timestamps.
type Order struct {
	ID              string          `bson:"_id,omitempty" json:"id"`
	UserID          string          `bson:"user_id" json:"user_id"`
	Items           []OrderItem     `bson:"items" json:"items"`
	ShippingAddress ShippingAddress `bson:"shipping_address" json:"shipping_address"`
	PaymentMethod   PaymentMethod   `bson:"payment_method" json:"payment_method"`
	PaymentStatus   PaymentStatus   `bson:"payment_status" json:"payment_status"`
	OrderStatus     OrderStatus     `bson:"order_status" json:"order_status"`
	TotalPrice      float64         `bson:"total_price" json:"total_price"`
	PaidAt          *time.Time      `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
	DeliveredAt     *time.Time      `bson:"delivered_at,omitempty" json:"delivered_at,omitempty"`
	CreatedAt       time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `bson:"updated_at" json:"updated_at"`
}
