package domain

import "time"

// CartItem is one line in a user's cart. Price is captured when the item
// is first added and is not refreshed by later catalog edits.
type CartItem struct {
	ProductID string    `bson:"product_id" json:"product_id"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	Price     float64   `bson:"price" json:"price"`
	AddedAt   time.Time `bson:"added_at" json:"added_at"`
}

// Cart is the single mutable cart document for one user.
type Cart struct {
	ID         string     `bson:"_id,omitempty" json:"id,omitempty"`
	UserID     string     `bson:"user_id" json:"user_id"`
	Items      []CartItem `bson:"items" json:"items"`
	TotalPrice float64    `bson:"total_price" json:"total_price"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updated_at"`
}

// RecalculateTotal re-derives the total from the line items. The total is
// never set directly; every mutation must call this before persisting.
func (c *Cart) RecalculateTotal() {
	total := 0.0
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	c.TotalPrice = total
}

// ItemIndex returns the index of the line item for the product, or -1.
func (c *Cart) ItemIndex(productID string) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// QuantityOf returns the quantity already in the cart for the product.
func (c *Cart) QuantityOf(productID string) int {
	if i := c.ItemIndex(productID); i >= 0 {
		return c.Items[i].Quantity
	}
	return 0
}
