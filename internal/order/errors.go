package order

import "errors"

var (
	ErrEmptyCart            = errors.New("cart is empty, nothing to order")
	ErrForbidden            = errors.New("order belongs to another user")
	ErrIllegalTransition    = errors.New("illegal status transition")
	ErrInvalidAddress       = errors.New("shipping address is incomplete")
	ErrInvalidPaymentMethod = errors.New("unknown payment method")
	ErrInvalidStatus        = errors.New("unknown status value")
)
