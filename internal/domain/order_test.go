package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_Transitions(t *testing.T) {
	assert.True(t, OrderStatusProcessing.CanTransitionTo(OrderStatusShipped))
	assert.True(t, OrderStatusProcessing.CanTransitionTo(OrderStatusCancelled))
	assert.True(t, OrderStatusShipped.CanTransitionTo(OrderStatusDelivered))
	assert.True(t, OrderStatusShipped.CanTransitionTo(OrderStatusCancelled))

	assert.False(t, OrderStatusProcessing.CanTransitionTo(OrderStatusDelivered))
	assert.False(t, OrderStatusShipped.CanTransitionTo(OrderStatusProcessing))
}

func TestOrderStatus_TerminalStatesHaveNoExits(t *testing.T) {
	for _, next := range []OrderStatus{OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled} {
		assert.False(t, OrderStatusDelivered.CanTransitionTo(next))
		assert.False(t, OrderStatusCancelled.CanTransitionTo(next))
	}

	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusProcessing.IsTerminal())
	assert.False(t, OrderStatusShipped.IsTerminal())
}

func TestPaymentStatus_Transitions(t *testing.T) {
	assert.True(t, PaymentStatusPending.CanTransitionTo(PaymentStatusPaid))
	assert.True(t, PaymentStatusPending.CanTransitionTo(PaymentStatusFailed))
	assert.True(t, PaymentStatusPaid.CanTransitionTo(PaymentStatusRefunded))

	assert.False(t, PaymentStatusPending.CanTransitionTo(PaymentStatusRefunded))
	assert.False(t, PaymentStatusFailed.CanTransitionTo(PaymentStatusPaid))
	assert.False(t, PaymentStatusRefunded.CanTransitionTo(PaymentStatusPending))
}

func TestShippingAddress_IsComplete(t *testing.T) {
	full := ShippingAddress{
		Address:    "12 Main St",
		City:       "Springfield",
		State:      "IL",
		PostalCode: "62704",
		Phone:      "555-0101",
	}
	assert.True(t, full.IsComplete())

	missingPhone := full
	missingPhone.Phone = ""
	assert.False(t, missingPhone.IsComplete())

	assert.False(t, ShippingAddress{}.IsComplete())
}

func TestPaymentMethod_IsValid(t *testing.T) {
	assert.True(t, PaymentMethodCOD.IsValid())
	assert.True(t, PaymentMethodCard.IsValid())
	assert.False(t, PaymentMethod("bitcoin").IsValid())
}
