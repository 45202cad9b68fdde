package order

import (
	"errors"
	"fmt"
)

// Checkout states. A checkout walks idle, awaiting_payment, submitting,
// then submitted; any submission failure lands in error, from which
// Retry replays the same payment method.
const (
	CheckoutIdle            = "idle"
	CheckoutAwaitingPayment = "awaiting_payment"
	CheckoutSubmitting      = "submitting"
	CheckoutSubmitted       = "submitted"
	CheckoutError           = "error"
)

var ErrInvalidTransition = errors.New("invalid checkout transition")

// Checkout tracks one submission attempt for a table. Precondition
// failures (no table, empty cart) block Begin; store failures during
// submission are retryable.
type Checkout struct {
	State         string `json:"state"`
	TableNumber   int    `json:"table_number"`
	PaymentMethod string `json:"payment_method,omitempty"`
	OrderID       string `json:"order_id,omitempty"`
	LastError     string `json:"last_error,omitempty"`
	Retryable     bool   `json:"retryable,omitempty"`
}

func NewCheckout(tableNumber int) *Checkout {
	return &Checkout{
		State:       CheckoutIdle,
		TableNumber: tableNumber,
	}
}

// Begin opens payment selection. The cart emptiness check lives with the
// caller, which owns the cart.
func (c *Checkout) Begin() error {
	if c.State != CheckoutIdle && c.State != CheckoutError {
		return fmt.Errorf("%w: cannot begin from %s", ErrInvalidTransition, c.State)
	}
	c.State = CheckoutAwaitingPayment
	c.LastError = ""
	c.Retryable = false
	return nil
}

// SelectPayment records the chosen label and moves to submitting.
func (c *Checkout) SelectPayment(method string) error {
	if c.State != CheckoutAwaitingPayment {
		return fmt.Errorf("%w: cannot select payment from %s", ErrInvalidTransition, c.State)
	}
	if !ValidPaymentMethod(method) {
		return fmt.Errorf("unknown payment method %q", method)
	}
	c.PaymentMethod = method
	c.State = CheckoutSubmitting
	return nil
}

// Complete records the created order and finishes the checkout.
func (c *Checkout) Complete(orderID string) error {
	if c.State != CheckoutSubmitting {
		return fmt.Errorf("%w: cannot complete from %s", ErrInvalidTransition, c.State)
	}
	c.OrderID = orderID
	c.State = CheckoutSubmitted
	c.LastError = ""
	c.Retryable = false
	return nil
}

// Fail records a submission failure. Retryable failures keep the chosen
// payment method so Retry can replay it.
func (c *Checkout) Fail(message string, retryable bool) error {
	if c.State != CheckoutSubmitting {
		return fmt.Errorf("%w: cannot fail from %s", ErrInvalidTransition, c.State)
	}
	c.State = CheckoutError
	c.LastError = message
	c.Retryable = retryable
	return nil
}

// Retry replays the failed submission with the same payment method.
func (c *Checkout) Retry() error {
	if c.State != CheckoutError {
		return fmt.Errorf("%w: cannot retry from %s", ErrInvalidTransition, c.State)
	}
	if !c.Retryable {
		return fmt.Errorf("%w: last error is not retryable", ErrInvalidTransition)
	}
	c.State = CheckoutSubmitting
	return nil
}
