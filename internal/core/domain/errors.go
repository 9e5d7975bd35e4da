package domain

import "errors"

// Validation errors. Surfaced to the operator and never fatal; a rejected
// operation leaves the cart in its last valid state.
var (
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrOutOfStock      = errors.New("out of stock")
	ErrItemNotFound    = errors.New("item not found")
	ErrInvalidDiscount = errors.New("invalid discount")
	ErrEmptyCart       = errors.New("empty cart")
	ErrProductNotFound = errors.New("product not found")
)

// Registry-contract errors. These indicate a caller bug rather than bad
// operator input and are logged loudly by the HTTP layer.
var (
	ErrSessionNotFound        = errors.New("session not found")
	ErrCannotCloseLastSession = errors.New("cannot close last session")
	ErrPaymentNotPending      = errors.New("payment not pending")
)

// Payment errors. Recoverable: the cart survives and the operator can
// resubmit or cancel.
var (
	ErrPaymentMismatch    = errors.New("payment amount mismatch")
	ErrPaymentDeclined    = errors.New("payment declined")
	ErrPaymentUnavailable = errors.New("payment service unavailable")
	ErrPaymentPending     = errors.New("payment submission outstanding")
)
