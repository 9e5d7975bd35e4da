package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartView is a read-only snapshot of one session's cart and checkout
// progress, safe to hand to rendering layers.
type CartView struct {
	SessionID     string
	State         CheckoutState
	LastOutcome   CheckoutState // outcome of the previous sale, if any
	Items         []CartItem
	Subtotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	Total         decimal.Decimal
}

// SessionInfo is a read-only summary of one registered session.
type SessionInfo struct {
	ID          string
	DisplayName string
	State       CheckoutState
	ItemCount   int
	Total       decimal.Decimal
	CreatedAt   time.Time
	Active      bool
}
