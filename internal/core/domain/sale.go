package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is the receipt of one completed checkout, built from the cart at the
// moment payment was authorized and handed to the persistence workers.
type Sale struct {
	ID            string
	SessionID     string
	Lines         []SaleLine
	Subtotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	Total         decimal.Decimal
	Method        string
	Reference     string
	CreatedAt     time.Time
}

type SaleLine struct {
	ProductID    string
	Name         string
	UnitPrice    decimal.Decimal
	Quantity     int
	LineDiscount decimal.Decimal
	LineTotal    decimal.Decimal
}

// PaymentRequest is what the payment gateway needs to authorize one sale.
type PaymentRequest struct {
	SessionID string
	Amount    decimal.Decimal
	Method    string
	Reference string
}
