package port

import (
	"context"

	"github.com/hansajayathilaka/go-inventory-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

type PaymentGateway interface {
	// Submit asks the payment provider to authorize req.Amount and returns
	// the authorized amount. Returns domain.ErrPaymentDeclined when the
	// provider refuses and domain.ErrPaymentUnavailable on transport
	// failure. A submission cannot be cancelled once sent.
	Submit(ctx context.Context, req domain.PaymentRequest) (decimal.Decimal, error)
}
