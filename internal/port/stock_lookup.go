package port

import (
	"context"

	"github.com/hansajayathilaka/go-inventory-sub000/internal/core/domain"
)

type StockLookup interface {
	// Lookup returns the current price and availability for a product.
	// Returns domain.ErrProductNotFound for unknown products.
	Lookup(ctx context.Context, productID string) (domain.ProductInfo, error)
}
