package port

import (
	"context"

	"github.com/hansajayathilaka/go-inventory-sub000/internal/core/domain"
)

type DatabaseRepository interface {
	// GetProduct reads price and stock from the catalog.
	// Returns domain.ErrProductNotFound for unknown products.
	GetProduct(ctx context.Context, productID string) (domain.ProductInfo, error)

	// SaveSale persists a completed sale and decrements catalog stock for
	// each line in one transaction.
	SaveSale(ctx context.Context, sale domain.Sale) error
}
