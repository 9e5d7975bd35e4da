package storage

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hansajayathilaka/go-inventory-sub000/internal/core/domain"
	"github.com/hansajayathilaka/go-inventory-sub000/internal/port"
)

type productCache interface {
	Lookup(ctx context.Context, productID string) (domain.ProductInfo, error)
	SetProduct(ctx context.Context, info domain.ProductInfo) error
}

// CatalogLookup is the stock lookup served to the POS core: Redis first,
// read-through to the MySQL catalog on a miss. Cache write-back is best
// effort; a failed write-back never fails the lookup.
type CatalogLookup struct {
	cache productCache
	db    port.DatabaseRepository
	log   *slog.Logger
}

func NewCatalogLookup(cache productCache, db port.DatabaseRepository, log *slog.Logger) *CatalogLookup {
	return &CatalogLookup{cache: cache, db: db, log: log}
}

func (c *CatalogLookup) Lookup(ctx context.Context, productID string) (domain.ProductInfo, error) {
	info, err := c.cache.Lookup(ctx, productID)
	if err == nil {
		return info, nil
	}
	if !errors.Is(err, domain.ErrProductNotFound) {
		c.log.Warn("product cache read failed", "product_id", productID, "error", err)
	}

	info, err = c.db.GetProduct(ctx, productID)
	if err != nil {
		return domain.ProductInfo{}, err
	}
	if err := c.cache.SetProduct(ctx, info); err != nil {
		c.log.Warn("product cache write failed", "product_id", productID, "error", err)
	}
	return info, nil
}
