package storage

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/hansajayathilaka/go-inventory-sub000/internal/core/domain"
)

type fakeCache struct {
	products map[string]domain.ProductInfo
	setErr   error
	lookups  int
}

func (f *fakeCache) Lookup(ctx context.Context, productID string) (domain.ProductInfo, error) {
	f.lookups++
	info, ok := f.products[productID]
	if !ok {
		return domain.ProductInfo{}, domain.ErrProductNotFound
	}
	return info, nil
}

func (f *fakeCache) SetProduct(ctx context.Context, info domain.ProductInfo) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.products[info.ProductID] = info
	return nil
}

type fakeCatalog struct {
	products map[string]domain.ProductInfo
	reads    int
}

func (f *fakeCatalog) GetProduct(ctx context.Context, productID string) (domain.ProductInfo, error) {
	f.reads++
	info, ok := f.products[productID]
	if !ok {
		return domain.ProductInfo{}, domain.ErrProductNotFound
	}
	return info, nil
}

func (f *fakeCatalog) SaveSale(ctx context.Context, sale domain.Sale) error { return nil }

func wiperBlade() domain.ProductInfo {
	return domain.ProductInfo{
		ProductID: "wiper-1",
		Name:      "Wiper Blade",
		UnitPrice: decimal.RequireFromString("6.90"),
		Available: 30,
	}
}

func TestCatalogLookup_ReadThrough(t *testing.T) {
	cache := &fakeCache{products: make(map[string]domain.ProductInfo)}
	db := &fakeCatalog{products: map[string]domain.ProductInfo{"wiper-1": wiperBlade()}}
	lookup := NewCatalogLookup(cache, db, slog.Default())

	info, err := lookup.Lookup(context.Background(), "wiper-1")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if info.Available != 30 {
		t.Errorf("expected stock 30, got %d", info.Available)
	}
	if db.reads != 1 {
		t.Errorf("expected 1 catalog read, got %d", db.reads)
	}

	// second lookup is served from the cache
	if _, err := lookup.Lookup(context.Background(), "wiper-1"); err != nil {
		t.Fatalf("cached lookup failed: %v", err)
	}
	if db.reads != 1 {
		t.Errorf("expected cache hit, got %d catalog reads", db.reads)
	}
}

func TestCatalogLookup_CacheWriteFailureIsNonFatal(t *testing.T) {
	cache := &fakeCache{products: make(map[string]domain.ProductInfo), setErr: errors.New("redis down")}
	db := &fakeCatalog{products: map[string]domain.ProductInfo{"wiper-1": wiperBlade()}}
	lookup := NewCatalogLookup(cache, db, slog.Default())

	info, err := lookup.Lookup(context.Background(), "wiper-1")
	if err != nil {
		t.Fatalf("lookup failed despite cache write error: %v", err)
	}
	if info.ProductID != "wiper-1" {
		t.Errorf("unexpected product: %+v", info)
	}
}

func TestCatalogLookup_UnknownProduct(t *testing.T) {
	cache := &fakeCache{products: make(map[string]domain.ProductInfo)}
	db := &fakeCatalog{products: make(map[string]domain.ProductInfo)}
	lookup := NewCatalogLookup(cache, db, slog.Default())

	_, err := lookup.Lookup(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}
