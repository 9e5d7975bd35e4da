package storage

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/hansajayathilaka/go-inventory-sub000/internal/core/domain"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return rdb
}

func TestLookup_RoundTrip(t *testing.T) {
	rdb := getRedisClient(t)
	defer rdb.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(rdb, time.Minute)

	info := domain.ProductInfo{
		ProductID: "test-lookup-part",
		Name:      "Air Filter",
		UnitPrice: decimal.RequireFromString("12.75"),
		Available: 8,
	}
	defer rdb.Del(ctx, productKeyPrefix+info.ProductID)

	if err := adapter.SetProduct(ctx, info); err != nil {
		t.Fatalf("set product failed: %v", err)
	}

	got, err := adapter.Lookup(ctx, info.ProductID)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if !got.UnitPrice.Equal(info.UnitPrice) {
		t.Errorf("expected price %s, got %s", info.UnitPrice, got.UnitPrice)
	}
	if got.Available != 8 {
		t.Errorf("expected stock 8, got %d", got.Available)
	}
	if got.Name != "Air Filter" {
		t.Errorf("expected name Air Filter, got %s", got.Name)
	}

	ttl, err := rdb.TTL(ctx, productKeyPrefix+info.ProductID).Result()
	if err != nil {
		t.Fatalf("ttl failed: %v", err)
	}
	if ttl <= 0 {
		t.Errorf("expected positive TTL, got %v", ttl)
	}
}

func TestLookup_Miss(t *testing.T) {
	rdb := getRedisClient(t)
	defer rdb.Close()

	adapter := NewRedisAdapter(rdb, 0)
	_, err := adapter.Lookup(context.Background(), "no-such-part")
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestInvalidate(t *testing.T) {
	rdb := getRedisClient(t)
	defer rdb.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(rdb, 0)

	info := domain.ProductInfo{
		ProductID: "test-invalidate-part",
		Name:      "Spark Plug",
		UnitPrice: decimal.RequireFromString("4.20"),
		Available: 100,
	}
	if err := adapter.SetProduct(ctx, info); err != nil {
		t.Fatalf("set product failed: %v", err)
	}
	if err := adapter.Invalidate(ctx, info.ProductID); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}

	_, err := adapter.Lookup(ctx, info.ProductID)
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound after invalidate, got %v", err)
	}
}
