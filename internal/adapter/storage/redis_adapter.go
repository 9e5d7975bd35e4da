package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/hansajayathilaka/go-inventory-sub000/internal/core/domain"
)

const productKeyPrefix = "product:"

// RedisAdapter caches product price and stock in a hash per product so the
// terminal's lookups avoid the catalog database on the hot path.
type RedisAdapter struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisAdapter(client *redis.Client, ttl time.Duration) *RedisAdapter {
	return &RedisAdapter{client: client, ttl: ttl}
}

func (r *RedisAdapter) Lookup(ctx context.Context, productID string) (domain.ProductInfo, error) {
	key := productKeyPrefix + productID

	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return domain.ProductInfo{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(fields) == 0 {
		return domain.ProductInfo{}, domain.ErrProductNotFound
	}

	price, err := decimal.NewFromString(fields["price"])
	if err != nil {
		return domain.ProductInfo{}, fmt.Errorf("parse price for %s: %w", productID, err)
	}
	var available int
	if _, err := fmt.Sscanf(fields["stock"], "%d", &available); err != nil {
		return domain.ProductInfo{}, fmt.Errorf("parse stock for %s: %w", productID, err)
	}

	return domain.ProductInfo{
		ProductID: productID,
		Name:      fields["name"],
		UnitPrice: price,
		Available: available,
	}, nil
}

// SetProduct writes one product's price/stock snapshot into the cache.
func (r *RedisAdapter) SetProduct(ctx context.Context, info domain.ProductInfo) error {
	key := productKeyPrefix + info.ProductID
	if err := r.client.HSet(ctx, key,
		"name", info.Name,
		"price", info.UnitPrice.String(),
		"stock", info.Available,
	).Err(); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	if r.ttl > 0 {
		return r.client.Expire(ctx, key, r.ttl).Err()
	}
	return nil
}

// Invalidate drops a product from the cache so the next lookup re-reads
// the catalog. Used after a completed sale decrements catalog stock.
func (r *RedisAdapter) Invalidate(ctx context.Context, productID string) error {
	return r.client.Del(ctx, productKeyPrefix+productID).Err()
}
