// posload hammers one POS session with concurrent add-item calls against a
// Redis-backed stock lookup, then drives the sale through checkout with an
// auto-approving gateway. Useful for eyeballing serialization behavior:
// successes must never oversell the seeded stock.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/hansajayathilaka/go-inventory-sub000/internal/adapter/storage"
	"github.com/hansajayathilaka/go-inventory-sub000/internal/core/domain"
	"github.com/hansajayathilaka/go-inventory-sub000/internal/core/service"
)

const (
	redisAddr     = "localhost:6379"
	productID     = "brake-pad-front"
	initialStock  = 20
	totalRequests = 50
	queueSize     = 100
)

// approveGateway authorizes exactly what was asked for.
type approveGateway struct{}

func (approveGateway) Submit(_ context.Context, req domain.PaymentRequest) (decimal.Decimal, error) {
	return req.Amount, nil
}

func main() {
	ctx := context.Background()

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	cache := storage.NewRedisAdapter(rdb, 0)
	if err := cache.SetProduct(ctx, domain.ProductInfo{
		ProductID: productID,
		Name:      "Front Brake Pad",
		UnitPrice: decimal.RequireFromString("24.50"),
		Available: initialStock,
	}); err != nil {
		log.Fatalf("failed to seed product: %v", err)
	}

	registry := service.NewSessionRegistry()
	svc := service.NewPOSService(registry, cache, approveGateway{}, queueSize)
	defer svc.Close()

	// Drain the sale queue in background
	go func() {
		for range svc.GetSaleQueue() {
		}
	}()

	sessionID := registry.ActiveID()

	var successCount atomic.Int32
	var soldOutCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddItem(ctx, sessionID, productID, 1)
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, domain.ErrOutOfStock):
				soldOutCount.Add(1)
			default:
				log.Printf("add item: %v", err)
			}
		}()
	}
	wg.Wait()

	view, err := svc.View(sessionID)
	if err != nil {
		log.Fatalf("view: %v", err)
	}
	if len(view.Items) == 0 {
		log.Fatal("no adds succeeded; is the product seeded?")
	}
	fmt.Printf("adds: %d ok, %d out of stock; cart qty %d, total %s\n",
		successCount.Load(), soldOutCount.Load(), view.Items[0].Quantity, view.Total.StringFixed(2))

	if _, err := svc.BeginCheckout(sessionID); err != nil {
		log.Fatalf("begin checkout: %v", err)
	}
	view, err = svc.SubmitPayment(ctx, sessionID, "cash", "")
	if err != nil {
		log.Fatalf("submit payment: %v", err)
	}
	fmt.Printf("sale completed; cart now %d items, state %s\n", len(view.Items), view.State)
}
