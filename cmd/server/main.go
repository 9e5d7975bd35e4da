package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/hansajayathilaka/go-inventory-sub000/configs"
	"github.com/hansajayathilaka/go-inventory-sub000/internal/adapter/handler"
	"github.com/hansajayathilaka/go-inventory-sub000/internal/adapter/observ"
	"github.com/hansajayathilaka/go-inventory-sub000/internal/adapter/payment"
	"github.com/hansajayathilaka/go-inventory-sub000/internal/adapter/storage"
	"github.com/hansajayathilaka/go-inventory-sub000/internal/core/domain"
	"github.com/hansajayathilaka/go-inventory-sub000/internal/core/service"
	"github.com/hansajayathilaka/go-inventory-sub000/internal/logging"
	"github.com/hansajayathilaka/go-inventory-sub000/internal/port"
)

func main() {
	envName := os.Getenv("APP_ENV") // dev | staging | prod
	if envName == "" {
		envName = "dev"
	}

	cfg, err := configs.Load("configs", envName)
	if err != nil {
		log.Fatal(err)
	}

	logging.Init(cfg.App.Name, cfg.App.LogFile)
	logger := logging.New("server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize MySQL
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		logger.Error("open mysql", "error", err)
		os.Exit(1)
	}
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		pingCancel()
		logger.Error("ping mysql", "error", err)
		os.Exit(1)
	}
	pingCancel()
	logger.Info("connected to mysql")

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("ping redis", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to redis")

	// Adapters
	cache := storage.NewRedisAdapter(rdb, cfg.Redis.CacheTTL)
	catalog := storage.NewMySQLAdapter(db)
	lookup := storage.NewCatalogLookup(cache, catalog, logging.New("catalog"))
	gateway := payment.NewHTTPGateway(cfg.Payment.BaseURL, cfg.Payment.Timeout)

	// Core
	registry := service.NewSessionRegistry()
	posService := service.NewPOSService(registry, lookup, gateway, cfg.POS.SaleQueueSize)
	nav := service.NewNavigationCoordinator(registry)

	// Sale persistence workers
	var wg sync.WaitGroup
	for i := 0; i < cfg.POS.SaleWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			workerLoop(id, posService.GetSaleQueue(), catalog, cache, logging.New("sale-worker"))
		}(i)
	}
	logger.Info("started sale workers", "count", cfg.POS.SaleWorkers)

	// HTTP server
	h := handler.NewPOSHandler(posService, nav)
	router := handler.NewRouter(h, logging.New("http"))

	httpServer := &http.Server{
		Addr:         cfg.App.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.App.HTTPAddr, "env", envName)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	logger.Info("http server stopped")

	// Close sale queue and wait for workers to drain it
	posService.Close()
	wg.Wait()
	logger.Info("sale workers stopped")

	rdb.Close()
	db.Close()
	logger.Info("connections closed")
}

// workerLoop drains completed sales into MySQL and invalidates the product
// cache for every sold line so the next lookup sees the decremented stock.
func workerLoop(id int, queue <-chan domain.Sale, db port.DatabaseRepository, cache *storage.RedisAdapter, logger *slog.Logger) {
	for sale := range queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		if err := db.SaveSale(ctx, sale); err != nil {
			observ.SalesPersistFailures.Inc()
			logger.Error("failed to save sale", "worker", id, "sale_id", sale.ID, "error", err)
		} else {
			for _, line := range sale.Lines {
				if err := cache.Invalidate(ctx, line.ProductID); err != nil {
					logger.Warn("failed to invalidate product cache", "worker", id, "product_id", line.ProductID, "error", err)
				}
			}
			logger.Info("saved sale", "worker", id, "sale_id", sale.ID, "total", sale.Total.StringFixed(2))
		}

		cancel()
	}
}
