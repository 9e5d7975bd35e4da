package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hansajayathilaka/go-inventory-sub000/internal/adapter/handler/middleware"
)

func NewRouter(h *POSHandler, log *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Metrics(), middleware.Logging(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	{
		v1.POST("/sessions", h.CreateSession)
		v1.GET("/sessions", h.ListSessions)
		v1.POST("/sessions/:id/activate", h.ActivateSession)
		v1.DELETE("/sessions/:id", h.CloseSession)

		v1.GET("/sessions/:id/cart", h.GetCart)
		v1.DELETE("/sessions/:id/cart", h.ClearCart)
		v1.POST("/sessions/:id/cart/items", h.AddItem)
		v1.PUT("/sessions/:id/cart/items/:productId", h.UpdateQuantity)
		v1.DELETE("/sessions/:id/cart/items/:productId", h.RemoveItem)
		v1.POST("/sessions/:id/cart/items/:productId/discount", h.SetLineDiscount)
		v1.POST("/sessions/:id/cart/discount", h.ApplyDiscount)

		v1.POST("/sessions/:id/checkout", h.BeginCheckout)
		v1.POST("/sessions/:id/checkout/payment", h.SubmitPayment)
		v1.POST("/sessions/:id/checkout/cancel", h.CancelCheckout)

		v1.GET("/sessions/:id/focus", h.NextFocus)
	}

	return r
}
