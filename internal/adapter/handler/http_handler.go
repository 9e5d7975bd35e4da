package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hansajayathilaka/go-inventory-sub000/internal/adapter/observ"
	"github.com/hansajayathilaka/go-inventory-sub000/internal/core/domain"
	"github.com/hansajayathilaka/go-inventory-sub000/internal/core/service"
	"github.com/hansajayathilaka/go-inventory-sub000/internal/logging"
)

type POSHandler struct {
	svc *service.POSService
	nav *service.NavigationCoordinator
}

func NewPOSHandler(svc *service.POSService, nav *service.NavigationCoordinator) *POSHandler {
	return &POSHandler{svc: svc, nav: nav}
}

type sessionResp struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	State       string `json:"state"`
	ItemCount   int    `json:"item_count"`
	Total       string `json:"total"`
	CreatedAt   string `json:"created_at"`
	Active      bool   `json:"active"`
}

type cartItemResp struct {
	ProductID    string `json:"product_id"`
	Name         string `json:"name"`
	UnitPrice    string `json:"unit_price"`
	Quantity     int    `json:"quantity"`
	StockAtAdd   int    `json:"stock_at_add"`
	LineDiscount string `json:"line_discount"`
	LineTotal    string `json:"line_total"`
}

type cartViewResp struct {
	SessionID     string         `json:"session_id"`
	State         string         `json:"state"`
	LastOutcome   string         `json:"last_outcome,omitempty"`
	Items         []cartItemResp `json:"items"`
	Subtotal      string         `json:"subtotal"`
	DiscountTotal string         `json:"discount_total"`
	Total         string         `json:"total"`
}

func toSessionResp(info domain.SessionInfo) sessionResp {
	return sessionResp{
		ID:          info.ID,
		DisplayName: info.DisplayName,
		State:       info.State.String(),
		ItemCount:   info.ItemCount,
		Total:       info.Total.StringFixed(2),
		CreatedAt:   info.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Active:      info.Active,
	}
}

func toCartViewResp(v domain.CartView) cartViewResp {
	items := make([]cartItemResp, len(v.Items))
	for i, it := range v.Items {
		items[i] = cartItemResp{
			ProductID:    it.ProductID,
			Name:         it.Name,
			UnitPrice:    it.UnitPrice.StringFixed(2),
			Quantity:     it.Quantity,
			StockAtAdd:   it.StockAtAdd,
			LineDiscount: it.LineDiscount.StringFixed(2),
			LineTotal:    it.LineTotal().StringFixed(2),
		}
	}
	return cartViewResp{
		SessionID:     v.SessionID,
		State:         v.State.String(),
		LastOutcome:   v.LastOutcome.String(),
		Items:         items,
		Subtotal:      v.Subtotal.StringFixed(2),
		DiscountTotal: v.DiscountTotal.StringFixed(2),
		Total:         v.Total.StringFixed(2),
	}
}

type createSessionReq struct {
	DisplayName string `json:"display_name"`
}

func (h *POSHandler) CreateSession(c *gin.Context) {
	var req createSessionReq
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	info := h.svc.Registry().CreateSession(req.DisplayName)
	c.JSON(http.StatusCreated, toSessionResp(info))
}

func (h *POSHandler) ListSessions(c *gin.Context) {
	infos := h.svc.Registry().Sessions()
	out := make([]sessionResp, len(infos))
	for i, info := range infos {
		out[i] = toSessionResp(info)
	}
	c.JSON(http.StatusOK, gin.H{
		"sessions":  out,
		"active_id": h.svc.Registry().ActiveID(),
	})
}

func (h *POSHandler) ActivateSession(c *gin.Context) {
	if err := h.svc.Registry().SwitchActive(c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *POSHandler) CloseSession(c *gin.Context) {
	if err := h.svc.Registry().CloseSession(c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *POSHandler) GetCart(c *gin.Context) {
	view, err := h.svc.View(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartViewResp(view))
}

// Quantity carries no binding tag: zero and negative values must reach
// the service so they surface as invalid_quantity, not bad_request.
type addItemReq struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

func (h *POSHandler) AddItem(c *gin.Context) {
	var req addItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	view, err := h.svc.AddItem(c.Request.Context(), c.Param("id"), req.ProductID, req.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartViewResp(view))
}

type updateQuantityReq struct {
	Quantity int `json:"quantity"`
}

func (h *POSHandler) UpdateQuantity(c *gin.Context) {
	var req updateQuantityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	view, err := h.svc.UpdateQuantity(c.Request.Context(), c.Param("id"), c.Param("productId"), req.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartViewResp(view))
}

func (h *POSHandler) RemoveItem(c *gin.Context) {
	view, err := h.svc.RemoveItem(c.Param("id"), c.Param("productId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartViewResp(view))
}

type discountReq struct {
	Kind  string `json:"kind" binding:"required"`
	Value string `json:"value" binding:"required"`
}

func (h *POSHandler) ApplyDiscount(c *gin.Context) {
	var req discountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	value, err := decimal.NewFromString(req.Value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	view, err := h.svc.ApplyDiscount(c.Param("id"), domain.Discount{
		Kind:  domain.DiscountKind(req.Kind),
		Value: value,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartViewResp(view))
}

type lineDiscountReq struct {
	Amount string `json:"amount" binding:"required"`
}

func (h *POSHandler) SetLineDiscount(c *gin.Context) {
	var req lineDiscountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	view, err := h.svc.SetLineDiscount(c.Param("id"), c.Param("productId"), domain.Discount{
		Kind:  domain.DiscountAmount,
		Value: amount,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartViewResp(view))
}

func (h *POSHandler) ClearCart(c *gin.Context) {
	view, err := h.svc.ClearCart(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartViewResp(view))
}

func (h *POSHandler) BeginCheckout(c *gin.Context) {
	view, err := h.svc.BeginCheckout(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartViewResp(view))
}

type paymentReq struct {
	Method    string `json:"method" binding:"required"`
	Reference string `json:"reference"`
}

func (h *POSHandler) SubmitPayment(c *gin.Context) {
	var req paymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	view, err := h.svc.SubmitPayment(c.Request.Context(), c.Param("id"), req.Method, req.Reference)
	if err != nil {
		observ.PaymentOutcomes.WithLabelValues(paymentOutcome(err)).Inc()
		h.writeError(c, err)
		return
	}
	observ.PaymentOutcomes.WithLabelValues("completed").Inc()
	observ.SalesCompleted.Inc()
	c.JSON(http.StatusOK, toCartViewResp(view))
}

func (h *POSHandler) CancelCheckout(c *gin.Context) {
	view, err := h.svc.CancelCheckout(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartViewResp(view))
}

func (h *POSHandler) NextFocus(c *gin.Context) {
	current := service.FocusTarget(c.Query("current"))
	var (
		focus service.FocusTarget
		err   error
	)
	if current == "" {
		focus, err = h.nav.FocusFor(c.Param("id"))
	} else {
		focus, err = h.nav.Next(c.Param("id"), current)
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"focus": string(focus)})
}

func paymentOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrPaymentDeclined):
		return "declined"
	case errors.Is(err, domain.ErrPaymentUnavailable):
		return "unavailable"
	case errors.Is(err, domain.ErrPaymentMismatch):
		return "mismatch"
	default:
		return "error"
	}
}

// writeError maps core errors to HTTP statuses. Registry-contract errors
// mean a caller bug, so they are logged at error level before responding.
func (h *POSHandler) writeError(c *gin.Context, err error) {
	var (
		status int
		code   string
	)
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		status, code = http.StatusBadRequest, "invalid_quantity"
	case errors.Is(err, domain.ErrInvalidDiscount):
		status, code = http.StatusBadRequest, "invalid_discount"
	case errors.Is(err, domain.ErrEmptyCart):
		status, code = http.StatusBadRequest, "empty_cart"
	case errors.Is(err, domain.ErrItemNotFound):
		status, code = http.StatusNotFound, "item_not_found"
	case errors.Is(err, domain.ErrProductNotFound):
		status, code = http.StatusNotFound, "product_not_found"
	case errors.Is(err, domain.ErrOutOfStock):
		status, code = http.StatusConflict, "out_of_stock"
	case errors.Is(err, domain.ErrSessionNotFound):
		status, code = http.StatusNotFound, "session_not_found"
		logging.From(c).Error("registry contract violation", "error", err)
	case errors.Is(err, domain.ErrCannotCloseLastSession):
		status, code = http.StatusConflict, "cannot_close_last_session"
		logging.From(c).Error("registry contract violation", "error", err)
	case errors.Is(err, domain.ErrPaymentNotPending):
		status, code = http.StatusConflict, "payment_not_pending"
	case errors.Is(err, domain.ErrPaymentPending):
		status, code = http.StatusConflict, "payment_pending"
	case errors.Is(err, domain.ErrPaymentMismatch):
		status, code = http.StatusConflict, "payment_mismatch"
	case errors.Is(err, domain.ErrPaymentDeclined):
		status, code = http.StatusPaymentRequired, "payment_declined"
	case errors.Is(err, domain.ErrPaymentUnavailable):
		status, code = http.StatusBadGateway, "payment_unavailable"
	default:
		status, code = http.StatusInternalServerError, "internal_error"
		logging.From(c).Error("unhandled error", "error", err)
	}
	c.JSON(status, gin.H{"error": code, "detail": err.Error()})
}
