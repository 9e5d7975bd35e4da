package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hansajayathilaka/go-inventory-sub000/internal/core/domain"
	"github.com/hansajayathilaka/go-inventory-sub000/internal/port"
)

// POSService runs every cart mutation and checkout transition for the
// sessions in its registry. Completed sales are pushed onto a buffered
// queue for the persistence workers; the terminal never waits on MySQL.
type POSService struct {
	registry  *SessionRegistry
	stock     port.StockLookup
	payments  port.PaymentGateway
	saleQueue chan domain.Sale
}

func NewPOSService(registry *SessionRegistry, stock port.StockLookup, payments port.PaymentGateway, queueSize int) *POSService {
	return &POSService{
		registry:  registry,
		stock:     stock,
		payments:  payments,
		saleQueue: make(chan domain.Sale, queueSize),
	}
}

func (s *POSService) Registry() *SessionRegistry { return s.registry }

// GetSaleQueue exposes the completed-sale queue for the worker pool.
func (s *POSService) GetSaleQueue() <-chan domain.Sale {
	return s.saleQueue
}

// Close closes the sale queue. Call after all sessions are quiesced.
func (s *POSService) Close() {
	close(s.saleQueue)
}

// View returns a snapshot of one session's cart and checkout state.
func (s *POSService) View(sessionID string) (domain.CartView, error) {
	sess, err := s.registry.get(sessionID)
	if err != nil {
		return domain.CartView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.viewLocked(), nil
}

// AddItem validates qty against a fresh stock lookup and merges it into the
// session's cart. The session lock is held across the lookup so rapid-fire
// adds on one session apply in submission order.
func (s *POSService) AddItem(ctx context.Context, sessionID, productID string, qty int) (domain.CartView, error) {
	if qty <= 0 {
		return domain.CartView{}, domain.ErrInvalidQuantity
	}
	sess, err := s.registry.get(sessionID)
	if err != nil {
		return domain.CartView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed.Load() {
		return domain.CartView{}, domain.ErrSessionNotFound
	}

	info, err := s.lookup(ctx, sess, productID)
	if err != nil {
		return domain.CartView{}, err
	}
	if err := sess.cart.AddItem(info, qty); err != nil {
		return domain.CartView{}, err
	}
	return sess.viewLocked(), nil
}

// UpdateQuantity replaces a line's quantity, re-validating stock against a
// fresh lookup. The add-time price snapshot is kept.
func (s *POSService) UpdateQuantity(ctx context.Context, sessionID, productID string, qty int) (domain.CartView, error) {
	sess, err := s.registry.get(sessionID)
	if err != nil {
		return domain.CartView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed.Load() {
		return domain.CartView{}, domain.ErrSessionNotFound
	}
	if !sess.cart.Has(productID) {
		return domain.CartView{}, domain.ErrItemNotFound
	}
	if qty <= 0 {
		return domain.CartView{}, domain.ErrInvalidQuantity
	}

	info, err := s.lookup(ctx, sess, productID)
	if err != nil {
		return domain.CartView{}, err
	}
	if err := sess.cart.UpdateQuantity(info, qty); err != nil {
		return domain.CartView{}, err
	}
	return sess.viewLocked(), nil
}

// lookup fetches price/stock while the session lock is held. The result of
// a lookup that outlived its session is discarded, never applied.
// Caller must hold sess.mu.
func (s *POSService) lookup(ctx context.Context, sess *session, productID string) (domain.ProductInfo, error) {
	lctx, cancel := sess.lookupContext(ctx)
	info, err := s.stock.Lookup(lctx, productID)
	cancel()
	if sess.closed.Load() {
		return domain.ProductInfo{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.ProductInfo{}, fmt.Errorf("stock lookup: %w", err)
	}
	return info, nil
}

// RemoveItem drops a line. Removing an absent line is a no-op.
func (s *POSService) RemoveItem(sessionID, productID string) (domain.CartView, error) {
	sess, err := s.registry.get(sessionID)
	if err != nil {
		return domain.CartView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.cart.RemoveItem(productID)
	return sess.viewLocked(), nil
}

// ApplyDiscount replaces the session's cart-level discount.
func (s *POSService) ApplyDiscount(sessionID string, d domain.Discount) (domain.CartView, error) {
	sess, err := s.registry.get(sessionID)
	if err != nil {
		return domain.CartView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.cart.ApplyDiscount(d); err != nil {
		return domain.CartView{}, err
	}
	return sess.viewLocked(), nil
}

// SetLineDiscount sets a fixed discount on one line.
func (s *POSService) SetLineDiscount(sessionID, productID string, amount domain.Discount) (domain.CartView, error) {
	sess, err := s.registry.get(sessionID)
	if err != nil {
		return domain.CartView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if amount.Kind != domain.DiscountAmount {
		return domain.CartView{}, domain.ErrInvalidDiscount
	}
	if err := sess.cart.SetLineDiscount(productID, amount.Value); err != nil {
		return domain.CartView{}, err
	}
	return sess.viewLocked(), nil
}

// ClearCart empties the session's cart and discounts.
func (s *POSService) ClearCart(sessionID string) (domain.CartView, error) {
	sess, err := s.registry.get(sessionID)
	if err != nil {
		return domain.CartView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.cart.Clear()
	return sess.viewLocked(), nil
}

// BeginCheckout moves a session from item entry into payment. An empty
// cart is refused. Re-firing while payment is already in progress is a
// no-op, since the UI may re-send the intent.
func (s *POSService) BeginCheckout(sessionID string) (domain.CartView, error) {
	sess, err := s.registry.get(sessionID)
	if err != nil {
		return domain.CartView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.state == domain.StatePaymentInProgress {
		return sess.viewLocked(), nil
	}
	if sess.cart.Len() == 0 {
		return domain.CartView{}, domain.ErrEmptyCart
	}
	sess.state = domain.StatePaymentInProgress
	return sess.viewLocked(), nil
}

// SubmitPayment submits the current total to the payment gateway and, on
// success, completes the sale: the cart is cleared, the sale is queued for
// persistence and the session resets to item entry.
//
// The session lock is released while the gateway call is in flight, so the
// cart can still be mutated. If that happens the authorized amount no
// longer matches the cart total and the transition is refused with
// ErrPaymentMismatch; the session stays in payment so the operator can
// resubmit. A declined or unreachable gateway cancels the sale instead:
// the cart is kept and the session returns to item entry.
func (s *POSService) SubmitPayment(ctx context.Context, sessionID, method, reference string) (domain.CartView, error) {
	sess, err := s.registry.get(sessionID)
	if err != nil {
		return domain.CartView{}, err
	}

	sess.mu.Lock()
	sess.payMu.Lock()
	if sess.closed.Load() {
		sess.payMu.Unlock()
		sess.mu.Unlock()
		return domain.CartView{}, domain.ErrSessionNotFound
	}
	if sess.state != domain.StatePaymentInProgress || sess.paying {
		sess.payMu.Unlock()
		sess.mu.Unlock()
		return domain.CartView{}, domain.ErrPaymentNotPending
	}
	sess.paying = true
	sess.payMu.Unlock()
	amount := sess.cart.Total()
	sess.mu.Unlock()

	authorized, payErr := s.payments.Submit(ctx, domain.PaymentRequest{
		SessionID: sessionID,
		Amount:    amount,
		Method:    method,
		Reference: reference,
	})

	// payMu is held until the outcome is recorded, so a close cannot
	// slip in between the gateway's answer and its resolution.
	sess.mu.Lock()
	sess.payMu.Lock()
	sess.paying = false
	if sess.closed.Load() {
		sess.payMu.Unlock()
		sess.mu.Unlock()
		return domain.CartView{}, domain.ErrSessionNotFound
	}
	if payErr != nil {
		sess.state = domain.StateItemEntry
		sess.lastOutcome = domain.StateCancelled
		view := sess.viewLocked()
		sess.payMu.Unlock()
		sess.mu.Unlock()
		return view, payErr
	}
	if !authorized.Equal(sess.cart.Total()) {
		// cart changed mid-payment; stay in payment for a clean resubmit
		view := sess.viewLocked()
		sess.payMu.Unlock()
		sess.mu.Unlock()
		return view, domain.ErrPaymentMismatch
	}

	sale := buildSale(sess, method, reference)
	sess.cart.Clear()
	sess.state = domain.StateItemEntry
	sess.lastOutcome = domain.StateCompleted
	view := sess.viewLocked()
	sess.payMu.Unlock()
	sess.mu.Unlock()

	// hand off outside the lock: a full queue stalls this request but
	// never the session
	s.saleQueue <- sale
	return view, nil
}

// CancelCheckout abandons the payment step. The cart is left untouched for
// retry and the session returns to item entry. Cancelling while no payment
// is in progress is a no-op; cancelling while a submission is outstanding
// is refused, since a sent submission cannot be recalled.
func (s *POSService) CancelCheckout(sessionID string) (domain.CartView, error) {
	sess, err := s.registry.get(sessionID)
	if err != nil {
		return domain.CartView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.state != domain.StatePaymentInProgress {
		return sess.viewLocked(), nil
	}
	if sess.paying {
		return domain.CartView{}, domain.ErrPaymentPending
	}
	sess.state = domain.StateItemEntry
	sess.lastOutcome = domain.StateCancelled
	return sess.viewLocked(), nil
}

// buildSale snapshots the cart into a receipt. Caller must hold sess.mu.
func buildSale(sess *session, method, reference string) domain.Sale {
	items := sess.cart.Items()
	lines := make([]domain.SaleLine, len(items))
	for i, it := range items {
		lines[i] = domain.SaleLine{
			ProductID:    it.ProductID,
			Name:         it.Name,
			UnitPrice:    it.UnitPrice,
			Quantity:     it.Quantity,
			LineDiscount: it.LineDiscount,
			LineTotal:    it.LineTotal(),
		}
	}
	return domain.Sale{
		ID:            uuid.NewString(),
		SessionID:     sess.id,
		Lines:         lines,
		Subtotal:      sess.cart.Subtotal(),
		DiscountTotal: sess.cart.DiscountTotal(),
		Total:         sess.cart.Total(),
		Method:        method,
		Reference:     reference,
		CreatedAt:     time.Now(),
	}
}
