package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/hansajayathilaka/go-inventory-sub000/internal/core/domain"
)

// session is one POS terminal tab: an exclusively owned cart plus checkout
// progress. All cart and checkout mutations lock mu for their full
// duration, including any stock-lookup suspension, so operations on one
// session are serialized while different sessions stay independent.
type session struct {
	id          string
	displayName string
	seq         int64
	createdAt   time.Time

	// cancelled when the session closes; aborts in-flight lookups.
	ctx    context.Context
	cancel context.CancelFunc
	closed atomic.Bool

	mu          sync.Mutex
	cart        *domain.Cart
	state       domain.CheckoutState
	lastOutcome domain.CheckoutState

	// payMu orders payment submission against session close: paying is
	// written under both mu and payMu, and close reads it under payMu
	// alone, so it never waits on mu held across a parked lookup.
	payMu  sync.Mutex
	paying bool // a payment submission is outstanding
}

func (s *session) close() {
	s.closed.Store(true)
	s.cancel()
}

// lookupContext derives a context from the caller's that is additionally
// cancelled when the session closes, so an abandoned lookup unblocks.
func (s *session) lookupContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// viewLocked builds a snapshot. Caller must hold s.mu.
func (s *session) viewLocked() domain.CartView {
	return domain.CartView{
		SessionID:     s.id,
		State:         s.state,
		LastOutcome:   s.lastOutcome,
		Items:         s.cart.Items(),
		Subtotal:      s.cart.Subtotal(),
		DiscountTotal: s.cart.DiscountTotal(),
		Total:         s.cart.Total(),
	}
}

func (s *session) info(active bool) domain.SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.SessionInfo{
		ID:          s.id,
		DisplayName: s.displayName,
		State:       s.state,
		ItemCount:   s.cart.Len(),
		Total:       s.cart.Total(),
		CreatedAt:   s.createdAt,
		Active:      active,
	}
}

// SessionRegistry owns the set of concurrent sessions and which one is
// active for the UI. It is never empty: the constructor seeds one session
// and closing the last remaining session is refused.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*session
	activeID string
	nextSeq  int64
}

func NewSessionRegistry() *SessionRegistry {
	r := &SessionRegistry{sessions: make(map[string]*session)}
	seeded := r.newSession("")
	r.sessions[seeded.id] = seeded
	r.activeID = seeded.id
	return r
}

func (r *SessionRegistry) newSession(displayName string) *session {
	r.nextSeq++
	if displayName == "" {
		displayName = fmt.Sprintf("Sale %d", r.nextSeq)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &session{
		id:          uuid.NewString(),
		displayName: displayName,
		seq:         r.nextSeq,
		createdAt:   time.Now(),
		ctx:         ctx,
		cancel:      cancel,
		cart:        domain.NewCart(),
		state:       domain.StateItemEntry,
	}
}

// CreateSession allocates a new session with an empty cart. Always
// succeeds. An empty displayName gets a generated one.
func (r *SessionRegistry) CreateSession(displayName string) domain.SessionInfo {
	r.mu.Lock()
	sess := r.newSession(displayName)
	r.sessions[sess.id] = sess
	active := r.activeID == sess.id
	r.mu.Unlock()
	return sess.info(active)
}

// SwitchActive marks sessionID as the active session. Pure registry state
// change; no cart is touched.
func (r *SessionRegistry) SwitchActive(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sessionID]; !ok {
		return domain.ErrSessionNotFound
	}
	r.activeID = sessionID
	return nil
}

// CloseSession removes a session. The last remaining session cannot be
// closed, and neither can one with a payment submission outstanding: a
// sent submission cannot be recalled, so it must resolve first. If the
// closed session was active, the oldest survivor (by creation order)
// becomes active.
func (r *SessionRegistry) CloseSession(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	if len(r.sessions) == 1 {
		return domain.ErrCannotCloseLastSession
	}
	sess.payMu.Lock()
	if sess.paying {
		sess.payMu.Unlock()
		return domain.ErrPaymentPending
	}
	sess.close()
	sess.payMu.Unlock()
	delete(r.sessions, sessionID)
	if r.activeID == sessionID {
		var oldest *session
		for _, s := range r.sessions {
			if oldest == nil || s.seq < oldest.seq {
				oldest = s
			}
		}
		r.activeID = oldest.id
	}
	return nil
}

// ActiveID returns the id of the active session. Always resolves.
func (r *SessionRegistry) ActiveID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.activeID
}

// Sessions lists all sessions in creation order.
func (r *SessionRegistry) Sessions() []domain.SessionInfo {
	r.mu.RLock()
	all := make([]*session, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
	}
	activeID := r.activeID
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].seq < all[j].seq })
	out := make([]domain.SessionInfo, len(all))
	for i, s := range all {
		out[i] = s.info(s.id == activeID)
	}
	return out
}

func (r *SessionRegistry) get(sessionID string) (*session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}
