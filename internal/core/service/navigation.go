package service

import "github.com/hansajayathilaka/go-inventory-sub000/internal/core/domain"

// FocusTarget names the UI region the terminal should focus next.
type FocusTarget string

const (
	FocusSearch   FocusTarget = "search"
	FocusCustomer FocusTarget = "customer"
	FocusCart     FocusTarget = "cart"
	FocusPayment  FocusTarget = "payment"
)

// NavigationCoordinator maps focus intents onto a session's checkout
// state. It only reads registry state; it has no access to cart mutation.
type NavigationCoordinator struct {
	registry *SessionRegistry
}

func NewNavigationCoordinator(registry *SessionRegistry) *NavigationCoordinator {
	return &NavigationCoordinator{registry: registry}
}

// FocusFor returns the resting focus for a session: the payment pane while
// a payment is in progress, otherwise product search.
func (n *NavigationCoordinator) FocusFor(sessionID string) (FocusTarget, error) {
	state, err := n.state(sessionID)
	if err != nil {
		return "", err
	}
	if state == domain.StatePaymentInProgress {
		return FocusPayment, nil
	}
	return FocusSearch, nil
}

// Next advances focus from current. During item entry focus cycles
// search -> customer -> cart -> search; during payment it is pinned to the
// payment pane regardless of the requested jump.
func (n *NavigationCoordinator) Next(sessionID string, current FocusTarget) (FocusTarget, error) {
	state, err := n.state(sessionID)
	if err != nil {
		return "", err
	}
	if state == domain.StatePaymentInProgress {
		return FocusPayment, nil
	}
	switch current {
	case FocusSearch:
		return FocusCustomer, nil
	case FocusCustomer:
		return FocusCart, nil
	default:
		return FocusSearch, nil
	}
}

func (n *NavigationCoordinator) state(sessionID string) (domain.CheckoutState, error) {
	sess, err := n.registry.get(sessionID)
	if err != nil {
		return "", err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.state, nil
}
