package domain

// CheckoutState tracks one sale's progress through payment. Completed and
// Cancelled terminate a sale; the session itself then rests at ItemEntry
// again, so they only ever appear as a sale's outcome.
type CheckoutState string

const (
	StateItemEntry         CheckoutState = "ITEM_ENTRY"
	StatePaymentInProgress CheckoutState = "PAYMENT_IN_PROGRESS"
	StateCompleted         CheckoutState = "COMPLETED"
	StateCancelled         CheckoutState = "CANCELLED"
)

func (s CheckoutState) IsTerminal() bool {
	return s == StateCompleted || s == StateCancelled
}

func (s CheckoutState) String() string {
	return string(s)
}
