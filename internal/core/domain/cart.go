package domain

import "github.com/shopspring/decimal"

// CartItem is one line of a cart. Name and UnitPrice are snapshots taken
// when the line was created: upstream price changes do not re-price a line
// already quoted to the customer (a product decision, not an oversight).
// StockAtAdd records availability at the last successful mutation and is
// informational only; stock is re-validated on every mutation.
type CartItem struct {
	ProductID    string
	Name         string
	UnitPrice    decimal.Decimal
	Quantity     int
	StockAtAdd   int
	LineDiscount decimal.Decimal
}

// LineTotal is unit_price * quantity - line_discount.
func (it CartItem) LineTotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))).Sub(it.LineDiscount)
}

// DiscountKind selects how a cart-level discount is interpreted.
type DiscountKind string

const (
	DiscountAmount  DiscountKind = "amount"
	DiscountPercent DiscountKind = "percent"
)

// Discount is a cart-level discount. The zero value means no discount.
type Discount struct {
	Kind  DiscountKind
	Value decimal.Decimal
}

// Cart holds one session's line items and a cart-level discount. It is not
// safe for concurrent use; the owning session serializes access.
type Cart struct {
	items    []*CartItem
	index    map[string]int // productID -> position in items
	discount Discount
}

func NewCart() *Cart {
	return &Cart{index: make(map[string]int)}
}

// AddItem merges qty into an existing line for info.ProductID or appends a
// new one. The resulting quantity must not exceed info.Available.
func (c *Cart) AddItem(info ProductInfo, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if pos, ok := c.index[info.ProductID]; ok {
		it := c.items[pos]
		newQty := it.Quantity + qty
		if newQty > info.Available {
			return ErrOutOfStock
		}
		it.Quantity = newQty
		it.StockAtAdd = info.Available
		return nil
	}
	if qty > info.Available {
		return ErrOutOfStock
	}
	c.index[info.ProductID] = len(c.items)
	c.items = append(c.items, &CartItem{
		ProductID:  info.ProductID,
		Name:       info.Name,
		UnitPrice:  info.UnitPrice,
		Quantity:   qty,
		StockAtAdd: info.Available,
	})
	return nil
}

// Has reports whether a line exists for productID.
func (c *Cart) Has(productID string) bool {
	_, ok := c.index[productID]
	return ok
}

// UpdateQuantity replaces the quantity of an existing line. info must be a
// fresh lookup for the same product; the snapshot price is kept.
func (c *Cart) UpdateQuantity(info ProductInfo, newQty int) error {
	pos, ok := c.index[info.ProductID]
	if !ok {
		return ErrItemNotFound
	}
	if newQty <= 0 {
		return ErrInvalidQuantity
	}
	if newQty > info.Available {
		return ErrOutOfStock
	}
	it := c.items[pos]
	it.Quantity = newQty
	it.StockAtAdd = info.Available
	return nil
}

// RemoveItem drops the line for productID. Removing an absent line is a
// no-op, not an error.
func (c *Cart) RemoveItem(productID string) {
	pos, ok := c.index[productID]
	if !ok {
		return
	}
	c.items = append(c.items[:pos], c.items[pos+1:]...)
	delete(c.index, productID)
	for i := pos; i < len(c.items); i++ {
		c.index[c.items[i].ProductID] = i
	}
}

// ApplyDiscount replaces the cart-level discount. Rejected if the value is
// negative, a percentage exceeds 100, or the discount would drive the total
// below zero.
func (c *Cart) ApplyDiscount(d Discount) error {
	if d.Value.IsNegative() {
		return ErrInvalidDiscount
	}
	switch d.Kind {
	case DiscountAmount:
		if d.Value.GreaterThan(c.Subtotal()) {
			return ErrInvalidDiscount
		}
	case DiscountPercent:
		if d.Value.GreaterThan(decimal.NewFromInt(100)) {
			return ErrInvalidDiscount
		}
	default:
		return ErrInvalidDiscount
	}
	c.discount = d
	return nil
}

// SetLineDiscount sets a fixed discount on one line, capped at the line's
// undiscounted subtotal.
func (c *Cart) SetLineDiscount(productID string, amount decimal.Decimal) error {
	pos, ok := c.index[productID]
	if !ok {
		return ErrItemNotFound
	}
	it := c.items[pos]
	gross := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
	if amount.IsNegative() || amount.GreaterThan(gross) {
		return ErrInvalidDiscount
	}
	it.LineDiscount = amount
	return nil
}

// Clear empties all lines and removes any discount.
func (c *Cart) Clear() {
	c.items = nil
	c.index = make(map[string]int)
	c.discount = Discount{}
}

func (c *Cart) Len() int { return len(c.items) }

// Items returns copies of the lines in insertion order.
func (c *Cart) Items() []CartItem {
	out := make([]CartItem, len(c.items))
	for i, it := range c.items {
		out[i] = *it
	}
	return out
}

// Subtotal is the sum of line totals.
func (c *Cart) Subtotal() decimal.Decimal {
	sub := decimal.Zero
	for _, it := range c.items {
		sub = sub.Add(it.LineTotal())
	}
	return sub
}

// DiscountTotal resolves the cart-level discount against the current
// subtotal. Percentages round to cents.
func (c *Cart) DiscountTotal() decimal.Decimal {
	switch c.discount.Kind {
	case DiscountAmount:
		return c.discount.Value
	case DiscountPercent:
		return c.Subtotal().Mul(c.discount.Value).Div(decimal.NewFromInt(100)).Round(2)
	}
	return decimal.Zero
}

// Total is subtotal - discount, clamped at zero.
func (c *Cart) Total() decimal.Decimal {
	total := c.Subtotal().Sub(c.DiscountTotal())
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}
