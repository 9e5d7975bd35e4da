package domain

import "github.com/shopspring/decimal"

// ProductInfo is the current price and availability of one catalog item as
// reported by the stock lookup at a single point in time.
type ProductInfo struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Available int
}
