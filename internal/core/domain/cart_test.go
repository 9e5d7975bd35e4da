package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func productA(stock int) ProductInfo {
	return ProductInfo{
		ProductID: "part-a",
		Name:      "Oil Filter",
		UnitPrice: decimal.RequireFromString("10.00"),
		Available: stock,
	}
}

func mustTotal(t *testing.T, c *Cart, want string) {
	t.Helper()
	if got := c.Total().StringFixed(2); got != want {
		t.Errorf("expected total %s, got %s", want, got)
	}
}

func TestAddItem_MergesDuplicateLines(t *testing.T) {
	c := NewCart()

	if err := c.AddItem(productA(5), 2); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	mustTotal(t, c, "20.00")

	if err := c.AddItem(productA(5), 2); err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	items := c.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(items))
	}
	if items[0].Quantity != 4 {
		t.Errorf("expected quantity 4, got %d", items[0].Quantity)
	}
	mustTotal(t, c, "40.00")
}

func TestAddItem_InvalidQuantity(t *testing.T) {
	c := NewCart()
	for _, qty := range []int{0, -1} {
		if err := c.AddItem(productA(5), qty); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("qty %d: expected ErrInvalidQuantity, got %v", qty, err)
		}
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cart, got %d lines", c.Len())
	}
}

func TestAddItem_OutOfStockLeavesCartUnchanged(t *testing.T) {
	c := NewCart()
	if err := c.AddItem(productA(5), 4); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	// merging 2 more would exceed the 5 available
	if err := c.AddItem(productA(5), 2); !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}

	items := c.Items()
	if items[0].Quantity != 4 {
		t.Errorf("expected quantity 4 after failed add, got %d", items[0].Quantity)
	}
	mustTotal(t, c, "40.00")
}

func TestUpdateQuantity(t *testing.T) {
	c := NewCart()
	if err := c.AddItem(productA(5), 4); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := c.UpdateQuantity(productA(5), 10); !errors.Is(err, ErrOutOfStock) {
		t.Errorf("expected ErrOutOfStock, got %v", err)
	}
	mustTotal(t, c, "40.00")

	if err := c.UpdateQuantity(productA(5), 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity, got %v", err)
	}

	missing := productA(5)
	missing.ProductID = "part-b"
	if err := c.UpdateQuantity(missing, 1); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}

	if err := c.UpdateQuantity(productA(5), 3); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	mustTotal(t, c, "30.00")
}

func TestUpdateQuantity_KeepsPriceSnapshot(t *testing.T) {
	c := NewCart()
	if err := c.AddItem(productA(5), 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	repriced := productA(5)
	repriced.UnitPrice = decimal.RequireFromString("99.99")
	if err := c.UpdateQuantity(repriced, 3); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	items := c.Items()
	if got := items[0].UnitPrice.StringFixed(2); got != "10.00" {
		t.Errorf("expected snapshot price 10.00, got %s", got)
	}
	mustTotal(t, c, "30.00")
}

func TestRemoveItem_AbsentIsNoop(t *testing.T) {
	c := NewCart()
	c.RemoveItem("ghost")

	if err := c.AddItem(productA(5), 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	c.RemoveItem("part-a")
	if c.Len() != 0 {
		t.Errorf("expected empty cart, got %d lines", c.Len())
	}
	mustTotal(t, c, "0.00")
}

func TestRemoveItem_ReindexesRemainingLines(t *testing.T) {
	c := NewCart()
	for _, id := range []string{"p1", "p2", "p3"} {
		info := productA(5)
		info.ProductID = id
		if err := c.AddItem(info, 1); err != nil {
			t.Fatalf("add %s failed: %v", id, err)
		}
	}
	c.RemoveItem("p1")

	info := productA(5)
	info.ProductID = "p3"
	if err := c.UpdateQuantity(info, 2); err != nil {
		t.Fatalf("update after remove failed: %v", err)
	}
	items := c.Items()
	if len(items) != 2 || items[1].ProductID != "p3" || items[1].Quantity != 2 {
		t.Errorf("unexpected lines after remove: %+v", items)
	}
}

func TestApplyDiscount(t *testing.T) {
	c := NewCart()
	if err := c.AddItem(productA(10), 4); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := c.ApplyDiscount(Discount{Kind: DiscountAmount, Value: decimal.RequireFromString("5.00")}); err != nil {
		t.Fatalf("amount discount failed: %v", err)
	}
	mustTotal(t, c, "35.00")

	if err := c.ApplyDiscount(Discount{Kind: DiscountPercent, Value: decimal.RequireFromString("25")}); err != nil {
		t.Fatalf("percent discount failed: %v", err)
	}
	mustTotal(t, c, "30.00")

	// exceeding the subtotal would drive the total negative
	err := c.ApplyDiscount(Discount{Kind: DiscountAmount, Value: decimal.RequireFromString("41.00")})
	if !errors.Is(err, ErrInvalidDiscount) {
		t.Errorf("expected ErrInvalidDiscount, got %v", err)
	}
	mustTotal(t, c, "30.00")

	err = c.ApplyDiscount(Discount{Kind: DiscountPercent, Value: decimal.RequireFromString("101")})
	if !errors.Is(err, ErrInvalidDiscount) {
		t.Errorf("expected ErrInvalidDiscount for >100%%, got %v", err)
	}

	err = c.ApplyDiscount(Discount{Kind: DiscountAmount, Value: decimal.RequireFromString("-1")})
	if !errors.Is(err, ErrInvalidDiscount) {
		t.Errorf("expected ErrInvalidDiscount for negative, got %v", err)
	}
}

func TestSetLineDiscount(t *testing.T) {
	c := NewCart()
	if err := c.AddItem(productA(10), 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := c.SetLineDiscount("part-a", decimal.RequireFromString("3.50")); err != nil {
		t.Fatalf("line discount failed: %v", err)
	}
	mustTotal(t, c, "16.50")

	if err := c.SetLineDiscount("ghost", decimal.Zero); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
	if err := c.SetLineDiscount("part-a", decimal.RequireFromString("20.01")); !errors.Is(err, ErrInvalidDiscount) {
		t.Errorf("expected ErrInvalidDiscount above line subtotal, got %v", err)
	}
}

func TestTotals_OrderIndependent(t *testing.T) {
	prices := map[string]string{"p1": "3.25", "p2": "7.10", "p3": "0.99"}

	build := func(order []string) *Cart {
		c := NewCart()
		for _, id := range order {
			info := ProductInfo{
				ProductID: id,
				Name:      id,
				UnitPrice: decimal.RequireFromString(prices[id]),
				Available: 100,
			}
			if err := c.AddItem(info, 3); err != nil {
				t.Fatalf("add %s failed: %v", id, err)
			}
		}
		return c
	}

	a := build([]string{"p1", "p2", "p3"})
	b := build([]string{"p3", "p1", "p2"})
	if !a.Total().Equal(b.Total()) {
		t.Errorf("totals differ by insertion order: %s vs %s", a.Total(), b.Total())
	}
}

func TestClear_ResetsEverything(t *testing.T) {
	c := NewCart()
	if err := c.AddItem(productA(10), 4); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := c.ApplyDiscount(Discount{Kind: DiscountAmount, Value: decimal.RequireFromString("5.00")}); err != nil {
		t.Fatalf("discount failed: %v", err)
	}

	c.Clear()

	if c.Len() != 0 {
		t.Errorf("expected 0 lines, got %d", c.Len())
	}
	mustTotal(t, c, "0.00")
	if !c.DiscountTotal().IsZero() {
		t.Errorf("expected zero discount after clear, got %s", c.DiscountTotal())
	}

	// cleared cart accepts new lines under a fresh index
	if err := c.AddItem(productA(10), 1); err != nil {
		t.Fatalf("add after clear failed: %v", err)
	}
	mustTotal(t, c, "10.00")
}
