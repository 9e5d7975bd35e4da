package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hansajayathilaka/go-inventory-sub000/internal/core/domain"
)

// ErrStockConflict is returned when a sale would drive catalog stock for a
// line below zero, e.g. another terminal sold the same part first.
var ErrStockConflict = errors.New("stock conflict")

// MySQLAdapter is the catalog source of truth and the sale archive.
type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) GetProduct(ctx context.Context, productID string) (domain.ProductInfo, error) {
	var (
		info  domain.ProductInfo
		price string
	)
	err := m.db.QueryRowContext(ctx, `
		SELECT id, name, unit_price, stock
		FROM products WHERE id = ?`, productID,
	).Scan(&info.ProductID, &info.Name, &price, &info.Available)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.ProductInfo{}, domain.ErrProductNotFound
	}
	if err != nil {
		return domain.ProductInfo{}, fmt.Errorf("query product: %w", err)
	}

	info.UnitPrice, err = decimal.NewFromString(price)
	if err != nil {
		return domain.ProductInfo{}, fmt.Errorf("parse unit_price for %s: %w", productID, err)
	}
	return info, nil
}

// SaveSale inserts the sale header and lines and decrements catalog stock
// for every line in one transaction.
func (m *MySQLAdapter) SaveSale(ctx context.Context, sale domain.Sale) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales (id, session_id, subtotal, discount_total, total, method, reference, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sale.ID, sale.SessionID, sale.Subtotal.String(), sale.DiscountTotal.String(),
		sale.Total.String(), sale.Method, sale.Reference, sale.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	for _, line := range sale.Lines {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sale_items (sale_id, product_id, name, unit_price, quantity, line_discount, line_total)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			sale.ID, line.ProductID, line.Name, line.UnitPrice.String(),
			line.Quantity, line.LineDiscount.String(), line.LineTotal.String(),
		)
		if err != nil {
			return fmt.Errorf("insert sale item %s: %w", line.ProductID, err)
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock = stock - ?, updated_at = NOW()
			WHERE id = ? AND stock >= ?`,
			line.Quantity, line.ProductID, line.Quantity,
		)
		if err != nil {
			return fmt.Errorf("decrement stock for %s: %w", line.ProductID, err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return ErrStockConflict
		}
	}

	return tx.Commit()
}
