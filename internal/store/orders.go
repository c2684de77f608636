package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"crm-service/internal/models"
)

// orderUpdatable is the allow-list of mutable order columns.
// total_cents is deliberately absent: it is derived from the order's
// items and only ever rewritten by the composite create.
var orderUpdatable = []string{"status", "notes"}

// ListOrders returns all orders newest first, each joined with its
// customer's name.
func (s *Store) ListOrders(ctx context.Context) ([]models.OrderSummary, error) {
	orders := []models.OrderSummary{}
	err := s.db.SelectContext(ctx, &orders,
		"SELECT o.*, cu.name AS customer_name FROM orders o JOIN customers cu ON cu.id = o.customer_id ORDER BY o.created_at DESC")
	return orders, err
}

// GetOrder returns an order enriched with its items, each joined with
// the referenced product's sku and name.
func (s *Store) GetOrder(ctx context.Context, id int64) (*models.OrderDetail, error) {
	order, err := s.orderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &models.OrderDetail{
		Order: *order,
		Items: []models.OrderItemDetail{},
	}
	err = s.db.SelectContext(ctx, &detail.Items,
		"SELECT oi.*, p.sku, p.name FROM order_items oi JOIN products p ON p.id = oi.product_id WHERE order_id = ?", id)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// CreateOrder runs the composite order transaction: insert the order
// with a zero placeholder total, insert a line per resolvable item, then
// write back the recomputed total. The whole sequence commits as one
// transaction so readers never observe a half-written order.
//
// An item whose product_id matches no product is dropped without error.
// That is observed upstream behavior kept as a contract; callers can
// detect it by comparing requested and returned item counts.
func (s *Store) CreateOrder(ctx context.Context, fields map[string]any) (*models.CreatedOrder, error) {
	customerID, err := requireInt(fields, "customer_id")
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	items, _ := fields["items"].([]any)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := nowISO()
	res, err := tx.ExecContext(ctx,
		"INSERT INTO orders(customer_id, status, total_cents, currency, notes, created_at, updated_at) VALUES (?,?,?,?,?,?,?)",
		customerID, models.OrderStatusPending, 0,
		valueOr(fields, "currency", "USD"),
		fields["notes"],
		now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	var total int64
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		productID, err := requireInt(item, "product_id")
		if err != nil {
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
		quantity := intOrDefault(item, "quantity", 1)

		var priceCents int64
		err = tx.GetContext(ctx, &priceCents,
			"SELECT price_cents FROM products WHERE id = ?", productID)
		if errors.Is(err, sql.ErrNoRows) {
			// Unknown product: the item is skipped, not an error.
			continue
		}
		if err != nil {
			return nil, err
		}

		unit := intOrDefault(item, "unit_price_cents", priceCents)
		line := unit * quantity
		total += line

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO order_items(order_id, product_id, quantity, unit_price_cents, line_total_cents) VALUES (?,?,?,?,?)",
			orderID, productID, quantity, unit, line); err != nil {
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE orders SET total_cents = ?, updated_at = ? WHERE id = ?",
		total, nowISO(), orderID); err != nil {
		return nil, fmt.Errorf("failed to finalize order total: %w", err)
	}
	recordActivity(ctx, tx, "order", orderID, "created")

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	order, err := s.orderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	created := &models.CreatedOrder{
		Order: *order,
		Items: []models.OrderItem{},
	}
	err = s.db.SelectContext(ctx, &created.Items,
		"SELECT * FROM order_items WHERE order_id = ?", orderID)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateOrder applies the allow-listed subset of fields and refreshes
// updated_at unconditionally, then returns the post-update row.
func (s *Store) UpdateOrder(ctx context.Context, id int64, fields map[string]any) (*models.Order, error) {
	sets := make([]string, 0, len(orderUpdatable)+1)
	args := make([]any, 0, len(orderUpdatable)+2)
	for _, col := range orderUpdatable {
		v, ok := fields[col]
		if !ok || (v == nil && defaultedCols[col]) {
			continue
		}
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, nowISO(), id)

	if _, err := s.db.ExecContext(ctx,
		"UPDATE orders SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	recordActivity(ctx, s.db, "order", id, "updated")
	return s.orderByID(ctx, id)
}

// DeleteOrder removes an order and (by cascade) its items; cases that
// referenced it keep existing with order_id set to null. Deleting an
// absent id is a successful no-op.
func (s *Store) DeleteOrder(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM orders WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	recordActivity(ctx, s.db, "order", id, "deleted")
	return nil
}

func (s *Store) orderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}
