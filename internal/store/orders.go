package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mobilestore/internal/models"
)

// statusTimestampColumns maps a target status to the column stamped when the
// transition is applied. Pending stamps nothing.
var statusTimestampColumns = map[string]string{
	models.OrderStatusConfirmed: "confirmed_at",
	models.OrderStatusShipping:  "shipped_at",
	models.OrderStatusDelivered: "delivered_at",
	models.OrderStatusCancelled: "cancelled_at",
}

// CreateOrder persists an order and its line items in one transaction.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowxContext(ctx, `
		INSERT INTO orders (id, user_id, full_name, address, city, phone,
			payment_method, items_price, shipping_price, total_price,
			is_paid, paid_at, payment_status, order_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at`,
		order.ID, order.UserID, order.FullName, order.Address, order.City, order.Phone,
		order.PaymentMethod, order.ItemsPrice, order.ShippingPrice, order.TotalPrice,
		order.IsPaid, order.PaidAt, order.PaymentStatus, order.OrderStatus,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range items {
		items[i].OrderID = order.ID
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, name, amount, price)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			items[i].ID, items[i].OrderID, items[i].ProductID,
			items[i].Name, items[i].Amount, items[i].Price); err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	order.Items = items
	return nil
}

// GetOrderByID retrieves an order with its items, or nil when absent.
func (s *Store) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadItems(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderScoped retrieves an order by id, restricted to the owner unless the
// caller is an admin. A miss and a denial look the same: nil.
func (s *Store) GetOrderScoped(ctx context.Context, orderID, callerID string, admin bool) (*models.Order, error) {
	var order models.Order
	var err error
	if admin {
		err = s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", orderID)
	} else {
		err = s.db.GetContext(ctx, &order,
			"SELECT * FROM orders WHERE id = $1 AND user_id = $2", orderID, callerID)
	}
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadItems(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders retrieves all orders, newest first.
func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders, "SELECT * FROM orders ORDER BY created_at DESC")
	return orders, err
}

// ListOrdersByUser retrieves a user's orders, newest first.
func (s *Store) ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return orders, err
}

// UpdateOrderStatus applies a status transition scoped by the admin-or-owner
// rule, stamping the status timestamp in the same statement. Returns the
// updated order, or nil when no order matched the scope.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID, callerID string, admin bool, status string, now time.Time) (*models.Order, error) {
	set := "order_status = $1, updated_at = NOW()"
	args := []interface{}{status}
	if col, ok := statusTimestampColumns[status]; ok {
		args = append(args, now)
		set += fmt.Sprintf(", %s = $%d", col, len(args))
	}

	args = append(args, orderID)
	where := fmt.Sprintf("id = $%d", len(args))
	if !admin {
		args = append(args, callerID)
		where += fmt.Sprintf(" AND user_id = $%d", len(args))
	}

	var order models.Order
	query := fmt.Sprintf("UPDATE orders SET %s WHERE %s RETURNING *", set, where)
	err := s.db.GetContext(ctx, &order, query, args...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadItems(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// DeleteOrder removes an order scoped by the admin-or-owner rule and returns
// the removed order with its items, or nil when nothing matched.
func (s *Store) DeleteOrder(ctx context.Context, orderID, callerID string, admin bool) (*models.Order, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var order models.Order
	if admin {
		err = tx.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1 FOR UPDATE", orderID)
	} else {
		err = tx.GetContext(ctx, &order,
			"SELECT * FROM orders WHERE id = $1 AND user_id = $2 FOR UPDATE", orderID, callerID)
	}
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := tx.SelectContext(ctx, &order.Items,
		"SELECT * FROM order_items WHERE order_id = $1", order.ID); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = $1", order.ID); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", order.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &order, nil
}

// SetPaymentStatus updates the payment status of an order. When the status
// becomes Paid the is_paid flag and paid_at are stamped as well.
func (s *Store) SetPaymentStatus(ctx context.Context, orderID, status string, now time.Time) (*models.Order, error) {
	var order models.Order
	var err error
	if status == models.PaymentStatusPaid {
		err = s.db.GetContext(ctx, &order, `
			UPDATE orders
			SET payment_status = $2, is_paid = TRUE, paid_at = $3, updated_at = NOW()
			WHERE id = $1
			RETURNING *`, orderID, status, now)
	} else {
		err = s.db.GetContext(ctx, &order, `
			UPDATE orders
			SET payment_status = $2, updated_at = NOW()
			WHERE id = $1
			RETURNING *`, orderID, status)
	}
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadItems(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Store) loadItems(ctx context.Context, order *models.Order) error {
	return s.db.SelectContext(ctx, &order.Items,
		"SELECT * FROM order_items WHERE order_id = $1", order.ID)
}
