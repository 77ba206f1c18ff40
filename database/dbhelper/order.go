package dbhelper

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ray-remotestate/qrmenu/models"
)

const orderColumns = `id, order_id, customer_name, college_name, roll_number, phone_number, payment_method,
	items, subtotal, gst, packing_fee, total, created_at, bill_downloaded`

func OrderIDExists(ctx context.Context, db SQLExecutor, orderID string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE order_id = $1)`, orderID).Scan(&exists)
	return exists, err
}

func CreateOrder(ctx context.Context, db SQLExecutor, order *models.Order) (int64, error) {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return 0, fmt.Errorf("failed to encode line items: %w", err)
	}

	var id int64
	err = db.QueryRowContext(ctx, `
		INSERT INTO orders (
			order_id, customer_name, college_name, roll_number, phone_number, payment_method,
			items, subtotal, gst, packing_fee, total, created_at, bill_downloaded
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`,
		order.OrderID, order.CustomerName, order.CollegeName, order.RollNumber, order.PhoneNumber, order.PaymentMethod,
		string(items), order.Subtotal, order.Tax, order.PackingFee, order.Total, order.CreatedAt, order.BillDownloaded).
		Scan(&id)
	return id, err
}

func GetOrderByOrderID(ctx context.Context, db SQLExecutor, orderID string) (*models.Order, error) {
	row := db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_id = $1`, orderID)
	return scanOrder(row)
}

func ListRecentOrders(ctx context.Context, db SQLExecutor, limit int) ([]models.Order, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]models.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

// MarkBillDownloaded sets the flag; it reports false when no order has that id.
func MarkBillDownloaded(ctx context.Context, db SQLExecutor, orderID string) (bool, error) {
	res, err := db.ExecContext(ctx, `UPDATE orders SET bill_downloaded = TRUE WHERE order_id = $1`, orderID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func scanOrder(s scanner) (*models.Order, error) {
	var (
		order models.Order
		items []byte
	)
	err := s.Scan(
		&order.ID,
		&order.OrderID,
		&order.CustomerName,
		&order.CollegeName,
		&order.RollNumber,
		&order.PhoneNumber,
		&order.PaymentMethod,
		&items,
		&order.Subtotal,
		&order.Tax,
		&order.PackingFee,
		&order.Total,
		&order.CreatedAt,
		&order.BillDownloaded,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, fmt.Errorf("failed to decode line items of order %s: %w", order.OrderID, err)
	}
	return &order, nil
}
