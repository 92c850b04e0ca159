package db

import (
	"context"
	"time"
)

const orderColumns = `id, code, buyer_id, seller_id, status, items_subtotal, delivery_fee, total_amount, note,
buyer_name, buyer_phone, buyer_address, buyer_lat, buyer_lng,
seller_name, seller_phone, seller_address, seller_lat, seller_lng,
created_at, updated_at`

func scanOrder(row interface{ Scan(dest ...any) error }) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.Code, &o.BuyerID, &o.SellerID, &o.Status,
		&o.ItemsSubtotal, &o.DeliveryFee, &o.TotalAmount, &o.Note,
		&o.BuyerName, &o.BuyerPhone, &o.BuyerAddress, &o.BuyerLat, &o.BuyerLng,
		&o.SellerName, &o.SellerPhone, &o.SellerAddress, &o.SellerLat, &o.SellerLng,
		&o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

const getOrderByID = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1
`

func (q *Queries) GetOrderByID(ctx context.Context, id string) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrderByID, id))
}

type UpdateOrderStatusParams struct {
	OrderID string      `json:"order_id"`
	Status  OrderStatus `json:"status"`
}

const updateOrderStatus = `
UPDATE orders
SET status = $2, updated_at = now()
WHERE id = $1
RETURNING ` + orderColumns + `
`

func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, updateOrderStatus, arg.OrderID, arg.Status))
}

// Delivered orders the buyer never confirmed, used by the auto-complete job.
const listDeliveredOrdersBefore = `
SELECT ` + orderColumns + `
FROM orders
WHERE status = 'delivered' AND updated_at < $1
ORDER BY updated_at
`

func (q *Queries) ListDeliveredOrdersBefore(ctx context.Context, cutoff time.Time) ([]Order, error) {
	rows, err := q.db.Query(ctx, listDeliveredOrdersBefore, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}

	return items, rows.Err()
}
