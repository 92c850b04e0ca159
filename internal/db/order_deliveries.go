package db

import (
	"context"
)

const orderDeliveryColumns = `id, order_id, provider_order_id, quotation_id, status, service_type,
price_amount, price_currency, driver_name, driver_phone, driver_plate, driver_photo,
tracking_lat, tracking_lng, pickup_stop_id, dropoff_stop_id, reference, created_at, updated_at`

func scanOrderDelivery(row interface{ Scan(dest ...any) error }) (OrderDelivery, error) {
	var d OrderDelivery
	err := row.Scan(
		&d.ID, &d.OrderID, &d.ProviderOrderID, &d.QuotationID, &d.Status, &d.ServiceType,
		&d.PriceAmount, &d.PriceCurrency, &d.DriverName, &d.DriverPhone, &d.DriverPlate, &d.DriverPhoto,
		&d.TrackingLat, &d.TrackingLng, &d.PickupStopID, &d.DropoffStopID, &d.Reference,
		&d.CreatedAt, &d.UpdatedAt,
	)
	return d, err
}

const getOrderDeliveryByOrderID = `
SELECT ` + orderDeliveryColumns + `
FROM order_deliveries
WHERE order_id = $1
`

func (q *Queries) GetOrderDeliveryByOrderID(ctx context.Context, orderID string) (OrderDelivery, error) {
	return scanOrderDelivery(q.db.QueryRow(ctx, getOrderDeliveryByOrderID, orderID))
}

const getOrderDeliveryByProviderOrderID = `
SELECT ` + orderDeliveryColumns + `
FROM order_deliveries
WHERE provider_order_id = $1
`

func (q *Queries) GetOrderDeliveryByProviderOrderID(ctx context.Context, providerOrderID string) (OrderDelivery, error) {
	return scanOrderDelivery(q.db.QueryRow(ctx, getOrderDeliveryByProviderOrderID, providerOrderID))
}

type CreateOrderDeliveryParams struct {
	OrderID         string  `json:"order_id"`
	ProviderOrderID *string `json:"provider_order_id"`
	QuotationID     *string `json:"quotation_id"`
	Status          *string `json:"status"`
	ServiceType     string  `json:"service_type"`
	PriceAmount     *string `json:"price_amount"`
	PriceCurrency   *string `json:"price_currency"`
	PickupStopID    *string `json:"pickup_stop_id"`
	DropoffStopID   *string `json:"dropoff_stop_id"`
	Reference       string  `json:"reference"`
}

// One delivery record per order, enforced by the unique index on order_id.
// A second insert for the same order fails with UniqueOrderDeliveryConstraint
// and the caller decides whether overwriting is legitimate.
const createOrderDelivery = `
INSERT INTO order_deliveries (
	order_id, provider_order_id, quotation_id, status, service_type,
	price_amount, price_currency, pickup_stop_id, dropoff_stop_id, reference
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + orderDeliveryColumns + `
`

func (q *Queries) CreateOrderDelivery(ctx context.Context, arg CreateOrderDeliveryParams) (OrderDelivery, error) {
	return scanOrderDelivery(q.db.QueryRow(ctx, createOrderDelivery,
		arg.OrderID, arg.ProviderOrderID, arg.QuotationID, arg.Status, arg.ServiceType,
		arg.PriceAmount, arg.PriceCurrency, arg.PickupStopID, arg.DropoffStopID, arg.Reference,
	))
}

type UpsertOrderDeliveryParams struct {
	OrderID         string  `json:"order_id"`
	ProviderOrderID *string `json:"provider_order_id"`
	QuotationID     *string `json:"quotation_id"`
	Status          *string `json:"status"`
	ServiceType     string  `json:"service_type"`
	PriceAmount     *string `json:"price_amount"`
	PriceCurrency   *string `json:"price_currency"`
	PickupStopID    *string `json:"pickup_stop_id"`
	DropoffStopID   *string `json:"dropoff_stop_id"`
	Reference       string  `json:"reference"`
}

// Re-dispatch path: overwrites the previous attempt's provider ids and
// clears stale driver/tracking fields. Last write wins.
const upsertOrderDelivery = `
INSERT INTO order_deliveries (
	order_id, provider_order_id, quotation_id, status, service_type,
	price_amount, price_currency, pickup_stop_id, dropoff_stop_id, reference
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (order_id) DO UPDATE SET
	provider_order_id = EXCLUDED.provider_order_id,
	quotation_id = EXCLUDED.quotation_id,
	status = EXCLUDED.status,
	service_type = EXCLUDED.service_type,
	price_amount = EXCLUDED.price_amount,
	price_currency = EXCLUDED.price_currency,
	pickup_stop_id = EXCLUDED.pickup_stop_id,
	dropoff_stop_id = EXCLUDED.dropoff_stop_id,
	reference = EXCLUDED.reference,
	driver_name = NULL,
	driver_phone = NULL,
	driver_plate = NULL,
	driver_photo = NULL,
	tracking_lat = NULL,
	tracking_lng = NULL,
	updated_at = now()
RETURNING ` + orderDeliveryColumns + `
`

func (q *Queries) UpsertOrderDelivery(ctx context.Context, arg UpsertOrderDeliveryParams) (OrderDelivery, error) {
	return scanOrderDelivery(q.db.QueryRow(ctx, upsertOrderDelivery,
		arg.OrderID, arg.ProviderOrderID, arg.QuotationID, arg.Status, arg.ServiceType,
		arg.PriceAmount, arg.PriceCurrency, arg.PickupStopID, arg.DropoffStopID, arg.Reference,
	))
}

type UpdateOrderDeliveryParams struct {
	ID          int64   `json:"id"`
	Status      *string `json:"status"`
	DriverName  *string `json:"driver_name"`
	DriverPhone *string `json:"driver_phone"`
	DriverPlate *string `json:"driver_plate"`
	DriverPhoto *string `json:"driver_photo"`
	TrackingLat *string `json:"tracking_lat"`
	TrackingLng *string `json:"tracking_lng"`
}

// Set-based update: nil params leave the column untouched, non-nil params
// overwrite it. Applying the same webhook event twice converges to the same
// row, which is what makes replays safe.
const updateOrderDelivery = `
UPDATE order_deliveries
SET status = COALESCE($2, status),
	driver_name = COALESCE($3, driver_name),
	driver_phone = COALESCE($4, driver_phone),
	driver_plate = COALESCE($5, driver_plate),
	driver_photo = COALESCE($6, driver_photo),
	tracking_lat = COALESCE($7, tracking_lat),
	tracking_lng = COALESCE($8, tracking_lng),
	updated_at = now()
WHERE id = $1
RETURNING ` + orderDeliveryColumns + `
`

func (q *Queries) UpdateOrderDelivery(ctx context.Context, arg UpdateOrderDeliveryParams) (OrderDelivery, error) {
	return scanOrderDelivery(q.db.QueryRow(ctx, updateOrderDelivery,
		arg.ID, arg.Status, arg.DriverName, arg.DriverPhone, arg.DriverPlate, arg.DriverPhoto,
		arg.TrackingLat, arg.TrackingLng,
	))
}

type GetActiveOrderDeliveriesRow struct {
	OrderDelivery
	OrderCode   string      `json:"order_code"`
	OrderStatus OrderStatus `json:"order_status"`
	BuyerID     string      `json:"buyer_id"`
	SellerID    string      `json:"seller_id"`
}

// Deliveries the status poller still needs to reconcile: dispatched to the
// provider and not yet in a terminal provider state.
const getActiveOrderDeliveries = `
SELECT d.id, d.order_id, d.provider_order_id, d.quotation_id, d.status, d.service_type,
	d.price_amount, d.price_currency, d.driver_name, d.driver_phone, d.driver_plate, d.driver_photo,
	d.tracking_lat, d.tracking_lng, d.pickup_stop_id, d.dropoff_stop_id, d.reference, d.created_at, d.updated_at,
	o.code, o.status, o.buyer_id, o.seller_id
FROM order_deliveries d
JOIN orders o ON o.id = d.order_id
WHERE d.provider_order_id IS NOT NULL
	AND d.status IS NOT NULL
	AND d.status NOT IN ('COMPLETED', 'CANCELED', 'REJECTED', 'EXPIRED')
ORDER BY d.updated_at
`

func (q *Queries) GetActiveOrderDeliveries(ctx context.Context) ([]GetActiveOrderDeliveriesRow, error) {
	rows, err := q.db.Query(ctx, getActiveOrderDeliveries)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []GetActiveOrderDeliveriesRow
	for rows.Next() {
		var r GetActiveOrderDeliveriesRow
		if err = rows.Scan(
			&r.ID, &r.OrderID, &r.ProviderOrderID, &r.QuotationID, &r.Status, &r.ServiceType,
			&r.PriceAmount, &r.PriceCurrency, &r.DriverName, &r.DriverPhone, &r.DriverPlate, &r.DriverPhoto,
			&r.TrackingLat, &r.TrackingLng, &r.PickupStopID, &r.DropoffStopID, &r.Reference,
			&r.CreatedAt, &r.UpdatedAt,
			&r.OrderCode, &r.OrderStatus, &r.BuyerID, &r.SellerID,
		); err != nil {
			return nil, err
		}
		items = append(items, r)
	}

	return items, rows.Err()
}
