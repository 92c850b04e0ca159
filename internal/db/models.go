package db

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPackaging  OrderStatus = "packaging"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusFailed     OrderStatus = "failed"
	OrderStatusCanceled   OrderStatus = "canceled"
)

// Order is the marketplace order record. Everything except Status is
// read-only from this service's point of view; the catalog/checkout
// subsystem owns the rest.
type Order struct {
	ID            string      `json:"id"`
	Code          string      `json:"code"`
	BuyerID       string      `json:"buyer_id"`
	SellerID      string      `json:"seller_id"`
	Status        OrderStatus `json:"status"`
	ItemsSubtotal int64       `json:"items_subtotal"`
	DeliveryFee   int64       `json:"delivery_fee"`
	TotalAmount   int64       `json:"total_amount"`
	Note          *string     `json:"note"`
	BuyerName     string      `json:"buyer_name"`
	BuyerPhone    string      `json:"buyer_phone"`
	BuyerAddress  string      `json:"buyer_address"`
	BuyerLat      string      `json:"buyer_lat"`
	BuyerLng      string      `json:"buyer_lng"`
	SellerName    string      `json:"seller_name"`
	SellerPhone   string      `json:"seller_phone"`
	SellerAddress string      `json:"seller_address"`
	SellerLat     string      `json:"seller_lat"`
	SellerLng     string      `json:"seller_lng"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// OrderDelivery is the delivery sub-record attached to an order. Written
// exclusively by the delivery orchestrator and the webhook dispatcher.
type OrderDelivery struct {
	ID              int64     `json:"id"`
	OrderID         string    `json:"order_id"`
	ProviderOrderID *string   `json:"provider_order_id"`
	QuotationID     *string   `json:"quotation_id"`
	Status          *string   `json:"status"`
	ServiceType     string    `json:"service_type"`
	PriceAmount     *string   `json:"price_amount"`
	PriceCurrency   *string   `json:"price_currency"`
	DriverName      *string   `json:"driver_name"`
	DriverPhone     *string   `json:"driver_phone"`
	DriverPlate     *string   `json:"driver_plate"`
	DriverPhoto     *string   `json:"driver_photo"`
	TrackingLat     *string   `json:"tracking_lat"`
	TrackingLng     *string   `json:"tracking_lng"`
	PickupStopID    *string   `json:"pickup_stop_id"`
	DropoffStopID   *string   `json:"dropoff_stop_id"`
	Reference       string    `json:"reference"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Notification struct {
	ID          int64     `json:"id"`
	RecipientID string    `json:"recipient_id"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Type        string    `json:"type"`
	ReferenceID string    `json:"reference_id"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}
