package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier lists all single-statement queries this service runs. The order
// rows themselves are owned by the order subsystem; this core reads them and
// writes only their status and the order_deliveries sub-record.
type Querier interface {
	GetOrderByID(ctx context.Context, id string) (Order, error)
	UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error)
	ListDeliveredOrdersBefore(ctx context.Context, cutoff time.Time) ([]Order, error)
	GetOrderDeliveryByOrderID(ctx context.Context, orderID string) (OrderDelivery, error)
	GetOrderDeliveryByProviderOrderID(ctx context.Context, providerOrderID string) (OrderDelivery, error)
	CreateOrderDelivery(ctx context.Context, arg CreateOrderDeliveryParams) (OrderDelivery, error)
	UpsertOrderDelivery(ctx context.Context, arg UpsertOrderDeliveryParams) (OrderDelivery, error)
	UpdateOrderDelivery(ctx context.Context, arg UpdateOrderDeliveryParams) (OrderDelivery, error)
	GetActiveOrderDeliveries(ctx context.Context) ([]GetActiveOrderDeliveriesRow, error)
	CreateNotification(ctx context.Context, arg CreateNotificationParams) (Notification, error)
}

// Store provides all functions to execute db queries and transactions.
type Store interface {
	Querier
	Ping(ctx context.Context) error
}

type SQLStore struct {
	*Queries
	connPool *pgxpool.Pool
}

// NewStore creates a new Store.
func NewStore(db *pgxpool.Pool) Store {
	return &SQLStore{
		Queries:  New(db),
		connPool: db,
	}
}

// Ping checks if the database connection is alive.
func (store *SQLStore) Ping(ctx context.Context) error {
	return store.connPool.Ping(ctx)
}
