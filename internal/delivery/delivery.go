package delivery

import (
	"context"
	"time"

	db "github.com/manokmart/manokmart-BE/internal/db"
	"github.com/manokmart/manokmart-BE/internal/event"
	"github.com/manokmart/manokmart-BE/internal/lalamove"
	"github.com/manokmart/manokmart-BE/internal/util"
	"github.com/manokmart/manokmart-BE/internal/worker"
	"github.com/redis/go-redis/v9"
)

// Provider is the slice of the delivery provider API the orchestrator needs.
// Satisfied by *lalamove.Client; tests swap in a double.
type Provider interface {
	GetQuotation(ctx context.Context, params lalamove.QuotationParams) (*lalamove.Quotation, error)
	PlaceOrder(ctx context.Context, params lalamove.PlaceOrderParams) (*lalamove.Order, error)
	GetOrder(ctx context.Context, orderID string) (*lalamove.Order, error)
	CancelOrder(ctx context.Context, orderID string) error
	GetDriver(ctx context.Context, orderID string) (*lalamove.Driver, error)
	GetDriverLocation(ctx context.Context, orderID string) (*lalamove.DriverLocation, error)
}

// DeliveryUpdateEvent is broadcast to the order's and the buyer's subscriber
// channels whenever the delivery sub-record changes.
type DeliveryUpdateEvent struct {
	OrderID         string                `json:"orderId"`
	DeliveryStatus  string                `json:"deliveryStatus"`
	Driver          *lalamove.Driver      `json:"driver,omitempty"`
	CurrentLocation *lalamove.Coordinates `json:"currentLocation,omitempty"`
}

// OrderUpdateEvent is broadcast when the marketplace order itself changes
// status as a result of a delivery transition.
type OrderUpdateEvent struct {
	OrderID string         `json:"orderId"`
	Status  db.OrderStatus `json:"status"`
}

// Orchestrator bridges marketplace orders to the delivery provider: it
// builds the pickup/dropoff route, runs the two-phase quote → order
// protocol, and persists the resulting delivery state.
//
// Callers must not invoke it concurrently for the same order id; the
// delivery sub-record is written last-write-wins.
type Orchestrator struct {
	provider    Provider
	store       db.Store
	distributor worker.TaskDistributor
	inspector   worker.TaskInspector
	eventSender event.EventSender
	cache       *redis.Client

	redispatchDelay    time.Duration
	defaultSenderPhone string
}

func NewOrchestrator(
	provider Provider,
	store db.Store,
	distributor worker.TaskDistributor,
	inspector worker.TaskInspector,
	eventSender event.EventSender,
	cache *redis.Client,
	config *util.Config,
) *Orchestrator {
	return &Orchestrator{
		provider:           provider,
		store:              store,
		distributor:        distributor,
		inspector:          inspector,
		eventSender:        eventSender,
		cache:              cache,
		redispatchDelay:    config.DeliveryRedispatchDelay,
		defaultSenderPhone: config.LalamoveAPIUser,
	}
}

func (o *Orchestrator) broadcastDeliveryUpdate(order db.Order, data DeliveryUpdateEvent) {
	if o.eventSender == nil {
		return
	}
	o.eventSender.Broadcast(event.Event{
		Topic: event.OrderTopic(order.ID),
		Type:  event.EventTypeDeliveryUpdate,
		Data:  data,
	})
	o.eventSender.Broadcast(event.Event{
		Topic: event.UserTopic(order.BuyerID),
		Type:  event.EventTypeDeliveryUpdate,
		Data:  data,
	})
}
