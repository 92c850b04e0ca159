package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	db "github.com/manokmart/manokmart-BE/internal/db"
	"github.com/manokmart/manokmart-BE/internal/event"
	"github.com/manokmart/manokmart-BE/internal/lalamove"
	"github.com/manokmart/manokmart-BE/internal/util"
	"github.com/manokmart/manokmart-BE/internal/worker"
	"github.com/rs/zerolog/log"
)

const driverLocationTTL = 10 * time.Minute

// MapProviderStatus translates a provider delivery status into the
// marketplace order status it implies, if any. ASSIGNING_DRIVER and ON_GOING
// leave the order where it is; CANCELED only cancels the delivery, never the
// order.
func MapProviderStatus(status string) (db.OrderStatus, bool) {
	switch status {
	case lalamove.StatusPickedUp:
		return db.OrderStatusDelivering, true
	case lalamove.StatusCompleted:
		return db.OrderStatusDelivered, true
	case lalamove.StatusRejected, lalamove.StatusExpired:
		return db.OrderStatusFailed, true
	}
	return "", false
}

// StatusUpdate is one provider-side state change, whether it arrived by
// webhook or was picked up by the poller.
type StatusUpdate struct {
	ProviderOrderID string
	Status          string
	Driver          *lalamove.Driver
	Location        *lalamove.Coordinates
	Reason          string
}

// ApplyStatusUpdate writes a provider state change onto the order's delivery
// sub-record and, when the status implies it, transitions the marketplace
// order itself. Updates are set-based overwrites, so replaying the same
// event is harmless: the second application changes nothing.
//
// Returns db.ErrRecordNotFound when no delivery matches the provider order
// id; callers must not create orders as a side effect of unknown events.
func (o *Orchestrator) ApplyStatusUpdate(ctx context.Context, update StatusUpdate) (*db.OrderDelivery, error) {
	delivery, err := o.store.GetOrderDeliveryByProviderOrderID(ctx, update.ProviderOrderID)
	if err != nil {
		return nil, err
	}

	params := db.UpdateOrderDeliveryParams{
		ID:     delivery.ID,
		Status: util.StringPointer(update.Status),
	}
	if update.Driver != nil {
		params.DriverName = util.StringPointer(update.Driver.Name)
		params.DriverPhone = util.StringPointer(update.Driver.Phone)
		params.DriverPlate = util.StringPointer(update.Driver.PlateNumber)
		if update.Driver.Photo != "" {
			params.DriverPhoto = util.StringPointer(update.Driver.Photo)
		}
	}
	if update.Location != nil {
		params.TrackingLat = util.StringPointer(update.Location.Lat)
		params.TrackingLng = util.StringPointer(update.Location.Lng)
	}

	updated, err := o.store.UpdateOrderDelivery(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to update delivery %d: %w", delivery.ID, err)
	}

	if update.Location != nil {
		o.cacheDriverLocation(ctx, update.ProviderOrderID, update.Location)
	}

	order, err := o.store.GetOrderByID(ctx, delivery.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order %s: %w", delivery.OrderID, err)
	}

	log.Info().
		Str("order_code", order.Code).
		Str("provider_order_id", update.ProviderOrderID).
		Str("delivery_status", update.Status).
		Msg("delivery status updated")

	if mapped, ok := MapProviderStatus(update.Status); ok && order.Status != mapped {
		order, err = o.store.UpdateOrderStatus(ctx, db.UpdateOrderStatusParams{
			OrderID: order.ID,
			Status:  mapped,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to update order %s status: %w", delivery.OrderID, err)
		}
		log.Info().Str("order_code", order.Code).Msgf("order status has been updated to %q", order.Status)

		o.afterOrderTransition(ctx, order, updated, mapped, update.Reason)
	}

	o.broadcastDeliveryUpdate(order, DeliveryUpdateEvent{
		OrderID:         order.ID,
		DeliveryStatus:  update.Status,
		Driver:          update.Driver,
		CurrentLocation: update.Location,
	})

	return &updated, nil
}

// afterOrderTransition sends the user-facing follow-ups of an order status
// change: notifications, order events, and cleanup of a pending re-dispatch
// once the order is terminal.
func (o *Orchestrator) afterOrderTransition(ctx context.Context, order db.Order, delivery db.OrderDelivery, status db.OrderStatus, reason string) {
	if o.eventSender != nil {
		data := OrderUpdateEvent{OrderID: order.ID, Status: status}
		o.eventSender.Broadcast(event.Event{Topic: event.OrderTopic(order.ID), Type: event.EventTypeOrderUpdate, Data: data})
		o.eventSender.Broadcast(event.Event{Topic: event.UserTopic(order.BuyerID), Type: event.EventTypeOrderUpdate, Data: data})
	}

	if o.inspector != nil && (status == db.OrderStatusDelivered || status == db.OrderStatusFailed) {
		// A re-dispatch scheduled before the terminal state would dispatch a
		// courier for an order that no longer needs one.
		if err := o.inspector.DeleteTask(ctx, worker.QueueDefault, worker.RedispatchTaskID(order.ID)); err != nil {
			log.Debug().Err(err).Str("order_code", order.Code).Msg("no pending re-dispatch to delete")
		}
	}

	if o.distributor == nil {
		return
	}

	opts := []asynq.Option{
		asynq.MaxRetry(3),
		asynq.Queue(worker.QueueCritical),
	}

	switch status {
	case db.OrderStatusDelivering:
		o.notify(ctx, order.ID, order.BuyerID, opts,
			fmt.Sprintf("Order #%s is on its way", order.Code),
			fmt.Sprintf("Your order #%s has been picked up by the rider and is on its way to you.", order.Code))
	case db.OrderStatusDelivered:
		fee := "the delivery fee"
		if delivery.PriceAmount != nil {
			fee = util.FormatPHP(*delivery.PriceAmount)
		}
		o.notify(ctx, order.ID, order.BuyerID, opts,
			fmt.Sprintf("Order #%s has been delivered", order.Code),
			fmt.Sprintf("Your order #%s has been delivered. Please confirm receipt in My Purchases.", order.Code))
		o.notify(ctx, order.ID, order.SellerID, opts,
			fmt.Sprintf("Order #%s has been delivered", order.Code),
			fmt.Sprintf("Order #%s was delivered to the buyer (%s delivery).", order.Code, fee))
	case db.OrderStatusFailed:
		message := fmt.Sprintf("Delivery for order #%s failed.", order.Code)
		if reason != "" {
			message = fmt.Sprintf("Delivery for order #%s failed: %s.", order.Code, reason)
		}
		o.notify(ctx, order.ID, order.BuyerID, opts, fmt.Sprintf("Order #%s delivery failed", order.Code), message)
		o.notify(ctx, order.ID, order.SellerID, opts, fmt.Sprintf("Order #%s delivery failed", order.Code), message)
	}
}

func (o *Orchestrator) notify(ctx context.Context, orderID, recipientID string, opts []asynq.Option, title, message string) {
	err := o.distributor.DistributeTaskSendNotification(ctx, &worker.PayloadSendNotification{
		RecipientID: recipientID,
		Title:       title,
		Message:     message,
		Type:        "order",
		ReferenceID: orderID,
	}, opts...)
	if err != nil {
		log.Err(err).Str("recipient_id", recipientID).Msg("failed to send notification")
	}
}

// DriverInfo proxies the provider's driver endpoint.
func (o *Orchestrator) DriverInfo(ctx context.Context, providerOrderID string) (*lalamove.Driver, error) {
	return o.provider.GetDriver(ctx, providerOrderID)
}

// DriverLocation returns the driver's last known position, preferring the
// webhook-fed cache over a provider round trip.
func (o *Orchestrator) DriverLocation(ctx context.Context, providerOrderID string) (*lalamove.DriverLocation, error) {
	if o.cache != nil {
		cached, err := o.cache.Get(ctx, driverLocationKey(providerOrderID)).Bytes()
		if err == nil {
			var location lalamove.DriverLocation
			if err = json.Unmarshal(cached, &location); err == nil {
				return &location, nil
			}
		}
	}

	location, err := o.provider.GetDriverLocation(ctx, providerOrderID)
	if err != nil {
		return nil, err
	}

	o.cacheDriverLocation(ctx, providerOrderID, &location.Location)
	return location, nil
}

func (o *Orchestrator) cacheDriverLocation(ctx context.Context, providerOrderID string, coordinates *lalamove.Coordinates) {
	if o.cache == nil {
		return
	}

	payload, err := json.Marshal(lalamove.DriverLocation{
		Location:  *coordinates,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}

	if err = o.cache.Set(ctx, driverLocationKey(providerOrderID), payload, driverLocationTTL).Err(); err != nil {
		log.Debug().Err(err).Str("provider_order_id", providerOrderID).Msg("failed to cache driver location")
	}
}

func driverLocationKey(providerOrderID string) string {
	return "delivery:driver_location:" + providerOrderID
}
