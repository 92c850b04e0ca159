package delivery

import (
	"context"
	"errors"
	"fmt"

	db "github.com/manokmart/manokmart-BE/internal/db"
	"github.com/manokmart/manokmart-BE/internal/lalamove"
	"github.com/manokmart/manokmart-BE/internal/util"
	"github.com/rs/zerolog/log"
)

const quoteLanguage = "en_PH"

// CreateDeliveryOrder dispatches a delivery for a paid marketplace order:
// pickup at the seller's store, dropoff at the buyer's shipping address.
//
// Delivery is best-effort, not transactional with order placement. When the
// provider reports a configuration-class problem (bad market, bad
// credentials) this returns (nil, nil): the failure is logged, the order
// stands, and support can dispatch manually later. Validation and other
// provider errors are returned and fail only the delivery action.
func (o *Orchestrator) CreateDeliveryOrder(ctx context.Context, order db.Order) (*db.OrderDelivery, error) {
	pickup, dropoff := o.buildStops(order)

	quotation, err := o.provider.GetQuotation(ctx, lalamove.QuotationParams{
		ServiceType: lalamove.ServiceTypeMotorcycle,
		Language:    quoteLanguage,
		Stops:       []lalamove.Stop{pickup, dropoff},
	})
	if err != nil {
		return nil, o.classifyDispatchError(err, order, "quotation")
	}
	if len(quotation.Stops) < 2 {
		return nil, fmt.Errorf("provider quotation for order %s returned %d stops", order.Code, len(quotation.Stops))
	}

	pickupStop := quotation.Stops[0]
	dropoffStop := quotation.Stops[len(quotation.Stops)-1]

	remarks := fmt.Sprintf("manokmart order %s", order.Code)
	if order.Note != nil && *order.Note != "" {
		remarks = fmt.Sprintf("%s - %s", remarks, util.TruncateContent(*order.Note, 120))
	}

	placed, err := o.provider.PlaceOrder(ctx, lalamove.PlaceOrderParams{
		QuotationID: quotation.QuotationID,
		Sender: lalamove.Waypoint{
			StopID: pickupStop.StopID,
			Name:   order.SellerName,
			Phone:  o.senderPhone(order),
		},
		Recipients: []lalamove.Waypoint{{
			StopID:  dropoffStop.StopID,
			Name:    order.BuyerName,
			Phone:   order.BuyerPhone,
			Remarks: remarks,
		}},
		Metadata: lalamove.OrderMetadata{
			Reference: util.DeliveryReference(order.Code),
		},
	})
	if err != nil {
		return nil, o.classifyDispatchError(err, order, "order creation")
	}

	// Price comes from the quotation, not the order-creation response:
	// pricing is only authoritative at quote time.
	params := db.CreateOrderDeliveryParams{
		OrderID:         order.ID,
		ProviderOrderID: util.StringPointer(placed.OrderID),
		QuotationID:     util.StringPointer(quotation.QuotationID),
		Status:          util.StringPointer(placed.Status),
		ServiceType:     string(quotation.ServiceType),
		PriceAmount:     util.StringPointer(quotation.PriceBreakdown.Total),
		PriceCurrency:   util.StringPointer(quotation.PriceBreakdown.Currency),
		PickupStopID:    util.StringPointer(pickupStop.StopID),
		DropoffStopID:   util.StringPointer(dropoffStop.StopID),
		Reference:       util.DeliveryReference(order.Code),
	}

	delivery, err := o.store.CreateOrderDelivery(ctx, params)
	if err != nil {
		code, constraint := db.ErrorDescription(err)
		if code != db.UniqueViolationCode || constraint != db.UniqueOrderDeliveryConstraint {
			return nil, fmt.Errorf("failed to persist delivery for order %s: %w", order.Code, err)
		}

		// A row already exists, so this is a re-dispatch over a finished
		// attempt: overwrite it and clear the stale driver fields.
		delivery, err = o.store.UpsertOrderDelivery(ctx, db.UpsertOrderDeliveryParams(params))
		if err != nil {
			return nil, fmt.Errorf("failed to persist delivery for order %s: %w", order.Code, err)
		}
	}

	log.Info().
		Str("order_code", order.Code).
		Str("provider_order_id", placed.OrderID).
		Str("quotation_id", quotation.QuotationID).
		Str("total_fee", quotation.PriceBreakdown.Total).
		Msg("delivery order created")

	o.broadcastDeliveryUpdate(order, DeliveryUpdateEvent{
		OrderID:        order.ID,
		DeliveryStatus: placed.Status,
	})

	return &delivery, nil
}

// RedispatchDeliveryOrder is the deferred one-shot retry fired after a
// cancellation. The order may have moved on while the task was pending, so
// eligibility is re-checked before dispatching again.
func (o *Orchestrator) RedispatchDeliveryOrder(ctx context.Context, orderID string) error {
	order, err := o.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	switch order.Status {
	case db.OrderStatusCanceled, db.OrderStatusFailed, db.OrderStatusDelivered, db.OrderStatusCompleted:
		log.Info().Str("order_code", order.Code).Str("status", string(order.Status)).
			Msg("order no longer eligible for delivery, skipping re-dispatch")
		return nil
	}

	delivery, err := o.store.GetOrderDeliveryByOrderID(ctx, orderID)
	if err != nil && !errors.Is(err, db.ErrRecordNotFound) {
		return err
	}
	if err == nil && delivery.Status != nil && !lalamove.IsTerminalStatus(*delivery.Status) {
		log.Info().Str("order_code", order.Code).Str("delivery_status", *delivery.Status).
			Msg("order already has an active delivery, skipping re-dispatch")
		return nil
	}

	_, err = o.CreateDeliveryOrder(ctx, order)
	return err
}

func (o *Orchestrator) buildStops(order db.Order) (pickup, dropoff lalamove.Stop) {
	pickup = lalamove.Stop{
		Coordinates: lalamove.Coordinates{Lat: order.SellerLat, Lng: order.SellerLng},
		Address:     order.SellerAddress,
		Contacts:    []lalamove.Contact{{Name: order.SellerName, Phone: o.senderPhone(order)}},
	}
	dropoff = lalamove.Stop{
		Coordinates: lalamove.Coordinates{Lat: order.BuyerLat, Lng: order.BuyerLng},
		Address:     order.BuyerAddress,
		Contacts:    []lalamove.Contact{{Name: order.BuyerName, Phone: order.BuyerPhone}},
	}
	return pickup, dropoff
}

// senderPhone falls back to the configured API user number for stores that
// registered without a mobile number.
func (o *Orchestrator) senderPhone(order db.Order) string {
	if order.SellerPhone != "" {
		return order.SellerPhone
	}
	return o.defaultSenderPhone
}

// classifyDispatchError implements the partial-failure policy: nil for
// configuration-class provider errors, pass-through for everything else.
func (o *Orchestrator) classifyDispatchError(err error, order db.Order, stage string) error {
	var providerErr *lalamove.ProviderError
	if errors.As(err, &providerErr) && providerErr.IsConfigurationIssue() {
		log.Error().Err(err).Str("order_code", order.Code).Str("stage", stage).
			Msg("delivery provider configuration problem, order will proceed without delivery")
		return nil
	}
	return err
}
