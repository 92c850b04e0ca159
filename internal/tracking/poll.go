package tracking

import (
	"context"
	"errors"
	"time"

	db "github.com/manokmart/manokmart-BE/internal/db"
	"github.com/manokmart/manokmart-BE/internal/delivery"
	"github.com/rs/zerolog/log"
)

const pollTimeout = 25 * time.Second

// pollActiveDeliveries asks the provider for the current state of every
// non-terminal delivery and applies whatever changed. Applying an unchanged
// status is a no-op, so overlap with webhook events is harmless.
func (t *Tracker) pollActiveDeliveries() {
	ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
	defer cancel()

	deliveries, err := t.store.GetActiveOrderDeliveries(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list active deliveries")
		return
	}

	for _, row := range deliveries {
		if row.ProviderOrderID == nil {
			continue
		}

		order, err := t.provider.GetOrder(ctx, *row.ProviderOrderID)
		if err != nil {
			log.Error().Err(err).
				Str("order_code", row.OrderCode).
				Str("provider_order_id", *row.ProviderOrderID).
				Msg("failed to fetch provider order status")
			continue
		}

		if row.Status != nil && *row.Status == order.Status {
			continue
		}

		update := delivery.StatusUpdate{
			ProviderOrderID: *row.ProviderOrderID,
			Status:          order.Status,
		}
		if order.DriverID != "" && row.DriverName == nil {
			if driver, err := t.provider.GetDriver(ctx, *row.ProviderOrderID); err == nil {
				update.Driver = driver
			}
		}

		if _, err = t.orchestrator.ApplyStatusUpdate(ctx, update); err != nil {
			if errors.Is(err, db.ErrRecordNotFound) {
				continue
			}
			log.Error().Err(err).
				Str("order_code", row.OrderCode).
				Msg("failed to apply polled delivery status")
		}
	}
}
