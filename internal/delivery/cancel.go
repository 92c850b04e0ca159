package delivery

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	db "github.com/manokmart/manokmart-BE/internal/db"
	"github.com/manokmart/manokmart-BE/internal/lalamove"
	"github.com/manokmart/manokmart-BE/internal/util"
	"github.com/manokmart/manokmart-BE/internal/worker"
	"github.com/rs/zerolog/log"
)

// CancelDeliveryOrder cancels the provider order for a marketplace order and
// schedules exactly one deferred re-dispatch attempt. If that attempt also
// fails there are no further automatic retries; the manual dispatch endpoint
// remains as the fallback.
func (o *Orchestrator) CancelDeliveryOrder(ctx context.Context, order db.Order) error {
	delivery, err := o.store.GetOrderDeliveryByOrderID(ctx, order.ID)
	if err != nil {
		return err
	}
	if delivery.ProviderOrderID == nil {
		return fmt.Errorf("order %s has no provider delivery order to cancel", order.Code)
	}
	if delivery.Status != nil && lalamove.IsTerminalStatus(*delivery.Status) {
		return fmt.Errorf("delivery for order %s is already %s", order.Code, *delivery.Status)
	}

	if err = o.provider.CancelOrder(ctx, *delivery.ProviderOrderID); err != nil {
		return err
	}

	updated, err := o.store.UpdateOrderDelivery(ctx, db.UpdateOrderDeliveryParams{
		ID:     delivery.ID,
		Status: util.StringPointer(lalamove.StatusCanceled),
	})
	if err != nil {
		return fmt.Errorf("failed to record delivery cancellation for order %s: %w", order.Code, err)
	}

	log.Info().Str("order_code", order.Code).Str("provider_order_id", *delivery.ProviderOrderID).
		Msg("delivery order cancelled, scheduling one re-dispatch")

	// Deferred one-shot, deterministic task id so it can be deleted if the
	// order becomes ineligible before the delay elapses.
	err = o.distributor.DistributeTaskRedispatchDelivery(ctx, &worker.PayloadRedispatchDelivery{
		OrderID: order.ID,
	},
		asynq.ProcessIn(o.redispatchDelay),
		asynq.MaxRetry(0),
		asynq.Queue(worker.QueueDefault),
		asynq.TaskID(worker.RedispatchTaskID(order.ID)),
	)
	if err != nil {
		log.Error().Err(err).Str("order_code", order.Code).Msg("failed to schedule delivery re-dispatch")
	}

	o.broadcastDeliveryUpdate(order, DeliveryUpdateEvent{
		OrderID:        order.ID,
		DeliveryStatus: stringValue(updated.Status),
	})

	return nil
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
