package tracking

import (
	"context"
	"time"

	db "github.com/manokmart/manokmart-BE/internal/db"
	"github.com/rs/zerolog/log"
)

// autoCompleteDeliveredOrders closes out delivered orders the buyer never
// confirmed. After the grace period the order is treated as accepted.
func (t *Tracker) autoCompleteDeliveredOrders() {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-autoCompleteAfter)

	orders, err := t.store.ListDeliveredOrdersBefore(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("failed to list delivered orders for auto-complete")
		return
	}

	for _, order := range orders {
		_, err = t.store.UpdateOrderStatus(ctx, db.UpdateOrderStatusParams{
			OrderID: order.ID,
			Status:  db.OrderStatusCompleted,
		})
		if err != nil {
			log.Error().Err(err).Str("order_code", order.Code).Msg("failed to auto-complete order")
			continue
		}

		log.Info().Str("order_code", order.Code).Msg("order auto-completed after delivery grace period")
	}
}
