package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	db "github.com/manokmart/manokmart-BE/internal/db"
	"github.com/rs/zerolog/log"
)

// PayloadRedispatchDelivery identifies the marketplace order to re-dispatch
// after its previous delivery order was cancelled. The task is enqueued with
// ProcessIn(delay) and MaxRetry(0): exactly one deferred attempt, never an
// automatic retry loop.
type PayloadRedispatchDelivery struct {
	OrderID string
}

func (distributor *RedisTaskDistributor) DistributeTaskRedispatchDelivery(
	ctx context.Context,
	payload *PayloadRedispatchDelivery,
	opts ...asynq.Option,
) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}

	task := asynq.NewTask(TaskRedispatchDelivery, jsonPayload, opts...)
	info, err := distributor.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	log.Info().Str("type", task.Type()).Str("order_id", payload.OrderID).
		Str("queue", info.Queue).Time("process_at", info.NextProcessAt).Msg("task enqueued")

	return nil
}

func (processor *RedisTaskProcessor) ProcessTaskRedispatchDelivery(
	ctx context.Context,
	task *asynq.Task,
) error {
	var payload PayloadRedispatchDelivery
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}

	// The order may have been deleted or cancelled while the task was
	// waiting; the dispatcher re-checks eligibility before acting.
	err := processor.dispatcher.RedispatchDeliveryOrder(ctx, payload.OrderID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			log.Warn().Str("order_id", payload.OrderID).Msg("order gone before re-dispatch, skipping")
			return nil
		}
		log.Error().Err(err).Str("order_id", payload.OrderID).Msg("re-dispatch attempt failed")
		return fmt.Errorf("re-dispatch failed: %w", asynq.SkipRetry)
	}

	log.Info().Str("order_id", payload.OrderID).Msg("delivery re-dispatched")
	return nil
}
