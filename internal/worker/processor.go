package worker

import (
	"context"

	"github.com/hibiken/asynq"
	db "github.com/manokmart/manokmart-BE/internal/db"
	"github.com/manokmart/manokmart-BE/internal/event"
	"github.com/rs/zerolog/log"
)

/*
 This file contains code that will pick up the tasks from the Redis queue and process them.
*/

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
)

// DeliveryDispatcher is implemented by the delivery orchestrator. Declared
// here so the processor can trigger a re-dispatch without importing the
// delivery package (which itself enqueues tasks through the distributor).
type DeliveryDispatcher interface {
	RedispatchDeliveryOrder(ctx context.Context, orderID string) error
}

type RedisTaskProcessor struct {
	server      *asynq.Server
	store       db.Store
	eventSender event.EventSender
	dispatcher  DeliveryDispatcher
}

func NewRedisTaskProcessor(redisOpt asynq.RedisClientOpt, store db.Store, eventSender event.EventSender, dispatcher DeliveryDispatcher) *RedisTaskProcessor {
	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Queues: map[string]int{
				QueueCritical: 10,
				QueueDefault:  5,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Error().Err(err).Str("type", task.Type()).
					Bytes("payload", task.Payload()).Msg("process task failed")
			}),
			Logger: NewLogger(),
		},
	)

	return &RedisTaskProcessor{
		server:      server,
		store:       store,
		eventSender: eventSender,
		dispatcher:  dispatcher,
	}
}

// Start registers the task handlers for the mux, attaches the mux to the asynq server, and starts the server.
func (processor *RedisTaskProcessor) Start() error {
	mux := asynq.NewServeMux()

	mux.HandleFunc(TaskSendNotification, processor.ProcessTaskSendNotification)
	mux.HandleFunc(TaskRedispatchDelivery, processor.ProcessTaskRedispatchDelivery)

	return processor.server.Start(mux)
}

func (processor *RedisTaskProcessor) Shutdown() {
	processor.server.Shutdown()
}
