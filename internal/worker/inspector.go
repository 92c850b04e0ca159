package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
)

// RedispatchTaskID returns the deterministic task id used for the deferred
// re-dispatch of an order, so a pending attempt can be found and cancelled.
func RedispatchTaskID(orderID string) string {
	return fmt.Sprintf("%s:%s", TaskRedispatchDelivery, orderID)
}

type TaskInspector interface {
	DeleteTask(ctx context.Context, queue, taskID string) error
}

type RedisTaskInspector struct {
	inspector *asynq.Inspector
}

func NewTaskInspector(redisOpt asynq.RedisClientOpt) TaskInspector {
	return &RedisTaskInspector{
		inspector: asynq.NewInspector(redisOpt),
	}
}

func (i *RedisTaskInspector) DeleteTask(ctx context.Context, queue, taskID string) error {
	return i.inspector.DeleteTask(queue, taskID)
}
