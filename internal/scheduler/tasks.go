// Package scheduler provides the asynq job queue: task definitions, the
// enqueue client, the outbox dispatcher and the worker that processes jobs.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskIncentiveBroadcast = "incentives.broadcast"

const TaskNotificationOutboxDue = "notification.outbox.due"

// IncentiveBroadcastPayload fans one incentive announcement out to every
// rep's inbox.
type IncentiveBroadcastPayload struct {
	IncentiveID string `json:"incentiveId"`
}

// NotificationOutboxDuePayload delivers one claimed outbox row.
type NotificationOutboxDuePayload struct {
	OutboxID string `json:"outboxId"`
}

func NewIncentiveBroadcastTask(payload IncentiveBroadcastPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIncentiveBroadcast, data), nil
}

func ParseIncentiveBroadcastPayload(task *asynq.Task) (IncentiveBroadcastPayload, error) {
	var payload IncentiveBroadcastPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return IncentiveBroadcastPayload{}, err
	}
	return payload, nil
}

func NewNotificationOutboxDueTask(payload NotificationOutboxDuePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotificationOutboxDue, data), nil
}

func ParseNotificationOutboxDuePayload(task *asynq.Task) (NotificationOutboxDuePayload, error) {
	var payload NotificationOutboxDuePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return NotificationOutboxDuePayload{}, err
	}
	return payload, nil
}
