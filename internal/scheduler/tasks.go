package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TaskMailboxPoll drains the notification inbox once. It carries no payload;
// the worker's poller knows its own mailbox.
const TaskMailboxPoll = "mailbox.poll"

// TaskPendingDigest mails the operator a summary of unresolved pending
// events for one salon.
const TaskPendingDigest = "pending.digest"

type PendingDigestPayload struct {
	SalonID string `json:"salonId"`
}

func NewMailboxPollTask() *asynq.Task {
	return asynq.NewTask(TaskMailboxPoll, nil)
}

func NewPendingDigestTask(payload PendingDigestPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPendingDigest, data), nil
}

func ParsePendingDigestPayload(task *asynq.Task) (PendingDigestPayload, error) {
	var payload PendingDigestPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return PendingDigestPayload{}, err
	}
	return payload, nil
}
