package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const TypeSubscriptionExpire = "subscription:expire"

type ExpiryPayload struct {
	SpecialistID string    `json:"specialistId"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

func NewExpiryTask(payload ExpiryPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSubscriptionExpire, b)
	opts := []asynq.Option{
		asynq.ProcessAt(payload.ExpiresAt),
		asynq.TaskID("expire:" + payload.SpecialistID),
		asynq.MaxRetry(5),
	}
	return task, opts, nil
}

func ParseExpiryPayload(task *asynq.Task) (ExpiryPayload, error) {
	var p ExpiryPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid expiry payload: %w", err)
	}
	if p.SpecialistID == "" {
		return p, fmt.Errorf("invalid expiry payload: missing specialist id")
	}
	return p, nil
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ExpiryScheduler queues one expiry task per registered subscription.
type ExpiryScheduler struct {
	client enqueuer
}

func NewExpiryScheduler(client *asynq.Client) *ExpiryScheduler {
	return &ExpiryScheduler{client: client}
}

func (s *ExpiryScheduler) ScheduleExpiry(ctx context.Context, specialistID string, at time.Time) error {
	task, opts, err := NewExpiryTask(ExpiryPayload{SpecialistID: specialistID, ExpiresAt: at})
	if err != nil {
		return err
	}
	if _, err := s.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue expiry for %s: %w", specialistID, err)
	}
	return nil
}
