package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"tablebook/models"

	"github.com/hibiken/asynq"
)

const TypeSendReminder = "reminder:send"

func NewReminderTask(payload models.BookingNotice, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		// One reminder per booking even if the submit is replayed.
		asynq.TaskID("reminder:" + strconv.FormatInt(payload.BookingID, 10)),
		asynq.MaxRetry(3),
	}

	return task, opts, nil
}

// Enqueuer is the part of *asynq.Client used here.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ReminderScheduler enqueues visit reminders.
type ReminderScheduler struct {
	Client Enqueuer
}

func NewReminderScheduler(client Enqueuer) *ReminderScheduler {
	return &ReminderScheduler{Client: client}
}

// ScheduleReminder enqueues a reminder for at. A duplicate for the same booking is not an error.
func (s *ReminderScheduler) ScheduleReminder(ctx context.Context, notice models.BookingNotice, at time.Time) error {
	task, opts, err := NewReminderTask(notice, at)
	if err != nil {
		return fmt.Errorf("build reminder task: %w", err)
	}
	if _, err := s.Client.EnqueueContext(ctx, task, opts...); err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		return fmt.Errorf("enqueue reminder: %w", err)
	}
	return nil
}
