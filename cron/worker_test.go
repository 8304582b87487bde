package cron

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"tablebook/models"
	"tablebook/services/tasks"

	"github.com/hibiken/asynq"
)

type stubNotifier struct {
	reminders []models.BookingNotice
	err       error
}

func (s *stubNotifier) SendBookingCreated(context.Context, models.BookingNotice) error { return nil }

func (s *stubNotifier) SendReminder(_ context.Context, n models.BookingNotice) error {
	s.reminders = append(s.reminders, n)
	return s.err
}

func TestHandleReminderTask(t *testing.T) {
	notifier := &stubNotifier{}
	handler := handleReminderTask(notifier)

	payload, _ := json.Marshal(models.BookingNotice{ChatID: 1, BookingID: 9})
	if err := handler(context.Background(), asynq.NewTask(tasks.TypeSendReminder, payload)); err != nil {
		t.Fatal(err)
	}
	if len(notifier.reminders) != 1 || notifier.reminders[0].BookingID != 9 {
		t.Errorf("reminder not sent: %+v", notifier.reminders)
	}

	err := handler(context.Background(), asynq.NewTask(tasks.TypeSendReminder, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Errorf("malformed payload should skip retries, got %v", err)
	}

	notifier.err = errors.New("chat not found")
	if err := handler(context.Background(), asynq.NewTask(tasks.TypeSendReminder, payload)); err == nil {
		t.Error("send failure should be retried")
	}
}
