package notification

import (
	"context"
	"strings"
	"testing"
	"time"

	"tablebook/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type recordingSender struct {
	sent []tgbotapi.MessageConfig
}

func (r *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	r.sent = append(r.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func TestTelegramNotificationService(t *testing.T) {
	sender := &recordingSender{}
	svc, err := NewTelegramNotificationService(sender, time.FixedZone("MSK", 3*60*60), nil)
	if err != nil {
		t.Fatal(err)
	}
	notice := models.BookingNotice{
		ChatID:         42,
		BookingID:      555,
		RestaurantName: "Probka",
		StartsAt:       "2026-10-21T19:00:00+03:00",
		GuestCount:     3,
	}

	if err := svc.SendBookingCreated(context.Background(), notice); err != nil {
		t.Fatal(err)
	}
	if err := svc.SendReminder(context.Background(), notice); err != nil {
		t.Fatal(err)
	}
	if len(sender.sent) != 2 {
		t.Fatalf("expected two messages, got %d", len(sender.sent))
	}

	created := sender.sent[0]
	if created.ChatID != 42 {
		t.Errorf("chat id = %d", created.ChatID)
	}
	for _, want := range []string{"№555", "Probka", "21 октября, ср, 19:00", "гостей: 3"} {
		if !strings.Contains(created.Text, want) {
			t.Errorf("message %q lacks %q", created.Text, want)
		}
	}
	if !strings.HasPrefix(sender.sent[1].Text, "Напоминаем") {
		t.Errorf("reminder text = %q", sender.sent[1].Text)
	}

	notice.ChatID = 0
	if err := svc.SendReminder(context.Background(), notice); err == nil {
		t.Error("expected an error without a chat")
	}
}
