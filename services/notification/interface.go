package notification

import (
	"context"

	"tablebook/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// NotificationService sends booking messages to the guest's Telegram chat.
type NotificationService interface {
	SendBookingCreated(ctx context.Context, notice models.BookingNotice) error
	SendReminder(ctx context.Context, notice models.BookingNotice) error
}

// MessageSender is satisfied by *tgbotapi.BotAPI.
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}
