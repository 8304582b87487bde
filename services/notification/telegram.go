package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tablebook/models"
	"tablebook/services/booking"
	"tablebook/services/timeslot"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// TelegramNotificationService is the production implementation.
type TelegramNotificationService struct {
	sender MessageSender
	loc    *time.Location
	logger *zap.Logger
}

var _ NotificationService = (*TelegramNotificationService)(nil)

func NewTelegramNotificationService(sender MessageSender, loc *time.Location, logger *zap.Logger) (*TelegramNotificationService, error) {
	if sender == nil {
		return nil, fmt.Errorf("notification service initialization error: sender is nil")
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TelegramNotificationService{sender: sender, loc: loc, logger: logger}, nil
}

// SendBookingCreated confirms a new booking.
func (s *TelegramNotificationService) SendBookingCreated(ctx context.Context, notice models.BookingNotice) error {
	text := fmt.Sprintf("Бронь №%d создана.\n%s", notice.BookingID, s.describe(notice))
	return s.send(ctx, notice, text)
}

// SendReminder reminds about an upcoming visit.
func (s *TelegramNotificationService) SendReminder(ctx context.Context, notice models.BookingNotice) error {
	text := fmt.Sprintf("Напоминаем о брони №%d.\n%s", notice.BookingID, s.describe(notice))
	return s.send(ctx, notice, text)
}

func (s *TelegramNotificationService) describe(n models.BookingNotice) string {
	var parts []string
	if n.RestaurantName != "" {
		parts = append(parts, n.RestaurantName)
	}
	if start, ok := timeslot.ParseDatetime(n.StartsAt, s.loc); ok {
		local := start.In(s.loc)
		parts = append(parts, booking.FormatDateTitle(local.Format("2006-01-02"), s.loc)+", "+local.Format("15:04"))
	}
	if n.GuestCount > 0 {
		parts = append(parts, fmt.Sprintf("гостей: %d", n.GuestCount))
	}
	return strings.Join(parts, "\n")
}

func (s *TelegramNotificationService) send(ctx context.Context, n models.BookingNotice, text string) error {
	if n.ChatID == 0 {
		return fmt.Errorf("booking %d: no telegram chat", n.BookingID)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.sender.Send(tgbotapi.NewMessage(n.ChatID, text)); err != nil {
		s.logger.Error("Failed to send telegram message",
			zap.Int64("chatID", n.ChatID), zap.Int64("bookingID", n.BookingID), zap.Error(err))
		return err
	}
	return nil
}
