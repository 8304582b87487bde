package bot

import (
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type recordingSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (r *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	r.sent = append(r.sent, c)
	return tgbotapi.Message{}, r.err
}

func buttonURL(t *testing.T, msg tgbotapi.MessageConfig) string {
	t.Helper()
	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if !ok || len(markup.InlineKeyboard) != 1 || len(markup.InlineKeyboard[0]) != 1 {
		t.Fatalf("unexpected markup %#v", msg.ReplyMarkup)
	}
	btn := markup.InlineKeyboard[0][0]
	if btn.URL == nil {
		t.Fatal("button has no URL")
	}
	return *btn.URL
}

func TestStartReply(t *testing.T) {
	tests := []struct {
		param string
		want  string
	}{
		{"restaurantId_77", "https://t.me/tablebook_bot/app?startapp=restaurantId_77"},
		{"banquet", "https://t.me/tablebook_bot/app?startapp=banquet"},
		{"", "https://t.me/tablebook_bot/app"},
		{"spamId_<script>", "https://t.me/tablebook_bot/app"},
	}
	for _, tt := range tests {
		msg := StartReply(7, tt.param, "tablebook_bot", "app")
		if msg.ChatID != 7 {
			t.Errorf("chat id = %d", msg.ChatID)
		}
		if got := buttonURL(t, msg); got != tt.want {
			t.Errorf("StartReply(%q) url = %q, want %q", tt.param, got, tt.want)
		}
	}
}

func TestHandleMessage(t *testing.T) {
	sender := &recordingSender{}
	b := &TelegramBot{sender: sender, botName: "tablebook_bot", appName: "app", logger: zap.NewNop()}

	start := &tgbotapi.Message{
		Text:     "/start eventId_12",
		Chat:     &tgbotapi.Chat{ID: 5},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
	}
	b.handleMessage(start)
	b.handleMessage(&tgbotapi.Message{Text: "hello", Chat: &tgbotapi.Chat{ID: 5}})

	if len(sender.sent) != 1 {
		t.Fatalf("expected one reply, got %d", len(sender.sent))
	}
	msg := sender.sent[0].(tgbotapi.MessageConfig)
	if got := buttonURL(t, msg); got != "https://t.me/tablebook_bot/app?startapp=eventId_12" {
		t.Errorf("url = %q", got)
	}

	sender.err = errors.New("blocked by user")
	b.handleMessage(start)
}
