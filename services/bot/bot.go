package bot

import (
	"context"
	"fmt"
	"net/url"

	"tablebook/services/gate"
	"tablebook/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Sender is the part of the Bot API used to reply.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramBot answers /start by opening the mini app at the requested deep link.
type TelegramBot struct {
	api     *tgbotapi.BotAPI
	sender  Sender
	botName string
	appName string
	logger  *zap.Logger
}

func NewTelegramBot(token, botName, appName string, debug bool, logger *zap.Logger) (*TelegramBot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	api.Debug = debug
	if botName == "" {
		botName = api.Self.UserName
	}
	logger.Info("Authorized on Telegram", zap.String("username", api.Self.UserName))

	return &TelegramBot{
		api:     api,
		sender:  api,
		botName: botName,
		appName: appName,
		logger:  logger,
	}, nil
}

// API exposes the client for other senders such as the notifier.
func (t *TelegramBot) API() *tgbotapi.BotAPI {
	return t.api
}

// Start switches the bot to long polling and handles updates until ctx is done.
func (t *TelegramBot) Start(ctx context.Context) error {
	if _, err := t.api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := t.api.GetUpdatesChan(updateConfig)
	utils.SetBotRunning(true)
	t.logger.Info("Started receiving Telegram updates")

	go func() {
		<-ctx.Done()
		t.Stop()
	}()
	go t.handleUpdates(updates)
	return nil
}

// Stop ends polling.
func (t *TelegramBot) Stop() {
	t.api.StopReceivingUpdates()
	utils.SetBotRunning(false)
}

func (t *TelegramBot) handleUpdates(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		go func(update tgbotapi.Update) {
			defer func() {
				if r := recover(); r != nil {
					t.logger.Error("Recovered from panic while processing update", zap.Any("error", r))
				}
			}()
			if update.Message != nil {
				t.handleMessage(update.Message)
			}
		}(update)
	}
}

func (t *TelegramBot) handleMessage(message *tgbotapi.Message) {
	if !message.IsCommand() || message.Command() != "start" {
		return
	}
	param := message.CommandArguments()
	reply := StartReply(message.Chat.ID, param, t.botName, t.appName)
	if _, err := t.sender.Send(reply); err != nil {
		t.logger.Error("Failed to answer /start", zap.Int64("chatID", message.Chat.ID), zap.Error(err))
		return
	}
	t.logger.Info("Answered /start", zap.Int64("chatID", message.Chat.ID), zap.String("param", param))
}

// MiniAppLink opens the mini app, passing param as the launch parameter when non-empty.
func MiniAppLink(botName, appName, param string) string {
	link := fmt.Sprintf("https://t.me/%s/%s", botName, appName)
	if param == "" {
		return link
	}
	return link + "?startapp=" + url.QueryEscape(param)
}

// StartReply builds the /start answer. Unknown parameters open the app home.
func StartReply(chatID int64, param, botName, appName string) tgbotapi.MessageConfig {
	text := "Бронируйте столики в любимых ресторанах прямо в Telegram."
	if _, ok := gate.ParseDeepLink(param); ok {
		text = "Открываем то, чем с вами поделились."
	} else {
		param = ""
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("Открыть приложение", MiniAppLink(botName, appName, param)),
		),
	)
	return msg
}
