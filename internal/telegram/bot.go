// Package telegram is the bot surface: command routing, inline keyboards
// and message delivery. The bot is constructed once at startup, only when
// a token is configured, and injected into everything that needs it.
package telegram

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// Bot wraps the Telegram API client. It implements notify.Sender.
type Bot struct {
	api *tgbotapi.BotAPI
}

func NewBot(token string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	api.Debug = false
	log.Info().Str("username", api.Self.UserName).Msg("telegram bot authorized")
	return &Bot{api: api}, nil
}

// SendMessage delivers a Markdown text to a Telegram identity string.
func (b *Bot) SendMessage(telegramID string, text string) error {
	chatID, err := strconv.ParseInt(telegramID, 10, 64)
	if err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err = b.api.Send(msg)
	return err
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send message")
	}
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send keyboard")
	}
}

func (b *Bot) answerCallback(callbackID string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		log.Error().Err(err).Msg("failed to answer callback query")
	}
}

// SetWebhook registers the push-delivery endpoint with Telegram.
func (b *Bot) SetWebhook(url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return err
	}
	_, err = b.api.Request(wh)
	return err
}

// WebhookInfo returns the currently registered webhook.
func (b *Bot) WebhookInfo() (tgbotapi.WebhookInfo, error) {
	return b.api.GetWebhookInfo()
}

// DeleteWebhook removes the webhook, e.g. before switching to polling.
func (b *Bot) DeleteWebhook() error {
	_, err := b.api.Request(tgbotapi.DeleteWebhookConfig{})
	return err
}

// Poll runs a long-polling update loop until ctx is canceled. Used in
// local development instead of the webhook.
func (b *Bot) Poll(ctx context.Context, router *Router) {
	_ = b.DeleteWebhook()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	log.Info().Msg("telegram bot polling for updates")
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			router.HandleUpdate(ctx, update)
		}
	}
}
