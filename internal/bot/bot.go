// Package bot runs the Telegram bot that opens the listing Mini App and
// relays seller contacts to interested buyers.
package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"flowermarket/internal/config"
)

// Bot represents the Telegram bot wrapper
type Bot struct {
	api    *tgbotapi.BotAPI
	cfg    *config.Config
	logger *zap.Logger
}

// NewBot creates a new Telegram bot
func NewBot(cfg *config.Config, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		logger.Error("Failed to create bot API", zap.Error(err))
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info("Bot created", zap.String("bot_username", api.Self.UserName))

	return &Bot{
		api:    api,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// GetAPI returns the bot API for testing
func (b *Bot) GetAPI() *tgbotapi.BotAPI {
	return b.api
}

// sendMessage sends a message through the bot API
func (b *Bot) sendMessage(msg tgbotapi.Chattable) {
	if b.api == nil {
		return // For testing
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message", zap.Error(err))
	}
}
