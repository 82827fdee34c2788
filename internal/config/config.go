package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the application configuration
type Config struct {
	TelegramToken   string
	ChannelID       int64  // channel the listings are published to
	ChannelUsername string // public @name shown to Mini App users
	WebAppURL       string // URL the bot offers as the Mini App button

	// Bot mode configuration
	WebhookMode bool   // If true, use webhook mode; if false, use polling mode
	WebhookURL  string // URL for webhook (required if WebhookMode is true)

	Port      string
	MaxMedia  int    // staged media limit per listing
	UploadDir string // where uploaded media files are written

	// UseStubPublisher replaces the Telegram channel publisher with an
	// in-memory stub so the server can run without a reachable channel.
	UseStubPublisher bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	config := &Config{}

	config.UseStubPublisher = os.Getenv("USE_STUB_PUBLISHER") == "true"

	// Telegram Bot Token (required unless running against the stub)
	config.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if config.TelegramToken == "" && !config.UseStubPublisher {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	// Channel the listings go to (required unless running against the stub)
	channelIDStr := os.Getenv("CHANNEL_ID")
	if channelIDStr == "" {
		if !config.UseStubPublisher {
			return nil, fmt.Errorf("CHANNEL_ID is required (numeric channel chat id, e.g. -1001234567890)")
		}
	} else {
		id, err := strconv.ParseInt(channelIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid CHANNEL_ID: %w", err)
		}
		config.ChannelID = id
	}

	config.ChannelUsername = os.Getenv("CHANNEL_USERNAME")
	config.WebAppURL = os.Getenv("WEBAPP_URL")

	// Bot mode configuration
	config.WebhookMode = os.Getenv("WEBHOOK_MODE") == "true"
	if config.WebhookMode {
		config.WebhookURL = os.Getenv("WEBHOOK_URL")
		if config.WebhookURL == "" {
			return nil, fmt.Errorf("WEBHOOK_URL is required when WEBHOOK_MODE is true")
		}
	}

	config.Port = os.Getenv("PORT")
	if config.Port == "" {
		config.Port = "8080"
	}

	config.MaxMedia = 10
	if maxStr := os.Getenv("MAX_MEDIA"); maxStr != "" {
		max, err := strconv.Atoi(maxStr)
		if err != nil || max < 1 {
			return nil, fmt.Errorf("invalid MAX_MEDIA: %s", maxStr)
		}
		config.MaxMedia = max
	}

	config.UploadDir = os.Getenv("UPLOAD_DIR")
	if config.UploadDir == "" {
		config.UploadDir = "./uploads"
	}

	return config, nil
}
