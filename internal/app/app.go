// Package app wires configuration, the Telegram bot, the channel
// publisher and the Mini App HTTP server into one runnable unit.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"flowermarket/internal/api"
	"flowermarket/internal/bot"
	"flowermarket/internal/channel"
	"flowermarket/internal/channel/stubs"
	"flowermarket/internal/config"
	"flowermarket/internal/directory"
	"flowermarket/internal/logging"
	"flowermarket/internal/storage"
	"flowermarket/internal/storage/disk"
)

// App represents the application
type App struct {
	config *config.Config
	logger *zap.Logger
	store  storage.MediaStore
	bot    *bot.Bot
	server *http.Server
}

// New creates and initializes a new application instance
func New() (*App, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(os.Getenv("FLOWERMARKET_LOG_LEVEL"))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	app := &App{config: cfg, logger: logger}

	logger.Info("Starting Flower Market bot...")

	dir, err := directory.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load region directory: %w", err)
	}

	store, err := disk.NewStore(cfg.UploadDir, "/uploads", logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create media store: %w", err)
	}
	app.store = store

	if err := app.initBot(); err != nil {
		return nil, err
	}

	poster := app.buildPoster()
	app.initHTTPServer(dir, poster)

	return app, nil
}

// initBot initializes the Telegram bot. With the stub publisher and no
// token configured the bot is skipped so local runs need no credentials.
func (a *App) initBot() error {
	if a.config.TelegramToken == "" && a.config.UseStubPublisher {
		a.logger.Warn("No bot token configured, running without the Telegram bot")
		return nil
	}

	telegramBot, err := bot.NewBot(a.config, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	a.bot = telegramBot
	return nil
}

// buildPoster picks the channel publisher implementation
func (a *App) buildPoster() api.Poster {
	if a.config.UseStubPublisher {
		a.logger.Info("Using stub channel publisher")
		return stubs.NewRecorder()
	}
	return channel.NewPublisher(a.bot.GetAPI(), a.config.ChannelID, a.config.WebAppURL, a.logger)
}

// initHTTPServer initializes the HTTP server for the Mini App, health
// checks and the Telegram webhook
func (a *App) initHTTPServer(dir *directory.Directory, poster api.Poster) {
	mux := http.NewServeMux()

	apiServer := api.NewServer(a.config, dir, a.store, poster, a.logger)
	apiServer.RegisterRoutes(mux)

	// Webhook endpoint (only used in webhook mode)
	mux.HandleFunc("/telegram-webhook", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if a.bot == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			a.logger.Warn("Error decoding webhook update", zap.Error(err))
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		// Process update in background to respond quickly to Telegram
		go a.bot.HandleWebhookUpdate(update)

		w.WriteHeader(http.StatusOK)
	})

	a.server = &http.Server{
		Addr:         ":" + a.config.Port,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Start HTTP server in background
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("port", a.config.Port))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("HTTP server error", zap.Error(err))
		}
	}()
}

// Run starts the application and blocks until shutdown
func (a *App) Run() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	switch {
	case a.bot == nil:
		a.logger.Info("Bot disabled, serving the Mini App only")
	case a.config.WebhookMode:
		a.logger.Info("Starting bot in WEBHOOK mode", zap.String("webhook_url", a.config.WebhookURL))
		if err := a.bot.StartWebhook(a.config.WebhookURL); err != nil {
			return fmt.Errorf("failed to setup webhook: %w", err)
		}
	default:
		go func() {
			a.logger.Info("Starting bot in POLLING mode...")
			if err := a.bot.Start(); err != nil {
				a.logger.Fatal("Failed to start bot", zap.Error(err))
			}
		}()
	}

	// Wait for interrupt signal
	<-sigChan

	a.logger.Info("Shutting down...")
	return a.Shutdown()
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if err := a.store.Close(); err != nil {
		a.logger.Error("Error closing media store", zap.Error(err))
		return err
	}

	a.logger.Info("Shutdown complete")
	return a.logger.Sync()
}
