// Command flowermarket-dev runs the server against the stub channel
// publisher so the Mini App can be exercised locally without a bot token
// or a real Telegram channel.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"flowermarket/internal/app"
	"flowermarket/internal/publish"
)

func main() {
	os.Setenv("USE_STUB_PUBLISHER", "true")
	os.Setenv("WEBHOOK_MODE", "false")

	if os.Getenv("PORT") == "" {
		os.Setenv("PORT", "8080")
	}
	if os.Getenv("CHANNEL_USERNAME") == "" {
		os.Setenv("CHANNEL_USERNAME", "@flowermarket_dev")
	}
	if os.Getenv("FLOWERMARKET_LOG_LEVEL") == "" {
		os.Setenv("FLOWERMARKET_LOG_LEVEL", "debug")
	}

	if os.Getenv("TELEGRAM_BOT_TOKEN") == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set; running without the Telegram bot.")
		log.Println("The Mini App API is still fully functional against the stub publisher.")
	}

	application, err := app.New()
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Self-ping once the server is up so a broken local setup is obvious
	go func() {
		time.Sleep(2 * time.Second)
		client := publish.NewClient("http://localhost:"+os.Getenv("PORT"), zap.NewNop())
		if err := client.Health(context.Background()); err != nil {
			log.Printf("Health check failed: %v", err)
			return
		}
		log.Println("Server is up")
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- application.Run()
	}()

	select {
	case <-sigChan:
		log.Println("Received shutdown signal")
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Application error: %v", err)
		}
	}
}
