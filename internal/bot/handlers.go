package bot

import (
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// handleMessage processes a single message
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	// Recover from panics to prevent bot crashes
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in handleMessage: %v", r)
			msg := tgbotapi.NewMessage(message.Chat.ID, "An error occurred while processing your request. Please try again.")
			b.sendMessage(msg)
		}
	}()

	// A shared contact means the user tapped the phone number button
	if message.Contact != nil {
		b.handleContactShared(message)
		return
	}

	if message.IsCommand() {
		command := message.Command()
		switch {
		case command == "start":
			b.handleStart(message)
		case command == "help":
			b.handleHelp(message)
		case strings.HasPrefix(command, "contact_"):
			b.handleContactCommand(message, strings.TrimPrefix(command, "contact_"))
		default:
			msg := tgbotapi.NewMessage(message.Chat.ID, "Unknown command. Use /start to begin.")
			b.sendMessage(msg)
		}
		return
	}

	if message.Text == createListingButton {
		b.handleCreateListing(message)
	}
}
