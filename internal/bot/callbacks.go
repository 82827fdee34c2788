package bot

import (
	"encoding/json"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"flowermarket/internal/channel"
)

// contactSellerPayload is the callback data attached to the contact
// button under a channel post
type contactSellerPayload struct {
	Type      string `json:"type"`
	Contacts  string `json:"contacts"`
	ChannelID int64  `json:"channelId"`
	MessageID int    `json:"messageId"`
}

// handleCallbackQuery processes inline keyboard button clicks
func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	// Recover from panics
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in handleCallbackQuery: %v", r)
		}
	}()

	// Answer the callback query to remove loading state
	callback := tgbotapi.NewCallback(query.ID, "")
	if b.api != nil {
		b.api.Request(callback)
	}

	var payload contactSellerPayload
	if err := json.Unmarshal([]byte(query.Data), &payload); err != nil {
		b.logger.Warn("Unrecognized callback data",
			zap.String("data", query.Data),
			zap.Error(err),
		)
		return
	}

	if payload.Type == "contact_seller" {
		b.handleContactSeller(query, payload)
	}
}

// handleContactSeller DMs the seller's contacts to the buyer who pressed
// the button under the channel post
func (b *Bot) handleContactSeller(query *tgbotapi.CallbackQuery, payload contactSellerPayload) {
	channelID := payload.ChannelID
	if channelID == 0 {
		channelID = b.cfg.ChannelID
	}

	text := fmt.Sprintf("Seller contacts for this listing:\n%s", payload.Contacts)
	if payload.MessageID > 0 {
		text += fmt.Sprintf("\n\nListing: %s", channel.PostLink(channelID, payload.MessageID))
	}

	msg := tgbotapi.NewMessage(query.From.ID, text)
	b.sendMessage(msg)

	b.logger.Info("Sent seller contacts",
		zap.Int64("buyer_id", query.From.ID),
		zap.Int("message_id", payload.MessageID),
	)
}
