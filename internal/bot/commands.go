package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"flowermarket/internal/channel"
)

const createListingButton = "🌸 Create listing"

// handleStart shows the welcome message with the Mini App entry points
func (b *Bot) handleStart(message *tgbotapi.Message) {
	text := `Welcome to the Flower Market bot! 🌸

Sell your flowers and plants in a few taps:
tap "` + createListingButton + `" to open the listing form,
fill in photos, price and contacts, and the ad goes
straight to the channel.

Buyers can reach you through the post or via the
contact button under it.`

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyMarkup = tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.KeyboardButton{
				Text:   createListingButton,
				WebApp: &tgbotapi.WebAppInfo{URL: b.cfg.WebAppURL + "/web-app"},
			},
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonContact("📱 Share my phone number"),
		),
	)
	b.sendMessage(msg)

	b.logger.Info("Sent start message",
		zap.Int64("chat_id", message.Chat.ID),
		zap.String("username", message.From.UserName),
	)
}

// handleHelp points back to the start flow
func (b *Bot) handleHelp(message *tgbotapi.Message) {
	text := `How it works:

1. Tap "` + createListingButton + `" to open the listing form
2. Add up to 10 photos or videos
3. Describe your flowers and set a price
4. Choose how buyers should contact you
5. Pick your region and city
6. Check the preview and publish

The listing appears in the channel right away and you
get a link to your post.`

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	b.sendMessage(msg)
}

// handleCreateListing answers the reply keyboard button with an inline
// Mini App button, which also works in clients without keyboard web apps
func (b *Bot) handleCreateListing(message *tgbotapi.Message) {
	msg := tgbotapi.NewMessage(message.Chat.ID, "Open the form to create your listing:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.InlineKeyboardButton{
				Text:   "📝 Open listing form",
				WebApp: &tgbotapi.WebAppInfo{URL: b.cfg.WebAppURL + "/web-app"},
			},
		),
	)
	b.sendMessage(msg)
}

// handleContactShared acknowledges a shared phone number. The number
// itself stays in the chat; the Mini App asks for it again explicitly so
// the user controls what goes into the ad.
func (b *Bot) handleContactShared(message *tgbotapi.Message) {
	b.logger.Info("User shared contact",
		zap.Int64("user_id", message.From.ID),
		zap.String("phone", message.Contact.PhoneNumber),
	)

	msg := tgbotapi.NewMessage(message.Chat.ID,
		"Thanks! You can paste this number into the contacts step of your listing.")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.InlineKeyboardButton{
				Text:   "📝 Open listing form",
				WebApp: &tgbotapi.WebAppInfo{URL: b.cfg.WebAppURL + "/web-app"},
			},
		),
	)
	b.sendMessage(msg)
}

// handleContactCommand resolves a /contact_<messageID> deep link into the
// post link so a buyer forwarded here from the channel finds the listing
func (b *Bot) handleContactCommand(message *tgbotapi.Message, rawID string) {
	var messageID int
	if _, err := fmt.Sscanf(rawID, "%d", &messageID); err != nil || messageID <= 0 {
		msg := tgbotapi.NewMessage(message.Chat.ID, "That listing link looks broken. Open the post in the channel and try again.")
		b.sendMessage(msg)
		return
	}

	link := channel.PostLink(b.cfg.ChannelID, messageID)
	msg := tgbotapi.NewMessage(message.Chat.ID,
		fmt.Sprintf("Here is the listing you asked about:\n%s\n\nThe seller's contacts are in the post.", link))
	b.sendMessage(msg)
}
