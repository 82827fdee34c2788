package bot

import (
	"encoding/json"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"flowermarket/internal/config"
)

// Note: We can't easily mock tgbotapi.BotAPI, so tests focus on internal
// logic without actually sending messages to Telegram

func newTestBot() *Bot {
	return &Bot{
		api: nil, // Not needed for internal logic tests
		cfg: &config.Config{
			ChannelID: -1001234567890,
			WebAppURL: "https://flowers.example.com",
		},
		logger: zap.NewNop(),
	}
}

func commandMessage(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		From: &tgbotapi.User{ID: 123, UserName: "aigul_f"},
		Chat: &tgbotapi.Chat{ID: 456},
		Text: text,
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: len(text)},
		},
	}
}

func TestHandleMessage_KnownCommandsDoNotPanic(t *testing.T) {
	b := newTestBot()

	for _, text := range []string{"/start", "/help", "/contact_42", "/contact_abc", "/unknown"} {
		assert.NotPanics(t, func() {
			b.handleMessage(commandMessage(text))
		}, "command %s", text)
	}
}

func TestHandleMessage_CreateListingButton(t *testing.T) {
	b := newTestBot()

	msg := &tgbotapi.Message{
		From: &tgbotapi.User{ID: 123},
		Chat: &tgbotapi.Chat{ID: 456},
		Text: createListingButton,
	}
	assert.NotPanics(t, func() { b.handleMessage(msg) })
}

func TestHandleMessage_SharedContact(t *testing.T) {
	b := newTestBot()

	msg := &tgbotapi.Message{
		From:    &tgbotapi.User{ID: 123},
		Chat:    &tgbotapi.Chat{ID: 456},
		Contact: &tgbotapi.Contact{PhoneNumber: "+996700123456", UserID: 123},
	}
	assert.NotPanics(t, func() { b.handleMessage(msg) })
}

func TestHandleCallbackQuery_ContactSeller(t *testing.T) {
	b := newTestBot()

	payload, err := json.Marshal(contactSellerPayload{
		Type:      "contact_seller",
		Contacts:  "Telegram: @florist1",
		ChannelID: -1001234567890,
		MessageID: 42,
	})
	require.NoError(t, err)

	query := &tgbotapi.CallbackQuery{
		ID:   "q1",
		From: &tgbotapi.User{ID: 789},
		Data: string(payload),
	}
	assert.NotPanics(t, func() { b.handleCallbackQuery(query) })
}

func TestHandleCallbackQuery_GarbageData(t *testing.T) {
	b := newTestBot()

	query := &tgbotapi.CallbackQuery{
		ID:   "q1",
		From: &tgbotapi.User{ID: 789},
		Data: "not json",
	}
	assert.NotPanics(t, func() { b.handleCallbackQuery(query) })
}

func TestContactSellerPayload_RoundTrip(t *testing.T) {
	raw := `{"type":"contact_seller","contacts":"Phone: +996700123456","channelId":-100123,"messageId":7}`

	var payload contactSellerPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	assert.Equal(t, "contact_seller", payload.Type)
	assert.Equal(t, "Phone: +996700123456", payload.Contacts)
	assert.Equal(t, int64(-100123), payload.ChannelID)
	assert.Equal(t, 7, payload.MessageID)
}
