// Package channel republishes finished listings as posts in the Telegram
// channel and builds the deep link back to the resulting post.
package channel

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"flowermarket/internal/models"
	"flowermarket/internal/publish"
)

// Sender is the slice of the bot API the publisher needs
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	SendMediaGroup(config tgbotapi.MediaGroupConfig) ([]tgbotapi.Message, error)
}

// Publisher sends listing posts to one channel
type Publisher struct {
	api       Sender
	channelID int64
	baseURL   string // absolutizes relative media URLs for Telegram
	logger    *zap.Logger
}

// NewPublisher creates a channel publisher. baseURL is the public origin
// of this server, used to turn relative upload URLs into fetchable ones.
func NewPublisher(api Sender, channelID int64, baseURL string, logger *zap.Logger) *Publisher {
	return &Publisher{
		api:       api,
		channelID: channelID,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		logger:    logger,
	}
}

// Publish formats the listing as an HTML post and sends it to the channel.
// With media it goes out as a media group captioned on the first item,
// otherwise as a plain message. Returns the public post link.
func (p *Publisher) Publish(ctx context.Context, ad publish.Request) (string, int, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	text := FormatPost(ad)

	var messageID int
	if len(ad.Media) > 0 {
		group := make([]interface{}, 0, len(ad.Media))
		for i, ref := range ad.Media {
			group = append(group, p.inputMedia(ref, i == 0, text))
		}
		messages, err := p.api.SendMediaGroup(tgbotapi.MediaGroupConfig{
			ChatID: p.channelID,
			Media:  group,
		})
		if err != nil {
			return "", 0, fmt.Errorf("failed to send media group to channel: %w", err)
		}
		messageID = messages[0].MessageID
	} else {
		msg := tgbotapi.NewMessage(p.channelID, text)
		msg.ParseMode = tgbotapi.ModeHTML
		sent, err := p.api.Send(msg)
		if err != nil {
			return "", 0, fmt.Errorf("failed to send message to channel: %w", err)
		}
		messageID = sent.MessageID
	}

	link := PostLink(p.channelID, messageID)
	p.logger.Info("Published listing to channel",
		zap.Int("message_id", messageID),
		zap.Int("media_count", len(ad.Media)),
		zap.String("post_link", link),
	)
	return link, messageID, nil
}

// inputMedia builds the media-group member for one reference. Videos must
// go out as video items; Telegram rejects a video URL wrapped as a photo.
func (p *Publisher) inputMedia(ref publish.MediaRef, first bool, caption string) interface{} {
	file := tgbotapi.FileURL(p.absoluteURL(ref.URL))
	if ref.Kind == models.MediaVideo {
		video := tgbotapi.NewInputMediaVideo(file)
		if first {
			video.Caption = caption
			video.ParseMode = tgbotapi.ModeHTML
		}
		return video
	}
	photo := tgbotapi.NewInputMediaPhoto(file)
	if first {
		photo.Caption = caption
		photo.ParseMode = tgbotapi.ModeHTML
	}
	return photo
}

func (p *Publisher) absoluteURL(mediaURL string) string {
	if strings.HasPrefix(mediaURL, "/") {
		return p.baseURL + mediaURL
	}
	return mediaURL
}

// FormatPost renders the channel post body. User-supplied fields are
// HTML-escaped; the wrapping markup is ours.
func FormatPost(ad publish.Request) string {
	var b strings.Builder
	b.WriteString("🌸 <b>NEW LISTING</b>\n\n")
	b.WriteString(html.EscapeString(ad.Description))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "💰 <b>Price:</b> %s\n", html.EscapeString(ad.Price))
	fmt.Fprintf(&b, "📍 <b>Location:</b> %s\n", html.EscapeString(formatLocation(ad)))
	fmt.Fprintf(&b, "📞 <b>Contacts:</b> %s\n", html.EscapeString(ad.Contacts))
	b.WriteString("\n💬 <i>Comments are open - ask your questions below!</i>\n")

	region := ad.Region
	if region == "" {
		region = "Kyrgyzstan"
	}
	fmt.Fprintf(&b, "#flowers #%s #sale", html.EscapeString(strings.ReplaceAll(region, " ", "")))
	return b.String()
}

func formatLocation(ad publish.Request) string {
	loc := ad.Region
	if ad.City != "" {
		loc += ", " + ad.City
	}
	if addr := strings.TrimSpace(ad.Address); addr != "" {
		loc += " (" + addr + ")"
	}
	return loc
}

// PostLink builds the t.me deep link for a channel message. Private
// channel chat ids carry a -100 prefix that the link format drops.
func PostLink(channelID int64, messageID int) string {
	id := strconv.FormatInt(channelID, 10)
	id = strings.TrimPrefix(id, "-100")
	id = strings.TrimPrefix(id, "-")
	return fmt.Sprintf("https://t.me/c/%s/%d", id, messageID)
}
