package wizard

import (
	"fmt"
	"strings"

	"flowermarket/internal/models"
)

// previewMediaCount is how many media thumbnails the preview shows
const previewMediaCount = 3

// Preview is the read-only projection rendered on the final step. It holds
// no state of its own and is rebuilt from the draft every time the step is
// entered.
type Preview struct {
	MediaURLs   []string // preview URLs of the first few items
	MoreMedia   int      // how many further items exist ("+N")
	Description string
	Price       string
	Contacts    string
	Location    string
}

// BuildPreview derives the preview projection from the draft
func BuildPreview(d *models.AdDraft) *Preview {
	p := &Preview{
		Description: d.Description,
		Price:       d.Price,
		Contacts:    FormatContact(d.ContactMethod, d.ContactValue),
		Location:    FormatLocation(d.Location),
	}
	for i, m := range d.Media {
		if i == previewMediaCount {
			p.MoreMedia = len(d.Media) - previewMediaCount
			break
		}
		p.MediaURLs = append(p.MediaURLs, m.PreviewURL)
	}
	return p
}

// FormatContact renders the single contact line used in the preview, the
// publish payload and the channel post.
func FormatContact(method models.ContactMethod, value string) string {
	switch method {
	case models.ContactTelegram:
		handle := strings.TrimSpace(value)
		if !strings.HasPrefix(handle, "@") {
			handle = "@" + handle
		}
		return "Telegram: " + handle
	case models.ContactPhone:
		return "Phone: " + strings.TrimSpace(value)
	default:
		return "Contacts in comments"
	}
}

// FormatLocation renders the single location line: "Region, City (address)"
func FormatLocation(loc models.Location) string {
	var b strings.Builder
	b.WriteString(loc.Region)
	if loc.City != "" {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(loc.City)
	}
	if addr := strings.TrimSpace(loc.Address); addr != "" {
		fmt.Fprintf(&b, " (%s)", addr)
	}
	return b.String()
}
