package wizard

import (
	"regexp"
	"strings"

	"flowermarket/internal/directory"
	"flowermarket/internal/models"
)

// PriceNegotiable is the sentinel price meaning "open to discussion"
const PriceNegotiable = "Negotiable"

// MinDescriptionLen is the minimum trimmed description length
const MinDescriptionLen = 3

var (
	// digits and dashes only, so ranges like "1000-1500" pass
	priceRe = regexp.MustCompile(`^[0-9-]+$`)
	// at least 5 word characters, optional leading @
	telegramRe = regexp.MustCompile(`^@?[A-Za-z0-9_]{5,}$`)
	// Kyrgyzstan local format: +996 followed by 9 digits
	phoneRe = regexp.MustCompile(`^\+996[0-9]{9}$`)
)

// ValidDescription reports whether the description meets the minimum length
func ValidDescription(description string) bool {
	return len(strings.TrimSpace(description)) >= MinDescriptionLen
}

// ValidPrice reports whether the price is the negotiable sentinel or a
// numeric-looking token
func ValidPrice(price string) bool {
	return price == PriceNegotiable || priceRe.MatchString(price)
}

// ValidContact reports whether the contact value fits the chosen method
func ValidContact(method models.ContactMethod, value string) bool {
	switch method {
	case models.ContactNone:
		return true
	case models.ContactTelegram:
		return telegramRe.MatchString(strings.TrimSpace(value))
	case models.ContactPhone:
		return phoneRe.MatchString(strings.TrimSpace(value))
	default:
		return false
	}
}

// Validate runs the per-step predicate against the draft. It is pure with
// respect to both arguments and returns nil when the step is valid.
// The directory constrains the city only for regions it knows about;
// a free-typed city is accepted for unknown regions.
func Validate(step Step, d *models.AdDraft, dir *directory.Directory) *ValidationError {
	switch step {
	case StepMedia:
		if len(d.Media) == 0 {
			return &ValidationError{Step: step, Field: "media", Reason: "add at least one photo or video"}
		}
	case StepDescription:
		if !ValidDescription(d.Description) {
			return &ValidationError{Step: step, Field: "description", Reason: "description must be at least 3 characters"}
		}
	case StepPrice:
		if !ValidPrice(d.Price) {
			return &ValidationError{Step: step, Field: "price", Reason: `enter a price or choose "Negotiable"`}
		}
	case StepContacts:
		if !ValidContact(d.ContactMethod, d.ContactValue) {
			field := "contact"
			reason := "choose a contact method"
			switch d.ContactMethod {
			case models.ContactTelegram:
				field, reason = "telegram", "enter a Telegram username (5+ letters, digits or underscores)"
			case models.ContactPhone:
				field, reason = "phone", "enter a phone number like +996XXXXXXXXX"
			}
			return &ValidationError{Step: step, Field: field, Reason: reason}
		}
	case StepLocation:
		loc := d.Location
		if loc.Region == "" {
			return &ValidationError{Step: step, Field: "region", Reason: "select a region"}
		}
		if loc.City == "" {
			return &ValidationError{Step: step, Field: "city", Reason: "select a city or district"}
		}
		if dir != nil && dir.HasRegion(loc.Region) && !dir.HasCity(loc.Region, loc.City) {
			return &ValidationError{Step: step, Field: "city", Reason: "city does not belong to the selected region"}
		}
	case StepPreview:
		// The preview step never blocks; submission re-validates 1..5.
	}
	return nil
}
