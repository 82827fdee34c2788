package models

// MediaKind distinguishes staged photos from videos
type MediaKind string

const (
	MediaPhoto MediaKind = "photo"
	MediaVideo MediaKind = "video"
)

// ContactMethod is how a buyer reaches the seller
type ContactMethod string

const (
	ContactTelegram ContactMethod = "telegram"
	ContactPhone    ContactMethod = "phone"
	ContactNone     ContactMethod = "none"
)

// Coordinates is an optional map point attached to the listing location
type Coordinates struct {
	Lat float64
	Lon float64
}

// Location describes where the flowers are sold
type Location struct {
	Region  string
	City    string
	Address string
	Coords  *Coordinates
}

// MediaItem is one staged photo or video. RemoteURL stays empty until the
// item has been uploaded to the backend.
type MediaItem struct {
	ID         string
	Name       string
	Kind       MediaKind
	ByteSize   int64
	PreviewURL string
	RemoteURL  string
}

// AdDraft is the in-progress listing being composed by the wizard.
// It is owned by exactly one wizard session and discarded on restart
// or successful publication.
type AdDraft struct {
	Media         []MediaItem
	Description   string
	Price         string
	ContactMethod ContactMethod
	ContactValue  string
	Location      Location
}

// NewAdDraft returns an empty draft with the default contact method
func NewAdDraft() *AdDraft {
	return &AdDraft{ContactMethod: ContactTelegram}
}
