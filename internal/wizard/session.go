// Package wizard implements the multi-step listing form: media staging,
// the step state machine with per-step validation, the preview projection
// and the guarded submission to the Publish API. A Session is created once
// per user session and owns the draft exclusively; rendering concerns stay
// outside, subscribing to session state instead of being touched by it.
package wizard

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"flowermarket/internal/directory"
	"flowermarket/internal/models"
)

// Step identifies one of the six wizard screens
type Step int

const (
	StepMedia Step = iota + 1
	StepDescription
	StepPrice
	StepContacts
	StepLocation
	StepPreview
)

func (s Step) String() string {
	switch s {
	case StepMedia:
		return "media"
	case StepDescription:
		return "description"
	case StepPrice:
		return "price"
	case StepContacts:
		return "contacts"
	case StepLocation:
		return "location"
	case StepPreview:
		return "preview"
	default:
		return "unknown"
	}
}

// Session is the single owner of one ad draft and its staged media. All
// former page-level globals (current step, draft, media list) live here.
// Field mutation is single-threaded from the caller's perspective; the
// only concurrency guard is the in-flight submission flag.
type Session struct {
	logger  *zap.Logger
	dir     *directory.Directory
	staging *Staging
	draft   *models.AdDraft

	step    Step
	cities  []string
	preview *Preview

	initData string

	mu         sync.Mutex
	submitting bool
	completed  bool
}

// SessionOption customizes a session
type SessionOption func(*Session)

// WithLogger sets the session logger
func WithLogger(logger *zap.Logger) SessionOption {
	return func(s *Session) { s.logger = logger }
}

// WithStaging replaces the default staging manager
func WithStaging(st *Staging) SessionOption {
	return func(s *Session) { s.staging = st }
}

// NewSession creates a wizard session with an empty draft on step 1
func NewSession(dir *directory.Directory, maxMedia int, opts ...SessionOption) *Session {
	s := &Session{
		logger: zap.NewNop(),
		dir:    dir,
		draft:  models.NewAdDraft(),
		step:   StepMedia,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.staging == nil {
		s.staging = NewStaging(maxMedia, WithStagingLogger(s.logger))
	}
	return s
}

// Current returns the active step
func (s *Session) Current() Step {
	return s.step
}

// Draft returns a snapshot of the draft, media included
func (s *Session) Draft() models.AdDraft {
	d := *s.draft
	d.Media = append([]models.MediaItem(nil), s.draft.Media...)
	return d
}

// Cities returns the city list loaded for the selected region
func (s *Session) Cities() []string {
	out := make([]string, len(s.cities))
	copy(out, s.cities)
	return out
}

// Preview returns the projection built on entering the preview step,
// or nil when the session has not reached it.
func (s *Session) Preview() *Preview {
	return s.preview
}

// AddMedia stages files and re-syncs the draft's media list
func (s *Session) AddMedia(ctx context.Context, files []File) []error {
	errs := s.staging.Add(ctx, files)
	s.draft.Media = s.staging.Items()
	return errs
}

// RemoveMedia removes the staged item at index i
func (s *Session) RemoveMedia(i int) {
	s.staging.Remove(i)
	s.draft.Media = s.staging.Items()
}

// SetDescription updates the draft description
func (s *Session) SetDescription(text string) {
	s.draft.Description = text
}

// SetPrice updates the draft price
func (s *Session) SetPrice(price string) {
	s.draft.Price = price
}

// SetNegotiablePrice sets the negotiable sentinel price
func (s *Session) SetNegotiablePrice() {
	s.draft.Price = PriceNegotiable
}

// SetContact selects the contact method and its value. Switching the
// method clears a value that belonged to the previous one.
func (s *Session) SetContact(method models.ContactMethod, value string) {
	if s.draft.ContactMethod != method {
		s.draft.ContactValue = ""
	}
	s.draft.ContactMethod = method
	if method != models.ContactNone {
		s.draft.ContactValue = value
	}
}

// SetRegion selects a region, reloads the dependent city list and clears
// a city selection that is not in the new list. A city typed for a region
// the directory does not know is left untouched.
func (s *Session) SetRegion(region string) {
	s.draft.Location.Region = region
	s.refreshCities()
}

// SetCity selects a city or district
func (s *Session) SetCity(city string) {
	s.draft.Location.City = city
}

// SetAddress sets the free-text address
func (s *Session) SetAddress(address string) {
	s.draft.Location.Address = address
}

// SetCoordinates attaches an optional map point
func (s *Session) SetCoordinates(lat, lon float64) {
	s.draft.Location.Coords = &models.Coordinates{Lat: lat, Lon: lon}
}

// SetInitData stores the Telegram init data forwarded with the payload
func (s *Session) SetInitData(initData string) {
	s.initData = initData
}

// Check re-runs the current step's validation. Renderers call this on
// every keystroke or media mutation to drive the hint text and the
// proceed control; it never changes session state.
func (s *Session) Check() *ValidationError {
	return Validate(s.step, s.draft, s.dir)
}

// GoNext advances to the next step if the current one validates. The
// returned ValidationError is nil on success.
func (s *Session) GoNext() *ValidationError {
	if verr := Validate(s.step, s.draft, s.dir); verr != nil {
		return verr
	}
	if s.step < StepPreview {
		s.step++
		s.enterStep(s.step)
	}
	return nil
}

// GoBack moves one step back without validating. Saved data is kept.
func (s *Session) GoBack() {
	if s.step > StepMedia {
		s.step--
	}
}

// Reset discards the draft and staged media and returns to step 1
func (s *Session) Reset() {
	s.staging.Reset()
	s.draft = models.NewAdDraft()
	s.step = StepMedia
	s.cities = nil
	s.preview = nil

	s.mu.Lock()
	s.completed = false
	s.mu.Unlock()
}

// enterStep runs the destination step's entry side effects
func (s *Session) enterStep(step Step) {
	switch step {
	case StepLocation:
		s.refreshCities()
	case StepPreview:
		// Derived fresh each time; duplicates no state.
		s.preview = BuildPreview(s.draft)
	}
}

func (s *Session) refreshCities() {
	region := s.draft.Location.Region
	s.cities = s.dir.CitiesFor(region)
	if s.dir.HasRegion(region) && s.draft.Location.City != "" && !s.dir.HasCity(region, s.draft.Location.City) {
		s.draft.Location.City = ""
	}
}
