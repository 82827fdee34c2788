package wizard

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"flowermarket/internal/models"
)

// Per-file size limits. Batch size is limited separately by MaxMedia.
const (
	MaxImageBytes = 10 << 20
	MaxVideoBytes = 20 << 20

	// Images above this size are recompressed before staging
	recompressThreshold = 2 << 20
)

// File is one locally selected file handed to the staging manager
type File struct {
	Name string
	MIME string
	Data []byte
}

// PreviewFactory creates a transient preview resource for a staged item.
// The returned release func must be safe to call exactly once; the staging
// manager guarantees it is never called twice.
type PreviewFactory interface {
	Preview(name string, kind models.MediaKind) (url string, release func())
}

// objectURLFactory is the default preview factory. It hands out opaque
// handle URLs with no backing resource.
type objectURLFactory struct{}

func (objectURLFactory) Preview(name string, kind models.MediaKind) (string, func()) {
	return "blob:" + uuid.New().String(), func() {}
}

type stagedItem struct {
	item     models.MediaItem
	data     []byte
	release  func()
	released bool
}

// Staging holds the ordered media selection for one draft and enforces
// count and size limits. It is not safe for concurrent use; one wizard
// session owns one staging manager.
type Staging struct {
	maxMedia   int
	items      []stagedItem
	previews   PreviewFactory
	compressor Compressor
	logger     *zap.Logger
}

// StagingOption customizes a staging manager
type StagingOption func(*Staging)

// WithPreviewFactory replaces the default preview handle factory
func WithPreviewFactory(f PreviewFactory) StagingOption {
	return func(s *Staging) { s.previews = f }
}

// WithCompressor replaces the default image compressor
func WithCompressor(c Compressor) StagingOption {
	return func(s *Staging) { s.compressor = c }
}

// WithStagingLogger sets the staging logger
func WithStagingLogger(logger *zap.Logger) StagingOption {
	return func(s *Staging) { s.logger = logger }
}

// NewStaging creates an empty staging manager with the given media limit
func NewStaging(maxMedia int, opts ...StagingOption) *Staging {
	s := &Staging{
		maxMedia:   maxMedia,
		previews:   objectURLFactory{},
		compressor: NewJPEGCompressor(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add stages the given files. A batch that would exceed the media limit is
// rejected as a whole before any file is inspected. Below the limit files
// are processed individually: an unsupported or oversized file is reported
// and dropped while its siblings stage normally. Large images pass through
// the compressor one at a time; a compression failure falls back to the
// original bytes as long as they are under the size limit.
func (s *Staging) Add(ctx context.Context, files []File) []error {
	if len(s.items)+len(files) > s.maxMedia {
		return []error{&MediaError{Kind: TooManyFiles}}
	}

	var errs []error
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		kind, ok := kindFromMIME(f.MIME)
		if !ok {
			errs = append(errs, &MediaError{Kind: UnsupportedType, File: f.Name})
			continue
		}

		limit := int64(MaxImageBytes)
		if kind == models.MediaVideo {
			limit = MaxVideoBytes
		}
		if int64(len(f.Data)) > limit {
			errs = append(errs, &MediaError{Kind: FileTooLarge, File: f.Name})
			continue
		}

		data := f.Data
		if kind == models.MediaPhoto && len(data) > recompressThreshold && s.compressor != nil {
			compressed, err := s.compressor.Compress(ctx, data)
			if err != nil {
				s.logger.Warn("Image compression failed, staging original",
					zap.String("file", f.Name),
					zap.Error(err),
				)
			} else {
				data = compressed
			}
		}

		url, release := s.previews.Preview(f.Name, kind)
		s.items = append(s.items, stagedItem{
			item: models.MediaItem{
				ID:         uuid.New().String(),
				Name:       f.Name,
				Kind:       kind,
				ByteSize:   int64(len(data)),
				PreviewURL: url,
			},
			data:    data,
			release: release,
		})
	}

	return errs
}

// Remove drops the item at index i, releasing its preview resource.
// Out-of-range indexes are a no-op.
func (s *Staging) Remove(i int) {
	if i < 0 || i >= len(s.items) {
		return
	}
	s.releaseItem(&s.items[i])
	s.items = append(s.items[:i], s.items[i+1:]...)
}

// Items returns read-only copies of the staged media in insertion order
func (s *Staging) Items() []models.MediaItem {
	out := make([]models.MediaItem, len(s.items))
	for i := range s.items {
		out[i] = s.items[i].item
	}
	return out
}

// Count returns the number of staged items
func (s *Staging) Count() int {
	return len(s.items)
}

// Reset releases every preview resource and empties the staging area
func (s *Staging) Reset() {
	for i := range s.items {
		s.releaseItem(&s.items[i])
	}
	s.items = nil
}

func (s *Staging) releaseItem(it *stagedItem) {
	if it.released {
		return
	}
	it.released = true
	if it.release != nil {
		it.release()
	}
}

// setRemoteURL records the uploaded reference URL for item i
func (s *Staging) setRemoteURL(i int, url string) {
	if i < 0 || i >= len(s.items) {
		return
	}
	s.items[i].item.RemoteURL = url
}

func kindFromMIME(mime string) (models.MediaKind, bool) {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return models.MediaPhoto, true
	case strings.HasPrefix(mime, "video/"):
		return models.MediaVideo, true
	default:
		return "", false
	}
}
