package wizard

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
)

// Compressor shrinks an image before staging. It is a pluggable strategy:
// swap it out (or use NopCompressor) in environments where transfer size
// does not matter.
type Compressor interface {
	Compress(ctx context.Context, data []byte) ([]byte, error)
}

// NopCompressor disables recompression
type NopCompressor struct{}

func (NopCompressor) Compress(ctx context.Context, data []byte) ([]byte, error) {
	return data, nil
}

// JPEGCompressor downscales an image to a bounded maximum dimension and
// re-encodes it as JPEG at a fixed quality. Aspect ratio is preserved.
type JPEGCompressor struct {
	MaxDimension int
	Quality      int
}

// NewJPEGCompressor returns the default compressor (1280px bound, q80)
func NewJPEGCompressor() *JPEGCompressor {
	return &JPEGCompressor{MaxDimension: 1280, Quality: 80}
}

func (c *JPEGCompressor) Compress(ctx context.Context, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > c.MaxDimension || h > c.MaxDimension {
		scale := float64(c.MaxDimension) / float64(w)
		if h > w {
			scale = float64(c.MaxDimension) / float64(h)
		}
		dw := int(float64(w) * scale)
		dh := int(float64(h) * scale)
		if dw < 1 {
			dw = 1
		}
		if dh < 1 {
			dh = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: c.Quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
