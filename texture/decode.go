package texture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	stddraw "image/draw"
	"io"
	"os"

	// Common texture encodings. Hosts may blank-import more formats
	// (e.g. golang.org/x/image/webp) to extend image.Decode.
	_ "image/jpeg"
	_ "image/png"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"
)

// DefaultMaxDimension caps texture width and height. 2048 is within the
// guaranteed texture size limit of every WebGPU-class device.
const DefaultMaxDimension = 2048

// Source names and opens the bytes of one texture asset.
type Source interface {
	// Name identifies the source in errors and logs (usually a path).
	Name() string

	// Open returns a fresh reader over the asset bytes.
	Open() (io.ReadCloser, error)
}

// FileSource loads a texture from a file path.
type FileSource string

// Name returns the file path.
func (s FileSource) Name() string { return string(s) }

// Open opens the file.
func (s FileSource) Open() (io.ReadCloser, error) { return os.Open(string(s)) }

// BytesSource loads a texture from an in-memory byte slice.
type BytesSource struct {
	// Label identifies the source in errors and logs.
	Label string

	// Data holds the encoded image bytes.
	Data []byte
}

// Name returns the label.
func (s BytesSource) Name() string { return s.Label }

// Open returns a reader over Data.
func (s BytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.Data)), nil
}

// Option configures texture loading.
type Option func(*loadOptions)

type loadOptions struct {
	maxDimension int
}

func defaultLoadOptions() loadOptions {
	return loadOptions{maxDimension: DefaultMaxDimension}
}

// WithMaxDimension overrides the maximum texture width/height. Images larger
// than the limit are downscaled, preserving aspect ratio. Values below 1
// restore the default.
func WithMaxDimension(limit int) Option {
	return func(o *loadOptions) {
		if limit < 1 {
			limit = DefaultMaxDimension
		}
		o.maxDimension = limit
	}
}

// Load reads, decodes, and conditions one texture asset.
//
// Decoding uses the standard image registry; PNG and JPEG support is built
// in. The result is RGBA8, downscaled if it exceeds the configured maximum
// dimension.
func Load(ctx context.Context, src Source, usage Usage, opts ...Option) (*Texture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !usage.valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidUsage, usage)
	}

	rc, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("texture: open %s: %w", src.Name(), err)
	}
	defer rc.Close()

	img, _, err := image.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", src.Name(), err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return FromImage(src.Name(), img, usage, opts...)
}

// FromImage conditions an already-decoded image into a Texture.
// Useful for procedurally generated textures and tests.
func FromImage(name string, img image.Image, usage Usage, opts ...Option) (*Texture, error) {
	if !usage.valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidUsage, usage)
	}
	if img == nil {
		return nil, ErrEmptyImage
	}

	o := defaultLoadOptions()
	for _, opt := range opts {
		opt(&o)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyImage
	}

	dstW, dstH := clampDimensions(w, h, o.maxDimension)

	rgba := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	if dstW == w && dstH == h {
		stddraw.Draw(rgba, rgba.Bounds(), img, bounds.Min, stddraw.Src)
	} else {
		// Resampled copy; bilinear is plenty for minification.
		draw.ApproxBiLinear.Scale(rgba, rgba.Bounds(), img, bounds, draw.Src, nil)
	}

	return &Texture{
		name:   name,
		usage:  usage,
		format: gputypes.TextureFormatRGBA8Unorm,
		width:  dstW,
		height: dstH,
		pixels: rgba.Pix,
	}, nil
}

// clampDimensions scales (w, h) down so neither exceeds limit, preserving
// aspect ratio. Dimensions never drop below 1.
func clampDimensions(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}

	scale := float64(limit) / float64(w)
	if h > w {
		scale = float64(limit) / float64(h)
	}

	dstW := int(float64(w) * scale)
	dstH := int(float64(h) * scale)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}
	return dstW, dstH
}
