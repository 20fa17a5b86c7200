// Package texture decodes and conditions texture images for arface.
//
// Textures arrive as ordinary encoded images (PNG, JPEG), are decoded with
// the standard image registry, converted to 8-bit straight-alpha RGBA, and
// downscaled if they exceed the configured device limit. The result is ready
// for GPU upload (see backend/native).
package texture

import (
	"errors"

	"github.com/gogpu/gputypes"
)

// Usage describes how the renderer samples a texture.
// This is a semantic hint carried alongside the pixels; it does not change
// the pixel layout.
type Usage uint8

const (
	// UsageColor marks a color (albedo) map.
	UsageColor Usage = iota

	// UsageNormal marks a tangent-space normal map.
	UsageNormal

	// UsageData marks non-color data (roughness, masks, lookup tables).
	UsageData
)

// String returns the usage name.
func (u Usage) String() string {
	switch u {
	case UsageColor:
		return "color"
	case UsageNormal:
		return "normal"
	case UsageData:
		return "data"
	default:
		return "unknown"
	}
}

// valid reports whether u is a defined usage kind.
func (u Usage) valid() bool { return u <= UsageData }

// Texture is a decoded, conditioned texture image.
//
// Pixels are 8-bit straight-alpha RGBA, 4 bytes per pixel, row-major with no
// padding. A Texture is immutable after creation and safe to share across
// face nodes and goroutines.
type Texture struct {
	name   string
	usage  Usage
	format gputypes.TextureFormat
	width  int
	height int
	pixels []byte
}

// Name returns the source name the texture was loaded from.
func (t *Texture) Name() string { return t.name }

// Usage returns the sampling hint the texture was loaded with.
func (t *Texture) Usage() Usage { return t.usage }

// Format returns the pixel format of the conditioned data.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// Width returns the width in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the height in pixels.
func (t *Texture) Height() int { return t.height }

// BytesPerRow returns the stride of one pixel row.
func (t *Texture) BytesPerRow() int { return t.width * 4 }

// Pixels returns the conditioned pixel data. Callers must not mutate it.
func (t *Texture) Pixels() []byte { return t.pixels }

// Errors.
var (
	// ErrInvalidUsage is returned for an undefined usage kind.
	ErrInvalidUsage = errors.New("texture: invalid usage")

	// ErrEmptyImage is returned when a decoded image has no pixels.
	ErrEmptyImage = errors.New("texture: image has no pixels")
)
