// Package native uploads arface textures to the GPU using gogpu/wgpu.
//
// The host hands over its HAL device and queue (typically obtained through
// a gpucontext.HalProvider); arface never creates a GPU device of its own.
package native

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	types "github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/arface/texture"
)

// Upload errors.
var (
	// ErrNilDevice is returned when uploading without a device.
	ErrNilDevice = errors.New("native: device is nil")

	// ErrNilQueue is returned when uploading without a queue.
	ErrNilQueue = errors.New("native: queue is nil")

	// ErrNilTexture is returned when uploading a nil texture.
	ErrNilTexture = errors.New("native: texture is nil")

	// ErrTextureDestroyed is returned when operating on a destroyed texture.
	ErrTextureDestroyed = errors.New("native: texture has been destroyed")

	// ErrUnsupportedFormat is returned for pixel formats the uploader
	// cannot map onto a wgpu format.
	ErrUnsupportedFormat = errors.New("native: unsupported texture format")
)

// GPUTexture is a face texture resident on the GPU.
//
// Thread Safety: GPUTexture is safe for concurrent read access. Destroy
// may be called from any goroutine and is idempotent.
//
// Lifecycle:
//  1. Create via Upload()
//  2. Bind Raw() into the host renderer's material
//  3. Call Destroy() when the overlay is torn down
type GPUTexture struct {
	// mu protects mutable state.
	mu sync.RWMutex

	// halTexture is the underlying texture handle.
	halTexture hal.Texture

	// device is the parent device, retained for destruction.
	device hal.Device

	// width and height are the texture dimensions in pixels.
	width, height uint32

	// format is the wgpu pixel format the texture was created with.
	format types.TextureFormat

	// label is the debug name given at upload.
	label string

	// destroyed indicates whether the texture has been destroyed.
	destroyed bool
}

// Upload creates a GPU texture from conditioned pixel data and writes the
// pixels through the queue. The texture is created with TextureBinding and
// CopyDst usage, one mip level, no multisampling.
func Upload(device hal.Device, queue hal.Queue, img *texture.Texture, label string) (*GPUTexture, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if queue == nil {
		return nil, ErrNilQueue
	}
	if img == nil {
		return nil, ErrNilTexture
	}

	format, err := halFormat(img.Format())
	if err != nil {
		return nil, err
	}

	width := uint32(img.Width())
	height := uint32(img.Height())
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("native: invalid texture size %dx%d", width, height)
	}

	halDesc := &hal.TextureDescriptor{
		Label: label,
		Size: hal.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     types.TextureDimension2D,
		Format:        format,
		Usage:         types.TextureUsageTextureBinding | types.TextureUsageCopyDst,
	}

	halTexture, err := device.CreateTexture(halDesc)
	if err != nil {
		return nil, fmt.Errorf("native: texture creation failed: %w", err)
	}

	dst := &hal.ImageCopyTexture{
		Texture:  halTexture,
		MipLevel: 0,
		Origin:   hal.Origin3D{X: 0, Y: 0, Z: 0},
		Aspect:   types.TextureAspectAll,
	}
	layout := &hal.ImageDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(img.BytesPerRow()),
		RowsPerImage: height,
	}
	size := &hal.Extent3D{
		Width:              width,
		Height:             height,
		DepthOrArrayLayers: 1,
	}

	queue.WriteTexture(dst, img.Pixels(), layout, size)

	return &GPUTexture{
		halTexture: halTexture,
		device:     device,
		width:      width,
		height:     height,
		format:     format,
		label:      label,
	}, nil
}

// Label returns the texture's debug label.
func (t *GPUTexture) Label() string { return t.label }

// Width returns the texture width in pixels.
func (t *GPUTexture) Width() uint32 { return t.width }

// Height returns the texture height in pixels.
func (t *GPUTexture) Height() uint32 { return t.height }

// Format returns the wgpu pixel format.
func (t *GPUTexture) Format() types.TextureFormat { return t.format }

// IsDestroyed returns true if the texture has been destroyed.
func (t *GPUTexture) IsDestroyed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.destroyed
}

// Raw returns the underlying texture handle.
//
// Returns nil if the texture has been destroyed. The caller must ensure the
// texture is not destroyed while the handle is in use.
func (t *GPUTexture) Raw() hal.Texture {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.destroyed {
		return nil
	}
	return t.halTexture
}

// Destroy releases the GPU texture. Idempotent.
func (t *GPUTexture) Destroy() {
	t.mu.Lock()
	if t.destroyed {
		t.mu.Unlock()
		return
	}
	t.destroyed = true
	device := t.device
	halTex := t.halTexture
	t.halTexture = nil
	t.mu.Unlock()

	if device != nil && halTex != nil {
		device.DestroyTexture(halTex)
	}
}

// halFormat maps an arface texture format onto the wgpu format enum.
func halFormat(f gputypes.TextureFormat) (types.TextureFormat, error) {
	switch f {
	case gputypes.TextureFormatRGBA8Unorm:
		return types.TextureFormatRGBA8Unorm, nil
	case gputypes.TextureFormatBGRA8Unorm:
		return types.TextureFormatBGRA8Unorm, nil
	default:
		return types.TextureFormatUndefined, fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
}
