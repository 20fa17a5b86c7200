// Package model provides the renderable-model container and the pluggable
// decoder registry for arface.
//
// The package does not parse any model format itself. Format backends
// (glTF, OBJ, engine-native blobs) register a decoder, typically from an
// init function behind a blank import:
//
//	import _ "example.com/arface-gltf" // registers the "gltf" decoder
//
// Load then picks the decoder by content sniffing, mirroring how rendering
// backends self-register elsewhere in the gogpu ecosystem.
package model

import (
	"context"
)

// Render priorities for model instances. Lower values render earlier.
// The camera stream renders at RenderPriorityFirst so face occlusion works.
const (
	// RenderPriorityFirst renders before everything else.
	RenderPriorityFirst = 0

	// RenderPriorityDefault is the standard priority for scene content.
	RenderPriorityDefault = 4

	// RenderPriorityLast renders after everything else.
	RenderPriorityLast = 7
)

// Model is an immutable renderable model shared by every face node.
//
// The payload is the renderer-specific representation produced by the
// decoder; arface never inspects it. Create per-node placements with
// NewInstance.
type Model struct {
	name    string
	format  string
	payload any
}

// New wraps a decoded renderer payload in a Model.
// Decoders call this; hosts normally obtain models through Load.
func New(name, format string, payload any) *Model {
	return &Model{name: name, format: format, payload: payload}
}

// Name returns the source name the model was loaded from.
func (m *Model) Name() string { return m.name }

// Format returns the registered decoder format that produced the model.
func (m *Model) Format() string { return m.format }

// Payload returns the renderer-specific representation.
func (m *Model) Payload() any { return m.payload }

// NewInstance creates a placement of the model with default render flags:
// shadow casting and receiving enabled, default render priority.
func (m *Model) NewInstance() *Instance {
	return &Instance{
		model:          m,
		shadowCaster:   true,
		shadowReceiver: true,
		renderPriority: RenderPriorityDefault,
	}
}

// Load reads the source and decodes it with the best matching registered
// decoder. See Registry.Load for selection rules.
func Load(ctx context.Context, src Source) (*Model, error) {
	return globalRegistry.Load(ctx, src)
}

// LoadFormat reads the source and decodes it with a specific named decoder.
func LoadFormat(ctx context.Context, format string, src Source) (*Model, error) {
	return globalRegistry.LoadFormat(ctx, format, src)
}
