package model

// Instance is one placement of a Model with per-node render flags.
// Face nodes hold one instance each; the underlying Model is shared.
type Instance struct {
	model          *Model
	shadowCaster   bool
	shadowReceiver bool
	renderPriority int
}

// Model returns the shared model this instance places.
func (i *Instance) Model() *Model { return i.model }

// SetShadowCaster controls whether the instance casts shadows.
func (i *Instance) SetShadowCaster(v bool) { i.shadowCaster = v }

// ShadowCaster reports whether the instance casts shadows.
func (i *Instance) ShadowCaster() bool { return i.shadowCaster }

// SetShadowReceiver controls whether the instance receives shadows.
func (i *Instance) SetShadowReceiver(v bool) { i.shadowReceiver = v }

// ShadowReceiver reports whether the instance receives shadows.
func (i *Instance) ShadowReceiver() bool { return i.shadowReceiver }

// SetRenderPriority sets the render order hint, clamped to
// [RenderPriorityFirst, RenderPriorityLast].
func (i *Instance) SetRenderPriority(p int) {
	if p < RenderPriorityFirst {
		p = RenderPriorityFirst
	}
	if p > RenderPriorityLast {
		p = RenderPriorityLast
	}
	i.renderPriority = p
}

// RenderPriority returns the render order hint.
func (i *Instance) RenderPriority() int { return i.renderPriority }
