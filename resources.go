package arface

import (
	"sync/atomic"

	"github.com/gogpu/arface/model"
	"github.com/gogpu/arface/texture"
)

// Resources is the readiness gate for the two render resources every face
// node needs: the shared model and the face-mesh texture.
//
// Each field transitions at most once from absent to present, written by a
// loader goroutine and read from the frame loop. All reads are atomic
// snapshot loads: Ready never blocks, and a reader that observes a stale
// not-ready gate simply retries on the next tracking event. A load failure
// leaves its field permanently nil.
type Resources struct {
	model   atomic.Pointer[model.Model]
	texture atomic.Pointer[texture.Texture]
}

// NewResources creates an empty gate with both resources absent.
func NewResources() *Resources {
	return &Resources{}
}

// Ready reports whether both the model and the texture have completed
// loading. Safe to call from any goroutine; never blocks.
func (r *Resources) Ready() bool {
	return r.model.Load() != nil && r.texture.Load() != nil
}

// SetModel publishes the loaded model. Nil is ignored so a failed load
// cannot un-publish an earlier success.
func (r *Resources) SetModel(m *model.Model) {
	if m == nil {
		return
	}
	r.model.Store(m)
}

// Model returns the loaded model, or nil while absent.
func (r *Resources) Model() *model.Model {
	return r.model.Load()
}

// SetTexture publishes the loaded texture. Nil is ignored.
func (r *Resources) SetTexture(t *texture.Texture) {
	if t == nil {
		return
	}
	r.texture.Store(t)
}

// Texture returns the loaded texture, or nil while absent.
func (r *Resources) Texture() *texture.Texture {
	return r.texture.Load()
}
