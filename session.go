package arface

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/arface/model"
	"github.com/gogpu/arface/texture"
)

// Session coordinates the three independently timed processes of a face
// overlay: one-shot asynchronous resource loading, the per-frame tracking
// event stream, and scene-graph mutation.
//
// The face table invariant (a face has a table entry if and only if its
// node is attached to the scene) is enforced exclusively inside
// HandleUpdate. Events are serialized by an internal mutex, so hosts may
// deliver them from any goroutine.
type Session struct {
	mu    sync.Mutex
	scene Scene
	nodes map[TrackedFace]*FaceNode

	resources *Resources
	loads     *LoadRegistry

	// live gates event processing and load completions after Close.
	live atomic.Bool

	attachOnce sync.Once

	errh           func(error)
	device         DeviceHandle
	cameraPriority int
}

// NewSession creates a session mutating the given scene.
// A nil scene falls back to an in-memory NodeList, which suits tests and
// headless hosts.
func NewSession(scene Scene, opts ...SessionOption) *Session {
	o := defaultSessionOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if scene == nil {
		scene = NewNodeList()
	}
	if o.resources == nil {
		o.resources = NewResources()
	}

	s := &Session{
		scene:          scene,
		nodes:          make(map[TrackedFace]*FaceNode),
		resources:      o.resources,
		loads:          NewLoadRegistry(),
		errh:           o.errorHandler,
		device:         o.device,
		cameraPriority: o.cameraPriority,
	}
	s.live.Store(true)
	return s
}

// Resources returns the session's readiness gate.
func (s *Session) Resources() *Resources { return s.resources }

// DeviceHandle returns the host GPU device integration point.
func (s *Session) DeviceHandle() DeviceHandle { return s.device }

// CameraRenderPriority returns the render order hint for the camera stream.
// Hosts apply it to their camera background so overlays composite above it.
func (s *Session) CameraRenderPriority() int { return s.cameraPriority }

// PendingLoads returns the number of incomplete resource loads.
func (s *Session) PendingLoads() int { return s.loads.Pending() }

// NodeCount returns the number of faces currently decorated in the scene.
func (s *Session) NodeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nodes)
}

// Node returns the scene node bound to face, if one is attached.
func (s *Session) Node(face TrackedFace) (*FaceNode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[face]
	return n, ok
}

// LoadModel starts loading the shared renderable model asynchronously.
// On success the readiness gate is updated; on failure the error surface is
// invoked once and the model stays permanently absent (tracking continues,
// but no face nodes are ever created). The returned task can be waited on
// or cancelled individually.
func (s *Session) LoadModel(ctx context.Context, src model.Source) *LoadTask {
	return s.loads.Go(ctx, src.Name(), func(ctx context.Context) error {
		m, err := model.Load(ctx, src)
		if err != nil {
			s.reportLoadFailure(ctx, "model", src.Name(), err)
			return err
		}
		// Completion may race shutdown: never write the gate after
		// cancellation was requested.
		if err := ctx.Err(); err != nil {
			return err
		}
		s.resources.SetModel(m)
		Logger().Debug("model loaded", "source", src.Name(), "format", m.Format())
		return nil
	})
}

// LoadTexture starts loading the face-mesh texture asynchronously, with the
// given usage kind. Failure semantics match LoadModel.
func (s *Session) LoadTexture(ctx context.Context, src texture.Source, usage texture.Usage, opts ...texture.Option) *LoadTask {
	return s.loads.Go(ctx, src.Name(), func(ctx context.Context) error {
		t, err := texture.Load(ctx, src, usage, opts...)
		if err != nil {
			s.reportLoadFailure(ctx, "texture", src.Name(), err)
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		s.resources.SetTexture(t)
		Logger().Debug("texture loaded", "source", src.Name(), "usage", usage.String(),
			"width", t.Width(), "height", t.Height())
		return nil
	})
}

// AttachTo registers the session's update handler with the tracking
// provider. Call it once the host's render surface is ready; events
// delivered before attachment never reach the session. Only the first call
// has any effect.
func (s *Session) AttachTo(p TrackingProvider) {
	if p == nil {
		return
	}
	s.attachOnce.Do(func() {
		p.SetTrackingHandler(s.HandleUpdate)
		Logger().Info("tracking handler attached")
	})
}

// HandleUpdate applies one tracking-state event.
//
// Transition table, keyed by table membership and event state:
//
//	no entry  + TRACKING, gate not ready → no-op (retried on the next event)
//	no entry  + TRACKING, gate ready     → create node, add to scene, insert
//	entry     + TRACKING                 → no-op (never reattach)
//	no entry  + PAUSED or STOPPED        → no-op (tolerates duplicate stops)
//	entry     + PAUSED or STOPPED        → remove from scene, erase entry
//
// Events on a closed session are ignored.
func (s *Session) HandleUpdate(ev TrackingEvent) {
	if ev.Face == nil || !s.live.Load() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	node, tracked := s.nodes[ev.Face]

	switch ev.State {
	case TrackingStateTracking:
		if tracked {
			return // already decorated; do not recreate or rebind
		}

		// Snapshot reads: absent resources mean the gate is not ready yet
		// (or a load failed permanently). Either way, skip this frame.
		m := s.resources.Model()
		tex := s.resources.Texture()
		if m == nil || tex == nil {
			return
		}

		node = NewFaceNode(ev.Face, m, tex)
		s.scene.AddChild(node)
		s.nodes[ev.Face] = node
		Logger().Debug("face node attached", "faces", len(s.nodes))

	case TrackingStatePaused, TrackingStateStopped:
		if !tracked {
			return
		}
		s.scene.RemoveChild(node)
		delete(s.nodes, ev.Face)
		Logger().Debug("face node detached", "state", ev.State.String(), "faces", len(s.nodes))
	}
}

// Close cancels every pending load and stops event processing. Idempotent.
// Nodes already in the scene are left for the host to tear down with its
// renderer; loads completing after Close never touch the readiness gate.
func (s *Session) Close() {
	if !s.live.CompareAndSwap(true, false) {
		return
	}
	s.loads.CancelAll()
	Logger().Info("session closed")
}

// reportLoadFailure routes one load failure to the error surface.
// Cancellation is not a failure: a load torn down by Close stays silent.
func (s *Session) reportLoadFailure(ctx context.Context, kind, name string, err error) {
	if ctx.Err() != nil || !s.live.Load() {
		return
	}
	wrapped := fmt.Errorf("arface: unable to load %s %s: %w", kind, name, err)
	if s.errh != nil {
		s.errh(wrapped)
		return
	}
	Logger().Warn("resource load failed", "kind", kind, "source", name, "err", err)
}
