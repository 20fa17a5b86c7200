package arface

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"sync"
	"testing"

	"github.com/gogpu/arface/model"
	"github.com/gogpu/arface/texture"
)

// fakeFace is a comparable tracked-face identity for tests.
type fakeFace struct {
	id   int
	pose Pose
}

func (f *fakeFace) CenterPose() Pose { return f.pose }

// recordScene records every scene mutation for verification.
type recordScene struct {
	mu      sync.Mutex
	added   []*FaceNode
	removed []*FaceNode
}

func (s *recordScene) AddChild(n *FaceNode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.added = append(s.added, n)
}

func (s *recordScene) RemoveChild(n *FaceNode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, n)
}

func (s *recordScene) counts() (added, removed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.added), len(s.removed)
}

// fakeProvider is a tracking provider that delivers events to the
// registered handler and counts registrations.
type fakeProvider struct {
	handler  func(TrackingEvent)
	setCalls int
}

func (p *fakeProvider) SetTrackingHandler(h func(TrackingEvent)) {
	p.handler = h
	p.setCalls++
}

func (p *fakeProvider) deliver(ev TrackingEvent) {
	if p.handler != nil {
		p.handler(ev)
	}
}

// registerStubDecoder installs a model decoder that accepts anything.
func registerStubDecoder(t *testing.T) {
	t.Helper()
	model.Register("stub", 10, func(ctx context.Context, name string, r io.Reader) (*model.Model, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return model.New(name, "stub", data), nil
	}, nil)
	t.Cleanup(func() { model.Unregister("stub") })
}

// pngBytes encodes a small solid image for texture loading.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatalf("png.Encode() = %v", err)
	}
	return buf.Bytes()
}

// readySession returns a session whose readiness gate is already satisfied.
func readySession(t *testing.T, scene Scene, opts ...SessionOption) *Session {
	t.Helper()
	s := NewSession(scene, opts...)
	t.Cleanup(s.Close)
	s.Resources().SetModel(testModel(t))
	s.Resources().SetTexture(testTexture(t))
	return s
}

func TestSessionCreatesNodeWhenReady(t *testing.T) {
	scene := &recordScene{}
	s := readySession(t, scene)
	face := &fakeFace{id: 1}

	s.HandleUpdate(TrackingEvent{Face: face, State: TrackingStateTracking})

	if got := s.NodeCount(); got != 1 {
		t.Fatalf("NodeCount() = %d, want 1", got)
	}
	added, removed := scene.counts()
	if added != 1 || removed != 0 {
		t.Errorf("scene mutations = (%d adds, %d removes), want (1, 0)", added, removed)
	}

	node, ok := s.Node(face)
	if !ok {
		t.Fatal("Node() did not find the created node")
	}
	if node.Face() != face {
		t.Error("node bound to the wrong face")
	}
	if node.Instance().ShadowCaster() {
		t.Error("face node casts shadows, want disabled")
	}
	if !node.Instance().ShadowReceiver() {
		t.Error("face node does not receive shadows, want enabled")
	}
	if node.MeshTexture() == nil {
		t.Error("face node has no mesh texture")
	}
}

func TestSessionDuplicateTrackingIdempotent(t *testing.T) {
	scene := &recordScene{}
	s := readySession(t, scene)
	face := &fakeFace{id: 1}

	s.HandleUpdate(TrackingEvent{Face: face, State: TrackingStateTracking})
	s.HandleUpdate(TrackingEvent{Face: face, State: TrackingStateTracking})
	s.HandleUpdate(TrackingEvent{Face: face, State: TrackingStateTracking})

	if got := s.NodeCount(); got != 1 {
		t.Errorf("NodeCount() = %d after duplicate TRACKING, want 1", got)
	}
	if added, _ := scene.counts(); added != 1 {
		t.Errorf("scene adds = %d after duplicate TRACKING, want 1", added)
	}
}

func TestSessionStopUnknownFaceNoop(t *testing.T) {
	scene := &recordScene{}
	s := readySession(t, scene)

	s.HandleUpdate(TrackingEvent{Face: &fakeFace{id: 9}, State: TrackingStateStopped})

	if got := s.NodeCount(); got != 0 {
		t.Errorf("NodeCount() = %d, want 0", got)
	}
	if _, removed := scene.counts(); removed != 0 {
		t.Errorf("scene removes = %d for unknown face, want 0", removed)
	}
}

func TestSessionReadinessGating(t *testing.T) {
	scene := &recordScene{}
	s := NewSession(scene)
	t.Cleanup(s.Close)
	face := &fakeFace{id: 1}

	// Gate not ready: TRACKING must not create a node.
	s.HandleUpdate(TrackingEvent{Face: face, State: TrackingStateTracking})
	if got := s.NodeCount(); got != 0 {
		t.Fatalf("NodeCount() = %d before readiness, want 0", got)
	}

	// Model alone is not enough.
	s.Resources().SetModel(testModel(t))
	s.HandleUpdate(TrackingEvent{Face: face, State: TrackingStateTracking})
	if got := s.NodeCount(); got != 0 {
		t.Fatalf("NodeCount() = %d with model only, want 0", got)
	}

	// Both ready: the next TRACKING event creates exactly one node.
	s.Resources().SetTexture(testTexture(t))
	s.HandleUpdate(TrackingEvent{Face: face, State: TrackingStateTracking})
	if got := s.NodeCount(); got != 1 {
		t.Fatalf("NodeCount() = %d after readiness, want 1", got)
	}
	if added, _ := scene.counts(); added != 1 {
		t.Errorf("scene adds = %d, want 1", added)
	}
}

func TestSessionTeardownRemovesExactlyOnce(t *testing.T) {
	scene := &recordScene{}
	s := readySession(t, scene)
	face := &fakeFace{id: 1}

	s.HandleUpdate(TrackingEvent{Face: face, State: TrackingStateTracking})
	s.HandleUpdate(TrackingEvent{Face: face, State: TrackingStateStopped})
	s.HandleUpdate(TrackingEvent{Face: face, State: TrackingStateStopped}) // duplicate stop

	if got := s.NodeCount(); got != 0 {
		t.Errorf("NodeCount() = %d after STOPPED, want 0", got)
	}
	added, removed := scene.counts()
	if added != 1 || removed != 1 {
		t.Errorf("scene mutations = (%d adds, %d removes), want (1, 1)", added, removed)
	}
	if _, ok := s.Node(face); ok {
		t.Error("table still contains the stopped face")
	}
}

func TestSessionPausedTearsDownLikeStopped(t *testing.T) {
	scene := &recordScene{}
	s := readySession(t, scene)
	face := &fakeFace{id: 1}

	s.HandleUpdate(TrackingEvent{Face: face, State: TrackingStateTracking})
	s.HandleUpdate(TrackingEvent{Face: face, State: TrackingStatePaused})

	if got := s.NodeCount(); got != 0 {
		t.Errorf("NodeCount() = %d after PAUSED, want 0", got)
	}

	// A paused face that resumes gets a fresh node.
	s.HandleUpdate(TrackingEvent{Face: face, State: TrackingStateTracking})
	if got := s.NodeCount(); got != 1 {
		t.Errorf("NodeCount() = %d after resume, want 1", got)
	}
	added, removed := scene.counts()
	if added != 2 || removed != 1 {
		t.Errorf("scene mutations = (%d adds, %d removes), want (2, 1)", added, removed)
	}
}

func TestSessionTableMirrorsTrackingSet(t *testing.T) {
	scene := &recordScene{}
	s := readySession(t, scene)

	a := &fakeFace{id: 1}
	b := &fakeFace{id: 2}
	c := &fakeFace{id: 3}

	s.HandleUpdate(TrackingEvent{Face: a, State: TrackingStateTracking})
	s.HandleUpdate(TrackingEvent{Face: b, State: TrackingStateTracking})
	s.HandleUpdate(TrackingEvent{Face: c, State: TrackingStateTracking})
	s.HandleUpdate(TrackingEvent{Face: b, State: TrackingStateStopped})

	if got := s.NodeCount(); got != 2 {
		t.Fatalf("NodeCount() = %d, want 2", got)
	}
	if _, ok := s.Node(a); !ok {
		t.Error("face a missing from table")
	}
	if _, ok := s.Node(b); ok {
		t.Error("stopped face b still in table")
	}
	if _, ok := s.Node(c); !ok {
		t.Error("face c missing from table")
	}
}

func TestSessionNilFaceIgnored(t *testing.T) {
	s := readySession(t, &recordScene{})
	s.HandleUpdate(TrackingEvent{Face: nil, State: TrackingStateTracking})
	if got := s.NodeCount(); got != 0 {
		t.Errorf("NodeCount() = %d after nil-face event, want 0", got)
	}
}

func TestSessionClosedIgnoresEvents(t *testing.T) {
	scene := &recordScene{}
	s := readySession(t, scene)
	s.Close()

	s.HandleUpdate(TrackingEvent{Face: &fakeFace{id: 1}, State: TrackingStateTracking})

	if got := s.NodeCount(); got != 0 {
		t.Errorf("NodeCount() = %d on closed session, want 0", got)
	}
	if added, _ := scene.counts(); added != 0 {
		t.Errorf("scene adds = %d on closed session, want 0", added)
	}
}

func TestSessionCloseIdempotent(t *testing.T) {
	s := NewSession(&recordScene{})
	s.Close()
	s.Close() // must not panic
}

func TestSessionAttachOnce(t *testing.T) {
	s := readySession(t, &recordScene{})
	p := &fakeProvider{}

	s.AttachTo(p)
	s.AttachTo(p)
	s.AttachTo(p)

	if p.setCalls != 1 {
		t.Errorf("SetTrackingHandler called %d times, want 1", p.setCalls)
	}

	// Events delivered through the provider reach the session.
	face := &fakeFace{id: 1}
	p.deliver(TrackingEvent{Face: face, State: TrackingStateTracking})
	if got := s.NodeCount(); got != 1 {
		t.Errorf("NodeCount() = %d after provider delivery, want 1", got)
	}
}

func TestSessionAttachNilProviderNoop(t *testing.T) {
	s := readySession(t, &recordScene{})
	s.AttachTo(nil) // must not panic
}

func TestSessionLoadsPublishResources(t *testing.T) {
	registerStubDecoder(t)
	scene := &recordScene{}
	s := NewSession(scene)
	t.Cleanup(s.Close)

	ctx := context.Background()
	mt := s.LoadModel(ctx, model.BytesSource{Label: "fox.glb", Data: []byte("geometry")})
	tt := s.LoadTexture(ctx, texture.BytesSource{Label: "freckles.png", Data: pngBytes(t)}, texture.UsageColor)

	if err := mt.Wait(); err != nil {
		t.Fatalf("model load = %v", err)
	}
	if err := tt.Wait(); err != nil {
		t.Fatalf("texture load = %v", err)
	}

	if !s.Resources().Ready() {
		t.Fatal("gate not ready after both loads completed")
	}
	if got := s.PendingLoads(); got != 0 {
		t.Errorf("PendingLoads() = %d, want 0", got)
	}

	// The face that was waiting gets decorated on its next event.
	face := &fakeFace{id: 1}
	s.HandleUpdate(TrackingEvent{Face: face, State: TrackingStateTracking})
	if got := s.NodeCount(); got != 1 {
		t.Errorf("NodeCount() = %d, want 1", got)
	}
}

func TestSessionTextureFailureReportedOnce(t *testing.T) {
	registerStubDecoder(t)

	var mu sync.Mutex
	var reported []error
	s := NewSession(&recordScene{}, WithErrorHandler(func(err error) {
		mu.Lock()
		defer mu.Unlock()
		reported = append(reported, err)
	}))
	t.Cleanup(s.Close)

	ctx := context.Background()
	mt := s.LoadModel(ctx, model.BytesSource{Label: "fox.glb", Data: []byte("geometry")})
	tt := s.LoadTexture(ctx, texture.BytesSource{Label: "broken.png", Data: []byte("not an image")}, texture.UsageColor)

	if err := mt.Wait(); err != nil {
		t.Fatalf("model load = %v", err)
	}
	if err := tt.Wait(); err == nil {
		t.Fatal("texture load succeeded on corrupt data, want error")
	}

	mu.Lock()
	n := len(reported)
	mu.Unlock()
	if n != 1 {
		t.Fatalf("error surface invoked %d times, want 1", n)
	}

	// Gate can never become ready; TRACKING events must never create nodes.
	if s.Resources().Ready() {
		t.Fatal("gate ready despite texture failure")
	}
	for i := 0; i < 10; i++ {
		s.HandleUpdate(TrackingEvent{Face: &fakeFace{id: i}, State: TrackingStateTracking})
	}
	if got := s.NodeCount(); got != 0 {
		t.Errorf("NodeCount() = %d with failed texture, want 0", got)
	}

	// No further reports from the tracking path.
	mu.Lock()
	n = len(reported)
	mu.Unlock()
	if n != 1 {
		t.Errorf("error surface invoked %d times after tracking events, want 1", n)
	}
}

// blockingSource blocks Open until released, simulating a slow asset.
type blockingSource struct {
	name    string
	release chan struct{}
	data    []byte
}

func (s blockingSource) Name() string { return s.name }

func (s blockingSource) Open() (io.ReadCloser, error) {
	<-s.release
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

func TestSessionCloseCancelsPendingLoads(t *testing.T) {
	registerStubDecoder(t)

	var mu sync.Mutex
	var reported []error
	s := NewSession(&recordScene{}, WithErrorHandler(func(err error) {
		mu.Lock()
		defer mu.Unlock()
		reported = append(reported, err)
	}))

	release := make(chan struct{})
	ctx := context.Background()
	mt := s.LoadModel(ctx, blockingSource{name: "slow.glb", release: release, data: []byte("geometry")})
	tt := s.LoadTexture(ctx, blockingSource{name: "slow.png", release: release, data: pngBytes(t)}, texture.UsageColor)

	if got := s.PendingLoads(); got != 2 {
		t.Fatalf("PendingLoads() = %d, want 2", got)
	}

	s.Close()
	close(release) // loads complete after cancellation was requested

	if err := mt.Wait(); !errors.Is(err, context.Canceled) {
		t.Errorf("model Wait() = %v, want context.Canceled", err)
	}
	if err := tt.Wait(); !errors.Is(err, context.Canceled) {
		t.Errorf("texture Wait() = %v, want context.Canceled", err)
	}

	// Late completions must not mutate the gate or surface errors.
	if s.Resources().Model() != nil || s.Resources().Texture() != nil {
		t.Error("gate mutated by a load completing after Close")
	}
	mu.Lock()
	n := len(reported)
	mu.Unlock()
	if n != 0 {
		t.Errorf("error surface invoked %d times during shutdown, want 0", n)
	}
}

func TestSessionScenarioTrackTrackStopStop(t *testing.T) {
	scene := &recordScene{}
	s := readySession(t, scene)
	face := &fakeFace{id: 1}

	s.HandleUpdate(TrackingEvent{Face: face, State: TrackingStateTracking})
	s.HandleUpdate(TrackingEvent{Face: face, State: TrackingStateTracking})
	s.HandleUpdate(TrackingEvent{Face: face, State: TrackingStateStopped})
	s.HandleUpdate(TrackingEvent{Face: face, State: TrackingStateStopped})

	added, removed := scene.counts()
	if added != 1 {
		t.Errorf("scene adds = %d, want 1", added)
	}
	if removed != 1 {
		t.Errorf("scene removes = %d, want 1", removed)
	}
	if got := s.NodeCount(); got != 0 {
		t.Errorf("NodeCount() = %d, want 0", got)
	}
}

func TestSessionConcurrentEvents(t *testing.T) {
	scene := &recordScene{}
	s := readySession(t, scene)

	const faces = 32
	var wg sync.WaitGroup
	for i := 0; i < faces; i++ {
		face := &fakeFace{id: i}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.HandleUpdate(TrackingEvent{Face: face, State: TrackingStateTracking})
			s.HandleUpdate(TrackingEvent{Face: face, State: TrackingStateTracking})
			if face.id%2 == 0 {
				s.HandleUpdate(TrackingEvent{Face: face, State: TrackingStateStopped})
			}
		}()
	}
	wg.Wait()

	if got := s.NodeCount(); got != faces/2 {
		t.Errorf("NodeCount() = %d, want %d", got, faces/2)
	}
	added, removed := scene.counts()
	if added != faces || removed != faces/2 {
		t.Errorf("scene mutations = (%d adds, %d removes), want (%d, %d)",
			added, removed, faces, faces/2)
	}
}

func TestSessionNilSceneUsesNodeList(t *testing.T) {
	s := NewSession(nil)
	t.Cleanup(s.Close)
	s.Resources().SetModel(testModel(t))
	s.Resources().SetTexture(testTexture(t))

	s.HandleUpdate(TrackingEvent{Face: &fakeFace{id: 1}, State: TrackingStateTracking})
	if got := s.NodeCount(); got != 1 {
		t.Errorf("NodeCount() = %d with fallback scene, want 1", got)
	}
}

func TestSessionOptions(t *testing.T) {
	s := NewSession(&recordScene{},
		WithCameraRenderPriority(99),
		WithDeviceHandle(nil),
	)
	t.Cleanup(s.Close)

	if got := s.CameraRenderPriority(); got != model.RenderPriorityLast {
		t.Errorf("CameraRenderPriority() = %d, want clamped to %d", got, model.RenderPriorityLast)
	}
	if _, ok := s.DeviceHandle().(NullDeviceHandle); !ok {
		t.Errorf("DeviceHandle() = %T, want NullDeviceHandle fallback", s.DeviceHandle())
	}
}

func TestSessionDefaultCameraPriority(t *testing.T) {
	s := NewSession(&recordScene{})
	t.Cleanup(s.Close)
	if got := s.CameraRenderPriority(); got != model.RenderPriorityFirst {
		t.Errorf("CameraRenderPriority() = %d, want %d", got, model.RenderPriorityFirst)
	}
}

func TestSessionSharedResources(t *testing.T) {
	shared := NewResources()
	shared.SetModel(testModel(t))
	shared.SetTexture(testTexture(t))

	s1 := NewSession(&recordScene{}, WithResources(shared))
	t.Cleanup(s1.Close)
	s2 := NewSession(&recordScene{}, WithResources(shared))
	t.Cleanup(s2.Close)

	s1.HandleUpdate(TrackingEvent{Face: &fakeFace{id: 1}, State: TrackingStateTracking})
	s2.HandleUpdate(TrackingEvent{Face: &fakeFace{id: 2}, State: TrackingStateTracking})

	if s1.NodeCount() != 1 || s2.NodeCount() != 1 {
		t.Errorf("NodeCount() = (%d, %d), want (1, 1)", s1.NodeCount(), s2.NodeCount())
	}
}

func BenchmarkSessionHandleUpdateSteadyState(b *testing.B) {
	s := NewSession(&recordScene{})
	defer s.Close()
	s.Resources().SetModel(model.New("bench.glb", "stub", nil))
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	tex, _ := texture.FromImage("bench.png", img, texture.UsageColor)
	s.Resources().SetTexture(tex)

	face := &fakeFace{id: 1}
	ev := TrackingEvent{Face: face, State: TrackingStateTracking}
	s.HandleUpdate(ev)

	b.ReportAllocs()
	for b.Loop() {
		// Steady state: face already decorated, event is an idempotent no-op.
		s.HandleUpdate(ev)
	}
}
