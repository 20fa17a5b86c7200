package arface

// TrackingState describes whether the perception subsystem currently
// detects a face.
type TrackingState uint8

const (
	// TrackingStateTracking indicates the face is detected in the current frame.
	TrackingStateTracking TrackingState = iota

	// TrackingStatePaused indicates detection is temporarily interrupted.
	// The face may resume TRACKING in a later frame.
	TrackingStatePaused

	// TrackingStateStopped indicates the face is no longer tracked.
	TrackingStateStopped
)

// String returns the tracking state name.
func (s TrackingState) String() string {
	switch s {
	case TrackingStateTracking:
		return "tracking"
	case TrackingStatePaused:
		return "paused"
	case TrackingStateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// TrackedFace is the perception subsystem's identity for one physical face.
//
// Implementations are owned by the tracking provider. A TrackedFace is
// compared by identity: the provider must deliver the same value for the
// same physical face across frames, and the dynamic type must be comparable
// (Session keys its face table by it). The value is only guaranteed valid
// while referenced by an active or just-stopped tracking event; Session
// never retains faces beyond table keys.
type TrackedFace interface {
	// CenterPose returns the current pose of the face center in world space.
	CenterPose() Pose
}

// TrackingEvent reports one tracking-state transition for one face.
// The perception subsystem delivers at most one event per face per frame.
type TrackingEvent struct {
	Face  TrackedFace
	State TrackingState
}

// TrackingProvider is the perception subsystem's registration surface.
//
// Providers must hold delivered events until a handler is set and silently
// drop events while none is registered. Session.AttachTo registers the
// session's handler exactly once, after the host's render surface is ready.
type TrackingProvider interface {
	// SetTrackingHandler installs the callback invoked once per
	// TrackingEvent. Passing nil removes the handler.
	SetTrackingHandler(handler func(TrackingEvent))
}
