// Package arface coordinates face-tracking overlays for augmented-reality
// rendering.
//
// # Overview
//
// arface sits between a perception subsystem that tracks human faces and a
// renderer that draws a scene graph. It owns the coordination problem in the
// middle: heavyweight render resources (a 3D model and a texture) load
// asynchronously exactly once, tracking-state events arrive every frame, and
// the scene graph must reflect the set of currently tracked faces at every
// instant, each face decorated with the loaded resources once they are
// available.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/arface"
//	    "github.com/gogpu/arface/model"
//	    "github.com/gogpu/arface/texture"
//	)
//
//	scene := arface.NewNodeList() // or the host renderer's Scene
//	session := arface.NewSession(scene)
//
//	// Kick off resource loading. Both complete asynchronously.
//	session.LoadModel(ctx, model.FileSource("fox.glb"))
//	session.LoadTexture(ctx, texture.FileSource("freckles.png"), texture.UsageColor)
//
//	// Once the render surface is up, wire the tracking feed.
//	session.AttachTo(provider)
//
//	// On shutdown, cancel whatever is still in flight.
//	defer session.Close()
//
// Tracking events delivered before both resources finish loading are held off
// without blocking: the face gets its node attached lazily on the next
// TRACKING event after readiness, so no face is missed and nothing busy-waits.
//
// # Architecture
//
// The library is organized into:
//   - Public API: Session, TrackingEvent, FaceNode, Scene, Resources
//   - model/: renderable model container and pluggable decoder registry
//   - texture/: texture decoding and conditioning for GPU upload
//   - backend/native/: texture upload via gogpu/wgpu (optional)
//
// The perception subsystem, the renderer, and the host error surface stay
// outside this module; arface talks to them through small interfaces
// (TrackingProvider, Scene, the WithErrorHandler option).
//
// # Concurrency
//
// Resource completions run on loader goroutines; tracking events run on the
// host's frame loop. The readiness gate is read with atomic snapshot loads so
// the frame path never blocks on a loader. Scene and face-table mutation is
// serialized inside Session, so hosts may deliver events from any goroutine.
package arface

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0-alpha.1"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0

	// VersionPrerelease is the prerelease identifier
	VersionPrerelease = "alpha.1"
)
