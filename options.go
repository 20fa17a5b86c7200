package arface

import "github.com/gogpu/arface/model"

// SessionOption configures a Session during creation.
// Use functional options to customize Session behavior.
//
// Example:
//
//	// Default: errors go to the package logger, no GPU device.
//	s := arface.NewSession(scene)
//
//	// Host error surface and shared GPU device.
//	s := arface.NewSession(scene,
//	    arface.WithErrorHandler(app.Toast),
//	    arface.WithDeviceHandle(app.Device()))
type SessionOption func(*sessionOptions)

// sessionOptions holds optional configuration for Session creation.
type sessionOptions struct {
	errorHandler   func(error)
	device         DeviceHandle
	resources      *Resources
	cameraPriority int
}

// defaultSessionOptions returns the default session options.
func defaultSessionOptions() sessionOptions {
	return sessionOptions{
		errorHandler:   nil, // Logged via the package logger if nil
		device:         NullDeviceHandle{},
		resources:      nil, // Created fresh if nil
		cameraPriority: model.RenderPriorityFirst,
	}
}

// WithErrorHandler routes resource-load failures to the host's error
// surface (a toast, a status line). Each failure is reported exactly once,
// at load-failure time, never per frame. Without a handler, failures are
// logged at Warn level.
func WithErrorHandler(h func(error)) SessionOption {
	return func(o *sessionOptions) {
		o.errorHandler = h
	}
}

// WithDeviceHandle shares the host's GPU device with upload backends.
// Defaults to NullDeviceHandle (no GPU upload).
func WithDeviceHandle(h DeviceHandle) SessionOption {
	return func(o *sessionOptions) {
		if h == nil {
			h = NullDeviceHandle{}
		}
		o.device = h
	}
}

// WithResources supplies an existing readiness gate, letting several
// sessions share one set of loaded resources.
func WithResources(r *Resources) SessionOption {
	return func(o *sessionOptions) {
		o.resources = r
	}
}

// WithCameraRenderPriority overrides the render order hint for the camera
// stream. Defaults to model.RenderPriorityFirst so the camera image draws
// beneath face overlays; the value is clamped to the valid priority range.
func WithCameraRenderPriority(p int) SessionOption {
	return func(o *sessionOptions) {
		if p < model.RenderPriorityFirst {
			p = model.RenderPriorityFirst
		}
		if p > model.RenderPriorityLast {
			p = model.RenderPriorityLast
		}
		o.cameraPriority = p
	}
}
