// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package arface

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
//
// This is the integration point between arface and GPU frameworks like
// gogpu. The host implements DeviceHandle (usually by wrapping its existing
// device) and passes it via WithDeviceHandle; upload backends such as
// backend/native then reuse the shared device instead of creating one.
//
// Key principle: arface RECEIVES the device from the host, it does NOT
// create one. Resource upload rides on the renderer's device and queue.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider, giving the
// interface an arface-local name while staying fully compatible with the
// gpucontext ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

// NullDeviceHandle is a DeviceHandle that provides nil implementations.
// Use it for hosts that render without a GPU (tests, headless pipelines);
// texture upload is skipped and nodes carry CPU-side textures only.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// AdapterInfo returns unknown adapter info for the null device.
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
}

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}
