// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import (
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DefaultFenceTimeout bounds how long a dispatch waits for the GPU.
const DefaultFenceTimeout = 5 * time.Second

// HALOption configures a HALBackend.
//
// Example:
//
//	b := compute.NewHALBackend(
//	    compute.WithFenceTimeout(10*time.Second),
//	    compute.WithSoftwareFallback(false),
//	)
type HALOption func(*halOptions)

// halOptions holds optional HALBackend configuration.
type halOptions struct {
	api              gputypes.Backend
	instance         hal.Instance
	provider         gpucontext.DeviceProvider
	fenceTimeout     time.Duration
	softwareFallback bool
}

// defaultHALOptions returns the default HALBackend options.
func defaultHALOptions() halOptions {
	return halOptions{
		api:              gputypes.BackendVulkan,
		fenceTimeout:     DefaultFenceTimeout,
		softwareFallback: true,
	}
}

// WithAPI selects the registered HAL backend used to create an instance.
// The default is Vulkan.
func WithAPI(api gputypes.Backend) HALOption {
	return func(o *halOptions) {
		o.api = api
	}
}

// WithInstance makes the backend enumerate adapters from inst instead of
// creating its own instance. The backend does not destroy inst.
func WithInstance(inst hal.Instance) HALOption {
	return func(o *halOptions) {
		o.instance = inst
	}
}

// WithDeviceProvider shares the host application's GPU device instead of
// opening one. The provider must also expose HalDevice() and HalQueue()
// returning hal.Device and hal.Queue. A shared device is never destroyed
// by the backend.
func WithDeviceProvider(p gpucontext.DeviceProvider) HALOption {
	return func(o *halOptions) {
		o.provider = p
	}
}

// WithFenceTimeout sets how long Dispatch waits for the GPU to finish.
// Non-positive values keep the default.
func WithFenceTimeout(d time.Duration) HALOption {
	return func(o *halOptions) {
		if d > 0 {
			o.fenceTimeout = d
		}
	}
}

// WithSoftwareFallback enables or disables the software adapter attempt
// made when no hardware adapter can be opened. Enabled by default.
func WithSoftwareFallback(enabled bool) HALOption {
	return func(o *halOptions) {
		o.softwareFallback = enabled
	}
}
