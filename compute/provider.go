// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import (
	"errors"
	"fmt"

	"github.com/gogpu/wgpu/hal"
)

// halProvider is implemented by device providers that expose HAL objects,
// such as the gogpu application context.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

var errNotHALProvider = errors.New("provider does not expose HAL types")

// sharedDevice extracts the HAL device and queue from a provider.
func sharedDevice(provider any) (hal.Device, hal.Queue, error) {
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, nil, errNotHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, fmt.Errorf("provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, fmt.Errorf("provider HalQueue is not hal.Queue")
	}
	return device, queue, nil
}

// initShared adopts the provider's device. Caller must hold b.mu.
func (b *HALBackend) initShared() error {
	device, queue, err := sharedDevice(b.opts.provider)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	b.device = device
	b.queue = queue
	b.shared = true
	b.info = AdapterInfo{Name: "host device", Shared: true}
	b.ready = true
	Logger().Info("compute: using shared device")
	return nil
}
