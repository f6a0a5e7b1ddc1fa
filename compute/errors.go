// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import "errors"

var (
	// ErrBackendUnavailable is returned when no device with compute
	// support could be initialized, or when Dispatch is called before a
	// successful Init.
	ErrBackendUnavailable = errors.New("compute: backend unavailable")

	// ErrDeviceLost is returned when a resource or dispatch operation fails
	// on an initialized device.
	ErrDeviceLost = errors.New("compute: device lost")

	// ErrNoProgram is returned by Dispatch when no kernel has been loaded.
	ErrNoProgram = errors.New("compute: no program loaded")

	// ErrInvalidRequest is returned for a dispatch with an empty tile,
	// no workgroups or no constants.
	ErrInvalidRequest = errors.New("compute: invalid dispatch request")
)
