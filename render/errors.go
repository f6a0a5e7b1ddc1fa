// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/juliafx/compute"
	"github.com/gogpu/juliafx/surface"
)

// Errors returned by Render and DispatchTile.
var (
	// ErrBackendUnavailable is compute.ErrBackendUnavailable.
	ErrBackendUnavailable = compute.ErrBackendUnavailable

	// ErrDeviceLost is compute.ErrDeviceLost.
	ErrDeviceLost = compute.ErrDeviceLost

	// ErrInvalidTileGeometry is surface.ErrInvalidTileGeometry.
	ErrInvalidTileGeometry = surface.ErrInvalidTileGeometry
)
