// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render schedules tiled compute renders into a destination surface.
//
// A render invocation takes the regions that need recomputation, slices
// them into tiles no larger than the effect's limits, and for each tile in
// order dispatches the kernel and writes its output into the surface:
//
//	regions -> region.Slice -> Dispatcher.DispatchTile -> surface.WriteTile
//
// The Orchestrator decides which regions to render. After a configuration
// change an effect with custom region handling renders the whole selection
// bounds once; every other invocation renders the regions supplied by the
// caller. Cancellation and backend readiness are checked before each tile,
// never during one. Tiles already written stay written when a pass stops
// early.
//
// Tiles are processed strictly one at a time; a pass never overlaps two
// dispatches on the same backend.
package render
