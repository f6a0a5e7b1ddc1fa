// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package kernel holds the quaternion Julia compute kernel and the
// fixed-layout constant record it reads.
//
// A kernel is addressed by a resource path and resolved through Lookup.
// Its WGSL source is embedded in the binary and compiled to SPIR-V with
// naga on first use; compiled words are cached by path so repeated
// configuration changes do not recompile.
//
// Constants is uploaded once per tile. Everything except the tile geometry
// (RectX, RectY, RectWidth) is shared by all tiles of a render pass, so
// callers build one base record per pass and derive per-tile copies with
// WithTile.
package kernel
