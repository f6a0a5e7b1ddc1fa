// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface provides the destination pixel buffer that rendered tiles
// are composited into.
//
// A Surface stores 32-bit BGRA pixels in rows that may be padded: Stride is
// the byte distance between the start of consecutive rows and may exceed
// Width*4. Tiles produced by a compute dispatch are tightly packed
// (row size == tile width * 4), so WriteTile copies them row by row, or as a
// single block when the tile spans whole contiguous rows.
//
// Surfaces are NOT thread-safe. The scheduler owns the destination surface
// for the duration of a render pass; nothing else may write to it.
package surface
