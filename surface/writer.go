// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"fmt"

	"github.com/gogpu/juliafx/region"
)

// ErrInvalidTileGeometry is returned by CheckTile when a tile does not fit
// its destination or the result buffer has the wrong size.
var ErrInvalidTileGeometry = errors.New("surface: invalid tile geometry")

// copyFunc copies src into dst and returns the number of bytes copied.
type copyFunc func(dst, src []byte) int

// CheckTile validates that tile lies within dst and that src holds exactly
// tile.Width*tile.Height pixels.
func CheckTile(dst *Surface, src []byte, tile region.Rect) error {
	if tile.Width < 0 || tile.Height < 0 || !dst.Bounds().Contains(tile) {
		return fmt.Errorf("%w: tile %v outside surface %dx%d", ErrInvalidTileGeometry, tile, dst.width, dst.height)
	}
	if want := tile.Area() * BytesPerPixel; len(src) != want {
		return fmt.Errorf("%w: result has %d bytes, tile %v needs %d", ErrInvalidTileGeometry, len(src), tile, want)
	}
	return nil
}

// WriteTile copies a tightly packed tile result into dst at tile's position.
//
// When the tile spans the full width of a surface with unpadded rows, the
// result is copied as one contiguous block. Otherwise each of the tile's
// rows is copied separately, advancing the source by the tile row size and
// the destination by the surface stride.
//
// WriteTile panics if CheckTile would fail.
func WriteTile(dst *Surface, src []byte, tile region.Rect) {
	writeTile(dst, src, tile, func(d, s []byte) int { return copy(d, s) })
}

func writeTile(dst *Surface, src []byte, tile region.Rect, cp copyFunc) {
	if err := CheckTile(dst, src, tile); err != nil {
		panic(err)
	}
	if tile.Empty() {
		return
	}

	rowSize := tile.Width * BytesPerPixel
	offset := dst.PixOffset(tile.X, tile.Y)

	if tile.Width == dst.width && dst.stride == rowSize {
		cp(dst.pix[offset:offset+rowSize*tile.Height], src)
		return
	}

	srcOff := 0
	for y := tile.Y; y < tile.Bottom(); y++ {
		cp(dst.pix[offset:offset+rowSize], src[srcOff:srcOff+rowSize])
		srcOff += rowSize
		offset += dst.stride
	}
}
