// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package kernel

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/juliafx/region"
)

// Size is the encoded size of Constants in bytes.
const Size = 192

// ConstantsVersion identifies the byte layout produced by MarshalBinary.
// It changes whenever a field is added, removed or moved.
const ConstantsVersion = 1

// Field offsets within the encoded record.
const (
	offDiffuse       = 0
	offMu            = 16
	offEpsilon       = 32
	offWidth         = 36
	offHeight        = 40
	offSelfShadow    = 44
	offRotation      = 48
	offLightRotation = 112
	offZoom          = 176
	offRectX         = 180
	offRectY         = 184
	offRectWidth     = 188
)

// Default shading values.
var (
	DefaultDiffuse = [4]float32{1.0, 0.45, 0.25, 1.0} // R, G, B, A
	DefaultEpsilon = float32(0.003)
)

// Constants is the per-tile parameter record read by the kernel.
//
// Width and Height always describe the whole image, not the tile, so the
// kernel can place each pixel in the full view. The Rect fields locate the
// tile and must be refreshed for every dispatch.
type Constants struct {
	Diffuse       [4]float32
	Mu            [4]float32
	Epsilon       float32
	Width         int32
	Height        int32
	SelfShadow    bool
	Rotation      Matrix4
	LightRotation Matrix4
	Zoom          float32

	RectX     float32
	RectY     float32
	RectWidth float32
}

// WithTile returns a copy of c whose geometry fields describe tile.
func (c Constants) WithTile(tile region.Rect) Constants {
	c.RectX = float32(tile.X)
	c.RectY = float32(tile.Y)
	c.RectWidth = float32(tile.Width)
	return c
}

// MarshalBinary encodes c in the little-endian layout the kernel expects.
// It never returns an error.
func (c Constants) MarshalBinary() ([]byte, error) {
	return c.AppendBinary(make([]byte, 0, Size))
}

// AppendBinary appends the encoded record to b.
func (c Constants) AppendBinary(b []byte) ([]byte, error) {
	start := len(b)
	b = append(b, make([]byte, Size)...)
	buf := b[start:]

	putF32 := func(off int, v float32) {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
	}
	putI32 := func(off int, v int32) {
		binary.LittleEndian.PutUint32(buf[off:], uint32(v))
	}
	putMat := func(off int, m Matrix4) {
		for r := range 4 {
			for col := range 4 {
				putF32(off+(r*4+col)*4, m[r][col])
			}
		}
	}

	for i, v := range c.Diffuse {
		putF32(offDiffuse+i*4, v)
	}
	for i, v := range c.Mu {
		putF32(offMu+i*4, v)
	}
	putF32(offEpsilon, c.Epsilon)
	putI32(offWidth, c.Width)
	putI32(offHeight, c.Height)
	if c.SelfShadow {
		putI32(offSelfShadow, 1)
	}
	putMat(offRotation, c.Rotation)
	putMat(offLightRotation, c.LightRotation)
	putF32(offZoom, c.Zoom)
	putF32(offRectX, c.RectX)
	putF32(offRectY, c.RectY)
	putF32(offRectWidth, c.RectWidth)
	return b, nil
}

// UnmarshalBinary decodes a record produced by MarshalBinary.
func (c *Constants) UnmarshalBinary(b []byte) error {
	if len(b) < Size {
		return errShortRecord
	}
	f32 := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
	}
	i32 := func(off int) int32 {
		return int32(binary.LittleEndian.Uint32(b[off:]))
	}
	mat := func(off int) Matrix4 {
		var m Matrix4
		for r := range 4 {
			for col := range 4 {
				m[r][col] = f32(off + (r*4+col)*4)
			}
		}
		return m
	}

	for i := range c.Diffuse {
		c.Diffuse[i] = f32(offDiffuse + i*4)
	}
	for i := range c.Mu {
		c.Mu[i] = f32(offMu + i*4)
	}
	c.Epsilon = f32(offEpsilon)
	c.Width = i32(offWidth)
	c.Height = i32(offHeight)
	c.SelfShadow = i32(offSelfShadow) != 0
	c.Rotation = mat(offRotation)
	c.LightRotation = mat(offLightRotation)
	c.Zoom = f32(offZoom)
	c.RectX = f32(offRectX)
	c.RectY = f32(offRectY)
	c.RectWidth = f32(offRectWidth)
	return nil
}
