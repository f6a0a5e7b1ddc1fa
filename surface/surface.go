// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/juliafx/region"
)

// BytesPerPixel is the size of one BGRA pixel.
const BytesPerPixel = 4

// BGRA is a single surface pixel.
type BGRA struct {
	B, G, R, A uint8
}

// Surface is a BGRA pixel buffer with an explicit row stride.
type Surface struct {
	width  int
	height int
	stride int
	pix    []byte
}

// New creates a zeroed surface with tightly packed rows.
func New(width, height int) *Surface {
	return NewWithStride(width, height, width*BytesPerPixel)
}

// NewWithStride creates a zeroed surface whose rows are stride bytes apart.
// The stride is raised to width*BytesPerPixel if smaller.
func NewWithStride(width, height, stride int) *Surface {
	width = max(width, 0)
	height = max(height, 0)
	stride = max(stride, width*BytesPerPixel)
	return &Surface{
		width:  width,
		height: height,
		stride: stride,
		pix:    make([]byte, stride*height),
	}
}

// Wrap creates a surface over existing pixel memory.
// It returns an error if pix is too small for the given geometry.
func Wrap(pix []byte, width, height, stride int) (*Surface, error) {
	if width < 0 || height < 0 || stride < width*BytesPerPixel {
		return nil, fmt.Errorf("surface: invalid geometry %dx%d stride %d", width, height, stride)
	}
	if need := stride*max(height-1, 0) + width*BytesPerPixel; height > 0 && len(pix) < need {
		return nil, fmt.Errorf("surface: buffer too small: %d < %d", len(pix), need)
	}
	return &Surface{width: width, height: height, stride: stride, pix: pix}, nil
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.width }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.height }

// Stride returns the byte distance between consecutive rows.
func (s *Surface) Stride() int { return s.stride }

// Pix returns the underlying pixel memory.
func (s *Surface) Pix() []byte { return s.pix }

// Bounds returns the surface rectangle anchored at the origin.
func (s *Surface) Bounds() region.Rect {
	return region.Rect{Width: s.width, Height: s.height}
}

// PixOffset returns the byte offset of pixel (x, y).
func (s *Surface) PixOffset(x, y int) int {
	return y*s.stride + x*BytesPerPixel
}

// Pixel returns the pixel at (x, y), or the zero value when out of bounds.
func (s *Surface) Pixel(x, y int) BGRA {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return BGRA{}
	}
	i := s.PixOffset(x, y)
	return BGRA{B: s.pix[i], G: s.pix[i+1], R: s.pix[i+2], A: s.pix[i+3]}
}

// SetPixel sets the pixel at (x, y). Out-of-bounds writes are ignored.
func (s *Surface) SetPixel(x, y int, c BGRA) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	i := s.PixOffset(x, y)
	s.pix[i] = c.B
	s.pix[i+1] = c.G
	s.pix[i+2] = c.R
	s.pix[i+3] = c.A
}

// Clear fills the surface with c.
func (s *Surface) Clear(c BGRA) {
	for y := range s.height {
		row := s.pix[y*s.stride : y*s.stride+s.width*BytesPerPixel]
		for i := 0; i < len(row); i += BytesPerPixel {
			row[i] = c.B
			row[i+1] = c.G
			row[i+2] = c.R
			row[i+3] = c.A
		}
	}
}

// Clone returns a deep copy of s.
func (s *Surface) Clone() *Surface {
	pix := make([]byte, len(s.pix))
	copy(pix, s.pix)
	return &Surface{width: s.width, height: s.height, stride: s.stride, pix: pix}
}

// FromImage converts any image to a tightly packed BGRA surface.
func FromImage(img image.Image) *Surface {
	b := img.Bounds()
	s := New(b.Dx(), b.Dy())
	for y := range s.height {
		for x := range s.width {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			s.SetPixel(x, y, BGRA{B: c.B, G: c.G, R: c.R, A: c.A})
		}
	}
	return s
}

// ToNRGBA converts the surface to a non-premultiplied RGBA image.
func (s *Surface) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, s.width, s.height))
	for y := range s.height {
		src := s.pix[y*s.stride : y*s.stride+s.width*BytesPerPixel]
		dst := img.Pix[y*img.Stride : y*img.Stride+s.width*4]
		for i := 0; i < len(src); i += BytesPerPixel {
			dst[i] = src[i+2]
			dst[i+1] = src[i+1]
			dst[i+2] = src[i]
			dst[i+3] = src[i+3]
		}
	}
	return img
}
