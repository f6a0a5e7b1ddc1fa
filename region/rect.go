package region

import (
	"fmt"
	"image"
)

// Rect is an axis-aligned rectangle in destination-surface pixel coordinates.
// Width and Height are never negative for rectangles produced by this package.
type Rect struct {
	X, Y          int
	Width, Height int
}

// R is shorthand for Rect{X: x, Y: y, Width: w, Height: h}.
func R(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// FromImage converts an image.Rectangle to a Rect.
func FromImage(r image.Rectangle) Rect {
	r = r.Canon()
	return Rect{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Image converts r to an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.Right(), r.Bottom())
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Area returns Width*Height.
func (r Rect) Area() int { return r.Width * r.Height }

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether o lies entirely within r.
// An empty o is contained in any r.
func (r Rect) Contains(o Rect) bool {
	if o.Empty() {
		return true
	}
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Intersect returns the largest rectangle contained by both r and o.
// The result is the zero Rect if they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.Right(), o.Right())
	y2 := min(r.Bottom(), o.Bottom())
	if x1 >= x2 || y1 >= y2 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Union returns the smallest rectangle containing both r and o.
// Empty rectangles are ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x1 := min(r.X, o.X)
	y1 := min(r.Y, o.Y)
	x2 := max(r.Right(), o.Right())
	y2 := max(r.Bottom(), o.Bottom())
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// String returns "(x,y,w,h)".
func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", r.X, r.Y, r.Width, r.Height)
}

// Limits bounds the size of a tile. A zero (or negative) value on an axis
// means that axis is unbounded.
type Limits struct {
	MaxWidth  int
	MaxHeight int
}

// Unbounded reports whether neither axis is limited.
func (l Limits) Unbounded() bool {
	return l.MaxWidth <= 0 && l.MaxHeight <= 0
}

// Fits reports whether r respects l on every bounded axis.
func (l Limits) Fits(r Rect) bool {
	if l.MaxWidth > 0 && r.Width > l.MaxWidth {
		return false
	}
	if l.MaxHeight > 0 && r.Height > l.MaxHeight {
		return false
	}
	return true
}
