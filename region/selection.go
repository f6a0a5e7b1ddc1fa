package region

// Selection is the set of rectangles that need (re)computation for a render
// pass. It may be the full image bounds or any union supplied by the host.
// A Selection is read-only once built.
type Selection struct {
	rects  []Rect
	bounds Rect
}

// NewSelection builds a selection from rects. Empty rectangles are dropped.
func NewSelection(rects ...Rect) Selection {
	s := Selection{rects: make([]Rect, 0, len(rects))}
	for _, r := range rects {
		if r.Empty() {
			continue
		}
		s.rects = append(s.rects, r)
		s.bounds = s.bounds.Union(r)
	}
	return s
}

// Full returns a selection consisting of exactly the image bounds.
func Full(width, height int) Selection {
	return NewSelection(Rect{Width: width, Height: height})
}

// Rects returns a copy of the selection's rectangles.
func (s Selection) Rects() []Rect {
	out := make([]Rect, len(s.rects))
	copy(out, s.rects)
	return out
}

// Len returns the number of rectangles.
func (s Selection) Len() int { return len(s.rects) }

// Bounds returns the bounding rectangle of the selection.
func (s Selection) Bounds() Rect { return s.bounds }

// Empty reports whether the selection covers no pixels.
func (s Selection) Empty() bool { return len(s.rects) == 0 }

// IsFull reports whether the selection is exactly one rectangle equal to
// imageBounds.
func (s Selection) IsFull(imageBounds Rect) bool {
	return len(s.rects) == 1 && s.rects[0] == imageBounds
}
