package region

// Slice subdivides rects so that every output respects limits.
//
// Width slicing is applied to the input first, then height slicing to the
// width-sliced results, so a large rectangle becomes a grid of tiles emitted
// column by column, top to bottom within each column.
// Each input is partitioned exactly: outputs never overlap each other unless
// the inputs overlapped, and their total area equals the input area.
//
// If rects is empty or limits is unbounded, rects is returned unchanged.
func Slice(rects []Rect, limits Limits) []Rect {
	if len(rects) == 0 || limits.Unbounded() {
		return rects
	}

	sized := make([]Rect, 0, len(rects))
	for _, r := range rects {
		sized = appendWidthSlices(sized, r, limits.MaxWidth)
	}

	out := make([]Rect, 0, len(sized))
	for _, r := range sized {
		out = appendHeightSlices(out, r, limits.MaxHeight)
	}
	return out
}

// sliceCount returns ceil(extent/limit) for positive arguments.
func sliceCount(extent, limit int) int {
	return (extent + limit - 1) / limit
}

// appendWidthSlices appends r split along X into columns of at most limit
// pixels. The last column is anchored to r's right edge.
func appendWidthSlices(dst []Rect, r Rect, limit int) []Rect {
	if limit <= 0 || r.Width <= limit {
		return append(dst, r)
	}
	n := sliceCount(r.Width, limit)
	for i := range n - 1 {
		dst = append(dst, Rect{X: r.X + limit*i, Y: r.Y, Width: limit, Height: r.Height})
	}
	remaining := r.Width - limit*(n-1)
	return append(dst, Rect{X: r.Right() - remaining, Y: r.Y, Width: remaining, Height: r.Height})
}

// appendHeightSlices appends r split along Y into rows of at most limit
// pixels. The last row is anchored to r's bottom edge.
func appendHeightSlices(dst []Rect, r Rect, limit int) []Rect {
	if limit <= 0 || r.Height <= limit {
		return append(dst, r)
	}
	n := sliceCount(r.Height, limit)
	for i := range n - 1 {
		dst = append(dst, Rect{X: r.X, Y: r.Y + limit*i, Width: r.Width, Height: limit})
	}
	remaining := r.Height - limit*(n-1)
	return append(dst, Rect{X: r.X, Y: r.Bottom() - remaining, Width: r.Width, Height: remaining})
}
