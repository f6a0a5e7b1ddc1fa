// Package region provides the rectangle geometry used by the tile scheduler.
//
// A render pass starts from a set of rectangles (the dirty or selected area
// of the destination image) and turns it into a list of tiles that each fit
// within the GPU size limits:
//
//	tiles := region.Slice(rects, region.Limits{MaxWidth: 2048, MaxHeight: 2048})
//
// Slicing is pure and deterministic. Outputs partition every input rectangle:
// the last slice along an axis is anchored to the far edge and sized to the
// remainder, so edge tiles may be narrower or shorter than the limit.
package region
