package glyphatlas

import "image"

// RasterizedGlyph is the input shape supplied by an external
// rasterizer: a source bitmap, the tight inclusive bounding box of the
// inked pixels within it, and the pen-origin offset in bitmap pixels.
// This package never rasterizes text itself; it only reads these
// three fields.
type RasterizedGlyph struct {
	// Source is the rasterized bitmap. Any image.Image works; Allocate
	// reads pixels from within BoundingBox via a clipped, unscaled
	// blit. Must not be nil.
	Source image.Image

	// BoundingBox is the tight inclusive bound of the inked pixels
	// inside Source.
	BoundingBox BoundingBox

	// OriginOffsetX, OriginOffsetY are the pen-origin offset in bitmap
	// pixels, copied verbatim into the resulting PlacedGlyph.
	OriginOffsetX, OriginOffsetY int
}

// PlacedGlyph is the record an allocator produces for a successfully
// placed glyph: where it landed on the atlas canvas, and the data a
// renderer needs to position it relative to a text baseline.
type PlacedGlyph struct {
	// Index is monotonically increasing, zero-based, and unique within
	// the allocator instance that produced it.
	Index int

	// X, Y, W, H is the rectangle on the atlas canvas.
	X, Y, W, H int

	// OriginOffsetX, OriginOffsetY are copied verbatim from the
	// RasterizedGlyph that produced this placement.
	OriginOffsetX, OriginOffsetY int
}

// Rect returns the placed glyph's canvas rectangle.
func (g PlacedGlyph) Rect() Rect {
	return Rect{X: g.X, Y: g.Y, W: g.W, H: g.H}
}
