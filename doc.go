// Package glyphatlas provides a texture atlas allocator core for GPU text
// rendering: a 2D bin-packing subsystem that places rasterized glyph
// bitmaps onto a fixed-size canvas and remembers where each glyph landed
// so a renderer can look it up later by UV coordinates.
//
// Two interchangeable strategies are provided behind the [Allocator]
// interface:
//
//   - [ShelfAllocator] packs glyphs into horizontal rows. Simple and
//     fast, but can waste vertical space when row heights vary.
//   - [SlabAllocator] groups same-sized glyphs into fixed-size square
//     slabs and recycles the leftover edges of each slab for glyphs
//     with a matching narrow side.
//
// Neither allocator rasterizes glyphs, draws to a GPU, or lays out
// text — callers supply a [RasterizedGlyph] (bitmap plus bounding box)
// and get back a [PlacedGlyph]; this package only decides where each
// glyph goes and draws it into an owned [Canvas].
//
// # Usage
//
//	canvas := glyphatlas.NewCanvas(1024, 1024)
//	alloc := glyphatlas.NewShelfAllocator(canvas)
//	placed, ok := alloc.Allocate("A", styleKey, rasterized)
//	if !ok {
//	    // canvas is full; seal it and start a new atlas
//	}
//
// # Usage preview
//
// Both allocators can render a diagnostic image plus a textual report
// via UsagePreview, categorizing every pixel as used, wasted,
// restricted, slab edge, or free. This is intended for debugging atlas fill
// efficiency, not for production rendering.
package glyphatlas
