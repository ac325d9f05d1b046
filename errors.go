package glyphatlas

import "errors"

// Sentinel errors returned by glyphatlas operations.
var (
	// ErrRegionOutOfBounds is returned by Canvas.Blit when the destination
	// rectangle does not fit entirely within the canvas.
	ErrRegionOutOfBounds = errors.New("glyphatlas: region is outside canvas bounds")

	// ErrEmptyCanvas is returned by UsagePreview when the canvas has zero area.
	ErrEmptyCanvas = errors.New("glyphatlas: cannot render usage preview for an empty canvas")
)

// SlabConfigError represents a slab allocator configuration validation error.
type SlabConfigError struct {
	Field  string
	Reason string
}

func (e *SlabConfigError) Error() string {
	return "glyphatlas: invalid slab config." + e.Field + ": " + e.Reason
}

// InvalidRasterizedGlyphError reports a precondition violation in a
// RasterizedGlyph: a nil Source image or a bounding box that is not a
// well-formed inclusive rectangle (Right < Left or Bottom < Top). These
// are caller bugs, not runtime conditions — Allocate panics with this
// error rather than returning it, per the programming-error category
// in the error handling design (a malformed glyph is not "out of
// space", it is not a glyph at all).
type InvalidRasterizedGlyphError struct {
	Reason string
}

func (e *InvalidRasterizedGlyphError) Error() string {
	return "glyphatlas: invalid rasterized glyph: " + e.Reason
}
