package glyphatlas

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"
)

// DrawSurface is the drawing-surface contract an allocator needs: a
// clipped, unscaled blit from a rasterizer's source bitmap, plus the
// handful of operations the usage preview needs to paint a diagnostic
// image — fill a rectangle with a color, composite the real canvas at
// a given alpha, and export the result as an image blob.
//
// The texture uploader / GPU renderer that eventually consumes a
// DrawSurface's pixels is not modeled here; DrawSurface is the
// boundary this package draws on, not the boundary that uploads to a
// GPU.
type DrawSurface interface {
	// Blit copies the BoundingBox region of src onto the surface at
	// (dstX, dstY), with no scaling and no blending beyond a straight
	// copy. Returns ErrRegionOutOfBounds if the destination rectangle
	// does not fit entirely within the surface.
	Blit(src image.Image, box BoundingBox, dstX, dstY int) error

	// FillRect paints r with a solid color, clipped to the surface.
	FillRect(r Rect, c color.Color)

	// DrawImageAlpha composites img onto the surface at the given
	// alpha (0 fully transparent, 1 fully opaque), starting at (0, 0).
	DrawImageAlpha(img image.Image, alpha float64)

	// Export returns the surface contents as a standard library image.
	Export() *image.RGBA

	// Width and Height return the surface dimensions in pixels.
	Width() int
	Height() int
}

// Canvas is the concrete DrawSurface every allocator in this package
// is constructed with. It is a thin RGBA pixel buffer, modeled after
// the teacher's Pixmap: a flat byte slice plus width/height, with no
// clipping path, transform, or layer stack — the allocators only ever
// need straight blits and flat-colored rectangles.
type Canvas struct {
	width, height int
	pix           *image.RGBA
}

// NewCanvas creates a canvas of the given pixel dimensions, initialized
// to fully transparent black.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		width:  width,
		height: height,
		pix:    image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.height }

// Blit copies the BoundingBox region of src onto the canvas at
// (dstX, dstY) with a straight, unscaled pixel copy.
func (c *Canvas) Blit(src image.Image, box BoundingBox, dstX, dstY int) error {
	w, h := box.Width(), box.Height()
	dst := Rect{X: dstX, Y: dstY, W: w, H: h}
	if dst.X < 0 || dst.Y < 0 || dst.Right() > c.width || dst.Bottom() > c.height {
		return ErrRegionOutOfBounds
	}

	srcBounds := src.Bounds()
	sp := image.Pt(srcBounds.Min.X+box.Left, srcBounds.Min.Y+box.Top)
	sr := image.Rectangle{Min: sp, Max: sp.Add(image.Pt(w, h))}
	dr := image.Rect(dstX, dstY, dstX+w, dstY+h)

	// Straight copy: draw.Src discards destination pixels entirely
	// rather than blending, matching "no scaling, no blending beyond
	// straight copy".
	draw.Draw(c.pix, dr, src, sr.Min, draw.Src)
	return nil
}

// FillRect paints r with a solid color, clipped to the canvas.
func (c *Canvas) FillRect(r Rect, col color.Color) {
	clipped := clipToCanvas(r, c.width, c.height)
	if clipped.Empty() {
		return
	}
	draw.Draw(c.pix, image.Rect(clipped.X, clipped.Y, clipped.Right(), clipped.Bottom()),
		&image.Uniform{C: col}, image.Point{}, draw.Src)
}

// DrawImageAlpha composites img onto the canvas at the given alpha,
// using golang.org/x/image/draw's mask-based compositing: a uniform
// alpha mask drives an unscaled xdraw.NearestNeighbor.Scale (source and
// destination rectangles are the same size, so no resampling actually
// happens), the same Scaler-plus-Options.SrcMask idiom the teacher uses
// for masked compositing elsewhere in its text rendering path.
func (c *Canvas) DrawImageAlpha(img image.Image, alpha float64) {
	if alpha <= 0 {
		return
	}
	if alpha > 1 {
		alpha = 1
	}
	mask := &image.Uniform{C: color.Alpha{A: uint8(alpha*255 + 0.5)}}
	bounds := img.Bounds()
	dr := image.Rect(0, 0, bounds.Dx(), bounds.Dy())
	xdraw.NearestNeighbor.Scale(c.pix, dr, img, bounds, xdraw.Over, &xdraw.Options{
		SrcMask: mask,
	})
}

// Export returns the canvas contents as a standard library image.
func (c *Canvas) Export() *image.RGBA { return c.pix }

// SavePNG writes the canvas contents to w as a PNG.
func (c *Canvas) SavePNG(w io.Writer) error {
	return png.Encode(w, c.pix)
}

// At implements image.Image so a Canvas can itself be used as a
// RasterizedGlyph.Source or composited by DrawImageAlpha.
func (c *Canvas) At(x, y int) color.Color { return c.pix.At(x, y) }

// Bounds implements image.Image.
func (c *Canvas) Bounds() image.Rectangle { return c.pix.Bounds() }

// ColorModel implements image.Image.
func (c *Canvas) ColorModel() color.Model { return c.pix.ColorModel() }

func clipToCanvas(r Rect, width, height int) Rect {
	x0, y0 := max(r.X, 0), max(r.Y, 0)
	x1, y1 := min(r.Right(), width), min(r.Bottom(), height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

var _ DrawSurface = (*Canvas)(nil)
var _ image.Image = (*Canvas)(nil)
