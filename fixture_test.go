package glyphatlas

import (
	"image"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// rasterizeTestGlyph renders r at the given pixel size using the
// embedded Go Regular font and returns a RasterizedGlyph suitable for
// Allocate. Mirrors the teacher's opentype-based rasterization path,
// trimmed to what the allocator tests need: a real alpha mask with a
// real tight bounding box, not a synthetic fixture.
func rasterizeTestGlyph(t *testing.T, r rune, ppem float64) RasterizedGlyph {
	t.Helper()

	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		t.Fatalf("parse goregular: %v", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    ppem,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		t.Fatalf("new face: %v", err)
	}
	defer face.Close()

	bounds, _, ok := face.GlyphBounds(r)
	if !ok {
		t.Fatalf("no glyph bounds for %q", r)
	}

	minX := int(bounds.Min.X) >> 6
	minY := int(bounds.Min.Y) >> 6
	maxX := (int(bounds.Max.X) + 63) >> 6
	maxY := (int(bounds.Max.Y) + 63) >> 6
	if maxX <= minX {
		maxX = minX + 1
	}
	if maxY <= minY {
		maxY = minY + 1
	}

	mask := image.NewAlpha(image.Rect(0, 0, maxX-minX, maxY-minY))
	drawer := &font.Drawer{
		Dst:  mask,
		Src:  image.White,
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(-minX), Y: fixed.I(-minY)},
	}
	drawer.DrawString(string(r))

	w, h := maxX-minX, maxY-minY
	return RasterizedGlyph{
		Source: mask,
		BoundingBox: BoundingBox{
			Left: 0, Top: 0, Right: w - 1, Bottom: h - 1,
		},
		OriginOffsetX: -minX,
		OriginOffsetY: -minY,
	}
}
