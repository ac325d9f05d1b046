package glyphatlas

// shelfRow is the shelf allocator's single cursor: a left edge x, a
// baseline y, and an accrued height h (the tallest glyph placed in
// the row so far). Unlike a multi-shelf packer that keeps every row
// around to revisit later, this allocator only ever looks at the
// current row — once a row is finalized it is never reconsidered.
type shelfRow struct {
	x, y, h int
}

// ShelfAllocator packs glyphs into horizontal rows. Each new glyph is
// placed to the right of the previous one on the current row; when a
// glyph does not fit horizontally, the row is finalized and a new one
// starts below it. Simple and fast, but can waste vertical space when
// glyph heights within a row vary widely — see SlabAllocator for a
// strategy that avoids that waste for same-sized glyphs.
//
// ShelfAllocator is not safe for concurrent use.
type ShelfAllocator struct {
	canvas DrawSurface
	row    shelfRow
	index  *GlyphIndex
	next   int

	usedPixels int
}

// NewShelfAllocator creates a shelf allocator that draws onto canvas.
func NewShelfAllocator(canvas DrawSurface) *ShelfAllocator {
	return &ShelfAllocator{
		canvas: canvas,
		index:  newGlyphIndex(),
	}
}

// Allocate implements Allocator.
func (a *ShelfAllocator) Allocate(chars string, styleKey int, rg RasterizedGlyph) (PlacedGlyph, bool) {
	requireValidRasterizedGlyph(rg)

	gw, gh := rg.BoundingBox.Width(), rg.BoundingBox.Height()
	canvasW, canvasH := a.canvas.Width(), a.canvas.Height()

	// Explicit guard for a glyph wider than the entire canvas: without
	// this, a glyph that can never fit would finalize rows forever,
	// silently burning vertical space one "row" at a time instead of
	// reporting out-of-space immediately.
	if gw > canvasW {
		Logger().Debug("glyphatlas: shelf allocation out of space (glyph wider than canvas)",
			"glyphW", gw, "canvasW", canvasW)
		return PlacedGlyph{}, false
	}

	// 1. Horizontal advance: finalize the row if the glyph doesn't fit
	// to the right of the current cursor. The h <- 1 reset (rather than
	// h <- 0) is a deliberate quirk: it is immediately overwritten by
	// max(h, gh) on the next successful placement, so it never affects
	// the non-overlap invariant, but a caller inspecting row height
	// mid-sequence would observe the oddity.
	if gw > canvasW-a.row.x {
		a.row.x = 0
		a.row.y += a.row.h
		a.row.h = 1
	}

	// 2. Vertical check.
	if a.row.y+gh > canvasH {
		Logger().Debug("glyphatlas: shelf allocation out of space",
			"glyphW", gw, "glyphH", gh, "rowY", a.row.y, "canvasH", canvasH)
		return PlacedGlyph{}, false
	}

	x, y := a.row.x, a.row.y

	// 3. Blit.
	if err := a.canvas.Blit(rg.Source, rg.BoundingBox, x, y); err != nil {
		return PlacedGlyph{}, false
	}

	// 4. Record.
	placed := PlacedGlyph{
		Index:         a.next,
		X:             x,
		Y:             y,
		W:             gw,
		H:             gh,
		OriginOffsetX: rg.OriginOffsetX,
		OriginOffsetY: rg.OriginOffsetY,
	}
	a.next++
	a.usedPixels += gw * gh

	// 5. Advance cursor.
	a.row.x += gw
	a.row.h = max(a.row.h, gh)

	// 6. Insert into index.
	a.index.insert(chars, styleKey, placed)

	return placed, true
}

// GlyphMap implements Allocator.
func (a *ShelfAllocator) GlyphMap() GlyphMap { return a.index }

// Stats implements Allocator.
func (a *ShelfAllocator) Stats() AllocatorStats {
	return AllocatorStats{
		GlyphCount:   a.index.Len(),
		CanvasWidth:  a.canvas.Width(),
		CanvasHeight: a.canvas.Height(),
		UsedPixels:   a.usedPixels,
	}
}

// UsagePreview implements Allocator. See preview.go for the
// shared rendering logic; this method only computes the shelf-specific
// category rectangles described in spec §4.4:
//   - wasted: within a row, the gap below each glyph, across its
//     width (rowHeight - glyphHeight), plus, on finalized rows, the
//     horizontal tail to the right of the row's rightmost glyph.
func (a *ShelfAllocator) UsagePreview() (PreviewResult, error) {
	canvasW, canvasH := a.canvas.Width(), a.canvas.Height()
	if canvasW <= 0 || canvasH <= 0 {
		return PreviewResult{}, ErrEmptyCanvas
	}

	var cats []categoryRect

	// rowInfo accumulates, per distinct row Y, the maximum glyph
	// height placed and the rightmost edge reached.
	type rowInfo struct {
		maxH, rightEdge int
	}
	rows := make(map[int]*rowInfo)

	a.index.Range(func(_ GlyphKey, g PlacedGlyph) bool {
		cats = append(cats, categoryRect{kind: categoryUsed, rect: g.Rect()})
		ri := rows[g.Y]
		if ri == nil {
			ri = &rowInfo{}
			rows[g.Y] = ri
		}
		ri.maxH = max(ri.maxH, g.H)
		ri.rightEdge = max(ri.rightEdge, g.X+g.W)
		return true
	})

	for rowY, ri := range rows {
		a.index.Range(func(_ GlyphKey, g PlacedGlyph) bool {
			if g.Y != rowY {
				return true
			}
			gap := ri.maxH - g.H
			if gap > 0 {
				cats = append(cats, categoryRect{
					kind: categoryWasted,
					rect: Rect{X: g.X, Y: g.Y + g.H, W: g.W, H: gap},
				})
			}
			return true
		})

		// Finalized rows are every row except the current one.
		if rowY != a.row.y {
			tail := canvasW - ri.rightEdge
			if tail > 0 {
				cats = append(cats, categoryRect{
					kind: categoryWasted,
					rect: Rect{X: ri.rightEdge, Y: rowY, W: tail, H: ri.maxH},
				})
			}
		}
	}

	Logger().Debug("glyphatlas: rendering shelf usage preview", "rows", len(rows))
	return renderPreview(a.canvas, canvasW, canvasH, cats, a.shelfOccupancyLine())
}

func (a *ShelfAllocator) shelfOccupancyLine() string {
	return formatOccupancy("shelf", a.index.Len(), a.row.y+a.row.h, a.canvas.Height())
}

var _ Allocator = (*ShelfAllocator)(nil)
