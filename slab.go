package glyphatlas

import (
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
)

// Slab is a fixed-size square region of the atlas specialized to a
// single entry size at creation time. It stores up to
// floor(slabW/EntryW) * floor(slabH/EntryH) glyphs, each exactly
// EntryW x EntryH, laid out in row-major order by Count.
type Slab struct {
	X, Y           int
	EntryW, EntryH int
	Count          int
}

// UnusedRect is a free sub-rectangle inside the atlas left over when a
// slab's dimensions do not evenly divide the grid's entry size.
type UnusedRect struct {
	X, Y, W, H int
}

func (r *UnusedRect) rect() Rect { return Rect{X: r.X, Y: r.Y, W: r.W, H: r.H} }

// unusedBucket is a LIFO stack of free rectangles that share an exact
// dimension (width or height, depending on which index holds the
// bucket). Pushes append; the allocator scans from the end so the most
// recently added rectangle — cheap to pop, likely to still be a good
// fit — is tried first.
type unusedBucket struct {
	rects []*UnusedRect
}

func (b *unusedBucket) push(r *UnusedRect) {
	b.rects = append(b.rects, r)
}

// findFit scans from the end for the first rectangle big enough to
// hold (gw, gh), returning its index or -1.
func (b *unusedBucket) findFit(gw, gh int) int {
	for i := len(b.rects) - 1; i >= 0; i-- {
		r := b.rects[i]
		if r.W >= gw && r.H >= gh {
			return i
		}
	}
	return -1
}

// removeAt swap-removes the rectangle at i. Order is not observable
// beyond "scan from the end", so a swap-remove is correct and avoids
// the O(n) splice-from-middle the source used.
func (b *unusedBucket) removeAt(i int) {
	last := len(b.rects) - 1
	b.rects[i] = b.rects[last]
	b.rects = b.rects[:last]
}

// freeRectIndex is the slab allocator's two exact-dimension indexes
// over free rectangles: one bucketed by exact width, one by exact
// height. Backed by a sorted treemap (per spec's note that an
// implementer may substitute a sorted structure keyed by dimension)
// used here in exact-match mode to preserve the documented "index by
// exact dimension, not by >= D" semantics.
type freeRectIndex struct {
	buckets *treemap.Map // int -> *unusedBucket
}

func newFreeRectIndex() *freeRectIndex {
	return &freeRectIndex{buckets: treemap.NewWith(utils.IntComparator)}
}

func (idx *freeRectIndex) bucket(dim int) *unusedBucket {
	if v, found := idx.buckets.Get(dim); found {
		return v.(*unusedBucket)
	}
	b := &unusedBucket{}
	idx.buckets.Put(dim, b)
	return b
}

func (idx *freeRectIndex) existingBucket(dim int) (*unusedBucket, bool) {
	v, found := idx.buckets.Get(dim)
	if !found {
		return nil, false
	}
	return v.(*unusedBucket), true
}

// totalFreeArea sums the area of every rectangle currently indexed,
// across every bucket. Used by the usage preview's "restricted" pixel
// accounting.
func (idx *freeRectIndex) totalFreeArea() int {
	total := 0
	for _, v := range idx.buckets.Values() {
		b := v.(*unusedBucket)
		for _, r := range b.rects {
			total += r.W * r.H
		}
	}
	return total
}

func (idx *freeRectIndex) rects() []*UnusedRect {
	var out []*UnusedRect
	for _, v := range idx.buckets.Values() {
		b := v.(*unusedBucket)
		out = append(out, b.rects...)
	}
	return out
}

// entrySize is the active-slab map key: a slab is uniquely identified
// by the entry size it was specialized for.
type entrySize struct{ w, h int }

// SlabAllocator groups same-sized glyphs into fixed-size square slabs
// and recycles each slab's tiling leftovers for glyphs with a matching
// narrow side. More space-efficient than ShelfAllocator for workloads
// dominated by a handful of recurring glyph sizes (e.g. a monospaced
// glyph cache), at the cost of more bookkeeping.
//
// SlabAllocator is not safe for concurrent use.
type SlabAllocator struct {
	canvas DrawSurface

	slabW, slabH int
	slabsPerRow  int

	slabs  []*Slab
	active map[entrySize]*Slab

	byWidth, byHeight *freeRectIndex

	// untracked holds leftover slivers produced while carving a free
	// rectangle that are too narrow along both axes to be worth
	// indexing for reuse (see allocateFromFreeRect). They remain
	// genuinely free canvas pixels but are never considered for future
	// placement — accounted separately from byWidth/byHeight in the
	// usage preview's "slab edge" category, distinct from "restricted"
	// (still-indexed) free space.
	untracked []Rect

	index *GlyphIndex
	next  int

	usedPixels int
}

// NewSlabAllocator creates a slab allocator that draws onto canvas
// using the given slab grid configuration. dpr is the host display's
// device pixel ratio, used only to compute defaults for zero fields of
// cfg (see DefaultSlabSize); pass 1 if unknown.
func NewSlabAllocator(canvas DrawSurface, cfg SlabConfig, dpr float64) (*SlabAllocator, error) {
	canvasW, canvasH := canvas.Width(), canvas.Height()
	if err := cfg.Validate(canvasW, canvasH); err != nil {
		return nil, err
	}
	slabW, slabH := resolveSlabSize(cfg, canvasW, canvasH, dpr)
	if slabW <= 0 || slabH <= 0 {
		return nil, &SlabConfigError{Field: "SlabWidth/SlabHeight", Reason: "resolved to zero for this canvas"}
	}

	return &SlabAllocator{
		canvas:      canvas,
		slabW:       slabW,
		slabH:       slabH,
		slabsPerRow: canvasW / slabW,
		active:      make(map[entrySize]*Slab),
		byWidth:     newFreeRectIndex(),
		byHeight:    newFreeRectIndex(),
		index:       newGlyphIndex(),
	}, nil
}

// Allocate implements Allocator.
func (a *SlabAllocator) Allocate(chars string, styleKey int, rg RasterizedGlyph) (PlacedGlyph, bool) {
	requireValidRasterizedGlyph(rg)

	gw, gh := rg.BoundingBox.Width(), rg.BoundingBox.Height()
	canvasW, canvasH := a.canvas.Width(), a.canvas.Height()
	if gw > canvasW || gh > canvasH {
		Logger().Debug("glyphatlas: slab allocation out of space (glyph exceeds canvas)", "glyphW", gw, "glyphH", gh)
		return PlacedGlyph{}, false
	}

	x, y, ok := a.destination(gw, gh)
	if !ok {
		Logger().Debug("glyphatlas: slab allocation out of space", "glyphW", gw, "glyphH", gh)
		return PlacedGlyph{}, false
	}

	if err := a.canvas.Blit(rg.Source, rg.BoundingBox, x, y); err != nil {
		return PlacedGlyph{}, false
	}

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
	a.index.insert(chars, styleKey, placed)

	return placed, true
}

// destination implements spec §4.3.3 steps 1-3: try the active slab
// for this entry size, then the matching free-rect bucket, then
// create a new slab. Returns ok=false only when all three fail, i.e.
// the canvas is genuinely out of space for this glyph size.
func (a *SlabAllocator) destination(gw, gh int) (x, y int, ok bool) {
	size := entrySize{w: gw, h: gh}

	if slab, exists := a.active[size]; exists {
		perRow, _, total := a.slabCapacity(gw, gh)
		if slab.Count < total {
			return a.placeInSlab(slab, perRow, total)
		}
	}

	if x, y, ok := a.allocateFromFreeRect(gw, gh); ok {
		return x, y, true
	}

	return a.allocateNewSlab(size, gw, gh)
}

// slabCapacity returns the row/column counts and total entries a slab
// with the given entry size holds.
func (a *SlabAllocator) slabCapacity(entryW, entryH int) (perRow, perCol, total int) {
	perRow = a.slabW / entryW
	perCol = a.slabH / entryH
	return perRow, perCol, perRow * perCol
}

func (a *SlabAllocator) placeInSlab(slab *Slab, perRow, total int) (x, y int, ok bool) {
	x = slab.X + (slab.Count%perRow)*slab.EntryW
	y = slab.Y + (slab.Count/perRow)*slab.EntryH
	slab.Count++
	if slab.Count >= total {
		delete(a.active, entrySize{w: slab.EntryW, h: slab.EntryH})
	}
	return x, y, true
}

// allocateFromFreeRect implements spec §4.3.2's carve/shrink semantics
// for both axes, including the fix for the source's shrink-check bug
// (the horizontal-axis branch must test r.W == 0, not r.H == 0).
func (a *SlabAllocator) allocateFromFreeRect(gw, gh int) (x, y int, ok bool) {
	if gw < gh {
		return a.allocateFromWidthBucket(gw, gh)
	}
	return a.allocateFromHeightBucket(gw, gh)
}

func (a *SlabAllocator) allocateFromWidthBucket(gw, gh int) (x, y int, ok bool) {
	bucket, found := a.byWidth.existingBucket(gw)
	if !found {
		return 0, 0, false
	}
	i := bucket.findFit(gw, gh)
	if i < 0 {
		return 0, 0, false
	}
	r := bucket.rects[i]
	x, y = r.X, r.Y

	// Carve the (gw, gh) destination from the top of r; any horizontal
	// leftover to its right is untracked.
	if leftoverW := r.W - gw; leftoverW > 0 {
		a.untracked = append(a.untracked, Rect{X: r.X + gw, Y: r.Y, W: leftoverW, H: gh})
	}

	// Shrink r downward.
	r.Y += gh
	r.H -= gh
	if r.H == 0 {
		bucket.removeAt(i)
	}
	return x, y, true
}

func (a *SlabAllocator) allocateFromHeightBucket(gw, gh int) (x, y int, ok bool) {
	bucket, found := a.byHeight.existingBucket(gh)
	if !found {
		return 0, 0, false
	}
	i := bucket.findFit(gw, gh)
	if i < 0 {
		return 0, 0, false
	}
	r := bucket.rects[i]
	x, y = r.X, r.Y

	// Carve the (gw, gh) destination from the left of r; any vertical
	// leftover below it is untracked.
	if leftoverH := r.H - gh; leftoverH > 0 {
		a.untracked = append(a.untracked, Rect{X: r.X, Y: r.Y + gh, W: gw, H: leftoverH})
	}

	// Shrink r rightward.
	r.X += gw
	r.W -= gw
	if r.W == 0 {
		bucket.removeAt(i)
	}
	return x, y, true
}

// allocateNewSlab implements spec §4.3.3 step 3: place a new slab at
// the next grid position, record its side regions, then place the
// triggering glyph at the slab's first entry slot.
func (a *SlabAllocator) allocateNewSlab(size entrySize, gw, gh int) (x, y int, ok bool) {
	perRow, perCol, total := a.slabCapacity(gw, gh)
	if perRow == 0 || perCol == 0 {
		// The entry is larger than the slab grid cell itself; no slab
		// of this configuration could ever hold it.
		return 0, 0, false
	}

	i := len(a.slabs)
	gridX := (i % a.slabsPerRow) * a.slabW
	gridY := (i / a.slabsPerRow) * a.slabH
	if gridY+a.slabH > a.canvas.Height() {
		return 0, 0, false
	}

	slab := &Slab{X: gridX, Y: gridY, EntryW: gw, EntryH: gh}
	a.recordSideRegions(slab, perRow, perCol)
	a.slabs = append(a.slabs, slab)
	a.active[size] = slab

	Logger().Debug("glyphatlas: created slab", "x", gridX, "y", gridY, "entryW", gw, "entryH", gh, "capacity", total)

	return a.placeInSlab(slab, perRow, total)
}

// recordSideRegions implements spec §4.3.2: the remainder of the
// slab's tiling, if slabW/slabH do not evenly divide the entry size,
// becomes free rectangles indexed by exact dimension.
func (a *SlabAllocator) recordSideRegions(slab *Slab, perRow, perCol int) {
	unusedW := a.slabW - perRow*slab.EntryW
	unusedH := a.slabH - perCol*slab.EntryH

	if unusedW > 0 {
		strip := &UnusedRect{
			X: slab.X + a.slabW - unusedW,
			Y: slab.Y,
			W: unusedW,
			H: a.slabH - unusedH,
		}
		a.byWidth.bucket(unusedW).push(strip)
	}
	if unusedH > 0 {
		strip := &UnusedRect{
			X: slab.X,
			Y: slab.Y + a.slabH - unusedH,
			W: a.slabW,
			H: unusedH,
		}
		a.byHeight.bucket(unusedH).push(strip)
	}
}

// GlyphMap implements Allocator.
func (a *SlabAllocator) GlyphMap() GlyphMap { return a.index }

// Stats implements Allocator.
func (a *SlabAllocator) Stats() AllocatorStats {
	return AllocatorStats{
		GlyphCount:   a.index.Len(),
		CanvasWidth:  a.canvas.Width(),
		CanvasHeight: a.canvas.Height(),
		UsedPixels:   a.usedPixels,
	}
}

// UsagePreview implements Allocator. See preview.go for the shared
// rendering logic; this method computes the slab-specific category
// rectangles from spec §4.4:
//   - wasted: the difference between each slab's reserved entry-grid
//     tiles and the actual glyph ink area within them.
//   - restricted: free rectangles still indexed in byWidth/byHeight.
//   - slab edge: leftover carve slivers that fell out of tracking.
func (a *SlabAllocator) UsagePreview() (PreviewResult, error) {
	canvasW, canvasH := a.canvas.Width(), a.canvas.Height()
	if canvasW <= 0 || canvasH <= 0 {
		return PreviewResult{}, ErrEmptyCanvas
	}

	var cats []categoryRect

	// Wasted reserved-tile rects are appended first and the used glyph
	// rects last, so renderPreview's in-order draw.Src painting leaves
	// glyph ink visibly on top of the wasted tile it sits inside (both
	// are still accounted separately below by area subtraction, not by
	// paint order).
	for _, slab := range a.slabs {
		perRow, _, total := a.slabCapacity(slab.EntryW, slab.EntryH)
		reserved := min(slab.Count, total)
		for n := 0; n < reserved; n++ {
			tile := Rect{
				X: slab.X + (n%perRow)*slab.EntryW,
				Y: slab.Y + (n/perRow)*slab.EntryH,
				W: slab.EntryW,
				H: slab.EntryH,
			}
			cats = append(cats, categoryRect{kind: categoryWasted, rect: tile})
		}
	}

	a.index.Range(func(_ GlyphKey, g PlacedGlyph) bool {
		cats = append(cats, categoryRect{kind: categoryUsed, rect: g.Rect()})
		return true
	})

	for _, r := range a.byWidth.rects() {
		cats = append(cats, categoryRect{kind: categoryRestricted, rect: r.rect()})
	}
	for _, r := range a.byHeight.rects() {
		cats = append(cats, categoryRect{kind: categoryRestricted, rect: r.rect()})
	}
	for _, r := range a.untracked {
		cats = append(cats, categoryRect{kind: categorySlabEdge, rect: r})
	}

	occupancy := formatOccupancy("slab", a.index.Len(), a.slabGridBottom(), canvasH)
	Logger().Debug("glyphatlas: rendering slab usage preview", "slabs", len(a.slabs))
	result, err := renderPreview(a.canvas, canvasW, canvasH, cats, occupancy)
	if err != nil {
		return PreviewResult{}, err
	}

	// Wasted tiles were painted over the full reserved entry area; the
	// glyph-used portion within those tiles double-counted under both
	// "used" and "wasted" in the naive per-rect area sum. Re-derive the
	// report with wasted reduced by the ink area it contains, matching
	// spec §4.4's "difference between the slab-entry rectangles ... and
	// the actual glyph ink area within them".
	result.Report = a.adjustedReport(cats)
	return result, nil
}

func (a *SlabAllocator) adjustedReport(cats []categoryRect) string {
	canvasW, canvasH := a.canvas.Width(), a.canvas.Height()
	total := canvasW * canvasH

	used := 0
	wastedGross := 0
	restricted := 0
	slabEdge := 0
	for _, c := range cats {
		area := clipToCanvas(c.rect, canvasW, canvasH).Area()
		switch c.kind {
		case categoryUsed:
			used += area
		case categoryWasted:
			wastedGross += area
		case categoryRestricted:
			restricted += area
		case categorySlabEdge:
			slabEdge += area
		}
	}
	// Only used area lying inside a reserved tile reduces "wasted";
	// glyphs served from recycled free rectangles sit outside every tile.
	usedInTiles := 0
	for _, u := range cats {
		if u.kind != categoryUsed {
			continue
		}
		for _, t := range cats {
			if t.kind == categoryWasted && t.rect.Contains(u.rect) {
				usedInTiles += clipToCanvas(u.rect, canvasW, canvasH).Area()
				break
			}
		}
	}
	wasted := wastedGross - usedInTiles
	if wasted < 0 {
		wasted = 0
	}
	free := total - used - wasted - restricted - slabEdge
	occupancy := formatOccupancy("slab", a.index.Len(), a.slabGridBottom(), canvasH)
	return formatReport(total, used, wasted, restricted, slabEdge, free, occupancy)
}

// slabGridBottom returns the bottom edge of the lowest slab created so
// far (slabs are placed in row-major order), or 0 if there are none.
func (a *SlabAllocator) slabGridBottom() int {
	if len(a.slabs) == 0 {
		return 0
	}
	return a.slabs[len(a.slabs)-1].Y + a.slabH
}

var _ Allocator = (*SlabAllocator)(nil)
