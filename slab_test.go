package glyphatlas

import "testing"

func TestSlabAllocatorFillsSlabBeforeCreatingAnother(t *testing.T) {
	canvas := NewCanvas(16, 16)
	// Slab cells are 8x8; a 4x4 glyph tiles 2x2 = 4 per slab.
	a, err := NewSlabAllocator(canvas, SlabConfig{SlabWidth: 8, SlabHeight: 8}, 1)
	if err != nil {
		t.Fatalf("NewSlabAllocator() error = %v", err)
	}

	var placements []PlacedGlyph
	for i := 0; i < 4; i++ {
		p, ok := a.Allocate(string(rune('a'+i)), 0, syntheticGlyph(4, 4))
		if !ok {
			t.Fatalf("glyph %d failed to allocate", i)
		}
		placements = append(placements, p)
	}
	if len(a.slabs) != 1 {
		t.Fatalf("len(slabs) = %d, want 1 (four 4x4 glyphs exactly fill one 8x8 slab)", len(a.slabs))
	}

	// A fifth glyph of the same size must start a new slab.
	p4, ok := a.Allocate("e", 0, syntheticGlyph(4, 4))
	if !ok {
		t.Fatal("fifth glyph failed to allocate")
	}
	if len(a.slabs) != 2 {
		t.Fatalf("len(slabs) = %d, want 2 after the first slab filled", len(a.slabs))
	}
	if p4.X != a.slabs[1].X || p4.Y != a.slabs[1].Y {
		t.Errorf("fifth glyph placed at (%d,%d), want the new slab's origin (%d,%d)",
			p4.X, p4.Y, a.slabs[1].X, a.slabs[1].Y)
	}

	for i, p := range placements {
		r := p.Rect()
		for j, other := range placements {
			if i == j {
				continue
			}
			if r.Overlaps(other.Rect()) {
				t.Fatalf("placement %d overlaps placement %d", i, j)
			}
		}
	}
}

func TestSlabAllocatorRecyclesSideRegion(t *testing.T) {
	canvas := NewCanvas(32, 32)
	// 10x10 entries in a 32x32 slab leave a side strip 2px wide and a
	// bottom strip 2px tall.
	a, err := NewSlabAllocator(canvas, SlabConfig{SlabWidth: 32, SlabHeight: 32}, 1)
	if err != nil {
		t.Fatalf("NewSlabAllocator() error = %v", err)
	}

	if _, ok := a.Allocate("a", 0, syntheticGlyph(10, 10)); !ok {
		t.Fatal("first glyph failed to allocate")
	}
	if a.byWidth.totalFreeArea() == 0 && a.byHeight.totalFreeArea() == 0 {
		t.Fatal("expected a side region to be indexed after the first slab is created")
	}

	// A narrow glyph exactly matching the recycled strip's width
	// should be served from the free-rect index, not a new slab.
	before := len(a.slabs)
	if _, ok := a.Allocate("b", 0, syntheticGlyph(2, 10)); !ok {
		t.Fatal("narrow glyph failed to allocate")
	}
	if len(a.slabs) != before {
		t.Errorf("len(slabs) = %d, want %d (recycled glyph should not create a new slab)", len(a.slabs), before)
	}
}

func TestSlabAllocatorNoOverlapAcrossSizes(t *testing.T) {
	canvas := NewCanvas(64, 64)
	a, err := NewSlabAllocator(canvas, SlabConfig{SlabWidth: 16, SlabHeight: 16}, 1)
	if err != nil {
		t.Fatalf("NewSlabAllocator() error = %v", err)
	}

	var placed []Rect
	sizes := [][2]int{{4, 4}, {4, 4}, {8, 8}, {4, 4}, {2, 16}, {16, 2}, {8, 8}}
	for i, s := range sizes {
		p, ok := a.Allocate(string(rune('a'+i)), 0, syntheticGlyph(s[0], s[1]))
		if !ok {
			t.Fatalf("glyph %d (%dx%d) failed to allocate", i, s[0], s[1])
		}
		r := p.Rect()
		for _, other := range placed {
			if r.Overlaps(other) {
				t.Fatalf("glyph %d rect %+v overlaps existing rect %+v", i, r, other)
			}
		}
		placed = append(placed, r)
	}
}

func TestSlabAllocatorOutOfSpace(t *testing.T) {
	canvas := NewCanvas(8, 8)
	a, err := NewSlabAllocator(canvas, SlabConfig{SlabWidth: 8, SlabHeight: 8}, 1)
	if err != nil {
		t.Fatalf("NewSlabAllocator() error = %v", err)
	}

	// One 8x8 glyph fills the entire canvas (a single slab, a single
	// entry). A second glyph of any size has nowhere left to go.
	if _, ok := a.Allocate("a", 0, syntheticGlyph(8, 8)); !ok {
		t.Fatal("first glyph failed to allocate")
	}
	if _, ok := a.Allocate("b", 0, syntheticGlyph(1, 1)); ok {
		t.Fatal("expected out-of-space on a fully occupied canvas")
	}
}

func TestSlabConfigValidateRejectsOversizedSlab(t *testing.T) {
	cfg := SlabConfig{SlabWidth: 100, SlabHeight: 10}
	if err := cfg.Validate(32, 32); err == nil {
		t.Fatal("expected an error for a slab wider than the canvas")
	}
}

func TestDefaultSlabSize(t *testing.T) {
	w, h := DefaultSlabSize(1024, 1024, 1)
	if w != 64 || h != 64 {
		t.Errorf("DefaultSlabSize(dpr=1) = (%d,%d), want (64,64)", w, h)
	}
	w, h = DefaultSlabSize(1024, 1024, 2)
	if w != 128 || h != 128 {
		t.Errorf("DefaultSlabSize(dpr=2) = (%d,%d), want (128,128)", w, h)
	}
	w, h = DefaultSlabSize(50, 50, 2)
	if w != 50 || h != 50 {
		t.Errorf("DefaultSlabSize() = (%d,%d), want clamped to canvas (50,50)", w, h)
	}
}

func TestSlabAllocatorUsagePreview(t *testing.T) {
	canvas := NewCanvas(32, 32)
	a, err := NewSlabAllocator(canvas, SlabConfig{SlabWidth: 16, SlabHeight: 16}, 1)
	if err != nil {
		t.Fatalf("NewSlabAllocator() error = %v", err)
	}
	p, ok := a.Allocate("a", 0, syntheticGlyph(5, 5))
	if !ok {
		t.Fatal("first glyph failed to allocate")
	}
	a.Allocate("b", 0, syntheticGlyph(5, 5))

	result, err := a.UsagePreview()
	if err != nil {
		t.Fatalf("UsagePreview() error = %v", err)
	}
	if result.Report == "" {
		t.Error("expected a non-empty report")
	}

	// A pixel inside a placed glyph's rect must be painted as "used",
	// not as the slab's wasted reserved-tile color it sits inside:
	// used rects must be painted after wasted ones so glyph ink stays
	// visible in the diagnostic image. The real canvas is then overlaid
	// at 50% alpha, so the expected pixel is the used color with that
	// same overlay applied on top.
	cx, cy := p.X+p.W/2, p.Y+p.H/2
	want := NewCanvas(1, 1)
	want.FillRect(Rect{W: 1, H: 1}, categoryUsed.color())
	ink := NewCanvas(1, 1)
	ink.FillRect(Rect{W: 1, H: 1}, canvas.At(cx, cy))
	want.DrawImageAlpha(ink.Export(), previewOverlayAlpha)
	if got := result.Image.At(cx, cy); got != want.At(0, 0) {
		t.Errorf("At(%d,%d) = %v, want the used category color under the canvas overlay %v", cx, cy, got, want.At(0, 0))
	}
}
