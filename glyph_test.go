package glyphatlas

import "testing"

func TestPlacedGlyphRect(t *testing.T) {
	g := PlacedGlyph{X: 2, Y: 3, W: 4, H: 5}
	want := Rect{X: 2, Y: 3, W: 4, H: 5}
	if got := g.Rect(); got != want {
		t.Errorf("Rect() = %+v, want %+v", got, want)
	}
}
