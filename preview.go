package glyphatlas

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

// categoryKind classifies a pixel region for the usage preview, per
// spec §4.4.
type categoryKind int

const (
	categoryUsed categoryKind = iota
	categoryWasted
	categoryRestricted
	categorySlabEdge
)

func (k categoryKind) String() string {
	switch k {
	case categoryUsed:
		return "used"
	case categoryWasted:
		return "wasted"
	case categoryRestricted:
		return "restricted"
	case categorySlabEdge:
		return "slab edge"
	default:
		return "unknown"
	}
}

// color returns the fill color the preview paints for this category.
func (k categoryKind) color() color.RGBA {
	switch k {
	case categoryUsed:
		return color.RGBA{R: 0x4c, G: 0xaf, B: 0x50, A: 0xff} // green
	case categoryWasted:
		return color.RGBA{R: 0xe5, G: 0x39, B: 0x35, A: 0xff} // red
	case categoryRestricted:
		return color.RGBA{R: 0xfd, G: 0xd8, B: 0x35, A: 0xff} // yellow
	case categorySlabEdge:
		return color.RGBA{R: 0x9c, G: 0x27, B: 0xb0, A: 0xff} // purple
	default:
		return color.RGBA{}
	}
}

// categoryRect is one accounted region of the usage preview.
type categoryRect struct {
	kind categoryKind
	rect Rect
}

// PreviewResult is the output of UsagePreview: a diagnostic image plus
// a textual report.
type PreviewResult struct {
	// Image paints a grey background, then colored rectangles per
	// category, then the real canvas contents overlaid at 50% alpha.
	Image *image.RGBA

	// Report is a human-readable summary: total/used/wasted/restricted
	// pixel counts and percentages, plus allocator-specific occupancy.
	Report string
}

var backgroundGrey = color.RGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff}

// previewOverlayAlpha is the alpha at which the real canvas is
// composited over the category-colored preview, per spec §4.4.
const previewOverlayAlpha = 0.5

// renderPreview paints the shared usage-preview image (grey background,
// colored category rectangles, the real canvas overlaid at 50% alpha)
// and builds the shared textual report. Allocator-specific category
// computation lives in shelf.go / slab.go; this function is the ~5%
// "shared scaffolding" both strategies funnel into.
func renderPreview(canvas DrawSurface, canvasW, canvasH int, cats []categoryRect, occupancyLine string) (PreviewResult, error) {
	if canvasW <= 0 || canvasH <= 0 {
		return PreviewResult{}, ErrEmptyCanvas
	}

	preview := NewCanvas(canvasW, canvasH)
	preview.FillRect(Rect{X: 0, Y: 0, W: canvasW, H: canvasH}, backgroundGrey)

	totals := map[categoryKind]int{}
	for _, c := range cats {
		clipped := clipToCanvas(c.rect, canvasW, canvasH)
		if clipped.Empty() {
			continue
		}
		preview.FillRect(clipped, c.kind.color())
		totals[c.kind] += clipped.Area()
	}

	preview.DrawImageAlpha(canvas.Export(), previewOverlayAlpha)

	total := canvasW * canvasH
	used := totals[categoryUsed]
	wasted := totals[categoryWasted]
	restricted := totals[categoryRestricted]
	slabEdge := totals[categorySlabEdge]
	free := total - used - wasted - restricted - slabEdge

	report := formatReport(total, used, wasted, restricted, slabEdge, free, occupancyLine)

	return PreviewResult{Image: preview.Export(), Report: report}, nil
}

func formatReport(total, used, wasted, restricted, slabEdge, free int, occupancyLine string) string {
	pct := func(n int) float64 {
		if total == 0 {
			return 0
		}
		return float64(n) / float64(total) * 100
	}

	var b strings.Builder
	fmt.Fprintf(&b, "atlas usage: %d total pixels\n", total)
	fmt.Fprintf(&b, "  used:       %8d (%.1f%%)\n", used, pct(used))
	fmt.Fprintf(&b, "  wasted:     %8d (%.1f%%)\n", wasted, pct(wasted))
	fmt.Fprintf(&b, "  restricted: %8d (%.1f%%)\n", restricted, pct(restricted))
	fmt.Fprintf(&b, "  slab edge:  %8d (%.1f%%)\n", slabEdge, pct(slabEdge))
	fmt.Fprintf(&b, "  free:       %8d (%.1f%%)\n", free, pct(free))
	b.WriteString(occupancyLine)
	return b.String()
}

func formatOccupancy(strategy string, glyphCount, usedHeight, canvasHeight int) string {
	pct := 0.0
	if canvasHeight > 0 {
		pct = float64(usedHeight) / float64(canvasHeight) * 100
	}
	return fmt.Sprintf("strategy: %s, glyphs: %d, vertical fill: %.1f%%\n", strategy, glyphCount, pct)
}
