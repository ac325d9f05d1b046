package glyphatlas

// Rect is an axis-aligned rectangle in canvas pixel space. X, Y, W, H
// are non-negative; a well-formed Rect on a canvas of size (canvasW,
// canvasH) satisfies X+W <= canvasW and Y+H <= canvasH.
type Rect struct {
	X, Y, W, H int
}

// Right returns the exclusive right edge, X+W.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the exclusive bottom edge, Y+H.
func (r Rect) Bottom() int { return r.Y + r.H }

// Area returns W*H.
func (r Rect) Area() int { return r.W * r.H }

// Empty reports whether the rectangle has zero or negative area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Overlaps reports whether r and other share any pixel.
func (r Rect) Overlaps(other Rect) bool {
	if r.Empty() || other.Empty() {
		return false
	}
	return r.X < other.Right() && other.X < r.Right() &&
		r.Y < other.Bottom() && other.Y < r.Bottom()
}

// Contains reports whether other lies entirely within r.
func (r Rect) Contains(other Rect) bool {
	if other.Empty() {
		return true
	}
	return other.X >= r.X && other.Y >= r.Y &&
		other.Right() <= r.Right() && other.Bottom() <= r.Bottom()
}

// BoundingBox is a tight, inclusive bound of the inked pixels inside a
// rasterizer's source image. Left <= Right and Top <= Bottom for any
// well-formed box (a single pixel has Left == Right, Top == Bottom).
type BoundingBox struct {
	Left, Top, Right, Bottom int
}

// Width returns the inclusive width, Right - Left + 1.
func (b BoundingBox) Width() int { return b.Right - b.Left + 1 }

// Height returns the inclusive height, Bottom - Top + 1.
func (b BoundingBox) Height() int { return b.Bottom - b.Top + 1 }

// Valid reports whether the box is a well-formed inclusive rectangle
// with non-negative origin.
func (b BoundingBox) Valid() bool {
	return b.Left >= 0 && b.Top >= 0 && b.Right >= b.Left && b.Bottom >= b.Top
}

// Point is an integer 2D offset, used for origin offsets.
type Point struct {
	X, Y int
}
