package geom

import (
	"image"
	"math"
)

// roundEpsilon absorbs float noise so that a page edge that lands a hair
// past an integer does not grow the pixel box by a whole pixel.
const roundEpsilon = 0.001

// Rect represents an axis-aligned rectangle.
// Min is the top-left corner (minimum coordinates).
// Max is the bottom-right corner (maximum coordinates).
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// NewRect creates a rectangle from position and size.
func NewRect(x, y, width, height float64) Rect {
	return Rect{
		MinX: x,
		MinY: y,
		MaxX: x + width,
		MaxY: y + height,
	}
}

// NewRectFromPoints creates a rectangle from two corner points.
// The points are normalized so Min <= Max.
func NewRectFromPoints(x1, y1, x2, y2 float64) Rect {
	return Rect{
		MinX: math.Min(x1, x2),
		MinY: math.Min(y1, y2),
		MaxX: math.Max(x1, x2),
		MaxY: math.Max(y1, y2),
	}
}

// EmptyRect returns a rectangle that acts as the identity for Union.
func EmptyRect() Rect {
	return Rect{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.MaxX - r.MinX
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.MaxY - r.MinY
}

// IsEmpty returns true if the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool {
	return !(r.MaxX > r.MinX && r.MaxY > r.MinY)
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		MinX: math.Min(r.MinX, other.MinX),
		MinY: math.Min(r.MinY, other.MinY),
		MaxX: math.Max(r.MaxX, other.MaxX),
		MaxY: math.Max(r.MaxY, other.MaxY),
	}
}

// Intersect returns the intersection of r and other.
// Returns an empty rectangle if they don't intersect.
func (r Rect) Intersect(other Rect) Rect {
	result := Rect{
		MinX: math.Max(r.MinX, other.MinX),
		MinY: math.Max(r.MinY, other.MinY),
		MaxX: math.Min(r.MaxX, other.MaxX),
		MaxY: math.Min(r.MaxY, other.MaxY),
	}
	if result.IsEmpty() {
		return Rect{}
	}
	return result
}

// Expand grows the rectangle by d on every side.
func (r Rect) Expand(d float64) Rect {
	return Rect{MinX: r.MinX - d, MinY: r.MinY - d, MaxX: r.MaxX + d, MaxY: r.MaxY + d}
}

// Transform returns the bounding box of r after applying m.
// All four corners are transformed, so rotations and flips are covered.
func (r Rect) Transform(m Matrix) Rect {
	if r.IsEmpty() {
		return r
	}
	p0 := m.TransformPoint(Pt(r.MinX, r.MinY))
	p1 := m.TransformPoint(Pt(r.MaxX, r.MinY))
	p2 := m.TransformPoint(Pt(r.MaxX, r.MaxY))
	p3 := m.TransformPoint(Pt(r.MinX, r.MaxY))
	return Rect{
		MinX: math.Min(math.Min(p0.X, p1.X), math.Min(p2.X, p3.X)),
		MinY: math.Min(math.Min(p0.Y, p1.Y), math.Min(p2.Y, p3.Y)),
		MaxX: math.Max(math.Max(p0.X, p1.X), math.Max(p2.X, p3.X)),
		MaxY: math.Max(math.Max(p0.Y, p1.Y), math.Max(p2.Y, p3.Y)),
	}
}

// Round returns the smallest integer rectangle covering r.
// Edges within roundEpsilon of an integer snap to it.
func (r Rect) Round() image.Rectangle {
	if r.IsEmpty() {
		return image.Rectangle{}
	}
	return image.Rect(
		clampInt(math.Floor(r.MinX+roundEpsilon)),
		clampInt(math.Floor(r.MinY+roundEpsilon)),
		clampInt(math.Ceil(r.MaxX-roundEpsilon)),
		clampInt(math.Ceil(r.MaxY-roundEpsilon)),
	)
}

// FromImageRect converts an integer rectangle to a Rect.
func FromImageRect(r image.Rectangle) Rect {
	return Rect{
		MinX: float64(r.Min.X), MinY: float64(r.Min.Y),
		MaxX: float64(r.Max.X), MaxY: float64(r.Max.Y),
	}
}

func clampInt(v float64) int {
	const limit = 1 << 30
	switch {
	case math.IsNaN(v):
		return 0
	case v > limit:
		return limit
	case v < -limit:
		return -limit
	}
	return int(v)
}
