package geom

import "math"

// DefaultTolerance is the flattening tolerance used when none is given.
const DefaultTolerance = 0.1

// maxFlattenDepth bounds curve subdivision at 2^16 chords per curve.
const maxFlattenDepth = 16

// Polyline is one flattened subpath.
type Polyline struct {
	Points []Point
	Closed bool
}

// Flatten converts the path into polylines. Curves are split in half until
// their control points lie within tolerance of the chord.
//
// A closed polyline does not repeat its first point.
func (p *Path) Flatten(tolerance float64) []Polyline {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	var (
		out     []Polyline
		current Polyline
	)
	flush := func(closed bool) {
		if len(current.Points) > 1 {
			current.Closed = closed
			out = append(out, current)
		}
		current = Polyline{}
	}
	last := func() Point {
		return current.Points[len(current.Points)-1]
	}

	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			flush(false)
			current.Points = append(current.Points, e.Point)
		case LineTo:
			current.Points = append(current.Points, e.Point)
		case QuadTo:
			current.Points = AppendQuad(current.Points, last(), e.Control, e.Point, tolerance)
		case CubicTo:
			current.Points = AppendCubic(current.Points, last(), e.Control1, e.Control2, e.Point, tolerance)
		case Close:
			if len(current.Points) > 0 {
				start := current.Points[0]
				flush(true)
				current.Points = append(current.Points, start)
			}
		}
	}
	flush(false)
	return out
}

// AppendQuad appends the flattened quadratic curve p0 p1 p2 to dst. The
// start point p0 is not appended.
func AppendQuad(dst []Point, p0, p1, p2 Point, tolerance float64) []Point {
	return appendQuad(dst, p0, p1, p2, tolerance, 0)
}

func appendQuad(dst []Point, p0, p1, p2 Point, tolerance float64, depth int) []Point {
	if depth >= maxFlattenDepth || distanceToSegment(p1, p0, p2) < tolerance {
		return append(dst, p2)
	}
	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	mid := q0.Lerp(q1, 0.5)

	dst = appendQuad(dst, p0, q0, mid, tolerance, depth+1)
	return appendQuad(dst, mid, q1, p2, tolerance, depth+1)
}

// AppendCubic appends the flattened cubic curve p0 p1 p2 p3 to dst. The
// start point p0 is not appended.
func AppendCubic(dst []Point, p0, p1, p2, p3 Point, tolerance float64) []Point {
	return appendCubic(dst, p0, p1, p2, p3, tolerance, 0)
}

func appendCubic(dst []Point, p0, p1, p2, p3 Point, tolerance float64, depth int) []Point {
	dist := math.Max(distanceToSegment(p1, p0, p3), distanceToSegment(p2, p0, p3))
	if depth >= maxFlattenDepth || dist < tolerance {
		return append(dst, p3)
	}
	// de Casteljau split at t = 0.5.
	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	q2 := p2.Lerp(p3, 0.5)
	r0 := q0.Lerp(q1, 0.5)
	r1 := q1.Lerp(q2, 0.5)
	mid := r0.Lerp(r1, 0.5)

	dst = appendCubic(dst, p0, q0, r0, mid, tolerance, depth+1)
	return appendCubic(dst, mid, r1, q2, p3, tolerance, depth+1)
}

// distanceToSegment returns the distance from p to the segment a b.
func distanceToSegment(p, a, b Point) float64 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq < 1e-20 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / lenSq
	switch {
	case t < 0:
		return p.Distance(a)
	case t > 1:
		return p.Distance(b)
	}
	return p.Distance(a.Add(ab.Mul(t)))
}
