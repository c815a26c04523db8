package stroke

import (
	"math"

	"github.com/gogpu/pageview/engine"
	"github.com/gogpu/pageview/geom"
)

// DefaultTolerance is the flattening tolerance of a new Expander.
const DefaultTolerance = 0.25

// Expander converts stroked paths to fill outlines. Coordinates and the
// stroke width share one space, usually device pixels.
//
// An Expander is not safe for concurrent use.
type Expander struct {
	style     engine.Stroke
	tolerance float64

	forward  *builder
	backward *builder
	output   *builder

	startPt   geom.Point
	startNorm geom.Point
	startTan  geom.Point
	lastPt    geom.Point
	lastTan   geom.Point
	lastNorm  geom.Point // offset at lastPt towards the backward side

	// dot is set when the current subpath has only zero-length segments.
	dot bool

	joinThresh float64
}

// NewExpander returns an expander for style. A non-positive miter limit
// becomes engine.DefaultMiterLimit.
func NewExpander(style engine.Stroke) *Expander {
	if style.MiterLimit <= 0 {
		style.MiterLimit = engine.DefaultMiterLimit
	}
	return &Expander{style: style, tolerance: DefaultTolerance}
}

// SetTolerance sets the curve flattening tolerance. Non-positive values
// are ignored.
func (e *Expander) SetTolerance(tolerance float64) {
	if tolerance > 0 {
		e.tolerance = tolerance
	}
}

// Expand returns the fill outline of path stroked with the expander's
// style. A stroke of zero width yields an empty path.
func (e *Expander) Expand(path *geom.Path) *geom.Path {
	e.reset()
	if e.style.Width <= 0 {
		return geom.NewPath()
	}

	for _, el := range path.Elements() {
		switch el := el.(type) {
		case geom.MoveTo:
			e.finish()
			e.startPt = el.Point
			e.lastPt = el.Point
		case geom.LineTo:
			e.lineTo(el.Point)
		case geom.QuadTo:
			for _, p := range geom.AppendQuad(nil, e.lastPt, el.Control, el.Point, e.tolerance) {
				e.lineTo(p)
			}
		case geom.CubicTo:
			for _, p := range geom.AppendCubic(nil, e.lastPt, el.Control1, el.Control2, el.Point, e.tolerance) {
				e.lineTo(p)
			}
		case geom.Close:
			if e.lastPt != e.startPt {
				e.lineTo(e.startPt)
			} else if e.forward.isEmpty() {
				e.dot = true
			}
			e.finishClosed()
		}
	}
	e.finish()
	return e.output.path()
}

func (e *Expander) reset() {
	*e = Expander{
		style:      e.style,
		tolerance:  e.tolerance,
		forward:    newBuilder(),
		backward:   newBuilder(),
		output:     newBuilder(),
		joinThresh: 2 * e.tolerance / e.style.Width,
	}
}

func (e *Expander) lineTo(p geom.Point) {
	tangent := p.Sub(e.lastPt)
	if tangent.Dot(tangent) < 1e-20 {
		if e.forward.isEmpty() {
			e.dot = true
		}
		return
	}
	e.doJoin(tangent)
	e.lastTan = tangent
	e.doLine(tangent, p)
}

// normal returns the offset for a segment along tangent, pointing to the
// backward side.
func (e *Expander) normal(tangent geom.Point) geom.Point {
	return tangent.Perp().Mul(0.5 * e.style.Width / tangent.Length())
}

func (e *Expander) doJoin(tangent geom.Point) {
	norm := e.normal(tangent)
	p0 := e.lastPt

	if e.forward.isEmpty() {
		e.forward.moveTo(p0.Sub(norm))
		e.backward.moveTo(p0.Add(norm))
		e.startTan = tangent
		e.startNorm = norm
		return
	}

	ab, cd := e.lastTan, tangent
	cross := ab.Cross(cd)
	dot := ab.Dot(cd)
	hypot := math.Hypot(cross, dot)

	// Nearly straight: connect both sides without a join shape.
	if dot > 0 && math.Abs(cross) < hypot*e.joinThresh {
		e.forward.lineTo(p0.Sub(norm))
		e.backward.lineTo(p0.Add(norm))
		return
	}

	switch e.style.Join {
	case engine.JoinBevel:
		e.forward.lineTo(p0.Sub(norm))
		e.backward.lineTo(p0.Add(norm))
	case engine.JoinRound:
		e.roundJoin(p0, norm, cross, dot)
	default:
		e.miterJoin(p0, norm, ab, cd, cross, dot, hypot)
	}
}

func (e *Expander) miterJoin(p0, norm, ab, cd geom.Point, cross, dot, hypot float64) {
	limit := e.style.MiterLimit
	if 2*hypot < (hypot+dot)*limit*limit && cross != 0 {
		lastNorm := e.lastNorm
		// The outer side gets the miter point; the inner side passes
		// through the center so the two sides stay connected.
		outer, inner, sign := e.forward, e.backward, -1.0
		if cross < 0 {
			outer, inner, sign = e.backward, e.forward, 1.0
		}
		fpLast := p0.Add(lastNorm.Mul(sign))
		fpThis := p0.Add(norm.Mul(sign))
		h := ab.Cross(fpThis.Sub(fpLast)) / cross
		outer.lineTo(fpThis.Sub(cd.Mul(h)))
		inner.lineTo(p0)
	}
	e.forward.lineTo(p0.Sub(norm))
	e.backward.lineTo(p0.Add(norm))
}

func (e *Expander) roundJoin(p0, norm geom.Point, cross, dot float64) {
	lastNorm := e.normal(e.lastTan)
	angle := math.Atan2(cross, dot)
	if angle > 0 {
		e.backward.lineTo(p0.Add(norm))
		arc(e.forward, p0, lastNorm.Mul(-1), angle)
	} else {
		e.forward.lineTo(p0.Sub(norm))
		arc(e.backward, p0, lastNorm, angle)
	}
}

func (e *Expander) doLine(tangent, p1 geom.Point) {
	norm := e.normal(tangent)
	e.forward.lineTo(p1.Sub(norm))
	e.backward.lineTo(p1.Add(norm))
	e.lastPt = p1
	e.lastNorm = norm
}

// finish ends an open subpath with caps.
func (e *Expander) finish() {
	if e.forward.isEmpty() {
		e.finishDot()
		return
	}
	e.dot = false
	e.output.appendAll(e.forward)
	e.cap(e.lastPt, e.lastNorm.Mul(-1), false)
	e.output.appendReversed(e.backward)
	e.cap(e.startPt, e.startNorm, true)

	e.forward = newBuilder()
	e.backward = newBuilder()
}

// finishClosed ends a closed subpath as two rings.
func (e *Expander) finishClosed() {
	if e.forward.isEmpty() {
		e.finishDot()
		return
	}
	e.dot = false
	e.doJoin(e.startTan)

	e.output.appendAll(e.forward)
	e.output.close()
	if back := e.backward.elements; len(back) > 0 {
		e.output.moveTo(endPoint(back[len(back)-1]))
	}
	e.output.appendReversed(e.backward)
	e.output.close()

	e.forward = newBuilder()
	e.backward = newBuilder()
	e.lastPt = e.startPt
}

// finishDot draws the cap of a zero-length subpath.
func (e *Expander) finishDot() {
	if !e.dot {
		return
	}
	e.dot = false
	c, r := e.lastPt, e.style.Width/2
	switch e.style.Cap {
	case engine.CapRound:
		e.output.moveTo(geom.Pt(c.X+r, c.Y))
		arc(e.output, c, geom.Pt(r, 0), 2*math.Pi)
		e.output.close()
	case engine.CapSquare:
		e.output.moveTo(geom.Pt(c.X-r, c.Y-r))
		e.output.lineTo(geom.Pt(c.X+r, c.Y-r))
		e.output.lineTo(geom.Pt(c.X+r, c.Y+r))
		e.output.lineTo(geom.Pt(c.X-r, c.Y+r))
		e.output.close()
	}
}

// cap joins the current output point center-norm side to the other side.
// norm points from center to the output's current point.
func (e *Expander) cap(center, norm geom.Point, closePath bool) {
	switch e.style.Cap {
	case engine.CapRound:
		arc(e.output, center, norm, math.Pi)
	case engine.CapSquare:
		// Corners of the square in the frame (norm, norm rotated).
		at := func(x, y float64) geom.Point {
			return geom.Pt(norm.X*x-norm.Y*y+center.X, norm.Y*x+norm.X*y+center.Y)
		}
		e.output.lineTo(at(1, 1))
		e.output.lineTo(at(-1, 1))
		if !closePath {
			e.output.lineTo(at(-1, 0))
		}
	default:
		if !closePath {
			e.output.lineTo(center.Sub(norm))
		}
	}
	if closePath {
		e.output.close()
	}
}

// arc appends a circular arc around center starting at center+from and
// turning by angle radians, as cubic segments of at most a quarter turn.
func arc(b *builder, center, from geom.Point, angle float64) {
	n := int(math.Ceil(math.Abs(angle) / (math.Pi / 2)))
	if n < 1 {
		n = 1
	}
	step := angle / float64(n)
	radius := from.Length()
	a0 := from.Angle()
	for i := 0; i < n; i++ {
		a1 := a0 + step
		k := math.Sin(step) * (math.Sqrt(4+3*math.Tan(step/2)*math.Tan(step/2)) - 1) / 3
		cos0, sin0 := math.Cos(a0), math.Sin(a0)
		cos1, sin1 := math.Cos(a1), math.Sin(a1)
		p1 := geom.Pt(center.X+radius*cos0, center.Y+radius*sin0)
		p2 := geom.Pt(center.X+radius*cos1, center.Y+radius*sin1)
		c1 := geom.Pt(p1.X-k*radius*sin0, p1.Y+k*radius*cos0)
		c2 := geom.Pt(p2.X+k*radius*sin1, p2.Y-k*radius*cos1)
		b.cubicTo(c1, c2, p2)
		a0 = a1
	}
}

func endPoint(el geom.PathElement) geom.Point {
	switch el := el.(type) {
	case geom.MoveTo:
		return el.Point
	case geom.LineTo:
		return el.Point
	case geom.QuadTo:
		return el.Point
	case geom.CubicTo:
		return el.Point
	}
	return geom.Point{}
}

// builder accumulates path elements.
type builder struct {
	elements []geom.PathElement
}

func newBuilder() *builder {
	return &builder{elements: make([]geom.PathElement, 0, 64)}
}

func (b *builder) isEmpty() bool { return len(b.elements) == 0 }

func (b *builder) moveTo(p geom.Point) {
	b.elements = append(b.elements, geom.MoveTo{Point: p})
}

func (b *builder) lineTo(p geom.Point) {
	b.elements = append(b.elements, geom.LineTo{Point: p})
}

func (b *builder) cubicTo(c1, c2, p geom.Point) {
	b.elements = append(b.elements, geom.CubicTo{Control1: c1, Control2: c2, Point: p})
}

func (b *builder) close() {
	b.elements = append(b.elements, geom.Close{})
}

func (b *builder) appendAll(other *builder) {
	b.elements = append(b.elements, other.elements...)
}

// appendReversed appends other traversed backwards, leaving out its
// initial MoveTo.
func (b *builder) appendReversed(other *builder) {
	els := other.elements
	for i := len(els) - 1; i >= 1; i-- {
		end := endPoint(els[i-1])
		switch el := els[i].(type) {
		case geom.LineTo:
			b.lineTo(end)
		case geom.CubicTo:
			b.cubicTo(el.Control2, el.Control1, end)
		}
	}
}

func (b *builder) path() *geom.Path {
	p := geom.NewPath()
	for _, el := range b.elements {
		switch el := el.(type) {
		case geom.MoveTo:
			p.MoveTo(el.Point.X, el.Point.Y)
		case geom.LineTo:
			p.LineTo(el.Point.X, el.Point.Y)
		case geom.CubicTo:
			p.CubicTo(el.Control1.X, el.Control1.Y, el.Control2.X, el.Control2.Y, el.Point.X, el.Point.Y)
		case geom.Close:
			p.Close()
		}
	}
	return p
}
