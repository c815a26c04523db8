package stroke

import (
	"math"
	"testing"

	"github.com/gogpu/pageview/engine"
	"github.com/gogpu/pageview/geom"
)

// winding returns the non-zero winding number of the flattened outline
// around p.
func winding(outline *geom.Path, p geom.Point) int {
	w := 0
	for _, pl := range outline.Flatten(0.01) {
		pts := pl.Points
		for i, a := range pts {
			b := pts[(i+1)%len(pts)]
			side := (b.X-a.X)*(p.Y-a.Y) - (p.X-a.X)*(b.Y-a.Y)
			if a.Y <= p.Y {
				if b.Y > p.Y && side > 0 {
					w++
				}
			} else if b.Y <= p.Y && side < 0 {
				w--
			}
		}
	}
	return w
}

func line(x0, y0, x1, y1 float64) *geom.Path {
	p := geom.NewPath()
	p.MoveTo(x0, y0)
	p.LineTo(x1, y1)
	return p
}

func nearRect(a, b geom.Rect) bool {
	const eps = 1e-6
	return math.Abs(a.MinX-b.MinX) < eps && math.Abs(a.MinY-b.MinY) < eps &&
		math.Abs(a.MaxX-b.MaxX) < eps && math.Abs(a.MaxY-b.MaxY) < eps
}

func TestExpandCaps(t *testing.T) {
	tests := []struct {
		name string
		cap  engine.LineCap
		want geom.Rect
	}{
		{"butt", engine.CapButt, geom.Rect{MinX: 0, MinY: -2, MaxX: 10, MaxY: 2}},
		{"round", engine.CapRound, geom.Rect{MinX: -2, MinY: -2, MaxX: 12, MaxY: 2}},
		{"square", engine.CapSquare, geom.Rect{MinX: -2, MinY: -2, MaxX: 12, MaxY: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewExpander(engine.Stroke{Width: 4, Cap: tt.cap}).Expand(line(0, 0, 10, 0))
			if got := out.Bounds(); !nearRect(got, tt.want) {
				t.Errorf("Bounds() = %+v, want %+v", got, tt.want)
			}
			if w := winding(out, geom.Pt(5, 1.5)); w == 0 {
				t.Error("point on the line body is outside the outline")
			}
			if w := winding(out, geom.Pt(5, 2.5)); w != 0 {
				t.Errorf("point past the half width has winding %d", w)
			}
		})
	}
}

func TestExpandRoundCapShape(t *testing.T) {
	out := NewExpander(engine.Stroke{Width: 4, Cap: engine.CapRound}).Expand(line(0, 0, 10, 0))
	if w := winding(out, geom.Pt(-1.2, 1.2)); w == 0 {
		t.Error("point inside the start cap is outside the outline")
	}
	// Inside the bounding square but outside the disc.
	if w := winding(out, geom.Pt(-1.8, 1.8)); w != 0 {
		t.Errorf("cap corner has winding %d, want 0", w)
	}
}

func TestExpandJoins(t *testing.T) {
	// Right, then down: the outer corner is at the top right of (10, 0).
	corner := geom.NewPath()
	corner.MoveTo(0, 0)
	corner.LineTo(10, 0)
	corner.LineTo(10, 10)

	tests := []struct {
		name      string
		stroke    engine.Stroke
		tip, near bool
	}{
		{"miter", engine.Stroke{Width: 2, Join: engine.JoinMiter}, true, true},
		{"miter over limit", engine.Stroke{Width: 2, Join: engine.JoinMiter, MiterLimit: 1.2}, false, false},
		{"round", engine.Stroke{Width: 2, Join: engine.JoinRound}, false, true},
		{"bevel", engine.Stroke{Width: 2, Join: engine.JoinBevel}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewExpander(tt.stroke).Expand(corner)
			if got := winding(out, geom.Pt(10.8, -0.8)) != 0; got != tt.tip {
				t.Errorf("miter tip covered = %v, want %v", got, tt.tip)
			}
			if got := winding(out, geom.Pt(10.6, -0.6)) != 0; got != tt.near {
				t.Errorf("point near the corner covered = %v, want %v", got, tt.near)
			}
			if w := winding(out, geom.Pt(9.5, 0.5)); w == 0 {
				t.Error("inner corner is outside the outline")
			}
		})
	}
}

func TestExpandRoundJoinBothTurns(t *testing.T) {
	tests := []struct {
		name        string
		turnY       float64
		inside, out geom.Point
	}{
		{"clockwise", 10, geom.Pt(10.6, -0.6), geom.Pt(10.8, -0.8)},
		{"counterclockwise", -10, geom.Pt(10.6, 0.6), geom.Pt(10.8, 0.8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := geom.NewPath()
			p.MoveTo(0, 0)
			p.LineTo(10, 0)
			p.LineTo(10, tt.turnY)
			out := NewExpander(engine.Stroke{Width: 2, Join: engine.JoinRound}).Expand(p)

			if w := winding(out, tt.inside); w == 0 {
				t.Errorf("round join misses %v", tt.inside)
			}
			if w := winding(out, tt.out); w != 0 {
				t.Errorf("round join covers %v, winding %d", tt.out, w)
			}
		})
	}
}

func TestExpandClosedRing(t *testing.T) {
	p := geom.NewPath()
	p.Rectangle(0, 0, 10, 10)
	out := NewExpander(engine.Stroke{Width: 2}).Expand(p)

	tests := []struct {
		pt      geom.Point
		covered bool
	}{
		{geom.Pt(5, 5), false},
		{geom.Pt(0, 5), true},
		{geom.Pt(-0.5, 5), true},
		{geom.Pt(10.5, 5), true},
		{geom.Pt(-1.5, 5), false},
		{geom.Pt(-0.8, -0.8), true}, // mitered corner
		{geom.Pt(1.5, 5), false},
	}
	for _, tt := range tests {
		if got := winding(out, tt.pt) != 0; got != tt.covered {
			t.Errorf("%v covered = %v, want %v", tt.pt, got, tt.covered)
		}
	}
}

func TestExpandCurve(t *testing.T) {
	p := geom.NewPath()
	p.MoveTo(0, 0)
	p.QuadTo(50, 100, 100, 0)
	out := NewExpander(engine.Stroke{Width: 4}).Expand(p)

	// The quad peaks at (50, 50).
	if w := winding(out, geom.Pt(50, 50)); w == 0 {
		t.Error("curve apex is outside the outline")
	}
	if w := winding(out, geom.Pt(50, 45)); w != 0 {
		t.Errorf("point below the stroke has winding %d", w)
	}
}

func TestExpandDot(t *testing.T) {
	tests := []struct {
		name  string
		cap   engine.LineCap
		empty bool
		want  geom.Rect
	}{
		{"butt", engine.CapButt, true, geom.Rect{}},
		{"round", engine.CapRound, false, geom.Rect{MinX: 3, MinY: 3, MaxX: 7, MaxY: 7}},
		{"square", engine.CapSquare, false, geom.Rect{MinX: 3, MinY: 3, MaxX: 7, MaxY: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewExpander(engine.Stroke{Width: 4, Cap: tt.cap}).Expand(line(5, 5, 5, 5))
			if out.IsEmpty() != tt.empty {
				t.Fatalf("IsEmpty() = %v, want %v", out.IsEmpty(), tt.empty)
			}
			if tt.empty {
				return
			}
			if got := out.Bounds(); !nearRect(got, tt.want) {
				t.Errorf("Bounds() = %+v, want %+v", got, tt.want)
			}
			if w := winding(out, geom.Pt(5, 5)); w == 0 {
				t.Error("dot center is not covered")
			}
		})
	}
}

func TestExpandZeroWidth(t *testing.T) {
	out := NewExpander(engine.Stroke{}).Expand(line(0, 0, 10, 0))
	if !out.IsEmpty() {
		t.Errorf("zero width stroke produced %d elements", len(out.Elements()))
	}
}

func TestExpandReuse(t *testing.T) {
	e := NewExpander(engine.Stroke{Width: 2, Cap: engine.CapRound})
	_ = e.Expand(line(5, 5, 5, 5))
	out := e.Expand(line(0, 0, 10, 0))
	want := geom.Rect{MinX: -1, MinY: -1, MaxX: 11, MaxY: 1}
	if got := out.Bounds(); !nearRect(got, want) {
		t.Errorf("second Expand bounds = %+v, want %+v", got, want)
	}
}
