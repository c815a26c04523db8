package geom

import (
	"math"
	"testing"
)

func TestPathBounds(t *testing.T) {
	p := NewPath()
	p.MoveTo(10, 10)
	p.LineTo(30, 10)
	p.CubicTo(40, 0, 40, 50, 30, 40)
	p.Close()

	got := p.Bounds()
	want := Rect{MinX: 10, MinY: 0, MaxX: 40, MaxY: 50}
	if got != want {
		t.Errorf("Bounds() = %+v, want %+v", got, want)
	}
}

func TestPathTransformAndClone(t *testing.T) {
	p := NewPath()
	p.Rectangle(0, 0, 10, 20)

	q := p.Transform(Scale(2, 2))
	if got, want := q.Bounds(), (Rect{0, 0, 20, 40}); got != want {
		t.Errorf("transformed Bounds() = %+v, want %+v", got, want)
	}

	c := p.Clone()
	c.LineTo(100, 100)
	if len(p.Elements()) == len(c.Elements()) {
		t.Error("Clone shares element storage with the original")
	}
}

func TestPathLineToWithoutCurrentPoint(t *testing.T) {
	p := NewPath()
	p.LineTo(5, 5)
	if _, ok := p.Elements()[0].(MoveTo); !ok {
		t.Errorf("first element = %T, want MoveTo", p.Elements()[0])
	}
}

func TestFlatten(t *testing.T) {
	p := NewPath()
	p.Rectangle(0, 0, 10, 10)
	p.MoveTo(20, 20)
	p.QuadTo(30, 0, 40, 20)

	lines := p.Flatten(0.1)
	if len(lines) != 2 {
		t.Fatalf("Flatten() returned %d polylines, want 2", len(lines))
	}
	if !lines[0].Closed {
		t.Error("rectangle polyline should be closed")
	}
	if len(lines[0].Points) != 4 {
		t.Errorf("rectangle has %d points, want 4", len(lines[0].Points))
	}
	if lines[1].Closed {
		t.Error("open curve reported as closed")
	}
	end := lines[1].Points[len(lines[1].Points)-1]
	if !approx(end.X, 40) || !approx(end.Y, 20) {
		t.Errorf("curve ends at %v, want (40, 20)", end)
	}
	if len(lines[1].Points) < 4 {
		t.Errorf("curve flattened into %d points, want a subdivision", len(lines[1].Points))
	}
}

func TestAppendQuadStaysOnCurve(t *testing.T) {
	// x = 100t, y = 200t(1-t), so y = 2x(1 - x/100).
	curve := func(x float64) float64 { return 2 * x * (1 - x/100) }
	const tolerance = 0.1

	pts := AppendQuad([]Point{{0, 0}}, Pt(0, 0), Pt(50, 100), Pt(100, 0), tolerance)
	if len(pts) < 8 {
		t.Fatalf("AppendQuad produced %d points, want a fine subdivision", len(pts))
	}
	if end := pts[len(pts)-1]; end != Pt(100, 0) {
		t.Errorf("last point = %v, want (100, 0)", end)
	}
	for i, p := range pts {
		if math.Abs(p.Y-curve(p.X)) > 1e-9 {
			t.Errorf("point %d = %v is off the curve", i, p)
		}
		if i == 0 {
			continue
		}
		midX := (p.X + pts[i-1].X) / 2
		if d := distanceToSegment(Pt(midX, curve(midX)), pts[i-1], p); d > tolerance {
			t.Errorf("chord %d deviates %v from the curve, want <= %v", i, d, tolerance)
		}
	}
}

func TestAppendCubicStraightLine(t *testing.T) {
	pts := AppendCubic(nil, Pt(0, 0), Pt(10, 0), Pt(20, 0), Pt(30, 0), 0.1)
	if len(pts) != 1 || pts[0] != Pt(30, 0) {
		t.Errorf("AppendCubic(line) = %v, want [(30, 0)]", pts)
	}
}

func TestDistanceToSegment(t *testing.T) {
	tests := []struct {
		name    string
		p, a, b Point
		want    float64
	}{
		{"above middle", Pt(5, 3), Pt(0, 0), Pt(10, 0), 3},
		{"before start", Pt(-3, 4), Pt(0, 0), Pt(10, 0), 5},
		{"past end", Pt(13, 4), Pt(0, 0), Pt(10, 0), 5},
		{"degenerate", Pt(3, 4), Pt(0, 0), Pt(0, 0), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := distanceToSegment(tt.p, tt.a, tt.b); !approx(got, tt.want) {
				t.Errorf("distanceToSegment() = %v, want %v", got, tt.want)
			}
		})
	}
}
