package raster

import (
	"image"
	"image/color"
	"math"
	"slices"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/pageview/geom"
)

// supersampleShift sets the vertical supersampling of the even-odd
// filler: 1<<supersampleShift sub-scanlines per pixel row.
const (
	supersampleShift = 2
	supersampleScale = 1 << supersampleShift
)

// edge is a non-horizontal polygon edge with y0 < y1.
type edge struct {
	x0, y0, x1, y1 float64
}

func newEdge(p, q geom.Point) (edge, bool) {
	if p.Y == q.Y {
		return edge{}, false
	}
	if p.Y > q.Y {
		p, q = q, p
	}
	return edge{x0: p.X, y0: p.Y, x1: q.X, y1: q.Y}, true
}

func (e edge) xAt(y float64) float64 {
	return e.x0 + (e.x1-e.x0)*(y-e.y0)/(e.y1-e.y0)
}

// evenOddMask scan converts device-space polylines under the even-odd
// rule into a coverage mask limited to clip. Each polyline is closed back
// to its own start. It returns nil when nothing is covered.
func evenOddMask(polys []geom.Polyline, clip image.Rectangle) *image.Alpha {
	var edges []edge
	bounds := geom.Rect{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, pl := range polys {
		pts := pl.Points
		if len(pts) < 2 {
			continue
		}
		for i, p := range pts {
			if e, ok := newEdge(p, pts[(i+1)%len(pts)]); ok {
				edges = append(edges, e)
			}
			bounds.MinX = math.Min(bounds.MinX, p.X)
			bounds.MinY = math.Min(bounds.MinY, p.Y)
			bounds.MaxX = math.Max(bounds.MaxX, p.X)
			bounds.MaxY = math.Max(bounds.MaxY, p.Y)
		}
	}
	if len(edges) == 0 {
		return nil
	}
	area := image.Rect(
		int(math.Floor(bounds.MinX)), int(math.Floor(bounds.MinY)),
		int(math.Ceil(bounds.MaxX)), int(math.Ceil(bounds.MaxY)),
	).Intersect(clip)
	if area.Empty() {
		return nil
	}

	mask := image.NewAlpha(area)
	cov := make([]float64, area.Dx())
	var xs []float64
	for y := area.Min.Y; y < area.Max.Y; y++ {
		clear(cov)
		for s := 0; s < supersampleScale; s++ {
			sy := float64(y) + (float64(s)+0.5)/supersampleScale
			xs = xs[:0]
			for _, e := range edges {
				if e.y0 <= sy && sy < e.y1 {
					xs = append(xs, e.xAt(sy))
				}
			}
			slices.Sort(xs)
			for i := 0; i+1 < len(xs); i += 2 {
				addSpan(cov, xs[i]-float64(area.Min.X), xs[i+1]-float64(area.Min.X))
			}
		}
		row := mask.Pix[(y-area.Min.Y)*mask.Stride:]
		for x, c := range cov {
			row[x] = uint8(math.Min(c, 1)*0xff + 0.5)
		}
	}
	return mask
}

// addSpan adds one sub-scanline of coverage for [x0, x1) to cov, with
// fractional coverage at both ends.
func addSpan(cov []float64, x0, x1 float64) {
	x0 = math.Max(x0, 0)
	x1 = math.Min(x1, float64(len(cov)))
	if x1 <= x0 {
		return
	}
	const weight = 1.0 / supersampleScale
	first, last := int(x0), int(math.Ceil(x1))-1
	if first == last {
		cov[first] += (x1 - x0) * weight
		return
	}
	cov[first] += (float64(first+1) - x0) * weight
	for x := first + 1; x < last; x++ {
		cov[x] += weight
	}
	cov[last] += (x1 - float64(last)) * weight
}

func (d *Device) paintMask(mask *image.Alpha, c color.Color) {
	r := mask.Bounds()
	xdraw.DrawMask(d.dst, r, image.NewUniform(c), image.Point{}, mask, r.Min, xdraw.Over)
}
