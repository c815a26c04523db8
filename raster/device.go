package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"

	"github.com/gogpu/pageview/engine"
	"github.com/gogpu/pageview/geom"
	strokepkg "github.com/gogpu/pageview/internal/stroke"
)

// flattenTolerance is the maximum curve deviation in device pixels.
const flattenTolerance = 0.2

// coordLimit bounds device coordinates handed to the scan converter.
const coordLimit = 1 << 20

var (
	errNonFinite = errors.New("raster: non-finite transform")
	errClosed    = errors.New("raster: device closed")
)

// Device draws into a Pixmap, limited to a clip rectangle.
//
// The Device is not safe for concurrent use.
type Device struct {
	dst    *image.RGBA
	clip   image.Rectangle
	ras    *vector.Rasterizer
	closed bool
	err    error
}

var _ engine.Device = (*Device)(nil)

// NewDevice returns a device painting into pix. Pixels outside clip are
// never written; clip is intersected with the pixmap bounds.
func NewDevice(pix *Pixmap, clip image.Rectangle) *Device {
	clip = clip.Intersect(pix.Bounds())
	d := &Device{dst: pix.Image(), clip: clip}
	if !clip.Empty() {
		d.ras = vector.NewRasterizer(clip.Dx(), clip.Dy())
	}
	return d
}

// Clip returns the effective clip rectangle.
func (d *Device) Clip() image.Rectangle {
	return d.clip
}

// FillPath implements engine.Device.
//
// Non-zero fills use the accumulating scan converter of x/image/vector.
// Even-odd fills use a supersampled span filler that pairs edge crossings
// on each sub-scanline.
func (d *Device) FillPath(path *geom.Path, ctm geom.Matrix, rule engine.FillRule, c color.Color) {
	if !d.ready(ctm) || path.IsEmpty() || c == nil {
		return
	}
	if path.Bounds().Transform(ctm).Intersect(geom.FromImageRect(d.clip)).IsEmpty() {
		return
	}
	polys := path.Transform(ctm).Flatten(flattenTolerance)
	if rule == engine.FillEvenOdd {
		if mask := evenOddMask(polys, d.clip); mask != nil {
			d.paintMask(mask, c)
		}
		return
	}
	d.fill(polys, c)
}

// StrokePath implements engine.Device.
func (d *Device) StrokePath(path *geom.Path, ctm geom.Matrix, stroke engine.Stroke, c color.Color) {
	if !d.ready(ctm) || path.IsEmpty() || c == nil {
		return
	}
	width := stroke.Width * ctm.Expansion()
	if width < 1 {
		width = 1
	}
	stroke.Width = width
	exp := strokepkg.NewExpander(stroke)
	exp.SetTolerance(flattenTolerance)
	outline := exp.Expand(path.Transform(ctm))
	if outline.IsEmpty() || outline.Bounds().Intersect(geom.FromImageRect(d.clip)).IsEmpty() {
		return
	}
	// The outline of a closed subpath is two opposite rings; non-zero
	// accumulation leaves the inside of the ring empty.
	d.fill(outline.Flatten(flattenTolerance), c)
}

// DrawImage implements engine.Device.
func (d *Device) DrawImage(img image.Image, ctm geom.Matrix) {
	if !d.ready(ctm) || img == nil {
		return
	}
	sb := img.Bounds()
	if sb.Empty() || ctm.Determinant() == 0 {
		return
	}
	if (geom.Rect{MaxX: 1, MaxY: 1}).Transform(ctm).Intersect(geom.FromImageRect(d.clip)).IsEmpty() {
		return
	}
	// Source pixels to unit square, then unit square to device.
	toUnit := geom.Concat(
		geom.Translate(-float64(sb.Min.X), -float64(sb.Min.Y)),
		geom.Scale(1/float64(sb.Dx()), 1/float64(sb.Dy())),
	)
	m := geom.Concat(toUnit, ctm).Aff3()
	dst := d.dst.SubImage(d.clip).(*image.RGBA)
	xdraw.ApproxBiLinear.Transform(dst, f64.Aff3(m), img, sb, xdraw.Over, nil)
}

// Close implements engine.Device. It returns the first drawing error.
func (d *Device) Close() error {
	if d.closed {
		return errClosed
	}
	d.closed = true
	d.ras = nil
	return d.err
}

func (d *Device) ready(ctm geom.Matrix) bool {
	switch {
	case d.closed:
		return false
	case !ctm.IsFinite():
		if d.err == nil {
			d.err = fmt.Errorf("%w: %v", errNonFinite, ctm)
		}
		return false
	}
	return d.ras != nil
}

func (d *Device) begin() {
	d.ras.Reset(d.clip.Dx(), d.clip.Dy())
}

// fill scan converts device-space polygons and paints them with c.
func (d *Device) fill(polys []geom.Polyline, c color.Color) {
	d.begin()
	for _, pl := range polys {
		d.polygon(pl.Points)
	}
	d.ras.Draw(d.dst, d.clip, image.NewUniform(c), image.Point{})
}

// polygon adds a closed polygon in device space.
func (d *Device) polygon(pts []geom.Point) {
	if len(pts) < 2 {
		return
	}
	at := func(p geom.Point) (float32, float32) {
		return clampCoord(p.X - float64(d.clip.Min.X)), clampCoord(p.Y - float64(d.clip.Min.Y))
	}
	d.ras.MoveTo(at(pts[0]))
	for _, p := range pts[1:] {
		d.ras.LineTo(at(p))
	}
	d.ras.ClosePath()
}

func clampCoord(v float64) float32 {
	switch {
	case v < -coordLimit:
		return -coordLimit
	case v > coordLimit:
		return coordLimit
	}
	return float32(v)
}
