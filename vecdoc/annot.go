package vecdoc

import (
	"fmt"
	"image/color"

	"github.com/gogpu/pageview/engine"
	"github.com/gogpu/pageview/geom"
)

// annotation is a compiled page annotation. It implements
// engine.Annotation.
type annotation struct {
	kind   string
	rect   geom.Rect
	color  color.NRGBA
	border float64
	text   string
	size   float64
	name   string
	hidden bool
}

var defaultAnnotColors = map[string]color.NRGBA{
	"square":    black,
	"highlight": highlight,
	"note":      noteColor,
	"freetext":  black,
	"field":     black,
}

func compileAnnot(a AnnotData) (*annotation, error) {
	def, ok := defaultAnnotColors[a.Type]
	if !ok {
		return nil, fmt.Errorf("unknown annotation type %q", a.Type)
	}
	if len(a.Rect) != 4 {
		return nil, fmt.Errorf("rect needs 4 numbers")
	}
	c, err := parseColor(a.Color, def)
	if err != nil {
		return nil, err
	}
	out := &annotation{
		kind:   a.Type,
		rect:   geom.NewRectFromPoints(a.Rect[0], a.Rect[1], a.Rect[2], a.Rect[3]),
		color:  c,
		border: a.Border,
		text:   a.Text,
		size:   a.Size,
		name:   a.Name,
		hidden: a.Hidden,
	}
	if out.border <= 0 {
		out.border = 1
	}
	if out.size <= 0 {
		out.size = defaultTextSize
		if out.kind == "field" {
			out.size = defaultFieldSize
		}
	}
	return out, nil
}

// Run implements engine.Annotation. Hidden annotations draw nothing.
func (a *annotation) Run(dev engine.Device, ctm geom.Matrix) error {
	if a.hidden {
		return nil
	}
	r := a.rect
	box := geom.NewPath()
	box.Rectangle(r.MinX, r.MinY, r.Width(), r.Height())

	switch a.kind {
	case "square":
		dev.StrokePath(box, ctm, engine.Stroke{Width: a.border}, a.color)
	case "highlight":
		dev.FillPath(box, ctm, engine.FillNonZero, a.color)
	case "note":
		dev.FillPath(box, ctm, engine.FillNonZero, a.color)
		dev.StrokePath(box, ctm, engine.Stroke{Width: 0.5}, black)
		fold := geom.NewPath()
		d := r.Width() / 3
		fold.MoveTo(r.MaxX-d, r.MinY)
		fold.LineTo(r.MaxX-d, r.MinY+d)
		fold.LineTo(r.MaxX, r.MinY+d)
		dev.StrokePath(fold, ctm, engine.Stroke{Width: 0.5}, black)
	case "freetext":
		dev.StrokePath(box, ctm, engine.Stroke{Width: a.border}, a.color)
		return a.runText(dev, ctm)
	case "field":
		dev.StrokePath(box, ctm, engine.Stroke{Width: a.border}, fieldEdge)
		return a.runText(dev, ctm)
	}
	return nil
}

// runText sets the annotation text on one line, vertically centered.
func (a *annotation) runText(dev engine.Device, ctm geom.Matrix) error {
	if a.text == "" {
		return nil
	}
	baseline := (a.rect.MinY+a.rect.MaxY)/2 + a.size*0.35
	path, err := textPath(a.text, a.size, a.rect.MinX+2, baseline)
	if err != nil {
		return err
	}
	if !path.IsEmpty() {
		dev.FillPath(path, ctm, engine.FillNonZero, a.color)
	}
	return nil
}
