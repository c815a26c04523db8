package recording

import (
	"errors"
	"image"
	"image/color"

	"github.com/gogpu/pageview/engine"
	"github.com/gogpu/pageview/geom"
)

// errFinished reports drawing into a recorder after Finish.
var errFinished = errors.New("recording: recorder already finished")

// Recorder captures device calls as commands. It implements engine.Device.
// Paths are cloned, so the engine may reuse its path objects.
//
// The Recorder is not safe for concurrent use.
type Recorder struct {
	commands []Command
	bounds   geom.Rect
	finished bool
	err      error
}

var _ engine.Device = (*Recorder)(nil)

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		commands: make([]Command, 0, 64),
		bounds:   geom.EmptyRect(),
	}
}

// FillPath implements engine.Device.
func (r *Recorder) FillPath(path *geom.Path, ctm geom.Matrix, rule engine.FillRule, c color.Color) {
	if !r.writable() || path.IsEmpty() || c == nil {
		return
	}
	b := path.Bounds().Transform(ctm)
	r.add(FillPathCommand{Path: path.Clone(), Matrix: ctm, Rule: rule, Color: c, bounds: b})
}

// StrokePath implements engine.Device.
func (r *Recorder) StrokePath(path *geom.Path, ctm geom.Matrix, stroke engine.Stroke, c color.Color) {
	if !r.writable() || path.IsEmpty() || c == nil {
		return
	}
	// Square caps reach half the width times sqrt 2; miter tips reach half
	// the width times the miter limit.
	pad := stroke.Width
	if stroke.Join == engine.JoinMiter {
		limit := stroke.MiterLimit
		if limit <= 0 {
			limit = engine.DefaultMiterLimit
		}
		pad = max(pad, stroke.Width*limit/2)
	}
	if pad < 1 {
		pad = 1
	}
	b := path.Bounds().Expand(pad).Transform(ctm)
	r.add(StrokePathCommand{Path: path.Clone(), Matrix: ctm, Stroke: stroke, Color: c, bounds: b})
}

// DrawImage implements engine.Device.
func (r *Recorder) DrawImage(img image.Image, ctm geom.Matrix) {
	if !r.writable() || img == nil {
		return
	}
	b := geom.Rect{MaxX: 1, MaxY: 1}.Transform(ctm)
	r.add(DrawImageCommand{Image: img, Matrix: ctm, bounds: b})
}

// Close implements engine.Device. It reports a draw call made after
// Finish, if any.
func (r *Recorder) Close() error {
	return r.err
}

// Len returns the number of commands recorded so far.
func (r *Recorder) Len() int {
	return len(r.commands)
}

// Finish returns the immutable Recording. The recorder must not be
// drawn into afterwards.
func (r *Recorder) Finish() *Recording {
	r.finished = true
	bounds := r.bounds
	if len(r.commands) == 0 {
		bounds = geom.Rect{}
	}
	return &Recording{commands: r.commands, bounds: bounds}
}

func (r *Recorder) writable() bool {
	if r.finished {
		if r.err == nil {
			r.err = errFinished
		}
		return false
	}
	return true
}

func (r *Recorder) add(cmd Command) {
	r.commands = append(r.commands, cmd)
	r.bounds = r.bounds.Union(cmd.Bounds())
}

// Recording is an immutable list of recorded commands.
type Recording struct {
	commands []Command
	bounds   geom.Rect
}

// Commands returns the recorded commands.
func (r *Recording) Commands() []Command {
	return r.commands
}

// Len returns the number of commands.
func (r *Recording) Len() int {
	return len(r.commands)
}

// IsEmpty reports whether nothing was recorded.
func (r *Recording) IsEmpty() bool {
	return len(r.commands) == 0
}

// Bounds returns the union of the command bounds in recording space.
func (r *Recording) Bounds() geom.Rect {
	return r.bounds
}

// Run replays the commands into dev, mapping recording space through ctm.
// Commands whose transformed bounds miss area are skipped; an empty area
// disables culling. Run returns the number of commands replayed.
func (r *Recording) Run(dev engine.Device, ctm geom.Matrix, area image.Rectangle) int {
	cull := !area.Empty()
	target := geom.FromImageRect(area)

	replayed := 0
	for _, cmd := range r.commands {
		if cull && cmd.Bounds().Transform(ctm).Intersect(target).IsEmpty() {
			continue
		}
		cmd.replay(dev, ctm)
		replayed++
	}
	return replayed
}
