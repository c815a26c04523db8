package recording

import (
	"image"
	"image/color"

	"github.com/gogpu/pageview/engine"
	"github.com/gogpu/pageview/geom"
)

// CommandType identifies the type of a command.
type CommandType uint8

const (
	CmdFillPath   CommandType = iota // Fill a path
	CmdStrokePath                    // Stroke a path
	CmdDrawImage                     // Draw an image
)

var commandTypeNames = [...]string{
	CmdFillPath:   "FillPath",
	CmdStrokePath: "StrokePath",
	CmdDrawImage:  "DrawImage",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all command types.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType

	// Bounds returns the area the command may touch, in the coordinate
	// space of the recording.
	Bounds() geom.Rect

	replay(dev engine.Device, ctm geom.Matrix)
}

// FillPathCommand fills a path with a solid color.
type FillPathCommand struct {
	Path   *geom.Path
	Matrix geom.Matrix
	Rule   engine.FillRule
	Color  color.Color
	bounds geom.Rect
}

// Type implements Command.
func (FillPathCommand) Type() CommandType { return CmdFillPath }

// Bounds implements Command.
func (c FillPathCommand) Bounds() geom.Rect { return c.bounds }

func (c FillPathCommand) replay(dev engine.Device, ctm geom.Matrix) {
	dev.FillPath(c.Path, geom.Concat(c.Matrix, ctm), c.Rule, c.Color)
}

// StrokePathCommand strokes a path with a solid color.
type StrokePathCommand struct {
	Path   *geom.Path
	Matrix geom.Matrix
	Stroke engine.Stroke
	Color  color.Color
	bounds geom.Rect
}

// Type implements Command.
func (StrokePathCommand) Type() CommandType { return CmdStrokePath }

// Bounds implements Command.
func (c StrokePathCommand) Bounds() geom.Rect { return c.bounds }

func (c StrokePathCommand) replay(dev engine.Device, ctm geom.Matrix) {
	dev.StrokePath(c.Path, geom.Concat(c.Matrix, ctm), c.Stroke, c.Color)
}

// DrawImageCommand paints an image into the unit square mapped by Matrix.
type DrawImageCommand struct {
	Image  image.Image
	Matrix geom.Matrix
	bounds geom.Rect
}

// Type implements Command.
func (DrawImageCommand) Type() CommandType { return CmdDrawImage }

// Bounds implements Command.
func (c DrawImageCommand) Bounds() geom.Rect { return c.bounds }

func (c DrawImageCommand) replay(dev engine.Device, ctm geom.Matrix) {
	dev.DrawImage(c.Image, geom.Concat(c.Matrix, ctm))
}
