// Package engine defines the capability surface a document engine offers
// to the page cache: opening documents, loading pages, reporting bounds
// and replaying page content and annotations into a Device.
//
// Engines register an OpenFunc per MIME type (or file extension) with
// Register, following the database/sql driver pattern:
//
//	func init() {
//	    engine.Register("application/pdf", Open)
//	}
//
// The engine owns parsing, fonts and decoding. Recording and
// rasterization are done by devices supplied by the caller.
package engine

import (
	"errors"
	"image"
	"image/color"

	"github.com/gogpu/pageview/geom"
)

// Engine errors. Engines wrap these so callers can classify failures.
var (
	// ErrOutOfMemory reports that the engine could not allocate its
	// decoding context or input stream.
	ErrOutOfMemory = errors.New("engine: out of memory")

	// ErrUnknownType reports that no engine is registered for a MIME type.
	ErrUnknownType = errors.New("engine: unknown document type")

	// ErrMalformed reports that the buffer is not a valid document.
	ErrMalformed = errors.New("engine: malformed document")

	// ErrNeedsPassword reports that the document is locked.
	ErrNeedsPassword = errors.New("engine: document needs password")

	// ErrPageRange reports a page number outside the document.
	ErrPageRange = errors.New("engine: page out of range")

	// ErrClosed reports use of a closed document or page.
	ErrClosed = errors.New("engine: closed")
)

// Document is an open document.
type Document interface {
	// NeedsPassword reports whether pages are locked until Authenticate
	// succeeds.
	NeedsPassword() bool

	// Authenticate tries to unlock the document. It returns true for
	// documents that are not encrypted.
	Authenticate(password string) bool

	// PageCount returns the number of pages.
	PageCount() int

	// LoadPage loads page number (0-based). The caller owns the page and
	// must Close it.
	LoadPage(number int) (Page, error)

	// Close releases the document. Every page must be closed first.
	Close() error
}

// Interactive is implemented by documents with live interactive state
// (form fields, toggled annotations). UpdatePage brings a page in line with
// that state before its content is read.
type Interactive interface {
	UpdatePage(page Page) error
}

// Page is a loaded page handle.
type Page interface {
	// Bounds returns the page box in document space (72 units per inch).
	Bounds() (geom.Rect, error)

	// RunContents replays the static page content into dev, transformed
	// by ctm.
	RunContents(dev Device, ctm geom.Matrix) error

	// Annotations enumerates the page annotations in drawing order.
	Annotations() ([]Annotation, error)

	// Close releases the page.
	Close() error
}

// Annotation is a single page annotation.
type Annotation interface {
	// Run replays the annotation appearance into dev, transformed by ctm.
	Run(dev Device, ctm geom.Matrix) error
}

// FillRule selects how path interiors are computed.
type FillRule uint8

const (
	// FillNonZero uses the non-zero winding rule.
	FillNonZero FillRule = iota
	// FillEvenOdd uses the even-odd rule.
	FillEvenOdd
)

// String returns the rule name.
func (r FillRule) String() string {
	if r == FillEvenOdd {
		return "evenodd"
	}
	return "nonzero"
}

// LineCap is the shape at the open ends of a stroke.
type LineCap uint8

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

// LineJoin is the shape where two stroke segments meet.
type LineJoin uint8

const (
	JoinMiter LineJoin = iota
	JoinRound
	JoinBevel
)

// DefaultMiterLimit applies when Stroke.MiterLimit is not positive.
const DefaultMiterLimit = 10

// Stroke describes how a path outline is drawn.
type Stroke struct {
	// Width in user space. Zero draws the thinnest visible line.
	Width float64
	Cap   LineCap
	Join  LineJoin

	// MiterLimit is the longest miter, as a multiple of Width, drawn
	// before a miter join falls back to a bevel.
	MiterLimit float64
}

// Device receives drawing calls from pages and annotations. Recorders
// store them; raster devices paint pixels.
//
// Device methods do not return errors; a device that fails reports the
// first failure from Close.
type Device interface {
	FillPath(path *geom.Path, ctm geom.Matrix, rule FillRule, c color.Color)
	StrokePath(path *geom.Path, ctm geom.Matrix, stroke Stroke, c color.Color)

	// DrawImage paints img into the unit square mapped by ctm. Image
	// pixel (0, 0) lands on unit point (0, 0) and pixel (w, h) on (1, 1).
	DrawImage(img image.Image, ctm geom.Matrix)

	Close() error
}
