//go:build mupdf

package fitzdoc

import (
	"errors"
	"fmt"

	"github.com/gen2brain/go-fitz"

	"github.com/gogpu/pageview/engine"
	"github.com/gogpu/pageview/geom"
)

// DPI is the resolution pages are rendered at. Drawing a session at a
// higher resolution scales the rendered image up.
var DPI = 144.0

// Document is a document open in MuPDF.
type Document struct {
	doc    *fitz.Document
	dpi    float64
	closed bool
}

var _ engine.Document = (*Document)(nil)

// Open opens data with MuPDF. It is the engine.OpenFunc registered for
// every supported type.
func Open(data []byte) (engine.Document, error) {
	return OpenDocument(data, DPI)
}

// OpenDocument opens data and renders pages at dpi.
func OpenDocument(data []byte, dpi float64) (*Document, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty buffer", engine.ErrMalformed)
	}
	if dpi <= 0 {
		dpi = DPI
	}
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		if errors.Is(err, fitz.ErrNeedsPassword) {
			return nil, fmt.Errorf("fitzdoc: %w", engine.ErrNeedsPassword)
		}
		return nil, fmt.Errorf("fitzdoc: %w: %w", engine.ErrMalformed, err)
	}
	return &Document{doc: doc, dpi: dpi}, nil
}

// NeedsPassword implements engine.Document. Encrypted documents are
// rejected by Open, so an open document never needs one.
func (d *Document) NeedsPassword() bool { return false }

// Authenticate implements engine.Document.
func (d *Document) Authenticate(string) bool { return true }

// PageCount implements engine.Document.
func (d *Document) PageCount() int {
	if d.closed {
		return 0
	}
	return d.doc.NumPage()
}

// LoadPage implements engine.Document.
func (d *Document) LoadPage(number int) (engine.Page, error) {
	if d.closed {
		return nil, engine.ErrClosed
	}
	if number < 0 || number >= d.doc.NumPage() {
		return nil, fmt.Errorf("%w: %d", engine.ErrPageRange, number)
	}
	r, err := d.doc.Bound(number)
	if err != nil {
		return nil, fmt.Errorf("fitzdoc: page %d: %w", number, err)
	}
	return &Page{doc: d, number: number, bounds: geom.FromImageRect(r)}, nil
}

// Close implements engine.Document.
func (d *Document) Close() error {
	if d.closed {
		return engine.ErrClosed
	}
	d.closed = true
	return d.doc.Close()
}

// Page is a page of a Document.
type Page struct {
	doc    *Document
	number int
	bounds geom.Rect
	closed bool
}

var _ engine.Page = (*Page)(nil)

// Bounds implements engine.Page.
func (p *Page) Bounds() (geom.Rect, error) {
	if p.closed {
		return geom.Rect{}, engine.ErrClosed
	}
	return p.bounds, nil
}

// RunContents renders the page with MuPDF and draws the image over the
// page box.
func (p *Page) RunContents(dev engine.Device, ctm geom.Matrix) error {
	if p.closed || p.doc.closed {
		return engine.ErrClosed
	}
	img, err := p.doc.doc.ImageDPI(p.number, p.doc.dpi)
	if err != nil {
		return fmt.Errorf("fitzdoc: render page %d: %w", p.number, err)
	}
	dev.DrawImage(img, imageMatrix(p.bounds, ctm))
	return nil
}

// imageMatrix maps the unit square onto the page box, then applies ctm.
func imageMatrix(box geom.Rect, ctm geom.Matrix) geom.Matrix {
	m := geom.Concat(geom.Scale(box.Width(), box.Height()), geom.Translate(box.MinX, box.MinY))
	return geom.Concat(m, ctm)
}

// Annotations implements engine.Page. MuPDF draws annotations into the
// page image.
func (p *Page) Annotations() ([]engine.Annotation, error) {
	if p.closed {
		return nil, engine.ErrClosed
	}
	return nil, nil
}

// Close implements engine.Page.
func (p *Page) Close() error {
	if p.closed {
		return engine.ErrClosed
	}
	p.closed = true
	return nil
}
