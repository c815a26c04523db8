// Package enginetest provides a scriptable in-memory engine for testing
// code that drives engine documents. Its documents count every engine call
// and can be told to fail or panic at chosen points.
package enginetest

import (
	"fmt"
	"image/color"

	"github.com/gogpu/pageview/engine"
	"github.com/gogpu/pageview/geom"
)

// Letter is the US Letter page box in document space.
var Letter = geom.Rect{MaxX: 612, MaxY: 792}

// PageSpec scripts one page.
type PageSpec struct {
	Bounds geom.Rect

	// Fill, when set, makes the page content a single fill of Bounds.
	Fill color.Color

	Annots []AnnotSpec

	LoadErr    error
	BoundsErr  error
	ContentErr error
	AnnotsErr  error

	// PanicOnLoad makes LoadPage panic with this value.
	PanicOnLoad any

	// PanicOnClose makes Page.Close panic with this value after the page
	// has been released.
	PanicOnClose any
}

// AnnotSpec scripts one annotation: a fill of Rect.
type AnnotSpec struct {
	Rect  geom.Rect
	Color color.Color
	Err   error
}

// Calls counts engine calls made against a Doc.
type Calls struct {
	Loads        int
	Bounds       int
	ContentRuns  int
	AnnotLists   int
	Updates      int
	PageCloses   int
	DocCloses    int
	LoadsPerPage map[int]int
}

// Doc is a fake engine.Document.
type Doc struct {
	Pages    []PageSpec
	Password string
	Calls    Calls

	unlocked  bool
	openPages int
}

var _ engine.Document = (*Doc)(nil)

// NewDoc returns a document of n pages with the given bounds, each filled
// with c.
func NewDoc(n int, bounds geom.Rect, c color.Color) *Doc {
	d := &Doc{Pages: make([]PageSpec, n)}
	for i := range d.Pages {
		d.Pages[i] = PageSpec{Bounds: bounds, Fill: c}
	}
	return d
}

// Opener returns an engine.OpenFunc that always yields d.
func Opener(d *Doc) engine.OpenFunc {
	return func([]byte) (engine.Document, error) {
		return d, nil
	}
}

// OpenPages returns the number of loaded pages not yet closed.
func (d *Doc) OpenPages() int {
	return d.openPages
}

// NeedsPassword implements engine.Document.
func (d *Doc) NeedsPassword() bool {
	return d.Password != "" && !d.unlocked
}

// Authenticate implements engine.Document.
func (d *Doc) Authenticate(password string) bool {
	if d.Password == "" || password == d.Password {
		d.unlocked = true
		return true
	}
	return false
}

// PageCount implements engine.Document.
func (d *Doc) PageCount() int {
	return len(d.Pages)
}

// LoadPage implements engine.Document.
func (d *Doc) LoadPage(number int) (engine.Page, error) {
	d.Calls.Loads++
	if d.Calls.LoadsPerPage == nil {
		d.Calls.LoadsPerPage = make(map[int]int)
	}
	d.Calls.LoadsPerPage[number]++

	if d.Calls.DocCloses > 0 {
		return nil, engine.ErrClosed
	}
	if d.NeedsPassword() {
		return nil, engine.ErrNeedsPassword
	}
	if number < 0 || number >= len(d.Pages) {
		return nil, fmt.Errorf("%w: %d", engine.ErrPageRange, number)
	}
	spec := d.Pages[number]
	if spec.PanicOnLoad != nil {
		panic(spec.PanicOnLoad)
	}
	if spec.LoadErr != nil {
		return nil, spec.LoadErr
	}
	d.openPages++
	return &Page{doc: d, number: number, spec: spec}, nil
}

// Close implements engine.Document.
func (d *Doc) Close() error {
	d.Calls.DocCloses++
	if d.openPages != 0 {
		return fmt.Errorf("enginetest: document closed with %d open pages", d.openPages)
	}
	return nil
}

// InteractiveDoc is a Doc that also implements engine.Interactive.
type InteractiveDoc struct {
	*Doc
	UpdateErr error
}

var _ engine.Interactive = InteractiveDoc{}

// UpdatePage implements engine.Interactive.
func (d InteractiveDoc) UpdatePage(engine.Page) error {
	d.Calls.Updates++
	return d.UpdateErr
}

// Page is a fake engine.Page.
type Page struct {
	doc    *Doc
	number int
	spec   PageSpec
	closed bool
}

// Number returns the page number.
func (p *Page) Number() int {
	return p.number
}

// Bounds implements engine.Page.
func (p *Page) Bounds() (geom.Rect, error) {
	p.doc.Calls.Bounds++
	if p.spec.BoundsErr != nil {
		return geom.Rect{}, p.spec.BoundsErr
	}
	return p.spec.Bounds, nil
}

// RunContents implements engine.Page.
func (p *Page) RunContents(dev engine.Device, ctm geom.Matrix) error {
	if p.closed {
		return engine.ErrClosed
	}
	p.doc.Calls.ContentRuns++
	if p.spec.ContentErr != nil {
		return p.spec.ContentErr
	}
	if p.spec.Fill != nil {
		fillRect(dev, ctm, p.spec.Bounds, p.spec.Fill)
	}
	return nil
}

// Annotations implements engine.Page.
func (p *Page) Annotations() ([]engine.Annotation, error) {
	if p.closed {
		return nil, engine.ErrClosed
	}
	p.doc.Calls.AnnotLists++
	if p.spec.AnnotsErr != nil {
		return nil, p.spec.AnnotsErr
	}
	out := make([]engine.Annotation, len(p.spec.Annots))
	for i, a := range p.spec.Annots {
		out[i] = annotation(a)
	}
	return out, nil
}

// Close implements engine.Page.
func (p *Page) Close() error {
	if p.closed {
		return engine.ErrClosed
	}
	p.closed = true
	p.doc.openPages--
	p.doc.Calls.PageCloses++
	if p.spec.PanicOnClose != nil {
		panic(p.spec.PanicOnClose)
	}
	return nil
}

type annotation AnnotSpec

func (a annotation) Run(dev engine.Device, ctm geom.Matrix) error {
	if a.Err != nil {
		return a.Err
	}
	fillRect(dev, ctm, a.Rect, a.Color)
	return nil
}

func fillRect(dev engine.Device, ctm geom.Matrix, r geom.Rect, c color.Color) {
	path := geom.NewPath()
	path.Rectangle(r.MinX, r.MinY, r.Width(), r.Height())
	dev.FillPath(path, ctm, engine.FillNonZero, c)
}
