package vecdoc

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"image/color"
	"sort"

	"github.com/gogpu/pageview/engine"
	"github.com/gogpu/pageview/geom"
)

var (
	black     = color.NRGBA{A: 0xff}
	highlight = color.NRGBA{R: 0xff, G: 0xeb, A: 0x66}
	noteColor = color.NRGBA{R: 0xff, G: 0xd4, A: 0xff}
	fieldEdge = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
)

const (
	defaultTextSize  = 12
	defaultFieldSize = 10
)

// Document is an open vecdoc file. It implements engine.Document and
// engine.Interactive.
type Document struct {
	file     *File
	digest   []byte
	unlocked bool
	fields   map[string]string
	closed   bool
}

var (
	_ engine.Document    = (*Document)(nil)
	_ engine.Interactive = (*Document)(nil)
)

// Open parses data as a vecdoc file. It is the engine.OpenFunc registered
// for MIMEType.
func Open(data []byte) (engine.Document, error) {
	return OpenDocument(data)
}

// OpenDocument is Open returning the concrete type, for callers that need
// SetField.
func OpenDocument(data []byte) (*Document, error) {
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	d := &Document{file: f, fields: make(map[string]string)}
	if f.PasswordSHA256 != "" {
		d.digest, _ = decodeDigest(f.PasswordSHA256) // validated by Parse
	}
	for name, value := range f.Fields {
		d.fields[name] = value
	}
	for _, p := range f.Pages {
		for _, a := range p.Annotations {
			if a.Type == "field" {
				if _, ok := d.fields[a.Name]; !ok {
					d.fields[a.Name] = ""
				}
			}
		}
	}
	return d, nil
}

func decodeDigest(s string) ([]byte, error) {
	digest, err := hex.DecodeString(s)
	if err != nil || len(digest) != sha256.Size {
		return nil, fmt.Errorf("password_sha256: want %d hex bytes", sha256.Size)
	}
	return digest, nil
}

// NeedsPassword implements engine.Document.
func (d *Document) NeedsPassword() bool {
	return d.digest != nil && !d.unlocked
}

// Authenticate implements engine.Document.
func (d *Document) Authenticate(password string) bool {
	if d.digest == nil {
		return true
	}
	sum := sha256.Sum256([]byte(password))
	if subtle.ConstantTimeCompare(sum[:], d.digest) == 1 {
		d.unlocked = true
	}
	return d.unlocked
}

// PageCount implements engine.Document.
func (d *Document) PageCount() int {
	return len(d.file.Pages)
}

// Fields returns the form field names in sorted order.
func (d *Document) Fields() []string {
	names := make([]string, 0, len(d.fields))
	for name := range d.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Field returns the value of a form field.
func (d *Document) Field(name string) (string, bool) {
	v, ok := d.fields[name]
	return v, ok
}

// SetField changes a form field value. Pages show the new value after
// their next UpdatePage.
func (d *Document) SetField(name, value string) error {
	if _, ok := d.fields[name]; !ok {
		return fmt.Errorf("vecdoc: unknown field %q", name)
	}
	d.fields[name] = value
	return nil
}

// LoadPage implements engine.Document. Page content is compiled here, so
// a page with bad content fails to load while the rest of the document
// stays readable.
func (d *Document) LoadPage(number int) (engine.Page, error) {
	switch {
	case d.closed:
		return nil, engine.ErrClosed
	case d.NeedsPassword():
		return nil, engine.ErrNeedsPassword
	case number < 0 || number >= len(d.file.Pages):
		return nil, fmt.Errorf("%w: %d of %d", engine.ErrPageRange, number, len(d.file.Pages))
	}

	data := d.file.Pages[number]
	mb := data.MediaBox
	p := &Page{
		doc:    d,
		number: number,
		bounds: geom.NewRectFromPoints(mb[0], mb[1], mb[2], mb[3]),
	}
	for i, op := range data.Content {
		c, err := compileOp(op)
		if err != nil {
			return nil, fmt.Errorf("vecdoc: page %d op %d: %w", number, i, err)
		}
		p.content = append(p.content, c)
	}
	for i, a := range data.Annotations {
		an, err := compileAnnot(a)
		if err != nil {
			return nil, fmt.Errorf("vecdoc: page %d annotation %d: %w", number, i, err)
		}
		p.annots = append(p.annots, an)
	}
	p.syncFields()
	return p, nil
}

// UpdatePage implements engine.Interactive.
func (d *Document) UpdatePage(page engine.Page) error {
	p, ok := page.(*Page)
	if !ok || p.doc != d {
		return fmt.Errorf("vecdoc: page does not belong to this document")
	}
	if p.closed {
		return engine.ErrClosed
	}
	p.syncFields()
	return nil
}

// Close implements engine.Document.
func (d *Document) Close() error {
	if d.closed {
		return engine.ErrClosed
	}
	d.closed = true
	return nil
}

// Page is a loaded vecdoc page.
type Page struct {
	doc     *Document
	number  int
	bounds  geom.Rect
	content []drawOp
	annots  []*annotation
	closed  bool
}

// Number returns the page index.
func (p *Page) Number() int {
	return p.number
}

// Bounds implements engine.Page.
func (p *Page) Bounds() (geom.Rect, error) {
	return p.bounds, nil
}

// RunContents implements engine.Page.
func (p *Page) RunContents(dev engine.Device, ctm geom.Matrix) error {
	if p.closed {
		return engine.ErrClosed
	}
	for _, op := range p.content {
		op.run(dev, ctm)
	}
	return nil
}

// Annotations implements engine.Page.
func (p *Page) Annotations() ([]engine.Annotation, error) {
	if p.closed {
		return nil, engine.ErrClosed
	}
	out := make([]engine.Annotation, len(p.annots))
	for i, a := range p.annots {
		out[i] = a
	}
	return out, nil
}

// Close implements engine.Page.
func (p *Page) Close() error {
	if p.closed {
		return engine.ErrClosed
	}
	p.closed = true
	return nil
}

func (p *Page) syncFields() {
	for _, a := range p.annots {
		if a.kind == "field" {
			a.text = p.doc.fields[a.name]
		}
	}
}

// drawOp is one compiled content operation.
type drawOp struct {
	path   *geom.Path
	matrix geom.Matrix
	color  color.NRGBA
	rule   engine.FillRule
	stroke *engine.Stroke
}

func (op drawOp) run(dev engine.Device, ctm geom.Matrix) {
	m := geom.Concat(op.matrix, ctm)
	if op.stroke != nil {
		dev.StrokePath(op.path, m, *op.stroke, op.color)
		return
	}
	dev.FillPath(op.path, m, op.rule, op.color)
}

func compileOp(op Op) (drawOp, error) {
	c, err := parseColor(op.Color, black)
	if err != nil {
		return drawOp{}, err
	}
	out := drawOp{matrix: geom.Identity(), color: c}
	if op.Transform != nil {
		if len(op.Transform) != 6 {
			return drawOp{}, fmt.Errorf("transform needs 6 numbers")
		}
		t := op.Transform
		out.matrix = geom.Matrix{A: t[0], B: t[1], C: t[2], D: t[3], E: t[4], F: t[5]}
	}

	switch op.Op {
	case "fill":
		if out.path, err = parsePath(op.Path); err != nil {
			return drawOp{}, err
		}
		if out.rule, err = parseRule(op.Rule); err != nil {
			return drawOp{}, err
		}
	case "stroke":
		if out.path, err = parsePath(op.Path); err != nil {
			return drawOp{}, err
		}
		lineCap, err := parseCap(op.Cap)
		if err != nil {
			return drawOp{}, err
		}
		join, err := parseJoin(op.Join)
		if err != nil {
			return drawOp{}, err
		}
		out.stroke = &engine.Stroke{Width: op.Width, Cap: lineCap, Join: join, MiterLimit: op.MiterLimit}
	case "rect":
		if len(op.Rect) != 4 {
			return drawOp{}, fmt.Errorf("rect needs 4 numbers")
		}
		out.path = geom.NewPath()
		out.path.Rectangle(op.Rect[0], op.Rect[1], op.Rect[2], op.Rect[3])
	case "text":
		if len(op.At) != 2 {
			return drawOp{}, fmt.Errorf("text needs at: [x, y]")
		}
		size := op.Size
		if size <= 0 {
			size = defaultTextSize
		}
		path, err := textPath(op.Text, size, op.At[0], op.At[1])
		if err != nil {
			return drawOp{}, err
		}
		out.path = path
	default:
		return drawOp{}, fmt.Errorf("unknown op %q", op.Op)
	}
	return out, nil
}

// textPath sets text with its baseline starting at (x, y).
func textPath(text string, size, x, y float64) (*geom.Path, error) {
	ts, err := regularTypesetter()
	if err != nil {
		return nil, err
	}
	glyphs, _, err := ts.layout(text, size)
	if err != nil {
		return nil, err
	}
	return glyphs.Transform(geom.Translate(x, y)), nil
}

func parseRule(s string) (engine.FillRule, error) {
	switch s {
	case "", "nonzero":
		return engine.FillNonZero, nil
	case "evenodd":
		return engine.FillEvenOdd, nil
	}
	return 0, fmt.Errorf("unknown fill rule %q", s)
}

func parseCap(s string) (engine.LineCap, error) {
	switch s {
	case "", "butt":
		return engine.CapButt, nil
	case "round":
		return engine.CapRound, nil
	case "square":
		return engine.CapSquare, nil
	}
	return 0, fmt.Errorf("unknown line cap %q", s)
}

func parseJoin(s string) (engine.LineJoin, error) {
	switch s {
	case "", "miter":
		return engine.JoinMiter, nil
	case "round":
		return engine.JoinRound, nil
	case "bevel":
		return engine.JoinBevel, nil
	}
	return 0, fmt.Errorf("unknown line join %q", s)
}
