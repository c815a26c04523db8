package pageview

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/pageview/cache"
	"github.com/gogpu/pageview/engine"
	"github.com/gogpu/pageview/geom"
	"github.com/gogpu/pageview/raster"
	"github.com/gogpu/pageview/recording"
)

const (
	// DefaultResolution is used when a session is created with a
	// resolution below 1. It equals document space: one pixel per unit.
	DefaultResolution = 72

	// PlaceholderShade is the gray level drawn for a page with no scenes.
	PlaceholderShade = 0xd0
)

// newDrawDevice creates the device scenes are replayed into.
var newDrawDevice = func(pix *raster.Pixmap, clip image.Rectangle) engine.Device {
	return raster.NewDevice(pix, clip)
}

// Session renders pages of one open document.
type Session struct {
	doc        engine.Document
	resolution int
	store      *cache.Store
	current    int // slot index of the current page, -1 before navigation
	closed     bool
}

// Create opens buf with the engine registered for mimeType.
//
// The returned error has kind ErrOutOfMemory when the engine reports
// engine.ErrOutOfMemory, and ErrInvalidDocument otherwise.
func Create(buf []byte, mimeType string, resolution int, opts ...Option) (*Session, error) {
	var doc engine.Document
	err := guard(func() error {
		var err error
		doc, err = engine.Open(mimeType, buf)
		return err
	})
	if err != nil {
		kind := ErrInvalidDocument
		if errors.Is(err, engine.ErrOutOfMemory) {
			kind = ErrOutOfMemory
		}
		Logger().Warn("pageview: open failed", "type", mimeType, "size", len(buf), "err", err)
		return nil, newError("Create", -1, kind, err)
	}
	if doc == nil {
		return nil, newError("Create", -1, ErrInvalidDocument, fmt.Errorf("engine for %q returned no document", mimeType))
	}
	return NewSession(doc, resolution, opts...), nil
}

// NewSession wraps an open document. The session takes ownership of doc
// and closes it in Close.
func NewSession(doc engine.Document, resolution int, opts ...Option) *Session {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if resolution < 1 {
		resolution = DefaultResolution
	}
	return &Session{
		doc:        doc,
		resolution: resolution,
		store:      cache.New(o.cacheSize),
		current:    -1,
	}
}

// Resolution returns the device pixels per inch.
func (s *Session) Resolution() int {
	return s.resolution
}

// NeedsPassword reports whether the document is locked.
func (s *Session) NeedsPassword() bool {
	if s.closed {
		return false
	}
	var locked bool
	if err := guard(func() error {
		locked = s.doc.NeedsPassword()
		return nil
	}); err != nil {
		Logger().Warn("pageview: password check failed", "err", err)
	}
	return locked
}

// Authenticate tries password against the document. It returns true for
// documents that need no password.
func (s *Session) Authenticate(password string) bool {
	if s.closed {
		return false
	}
	var ok bool
	if err := guard(func() error {
		ok = s.doc.Authenticate(password)
		return nil
	}); err != nil {
		Logger().Warn("pageview: authenticate failed", "err", err)
		return false
	}
	return ok
}

// PageCount returns the number of pages, or 0 if the engine fails.
func (s *Session) PageCount() int {
	if s.closed {
		return 0
	}
	var n int
	if err := guard(func() error {
		n = s.doc.PageCount()
		return nil
	}); err != nil {
		Logger().Warn("pageview: page count failed", "err", err)
		return 0
	}
	return n
}

// GotoPage makes page number the current page, loading it unless it is
// cached.
//
// On failure the error has kind ErrPageLoad, yet the page still becomes
// current with a PlaceholderSize x PlaceholderSize geometry, so the caller
// always has something to draw.
func (s *Session) GotoPage(number int) error {
	const op = "GotoPage"
	if s.closed {
		return newError(op, number, ErrClosed, nil)
	}

	if i, ok := s.store.Lookup(number); ok {
		Logger().Debug("pageview: cache hit", "page", number, "slot", i)
		s.current = i
		return nil
	}

	i := s.store.Victim(number)
	if old := s.store.Slot(i); old.InUse() {
		Logger().Debug("pageview: evict", "page", old.Number, "for", number, "slot", i)
	}
	if err := s.store.Clear(i); err != nil {
		Logger().Warn("pageview: release page", "slot", i, "err", err)
	}
	slot := s.store.Reset(i, number)
	s.current = i

	if err := guard(func() error { return s.load(slot) }); err != nil {
		s.drop(slot)
		Logger().Warn("pageview: page load failed", "page", number, "err", err)
		return newError(op, number, ErrPageLoad, err)
	}
	Logger().Debug("pageview: page loaded", "page", number, "slot", i,
		"width", slot.Width, "height", slot.Height)
	return nil
}

// load fills slot with the page handle and geometry. Geometry is only
// written once it is known to be valid.
func (s *Session) load(slot *cache.Slot) error {
	page, err := s.doc.LoadPage(slot.Number)
	if err != nil {
		return err
	}
	if page == nil {
		return fmt.Errorf("engine returned no page")
	}
	slot.Page = page

	bounds, err := page.Bounds()
	if err != nil {
		return fmt.Errorf("bounds: %w", err)
	}
	bbox := bounds.Transform(s.deviceMatrix()).Round()
	if bbox.Empty() {
		return fmt.Errorf("%w: %v", errEmptyPage, bounds)
	}
	slot.Bounds = bounds
	slot.Width = bbox.Dx()
	slot.Height = bbox.Dy()
	return nil
}

// drop closes a page handle left by a failed load. Placeholder geometry
// and the page number stay.
func (s *Session) drop(slot *cache.Slot) {
	if slot.Page == nil {
		return
	}
	if err := guard(slot.Page.Close); err != nil {
		Logger().Warn("pageview: release page", "page", slot.Number, "err", err)
	}
	slot.Page = nil
}

// CurrentPage returns the current page number, or -1 before the first
// GotoPage.
func (s *Session) CurrentPage() int {
	if s.current < 0 {
		return -1
	}
	return s.store.Slot(s.current).Number
}

// CurrentPageWidth returns the device width of the current page, or 0
// before the first GotoPage.
func (s *Session) CurrentPageWidth() int {
	if s.current < 0 {
		return 0
	}
	return s.store.Slot(s.current).Width
}

// CurrentPageHeight returns the device height of the current page, or 0
// before the first GotoPage.
func (s *Session) CurrentPageHeight() int {
	if s.current < 0 {
		return 0
	}
	return s.store.Slot(s.current).Height
}

// DrawPage renders the current page into buf.
//
// buf holds width x height pixels of raster.BytesPerPixel bytes each,
// rows packed top to bottom, and represents the device rectangle
// (x, y)-(x+width, y+height). The page is scaled so that its full extent
// maps onto width x height device pixels; x and y select which part of
// that lands in buf. With invert set, every color channel v becomes 255-v.
//
// A page whose load failed is drawn as a flat PlaceholderShade.
func (s *Session) DrawPage(buf []byte, x, y, width, height int, invert bool) error {
	const op = "DrawPage"
	if s.closed {
		return newError(op, -1, ErrClosed, nil)
	}
	if s.current < 0 {
		return newError(op, -1, ErrDraw, errNoCurrentPage)
	}
	slot := s.store.Slot(s.current)
	rect := image.Rect(x, y, x+width, y+height)
	if width <= 0 || height <= 0 {
		return newError(op, slot.Number, ErrDraw, fmt.Errorf("invalid size %dx%d", width, height))
	}

	if err := guard(func() error { return s.draw(slot, buf, rect, invert) }); err != nil {
		Logger().Warn("pageview: draw failed", "page", slot.Number, "err", err)
		return newError(op, slot.Number, ErrDraw, err)
	}
	return nil
}

func (s *Session) draw(slot *cache.Slot, buf []byte, rect image.Rectangle, invert bool) error {
	if slot.InUse() {
		if err := s.buildScenes(slot); err != nil {
			return err
		}
	}

	pix, err := raster.NewPixmapWithData(buf, rect)
	if err != nil {
		return err
	}
	if slot.Content == nil && slot.Annots == nil {
		pix.Clear(PlaceholderShade)
		return nil
	}
	pix.Clear(0xff)

	ctm := s.deviceMatrix()
	bbox := slot.Bounds.Transform(ctm).Round()
	ctm = geom.Concat(ctm, geom.Scale(
		float64(rect.Dx())/float64(bbox.Dx()),
		float64(rect.Dy())/float64(bbox.Dy()),
	))
	bbox = slot.Bounds.Transform(ctm).Round()

	if err := replay(newDrawDevice(pix, bbox), ctm, bbox, slot.Content, slot.Annots); err != nil {
		return err
	}
	if invert {
		pix.Invert()
	}
	return nil
}

// buildScenes records whichever scenes the slot is missing. A scene that
// was built stays cached even if a later step fails.
func (s *Session) buildScenes(slot *cache.Slot) error {
	if idoc, ok := s.doc.(engine.Interactive); ok {
		if err := idoc.UpdatePage(slot.Page); err != nil {
			return fmt.Errorf("update page: %w", err)
		}
	}

	if slot.Content == nil {
		scene, err := record(func(dev engine.Device) error {
			return slot.Page.RunContents(dev, geom.Identity())
		})
		if err != nil {
			return fmt.Errorf("content: %w", err)
		}
		slot.Content = scene
		Logger().Debug("pageview: content scene built", "page", slot.Number, "commands", scene.Len())
	}

	if slot.Annots == nil {
		scene, err := record(func(dev engine.Device) error {
			annots, err := slot.Page.Annotations()
			if err != nil {
				return err
			}
			for _, a := range annots {
				if err := a.Run(dev, geom.Identity()); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("annotations: %w", err)
		}
		slot.Annots = scene
		Logger().Debug("pageview: annotation scene built", "page", slot.Number, "commands", scene.Len())
	}
	return nil
}

// record runs fn against a fresh recorder and returns the recording.
func record(fn func(dev engine.Device) error) (*recording.Recording, error) {
	rec := recording.NewRecorder()
	if err := fn(rec); err != nil {
		return nil, errors.Join(err, rec.Close())
	}
	scene := rec.Finish()
	if err := rec.Close(); err != nil {
		return nil, err
	}
	return scene, nil
}

// replay runs each scene into dev and closes it on every path.
func replay(dev engine.Device, ctm geom.Matrix, clip image.Rectangle, scenes ...*recording.Recording) (err error) {
	defer func() {
		if cerr := dev.Close(); err == nil {
			err = cerr
		}
	}()
	for _, scene := range scenes {
		if scene != nil {
			scene.Run(dev, ctm, clip)
		}
	}
	return nil
}

func (s *Session) deviceMatrix() geom.Matrix {
	zoom := float64(s.resolution) / 72
	return geom.Scale(zoom, zoom)
}

// CacheStats returns page cache counters.
func (s *Session) CacheStats() cache.Stats {
	return s.store.Stats()
}

// CachedPages returns the page numbers currently loaded, in slot order.
func (s *Session) CachedPages() []int {
	return s.store.Pages()
}

// Close releases every cached page, then the document. Calling Close
// again returns an error of kind ErrClosed.
func (s *Session) Close() error {
	if s.closed {
		return newError("Close", -1, ErrClosed, nil)
	}
	s.closed = true
	s.current = -1

	var errs []error
	if err := s.store.ClearAll(); err != nil {
		if errors.Is(err, cache.ErrClosePanic) {
			err = fmt.Errorf("%w: %w", ErrEnginePanic, err)
		}
		errs = append(errs, err)
	}
	if err := guard(s.doc.Close); err != nil {
		errs = append(errs, fmt.Errorf("close document: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		Logger().Warn("pageview: close failed", "err", err)
		return fmt.Errorf("pageview.Close: %w", err)
	}
	return nil
}
