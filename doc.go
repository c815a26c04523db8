// Package pageview renders pages of a paginated document into
// caller-supplied pixel buffers, keeping recently visited pages ready for
// redraw.
//
// # Overview
//
// A Session wraps one open document. GotoPage makes a page current and
// reports its size at the session resolution; DrawPage renders the current
// page into a buffer, scaled to fill the requested rectangle:
//
//	s, err := pageview.Create(data, "application/pdf", 144)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	if err := s.GotoPage(0); err != nil {
//	    log.Print(err) // the page still has a 100x100 placeholder size
//	}
//	w, h := s.CurrentPageWidth(), s.CurrentPageHeight()
//	buf := make([]byte, w*h*raster.BytesPerPixel)
//	err = s.DrawPage(buf, 0, 0, w, h, false)
//
// # Page cache
//
// Loaded pages live in a small fixed cache (3 slots unless WithCacheSize
// says otherwise). Revisiting a cached page costs no engine call. When the
// cache is full the page furthest from the requested page number is
// evicted. Each page keeps two scenes, its content and its annotations,
// recorded on first draw and replayed at any scale afterwards.
//
// # Engines
//
// Documents are opened by engines registered in package engine. Import an
// engine for its side effect:
//
//	import _ "github.com/gogpu/pageview/vecdoc"
//
// Package vecdoc is a pure-Go engine. Package fitzdoc, built with the
// mupdf tag, opens PDF, XPS, EPUB and CBZ files through MuPDF.
//
// # Errors
//
// Failures are reported as *Error values carrying one of the kinds
// ErrOutOfMemory, ErrInvalidDocument, ErrPageLoad, ErrDraw or ErrClosed.
// Panics raised inside engine code are recovered and reported the same way.
//
// # Logging
//
// pageview is silent by default. Call SetLogger to receive debug records
// about cache hits, evictions and scene builds, and warnings for failures.
//
// A Session is not safe for concurrent use.
package pageview
