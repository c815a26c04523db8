//go:build mupdf

// Package fitzdoc is a document engine backed by MuPDF through go-fitz.
// It opens PDF, XPS, EPUB and CBZ files.
//
// The package is only built with the mupdf build tag, since go-fitz
// links against the MuPDF C library:
//
//	go build -tags mupdf ./...
//
// Importing the package registers it with package engine:
//
//	import _ "github.com/gogpu/pageview/fitzdoc"
//
//	s, err := pageview.Create(data, "application/pdf", 144)
//
// MuPDF renders each page to an image at DPI dots per inch. The image is
// replayed into the device as a single DrawImage covering the page box,
// so recorded scenes are resolution independent up to that DPI.
// Annotations are part of the rendered image; Page.Annotations returns
// none.
package fitzdoc

import "github.com/gogpu/pageview/engine"

// Registered media types and extensions.
var types = []string{
	"application/pdf", "pdf",
	"application/oxps", "application/vnd.ms-xpsdocument", "xps", "oxps",
	"application/epub+zip", "epub",
	"application/vnd.comicbook+zip", "application/x-cbz", "cbz",
}

func init() {
	for _, name := range types {
		engine.Register(name, Open)
	}
}
