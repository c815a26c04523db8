// Package raster paints device calls into pixel memory owned by the caller.
//
// A Pixmap binds an RGBA view onto an existing byte slice at a device
// rectangle, so rendering writes straight into the caller's buffer with no
// intermediate copy. A Device implements engine.Device on top of a Pixmap:
//
//   - non-zero fills are scan converted by golang.org/x/image/vector
//   - even-odd fills use a 4x supersampled span filler
//   - strokes are expanded to outlines by internal/stroke and filled non-zero
//   - images are resampled with golang.org/x/image/draw
//
// Every pixel is 4 bytes, R G B A, and pages always leave alpha at 255.
package raster
