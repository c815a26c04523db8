// Package geom provides the geometry shared by the page cache, the
// scene recorder and the raster device: affine matrices, rectangles and
// vector paths.
//
// # Coordinate Spaces
//
// Three spaces meet when a page is drawn:
//   - Document space: the engine's native units, 72 per inch, origin at
//     the top-left of the page, Y increasing downward.
//   - Device space: pixels at the session resolution, reached by
//     Scale(dpi/72, dpi/72).
//   - Output space: the caller's requested rectangle, reached by a second
//     scale that stretches the device-space page to the requested size.
//
// Matrices compose with [Concat], which applies its first argument first.
package geom
