// Package stroke expands stroked paths into fill outlines.
//
// The expander walks each subpath building two offset paths, one on each
// side at half the line width. The outline of an open subpath is the
// forward side, the end cap, the backward side reversed and the start cap.
// A closed subpath becomes two rings of opposite direction, so filling
// the result with the non-zero rule covers exactly the stroked area.
//
// Joins between segments are mitered (up to the miter limit, then
// beveled), rounded or beveled. Curves are flattened within the
// expander's tolerance before offsetting. Round caps and joins are cubic
// arcs in the output.
//
// Zero-length subpaths draw a dot with round or square caps and nothing
// with butt caps.
package stroke
