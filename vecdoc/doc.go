// Package vecdoc is a pure-Go document engine for vecdoc files: HuJSON
// (JSON with comments and trailing commas) descriptions of vector pages.
//
// Importing the package registers it with package engine:
//
//	import _ "github.com/gogpu/pageview/vecdoc"
//
//	s, err := pageview.Create(data, vecdoc.MIMEType, 144)
//
// A file lists pages, each with a media box, content operations and
// annotations:
//
//	{
//	    "version": 1,
//	    // "password_sha256": "<hex sha-256 of the password>",
//	    "fields": {"agree": "no"},
//	    "pages": [{
//	        "media_box": [0, 0, 612, 792],
//	        "content": [
//	            {"op": "rect", "rect": [72, 72, 200, 100], "color": "#3366cc"},
//	            {"op": "fill", "path": "M 300 72 L 400 172 L 300 172 Z", "rule": "evenodd"},
//	            {"op": "stroke", "path": "M 72 200 Q 150 150 228 200", "width": 2, "cap": "round"},
//	            {"op": "text", "at": [72, 260], "size": 18, "text": "Hello, world"},
//	        ],
//	        "annotations": [
//	            {"type": "highlight", "rect": [70, 242, 200, 266]},
//	            {"type": "field", "name": "agree", "rect": [72, 300, 172, 320]},
//	        ],
//	    }],
//	}
//
// Coordinates are document space: 72 units per inch, y pointing down.
// Paths use absolute SVG commands M, L, Q, C and Z. Text is set in Go
// Regular, shaped with HarfBuzz and laid out in bidi visual order.
//
// Form fields are interactive: Document.SetField changes a value and the
// next UpdatePage brings the page's field appearances up to date.
package vecdoc

import "github.com/gogpu/pageview/engine"

// MIMEType is the media type vecdoc files are registered under.
const MIMEType = "application/vnd.pageview.vecdoc+json"

func init() {
	engine.Register(MIMEType, Open)
	engine.Register("vecdoc", Open)
}
