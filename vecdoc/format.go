package vecdoc

import (
	"encoding/json"
	"fmt"

	"github.com/tailscale/hujson"

	"github.com/gogpu/pageview/engine"
)

// Version is the newest file version this package reads.
const Version = 1

// File is the decoded form of a vecdoc file.
type File struct {
	Version        int               `json:"version"`
	PasswordSHA256 string            `json:"password_sha256,omitempty"` //nolint:tagliatelle // snake_case file format
	Fields         map[string]string `json:"fields,omitempty"`
	Pages          []PageData        `json:"pages"`
}

// PageData describes one page.
type PageData struct {
	MediaBox    []float64   `json:"media_box"` //nolint:tagliatelle // snake_case file format
	Content     []Op        `json:"content,omitempty"`
	Annotations []AnnotData `json:"annotations,omitempty"`
}

// Op is one content operation. Which fields apply depends on Op:
//
//	fill    path, color, rule
//	stroke  path, color, width, cap, join, miter_limit
//	rect    rect (x, y, w, h), color
//	text    at (x, y), size, text, color
//
// Transform, when present, holds the six coefficients a b c d e f of a
// matrix applied to the operation before the page transform.
type Op struct {
	Op         string    `json:"op"`
	Path       string    `json:"path,omitempty"`
	Rect       []float64 `json:"rect,omitempty"`
	Color      string    `json:"color,omitempty"`
	Rule       string    `json:"rule,omitempty"`
	Width      float64   `json:"width,omitempty"`
	Cap        string    `json:"cap,omitempty"`
	Join       string    `json:"join,omitempty"`
	MiterLimit float64   `json:"miter_limit,omitempty"` //nolint:tagliatelle // snake_case file format
	At         []float64 `json:"at,omitempty"`
	Size       float64   `json:"size,omitempty"`
	Text       string    `json:"text,omitempty"`
	Transform  []float64 `json:"transform,omitempty"`
}

// AnnotData describes one annotation. Rect is (x0, y0, x1, y1).
type AnnotData struct {
	Type   string    `json:"type"`
	Rect   []float64 `json:"rect"`
	Color  string    `json:"color,omitempty"`
	Border float64   `json:"border,omitempty"`
	Text   string    `json:"text,omitempty"`
	Size   float64   `json:"size,omitempty"`
	Name   string    `json:"name,omitempty"`
	Hidden bool      `json:"hidden,omitempty"`
}

// Parse decodes and validates the document structure. Page content is
// compiled later, when a page is loaded.
func Parse(data []byte) (*File, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", engine.ErrMalformed)
	}
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid HuJSON: %w", engine.ErrMalformed, err)
	}

	var f File
	if err := json.Unmarshal(standardized, &f); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %w", engine.ErrMalformed, err)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", engine.ErrMalformed, err)
	}
	return &f, nil
}

func (f *File) validate() error {
	if f.Version < 0 || f.Version > Version {
		return fmt.Errorf("unsupported version %d", f.Version)
	}
	if len(f.Pages) == 0 {
		return fmt.Errorf("no pages")
	}
	for i, p := range f.Pages {
		if len(p.MediaBox) != 4 {
			return fmt.Errorf("page %d: media_box needs 4 numbers, got %d", i, len(p.MediaBox))
		}
		for j, a := range p.Annotations {
			if a.Type == "field" {
				if a.Name == "" {
					return fmt.Errorf("page %d annotation %d: field without name", i, j)
				}
			}
		}
	}
	if f.PasswordSHA256 != "" {
		if _, err := decodeDigest(f.PasswordSHA256); err != nil {
			return err
		}
	}
	return nil
}
