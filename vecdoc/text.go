package vecdoc

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/pageview/geom"
)

// typesetter turns strings into glyph outlines. HarfBuzz picks and places
// glyphs through the go-text face; the outlines come from the same font
// file parsed by sfnt.
type typesetter struct {
	mu     sync.Mutex
	face   *font.Face
	font   *sfnt.Font
	buf    sfnt.Buffer
	shaper shaping.HarfbuzzShaper
}

var (
	regularOnce sync.Once
	regular     *typesetter
	regularErr  error
)

// regularTypesetter returns the shared Go Regular typesetter.
func regularTypesetter() (*typesetter, error) {
	regularOnce.Do(func() {
		regular, regularErr = newTypesetter(goregular.TTF)
	})
	return regular, regularErr
}

func newTypesetter(ttf []byte) (*typesetter, error) {
	f, err := sfnt.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("vecdoc: parse font outlines: %w", err)
	}
	face, err := font.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("vecdoc: parse font for shaping: %w", err)
	}
	return &typesetter{face: face, font: f}, nil
}

// layout returns the outline of text at size with the baseline origin at
// (0, 0), and the total advance width.
func (ts *typesetter) layout(text string, size float64) (*geom.Path, float64, error) {
	path := geom.NewPath()
	text = norm.NFC.String(text)
	if text == "" || size <= 0 {
		return path, 0, nil
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()

	ppem := fixed.Int26_6(size * 64)
	var pen float64
	for _, run := range visualRuns(text) {
		runes := []rune(run.text)
		dir := di.DirectionLTR
		if run.rtl {
			dir = di.DirectionRTL
		}
		out := ts.shaper.Shape(shaping.Input{
			Text:      runes,
			RunStart:  0,
			RunEnd:    len(runes),
			Direction: dir,
			Face:      ts.face,
			Size:      ppem,
			Script:    scriptOf(runes),
			Language:  language.NewLanguage("en"),
		})
		for _, g := range out.Glyphs {
			// go-text offsets point up; document space points down.
			x := pen + fixedToFloat(g.XOffset)
			y := -fixedToFloat(g.YOffset)
			if err := ts.appendGlyph(path, sfnt.GlyphIndex(uint16(g.GlyphID)), ppem, x, y); err != nil { //nolint:gosec // Go Regular has fewer than 65536 glyphs
				return nil, 0, err
			}
			pen += fixedToFloat(g.Advance)
		}
	}
	return path, pen, nil
}

func (ts *typesetter) appendGlyph(path *geom.Path, gid sfnt.GlyphIndex, ppem fixed.Int26_6, x, y float64) error {
	segments, err := ts.font.LoadGlyph(&ts.buf, gid, ppem, nil)
	if errors.Is(err, sfnt.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("vecdoc: glyph %d: %w", gid, err)
	}

	pt := func(p fixed.Point26_6) (float64, float64) {
		return x + fixedToFloat(p.X), y + fixedToFloat(p.Y)
	}
	open := false
	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				path.Close()
			}
			path.MoveTo(pt(seg.Args[0]))
			open = true
		case sfnt.SegmentOpLineTo:
			path.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			cx, cy := pt(seg.Args[0])
			px, py := pt(seg.Args[1])
			path.QuadTo(cx, cy, px, py)
		case sfnt.SegmentOpCubeTo:
			c1x, c1y := pt(seg.Args[0])
			c2x, c2y := pt(seg.Args[1])
			px, py := pt(seg.Args[2])
			path.CubicTo(c1x, c1y, c2x, c2y, px, py)
		}
	}
	if open {
		path.Close()
	}
	return nil
}

type textRun struct {
	text string
	rtl  bool
}

// visualRuns splits text into directional runs in display order.
func visualRuns(text string) []textRun {
	fallback := []textRun{{text: text}}

	var p bidi.Paragraph
	if _, err := p.SetString(text, bidi.DefaultDirection(bidi.Neutral)); err != nil {
		return fallback
	}
	ordering, err := p.Order()
	if err != nil || ordering.NumRuns() == 0 {
		return fallback
	}
	runs := make([]textRun, 0, ordering.NumRuns())
	for i, nr := 0, ordering.NumRuns(); i < nr; i++ {
		r := ordering.Run(i)
		runs = append(runs, textRun{text: r.String(), rtl: r.Direction() == bidi.RightToLeft})
	}
	return runs
}

// scriptOf returns the script of the first non-space rune.
func scriptOf(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
