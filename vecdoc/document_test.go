package vecdoc

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/gogpu/pageview/engine"
	"github.com/gogpu/pageview/geom"
	"github.com/gogpu/pageview/recording"
)

func openSample(t *testing.T) *Document {
	t.Helper()
	d, err := OpenDocument(readSample(t))
	if err != nil {
		t.Fatalf("OpenDocument() = %v", err)
	}
	return d
}

func loadPage(t *testing.T, d *Document, n int) *Page {
	t.Helper()
	p, err := d.LoadPage(n)
	if err != nil {
		t.Fatalf("LoadPage(%d) = %v", n, err)
	}
	t.Cleanup(func() { _ = p.Close() })
	return p.(*Page)
}

func TestRegistered(t *testing.T) {
	for _, name := range []string{MIMEType, "vecdoc", ".vecdoc"} {
		if !engine.IsRegistered(name) {
			t.Errorf("IsRegistered(%q) = false", name)
		}
	}
}

func TestDocumentPages(t *testing.T) {
	d := openSample(t)
	if d.PageCount() != 2 {
		t.Fatalf("PageCount() = %d, want 2", d.PageCount())
	}

	tests := []struct {
		page int
		want geom.Rect
	}{
		{0, geom.Rect{MaxX: 200, MaxY: 100}},
		{1, geom.Rect{MaxX: 100, MaxY: 50}},
	}
	for _, tt := range tests {
		p := loadPage(t, d, tt.page)
		got, err := p.Bounds()
		if err != nil || got != tt.want {
			t.Errorf("page %d Bounds() = %v, %v; want %v", tt.page, got, err, tt.want)
		}
	}

	if _, err := d.LoadPage(2); !errors.Is(err, engine.ErrPageRange) {
		t.Errorf("LoadPage(2) = %v, want ErrPageRange", err)
	}
	if _, err := d.LoadPage(-1); !errors.Is(err, engine.ErrPageRange) {
		t.Errorf("LoadPage(-1) = %v, want ErrPageRange", err)
	}
}

func TestPageContents(t *testing.T) {
	d := openSample(t)
	p := loadPage(t, d, 0)

	rec := recording.NewRecorder()
	if err := p.RunContents(rec, geom.Identity()); err != nil {
		t.Fatalf("RunContents() = %v", err)
	}
	scene := rec.Finish()

	want := []recording.CommandType{
		recording.CmdFillPath,   // rect
		recording.CmdFillPath,   // triangle
		recording.CmdStrokePath, // line
		recording.CmdFillPath,   // text
	}
	if scene.Len() != len(want) {
		t.Fatalf("commands = %d, want %d", scene.Len(), len(want))
	}
	for i, cmd := range scene.Commands() {
		if cmd.Type() != want[i] {
			t.Errorf("command %d = %v, want %v", i, cmd.Type(), want[i])
		}
	}

	tri := scene.Commands()[1].(recording.FillPathCommand)
	if tri.Rule != engine.FillEvenOdd {
		t.Errorf("triangle rule = %v, want evenodd", tri.Rule)
	}
	stroke := scene.Commands()[2].(recording.StrokePathCommand)
	if stroke.Stroke != (engine.Stroke{Width: 4, Cap: engine.CapRound, Join: engine.JoinBevel}) {
		t.Errorf("stroke = %+v", stroke.Stroke)
	}

	// "Hello" at 12pt starts at x=110 on baseline 90.
	text := scene.Commands()[3].Bounds()
	if text.MinX < 109 || text.MaxX > 150 || text.MaxY > 91 || text.MinY < 78 {
		t.Errorf("text bounds = %+v, want a short line left of x=150 above y=91", text)
	}
}

func TestPageAnnotations(t *testing.T) {
	d := openSample(t)
	p := loadPage(t, d, 0)

	annots, err := p.Annotations()
	if err != nil {
		t.Fatal(err)
	}
	if len(annots) != 3 {
		t.Fatalf("annotations = %d, want 3", len(annots))
	}

	rec := recording.NewRecorder()
	for _, a := range annots {
		if err := a.Run(rec, geom.Identity()); err != nil {
			t.Fatalf("Run() = %v", err)
		}
	}
	// highlight fill, field box and value text; the note is hidden.
	if got := rec.Finish().Len(); got != 3 {
		t.Errorf("annotation commands = %d, want 3", got)
	}
}

func TestFieldUpdate(t *testing.T) {
	d := openSample(t)
	p := loadPage(t, d, 0)

	if v, ok := d.Field("agree"); !ok || v != "no" {
		t.Fatalf("Field(agree) = %q, %v", v, ok)
	}
	if err := d.SetField("agree", ""); err != nil {
		t.Fatal(err)
	}
	if err := d.SetField("missing", "x"); err == nil {
		t.Error("SetField(missing) = nil, want error")
	}

	count := func() int {
		annots, _ := p.Annotations()
		rec := recording.NewRecorder()
		for _, a := range annots {
			_ = a.Run(rec, geom.Identity())
		}
		return rec.Finish().Len()
	}

	// Not yet synced: the old value still draws.
	if got := count(); got != 3 {
		t.Errorf("before UpdatePage commands = %d, want 3", got)
	}
	if err := d.UpdatePage(p); err != nil {
		t.Fatalf("UpdatePage() = %v", err)
	}
	if got := count(); got != 2 {
		t.Errorf("after UpdatePage commands = %d, want 2 (empty value draws no text)", got)
	}

	other := openSample(t)
	if err := other.UpdatePage(p); err == nil {
		t.Error("UpdatePage() with a foreign page = nil, want error")
	}
}

func TestPassword(t *testing.T) {
	sum := sha256.Sum256([]byte("open sesame"))
	data := fmt.Sprintf(`{"password_sha256": %q, "pages": [{"media_box": [0, 0, 10, 10]}]}`, hex.EncodeToString(sum[:]))
	d, err := OpenDocument([]byte(data))
	if err != nil {
		t.Fatal(err)
	}

	if !d.NeedsPassword() {
		t.Fatal("NeedsPassword() = false")
	}
	if _, err := d.LoadPage(0); !errors.Is(err, engine.ErrNeedsPassword) {
		t.Errorf("LoadPage() = %v, want ErrNeedsPassword", err)
	}
	if d.Authenticate("guess") {
		t.Error("Authenticate(guess) = true")
	}
	if !d.Authenticate("open sesame") || d.NeedsPassword() {
		t.Fatal("Authenticate(open sesame) did not unlock")
	}
	loadPage(t, d, 0)

	if !openSample(t).Authenticate("anything") {
		t.Error("Authenticate() on an unencrypted document = false")
	}
}

func TestLoadPageCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		op   string
	}{
		{"unknown op", `{"op": "blur"}`},
		{"bad path", `{"op": "fill", "path": "Q 1"}`},
		{"bad color", `{"op": "rect", "rect": [0, 0, 1, 1], "color": "#zz"}`},
		{"bad rule", `{"op": "fill", "path": "M 0 0 L 1 1", "rule": "odd"}`},
		{"bad cap", `{"op": "stroke", "path": "M 0 0 L 1 1", "cap": "arrow"}`},
		{"bad join", `{"op": "stroke", "path": "M 0 0 L 1 1", "join": "arc"}`},
		{"short rect", `{"op": "rect", "rect": [0, 0]}`},
		{"text without position", `{"op": "text", "text": "x"}`},
		{"bad transform", `{"op": "rect", "rect": [0, 0, 1, 1], "transform": [1, 0, 0]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := `{"pages": [
				{"media_box": [0, 0, 10, 10], "content": [` + tt.op + `]},
				{"media_box": [0, 0, 10, 10]},
			]}`
			d, err := OpenDocument([]byte(data))
			if err != nil {
				t.Fatalf("OpenDocument() = %v", err)
			}
			if _, err := d.LoadPage(0); err == nil {
				t.Error("LoadPage(0) = nil error")
			}
			loadPage(t, d, 1)
		})
	}
}

func TestTransformOp(t *testing.T) {
	data := `{"pages": [{"media_box": [0, 0, 100, 100], "content": [
		{"op": "rect", "rect": [0, 0, 10, 10], "transform": [2, 0, 50, 0, 2, 50]},
	]}]}`
	d, err := OpenDocument([]byte(data))
	if err != nil {
		t.Fatal(err)
	}
	p := loadPage(t, d, 0)
	rec := recording.NewRecorder()
	if err := p.RunContents(rec, geom.Identity()); err != nil {
		t.Fatal(err)
	}
	got := rec.Finish().Bounds()
	want := geom.Rect{MinX: 50, MinY: 50, MaxX: 70, MaxY: 70}
	if got != want {
		t.Errorf("bounds = %+v, want %+v", got, want)
	}
}

func TestClose(t *testing.T) {
	d := openSample(t)
	p, err := d.LoadPage(0)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if err := p.RunContents(recording.NewRecorder(), geom.Identity()); !errors.Is(err, engine.ErrClosed) {
		t.Errorf("RunContents() after Close = %v, want ErrClosed", err)
	}
	if err := p.Close(); !errors.Is(err, engine.ErrClosed) {
		t.Errorf("second page Close() = %v, want ErrClosed", err)
	}
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := d.LoadPage(0); !errors.Is(err, engine.ErrClosed) {
		t.Errorf("LoadPage() after Close = %v, want ErrClosed", err)
	}
}

func TestTextLayout(t *testing.T) {
	ts, err := regularTypesetter()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		text  string
		empty bool
	}{
		{"latin", "Hello", false},
		{"decomposed accent", "été", false},
		{"mixed direction", "abc אבג", false},
		{"space only", "   ", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, adv, err := ts.layout(tt.text, 20)
			if err != nil {
				t.Fatalf("layout() = %v", err)
			}
			if path.IsEmpty() != tt.empty {
				t.Errorf("IsEmpty() = %v, want %v", path.IsEmpty(), tt.empty)
			}
			if tt.text != "" && adv <= 0 {
				t.Errorf("advance = %v, want > 0", adv)
			}
			if !tt.empty && path.Bounds().MaxY > 10 {
				t.Errorf("glyphs should sit above the baseline, bounds %+v", path.Bounds())
			}
		})
	}
}

func TestVisualRuns(t *testing.T) {
	runs := visualRuns("abc")
	if len(runs) != 1 || runs[0].rtl || runs[0].text != "abc" {
		t.Errorf("visualRuns(abc) = %+v", runs)
	}
	runs = visualRuns("אבג")
	if len(runs) != 1 || !runs[0].rtl {
		t.Errorf("visualRuns(Hebrew) = %+v, want one right-to-left run", runs)
	}
}
