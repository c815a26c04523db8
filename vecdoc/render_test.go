package vecdoc_test

import (
	"os"
	"testing"

	"github.com/gogpu/pageview"
	"github.com/gogpu/pageview/raster"
	"github.com/gogpu/pageview/vecdoc"
)

func TestRenderSample(t *testing.T) {
	data, err := os.ReadFile("testdata/sample.vecdoc")
	if err != nil {
		t.Fatal(err)
	}
	s, err := pageview.Create(data, vecdoc.MIMEType, 72)
	if err != nil {
		t.Fatalf("Create() = %v", err)
	}
	defer s.Close()

	if err := s.GotoPage(0); err != nil {
		t.Fatalf("GotoPage() = %v", err)
	}
	w, h := s.CurrentPageWidth(), s.CurrentPageHeight()
	if w != 200 || h != 100 {
		t.Fatalf("size = %dx%d, want 200x100", w, h)
	}

	buf := make([]byte, w*h*raster.BytesPerPixel)
	if err := s.DrawPage(buf, 0, 0, w, h, false); err != nil {
		t.Fatalf("DrawPage() = %v", err)
	}
	at := func(x, y int) [4]byte {
		i := (y*w + x) * raster.BytesPerPixel
		return [4]byte{buf[i], buf[i+1], buf[i+2], buf[i+3]}
	}

	tests := []struct {
		name string
		x, y int
		want [4]byte
	}{
		{"rect", 50, 60, [4]byte{0, 0, 0xff, 0xff}},
		{"triangle", 160, 12, [4]byte{0xff, 0, 0, 0xff}},
		{"below triangle", 130, 35, [4]byte{0xff, 0xff, 0xff, 0xff}},
		{"stroke", 150, 60, [4]byte{0, 0xff, 0, 0xff}},
		{"margin", 195, 50, [4]byte{0xff, 0xff, 0xff, 0xff}},
	}
	for _, tt := range tests {
		if got := at(tt.x, tt.y); got != tt.want {
			t.Errorf("%s pixel (%d,%d) = %v, want %v", tt.name, tt.x, tt.y, got, tt.want)
		}
	}

	// Translucent highlight over white keeps red, dims blue.
	if got := at(158, 76); got[0] != 0xff || got[2] < 130 || got[2] > 180 {
		t.Errorf("highlight pixel = %v, want a pale yellow", got)
	}

	if err := s.DrawPage(buf, 0, 0, w, h, true); err != nil {
		t.Fatal(err)
	}
	if got := at(50, 60); got != [4]byte{0xff, 0xff, 0, 0xff} {
		t.Errorf("inverted rect pixel = %v, want yellow", got)
	}
}
