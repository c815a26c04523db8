package raster

import (
	"errors"
	"image"
	"testing"
)

func TestNewPixmapWithData(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		rect    image.Rectangle
		wantErr error
	}{
		{"exact", 4 * 3 * 2, image.Rect(0, 0, 3, 2), nil},
		{"offset", 4 * 3 * 2, image.Rect(10, 20, 13, 22), nil},
		{"larger buffer", 100, image.Rect(0, 0, 2, 2), nil},
		{"too small", 4*3*2 - 1, image.Rect(0, 0, 3, 2), ErrBufferTooSmall},
		{"empty", 16, image.Rect(0, 0, 0, 4), ErrEmptyRect},
		{"inverted", 16, image.Rect(4, 4, 0, 0), ErrEmptyRect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pix, err := NewPixmapWithData(make([]byte, tt.size), tt.rect)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if pix.Bounds() != tt.rect {
				t.Errorf("Bounds() = %v, want %v", pix.Bounds(), tt.rect)
			}
			if pix.Width() != tt.rect.Dx() || pix.Height() != tt.rect.Dy() {
				t.Errorf("size = %dx%d, want %dx%d", pix.Width(), pix.Height(), tt.rect.Dx(), tt.rect.Dy())
			}
			if len(pix.Data()) != tt.rect.Dx()*tt.rect.Dy()*BytesPerPixel {
				t.Errorf("len(Data()) = %d", len(pix.Data()))
			}
		})
	}
}

func TestPixmapSharesBuffer(t *testing.T) {
	buf := make([]byte, 2*2*BytesPerPixel+4)
	buf[len(buf)-1] = 0x42
	pix, err := NewPixmapWithData(buf, image.Rect(5, 5, 7, 7))
	if err != nil {
		t.Fatal(err)
	}

	pix.Clear(0x10)
	for i := 0; i < 16; i += 4 {
		if buf[i] != 0x10 || buf[i+1] != 0x10 || buf[i+2] != 0x10 || buf[i+3] != 0xff {
			t.Fatalf("pixel %d = %v, want [16 16 16 255]", i/4, buf[i:i+4])
		}
	}
	if buf[len(buf)-1] != 0x42 {
		t.Error("Clear wrote past the bound rectangle")
	}

	// Device coordinate (6, 6) is the last pixel of the buffer.
	if off := pix.Image().PixOffset(6, 6); off != 12 {
		t.Errorf("PixOffset(6, 6) = %d, want 12", off)
	}
}

func TestPixmapInvert(t *testing.T) {
	buf := []byte{
		0, 10, 200, 255,
		255, 128, 1, 255,
	}
	pix, err := NewPixmapWithData(buf, image.Rect(0, 0, 2, 1))
	if err != nil {
		t.Fatal(err)
	}
	pix.Invert()

	want := []byte{
		255, 245, 55, 255,
		0, 127, 254, 255,
	}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("byte %d = %d, want %d (buf %v)", i, buf[i], want[i], buf)
		}
	}

	pix.Invert()
	if buf[1] != 10 || buf[6] != 1 {
		t.Errorf("double invert did not restore the buffer: %v", buf)
	}
}
