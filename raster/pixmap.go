package raster

import (
	"errors"
	"fmt"
	"image"
)

// BytesPerPixel is the size of one pixel in a Pixmap buffer.
const BytesPerPixel = 4

// Pixmap errors.
var (
	ErrEmptyRect      = errors.New("raster: empty pixmap rectangle")
	ErrBufferTooSmall = errors.New("raster: buffer too small")
)

// Pixmap is a rectangular RGBA view over caller memory.
//
// Row 0 of the buffer holds device row rect.Min.Y and column 0 holds
// device column rect.Min.X. Rows are packed with no padding.
type Pixmap struct {
	img *image.RGBA
}

// NewPixmapWithData binds buf to the device rectangle rect. buf must hold
// at least rect.Dx()*rect.Dy()*BytesPerPixel bytes; extra bytes are left
// untouched.
func NewPixmapWithData(buf []byte, rect image.Rectangle) (*Pixmap, error) {
	if rect.Empty() {
		return nil, fmt.Errorf("%w: %v", ErrEmptyRect, rect)
	}
	stride := rect.Dx() * BytesPerPixel
	need := stride * rect.Dy()
	if len(buf) < need {
		return nil, fmt.Errorf("%w: have %d bytes, need %d for %v", ErrBufferTooSmall, len(buf), need, rect)
	}
	return &Pixmap{img: &image.RGBA{
		Pix:    buf[:need:need],
		Stride: stride,
		Rect:   rect,
	}}, nil
}

// Bounds returns the device rectangle covered by the pixmap.
func (p *Pixmap) Bounds() image.Rectangle {
	return p.img.Rect
}

// Width returns the width in pixels.
func (p *Pixmap) Width() int {
	return p.img.Rect.Dx()
}

// Height returns the height in pixels.
func (p *Pixmap) Height() int {
	return p.img.Rect.Dy()
}

// Data returns the bound bytes.
func (p *Pixmap) Data() []byte {
	return p.img.Pix
}

// Image returns the pixmap as an *image.RGBA sharing the same memory.
func (p *Pixmap) Image() *image.RGBA {
	return p.img
}

// Clear sets every color channel to value and alpha to 255.
func (p *Pixmap) Clear(value byte) {
	pix := p.img.Pix
	for i := 0; i+3 < len(pix); i += BytesPerPixel {
		pix[i+0] = value
		pix[i+1] = value
		pix[i+2] = value
		pix[i+3] = 0xff
	}
}

// Invert replaces every color channel v with 255-v. Alpha is unchanged.
func (p *Pixmap) Invert() {
	pix := p.img.Pix
	for i := 0; i+3 < len(pix); i += BytesPerPixel {
		pix[i+0] = 0xff - pix[i+0]
		pix[i+1] = 0xff - pix[i+1]
		pix[i+2] = 0xff - pix[i+2]
	}
}
