package pageview

import (
	"image"

	"github.com/gogpu/pageview/engine"
	"github.com/gogpu/pageview/raster"
)

// SetDrawDevice replaces the draw device factory until the returned
// function is called.
func SetDrawDevice(fn func(*raster.Pixmap, image.Rectangle) engine.Device) (restore func()) {
	saved := newDrawDevice
	newDrawDevice = fn
	return func() { newDrawDevice = saved }
}

var ErrEmptyPage = errEmptyPage
