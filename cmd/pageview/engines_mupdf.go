//go:build mupdf

package main

import "github.com/gogpu/pageview/fitzdoc"

func init() {
	configureEngines = func(cfg Config) {
		fitzdoc.DPI = float64(cfg.DPI)
	}
}
