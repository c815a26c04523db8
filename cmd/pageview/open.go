package main

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/pageview"
	"github.com/gogpu/pageview/engine"
	_ "github.com/gogpu/pageview/vecdoc"
)

var (
	errUnknownType   = errors.New("cannot tell document type")
	errWrongPassword = errors.New("wrong or missing password")
)

// configureEngines applies cfg to engines that take global settings. Builds
// with optional engines replace it.
var configureEngines = func(Config) {}

// documentType returns cfg.Type, or the registered name matching the file
// extension.
func documentType(path string, cfg Config) (string, error) {
	if cfg.Type != "" {
		return cfg.Type, nil
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" || !engine.IsRegistered(ext) {
		return "", fmt.Errorf("%w %q (use --type; known: %s)", errUnknownType, path, strings.Join(engine.Types(), ", "))
	}
	return ext, nil
}

// setupLogging routes pageview logs to w when verbose is set.
func setupLogging(w io.Writer, verbose bool) {
	if !verbose {
		pageview.SetLogger(nil)
		return
	}
	pageview.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

// openSession reads path and opens a session configured by cfg. Locked
// documents are unlocked with cfg.Password.
func openSession(path string, cfg Config) (*pageview.Session, error) {
	mimeType, err := documentType(path, cfg)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		return nil, err
	}
	configureEngines(cfg)
	s, err := pageview.Create(data, mimeType, cfg.DPI, pageview.WithCacheSize(cfg.CacheSize))
	if err != nil {
		return nil, err
	}
	if s.NeedsPassword() && !s.Authenticate(cfg.Password) {
		_ = s.Close()
		return nil, fmt.Errorf("%s: %w", path, errWrongPassword)
	}
	return s, nil
}

// renderCurrent draws the whole current page into a new image.
func renderCurrent(s *pageview.Session, invert bool) (*image.RGBA, error) {
	w, h := s.CurrentPageWidth(), s.CurrentPageHeight()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if err := s.DrawPage(img.Pix, 0, 0, w, h, invert); err != nil {
		return nil, err
	}
	return img, nil
}
