package main

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/gogpu/pageview"
)

var errBadPageRange = errors.New("invalid page range")

func cmdRender(env *cmdEnv, args []string) error {
	var (
		common commonFlags
		outDir string
		pages  string
	)
	fs := newFlagSet(env, "render", &common)
	fs.StringVarP(&outDir, "out", "o", ".", "output directory")
	fs.StringVarP(&pages, "pages", "p", "", "pages to render, e.g. 1-3,5 (default: all)")
	cfg, path, err := parseArgs(fs, &common, args)
	if err != nil {
		return err
	}
	setupLogging(env.stderr, cfg.Verbose)

	s, err := openSession(path, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	numbers, err := parsePages(pages, s.PageCount())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var errs []error
	for _, n := range numbers {
		name := filepath.Join(outDir, fmt.Sprintf("%s-%03d.png", base, n+1))
		if err := renderToFile(s, n, cfg.Invert, name); err != nil {
			errs = append(errs, fmt.Errorf("page %d: %w", n+1, err))
			continue
		}
		fmt.Fprintln(env.stdout, name)
	}
	return errors.Join(errs...)
}

// renderToFile renders page n and writes it as a PNG. The file is replaced
// atomically.
func renderToFile(s *pageview.Session, n int, invert bool, name string) error {
	if err := s.GotoPage(n); err != nil {
		return err
	}
	img, err := renderCurrent(s, invert)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	return atomic.WriteFile(name, &buf)
}

// parsePages parses a 1-based list of pages and ranges such as "1-3,5"
// into 0-based page numbers. An empty spec selects all count pages.
func parsePages(spec string, count int) ([]int, error) {
	if strings.TrimSpace(spec) == "" {
		out := make([]int, count)
		for i := range out {
			out[i] = i
		}
		return out, nil
	}
	var out []int
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		lo, hi, isRange := strings.Cut(part, "-")
		first, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("%w %q", errBadPageRange, part)
		}
		last := first
		if isRange {
			if last, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil {
				return nil, fmt.Errorf("%w %q", errBadPageRange, part)
			}
		}
		if first < 1 || last < first || last > count {
			return nil, fmt.Errorf("%w %q: document has %d pages", errBadPageRange, part, count)
		}
		for p := first; p <= last; p++ {
			out = append(out, p-1)
		}
	}
	return out, nil
}
