package pageview

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/gogpu/pageview/engine/enginetest"
)

func TestNopHandler(t *testing.T) {
	h := nopHandler{}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if h.Enabled(context.Background(), level) {
			t.Errorf("nopHandler.Enabled(%v) = true, want false", level)
		}
	}
	if err := h.Handle(context.Background(), slog.Record{}); err != nil {
		t.Errorf("nopHandler.Handle() = %v, want nil", err)
	}
	if _, ok := h.WithAttrs(nil).(nopHandler); !ok {
		t.Error("WithAttrs() did not return nopHandler")
	}
	if _, ok := h.WithGroup("g").(nopHandler); !ok {
		t.Error("WithGroup() did not return nopHandler")
	}
}

func TestLoggerDefaultSilent(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger() returned nil")
	}
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger should be disabled")
	}
}

func TestSetLoggerNilRestoresSilent(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	SetLogger(slog.Default())
	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should produce a disabled logger")
	}
}

func TestSessionLogsCacheActivity(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	doc := enginetest.NewDoc(5, enginetest.Letter, nil)
	doc.Pages[4].LoadErr = errors.New("boom")
	s := NewSession(doc, 72, WithCacheSize(1))
	defer s.Close()

	_ = s.GotoPage(0)
	_ = s.GotoPage(0)
	_ = s.GotoPage(1)
	_ = s.GotoPage(4)

	out := buf.String()
	for _, want := range []string{
		"pageview: page loaded",
		"pageview: cache hit",
		"pageview: evict",
		"level=WARN msg=\"pageview: page load failed\"",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestSessionLogLevels(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	doc := enginetest.NewDoc(3, enginetest.Letter, color.Black)
	doc.Pages[0].PanicOnClose = "page tree corrupt"
	s := NewSession(doc, 72, WithCacheSize(1))
	defer s.Close()

	if err := s.GotoPage(0); err != nil {
		t.Fatal(err)
	}
	if err := s.DrawPage(make([]byte, 4*4*4), 0, 0, 4, 4, false); err != nil {
		t.Fatal(err)
	}
	if err := s.GotoPage(1); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		`level=DEBUG msg="pageview: content scene built" page=0 commands=1`,
		`level=DEBUG msg="pageview: annotation scene built" page=0 commands=0`,
		`level=DEBUG msg="pageview: evict" page=0 for=1 slot=0`,
		`level=WARN msg="pageview: release page" slot=0`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
	for _, level := range []string{"level=INFO", "level=ERROR"} {
		if strings.Contains(out, level) {
			t.Errorf("log output has %s records:\n%s", level, out)
		}
	}
}

func TestLoggerConcurrentAccess(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			Logger().Debug("concurrent read")
		}()
		go func() {
			defer wg.Done()
			SetLogger(slog.Default())
			SetLogger(nil)
		}()
	}
	wg.Wait()
}
