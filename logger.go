package pageview

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger routes pageview's diagnostics to l. Sessions are silent until
// a logger is set; pass nil to silence them again.
//
// SetLogger is safe for concurrent use.
//
// Every record message starts with "pageview: ". Records carry the page
// number under "page" and the cache slot under "slot" where they apply.
//
// [slog.LevelDebug] traces the page cache:
//   - "cache hit" when GotoPage finds the page already loaded
//   - "evict" when a loaded page gives up its slot ("for" is the page
//     that takes it)
//   - "page loaded" with the device "width" and "height"
//   - "content scene built" and "annotation scene built" with the number
//     of recorded "commands", once per page load
//
// [slog.LevelWarn] reports failures, each with the cause under "err":
//   - "open failed", "password check failed", "authenticate failed" and
//     "page count failed" from document setup
//   - "page load failed" and "draw failed", which are also returned to
//     the caller
//   - "release page" when closing an evicted page fails or panics; the
//     session carries on with the slot cleared
//   - "close failed" when Session.Close could not release everything
//
// Nothing is logged at Info or Error.
//
// Example:
//
//	pageview.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Engines and commands built on
// pageview may log through it to share one configuration.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
