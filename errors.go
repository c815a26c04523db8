package pageview

import (
	"errors"
	"fmt"
	"strconv"
)

// Error kinds. Every error returned by a Session matches exactly one of
// these with errors.Is.
var (
	// ErrOutOfMemory reports that the engine could not allocate what it
	// needs to open the document.
	ErrOutOfMemory = errors.New("pageview: out of memory")

	// ErrInvalidDocument reports a buffer the engine cannot parse, or a
	// type no engine is registered for.
	ErrInvalidDocument = errors.New("pageview: invalid document")

	// ErrPageLoad reports a page that could not be loaded or measured.
	// The session stays usable and the page keeps placeholder geometry.
	ErrPageLoad = errors.New("pageview: page load failed")

	// ErrDraw reports a failed render. The buffer may be partially
	// written; cached scenes stay valid.
	ErrDraw = errors.New("pageview: draw failed")

	// ErrClosed reports use of a closed session.
	ErrClosed = errors.New("pageview: session closed")

	// ErrEnginePanic wraps a panic recovered from engine code.
	ErrEnginePanic = errors.New("pageview: engine panic")
)

var (
	errNoCurrentPage = errors.New("no current page")
	errEmptyPage     = errors.New("empty page bounds")
)

// Error describes a failed session operation.
type Error struct {
	Op   string // operation name, e.g. "GotoPage"
	Page int    // page number, or -1 when not applicable
	Kind error  // one of the Err* kinds
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	s := "pageview." + e.Op
	if e.Page >= 0 {
		s += " page " + strconv.Itoa(e.Page)
	}
	s += ": " + e.Kind.Error()
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap returns the kind and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(op string, page int, kind, err error) *Error {
	return &Error{Op: op, Page: page, Kind: kind, Err: err}
}

// guard runs fn and converts a panic into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(error); ok {
				err = fmt.Errorf("%w: %w", ErrEnginePanic, rerr)
				return
			}
			err = fmt.Errorf("%w: %v", ErrEnginePanic, r)
		}
	}()
	return fn()
}
