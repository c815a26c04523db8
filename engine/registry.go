package engine

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// OpenFunc opens a document from an in-memory buffer. The buffer is owned
// by the caller and must stay unchanged while the document is open.
type OpenFunc func(data []byte) (Document, error)

var (
	registryMu sync.RWMutex
	openers    = make(map[string]OpenFunc)
)

// Register registers an opener for a MIME type or file extension.
// Names are matched case-insensitively and a leading dot is ignored, so
// "pdf", ".pdf" and "PDF" are the same name.
//
// Register panics if open is nil or the name is already registered.
func Register(name string, open OpenFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if open == nil {
		panic("engine: Register open func is nil")
	}
	key := normalize(name)
	if _, dup := openers[key]; dup {
		panic("engine: Register called twice for " + name)
	}
	openers[key] = open
}

// Unregister removes an opener. It is primarily useful in tests.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(openers, normalize(name))
}

// Open opens data with the engine registered for mimeType.
// MIME parameters such as "; charset=binary" are ignored.
func Open(mimeType string, data []byte) (Document, error) {
	registryMu.RLock()
	open, ok := openers[normalize(mimeType)]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q (forgotten import?)", ErrUnknownType, mimeType)
	}
	return open(data)
}

// IsRegistered reports whether an opener exists for name.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := openers[normalize(name)]
	return ok
}

// Types returns the registered names, sorted.
func Types() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(openers))
	for name := range openers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalize(name string) string {
	if i := strings.IndexByte(name, ';'); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimSpace(strings.ToLower(name))
	return strings.TrimPrefix(name, ".")
}
