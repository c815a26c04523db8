package cache

import (
	"errors"
	"fmt"

	"github.com/gogpu/pageview/engine"
	"github.com/gogpu/pageview/geom"
	"github.com/gogpu/pageview/recording"
)

const (
	// Unused marks a slot that holds no page.
	Unused = -1

	// PlaceholderSize is the width and height reported for a page whose
	// geometry is not (yet) known.
	PlaceholderSize = 100

	// DefaultCapacity is the number of slots of a session cache.
	DefaultCapacity = 3
)

// ErrClosePanic marks a page whose Close panicked while its slot was cleared.
var ErrClosePanic = errors.New("cache: page close panicked")

// Slot is one cache entry.
type Slot struct {
	// Number is the page index, or Unused.
	Number int

	// Width and Height are the device size at the session resolution.
	Width, Height int

	// Bounds is the page box in document space.
	Bounds geom.Rect

	// Page is the owned page handle; nil when the slot is unused or the
	// load failed.
	Page engine.Page

	// Content and Annots are built on first draw.
	Content *recording.Recording
	Annots  *recording.Recording
}

// InUse reports whether the slot owns a loaded page. A slot whose load
// failed keeps its number and placeholder size but is not in use, so it is
// neither found by lookups nor protected from reuse.
func (s *Slot) InUse() bool {
	return s.Page != nil
}

// Stats reports cache activity.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Loads     uint64
	Len       int
	Capacity  int
}

// HitRate returns hits / (hits + misses), or 0 before any lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Store is a fixed-capacity array of page slots.
type Store struct {
	slots []Slot

	hits      uint64
	misses    uint64
	evictions uint64
	loads     uint64
}

// New creates a store with capacity slots, all unused.
// If capacity <= 0, DefaultCapacity is used.
func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	s := &Store{slots: make([]Slot, capacity)}
	for i := range s.slots {
		s.slots[i].Number = Unused
	}
	return s
}

// Capacity returns the number of slots.
func (s *Store) Capacity() int {
	return len(s.slots)
}

// Len returns the number of in-use slots.
func (s *Store) Len() int {
	n := 0
	for i := range s.slots {
		if s.slots[i].InUse() {
			n++
		}
	}
	return n
}

// Slot returns slot i. The pointer stays valid for the life of the store.
func (s *Store) Slot(i int) *Slot {
	return &s.slots[i]
}

// Find returns the index of the in-use slot holding number, or -1.
func (s *Store) Find(number int) int {
	if number == Unused {
		return -1
	}
	for i := range s.slots {
		if s.slots[i].InUse() && s.slots[i].Number == number {
			return i
		}
	}
	return -1
}

// Lookup is Find with hit and miss accounting.
func (s *Store) Lookup(number int) (int, bool) {
	i := s.Find(number)
	if i < 0 {
		s.misses++
		return -1, false
	}
	s.hits++
	return i, true
}

// Clear releases slot i: both scenes are dropped, the page handle is
// closed and the slot becomes unused. Clearing a cleared slot is a no-op.
// The slot is reset before the page is closed, so it ends up unused even
// when closing fails or panics. A panic is returned as an error wrapping
// ErrClosePanic.
func (s *Store) Clear(i int) (err error) {
	slot := &s.slots[i]
	page, number := slot.Page, slot.Number
	*slot = Slot{Number: Unused}
	if page == nil {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cache: close page %d: %w: %v", number, ErrClosePanic, r)
		}
	}()
	if cerr := page.Close(); cerr != nil {
		return fmt.Errorf("cache: close page %d: %w", number, cerr)
	}
	return nil
}

// ClearAll clears every slot and returns the joined close errors. A
// failing slot does not stop the others from being cleared.
func (s *Store) ClearAll() error {
	var errs []error
	for i := range s.slots {
		if err := s.Clear(i); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Reset marks the cleared slot i as loading number. The caller stores the
// page handle once it is loaded.
// Placeholder geometry keeps the slot drawable if the load fails.
func (s *Store) Reset(i, number int) *Slot {
	slot := &s.slots[i]
	*slot = Slot{
		Number: number,
		Width:  PlaceholderSize,
		Height: PlaceholderSize,
	}
	s.loads++
	return slot
}

// Pages returns the page numbers of the in-use slots in slot order.
func (s *Store) Pages() []int {
	pages := make([]int, 0, len(s.slots))
	for i := range s.slots {
		if s.slots[i].InUse() {
			pages = append(pages, s.slots[i].Number)
		}
	}
	return pages
}

// Stats returns a snapshot of the counters.
func (s *Store) Stats() Stats {
	return Stats{
		Hits:      s.hits,
		Misses:    s.misses,
		Evictions: s.evictions,
		Loads:     s.loads,
		Len:       s.Len(),
		Capacity:  len(s.slots),
	}
}

// ResetStats zeroes the counters.
func (s *Store) ResetStats() {
	s.hits, s.misses, s.evictions, s.loads = 0, 0, 0, 0
}
