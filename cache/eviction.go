package cache

// Victim returns the slot to reuse for number.
//
// The first slot without a loaded page wins. Otherwise the in-use slot whose page number
// is furthest from number is chosen, the first one on ties. Choosing an
// in-use slot counts as an eviction; the caller clears it.
func (s *Store) Victim(number int) int {
	for i := range s.slots {
		if !s.slots[i].InUse() {
			return i
		}
	}

	victim, furthest := 0, -1
	for i := range s.slots {
		if d := distance(s.slots[i].Number, number); d > furthest {
			victim, furthest = i, d
		}
	}
	s.evictions++
	return victim
}

func distance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
