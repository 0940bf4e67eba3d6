// Package album supplies album identifiers to the engine.
//
// A Supplier hands out names from a fixed list in its original order,
// wrapping around forever. The list is read-only after construction; only
// the cursor moves.
package album

import "fmt"

// Supplier cycles through a fixed, ordered list of album identifiers.
//
// INVARIANT: the list holds at least one entry.
type Supplier struct {
	names  []string
	cursor int
}

// NewSupplier creates a supplier over names.
// The slice is copied so later mutation by the caller cannot reorder it.
//
// Panics if names is empty.
func NewSupplier(names []string) *Supplier {
	if len(names) == 0 {
		panic("album: supplier requires at least one album")
	}
	cp := make([]string, len(names))
	copy(cp, names)
	return &Supplier{names: cp}
}

// Next returns the album at the cursor and advances it modulo the list length.
func (s *Supplier) Next() string {
	name := s.names[s.cursor]
	s.cursor++
	if s.cursor >= len(s.names) {
		s.cursor = 0
	}
	return name
}

// Len returns the number of distinct albums.
func (s *Supplier) Len() int {
	return len(s.names)
}

// Names returns a copy of the album list in supply order.
func (s *Supplier) Names() []string {
	cp := make([]string, len(s.names))
	copy(cp, s.names)
	return cp
}

// Synthetic returns n placeholder names "album-000.jpg", "album-001.jpg", ...
// Used by headless hosts and tests that have no artwork directory.
func Synthetic(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("album-%03d.jpg", i)
	}
	return names
}
