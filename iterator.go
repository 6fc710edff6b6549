package elastichash

import "iter"

// All returns an iterator over every live (key, value) pair, in
// level index ascending, slot index ascending order. The yielded slices
// are borrows into the table's internal storage and are only valid until
// the next mutation; copy out before mutating if you need to keep them.
// Like any iterator, ranging over a table being concurrently mutated is
// undefined.
func (t *Table) All() iter.Seq2[[]byte, []byte] {
	return func(yield func([]byte, []byte) bool) {
		for _, lvl := range t.levels {
			for i := range lvl.slots {
				s := &lvl.slots[i]
				if s.state != slotOccupied {
					continue
				}
				if !yield(s.key, s.value) {
					return
				}
			}
		}
	}
}
