package elastichash

// slotState tags the three-way state of a slot. Payload (key and value
// bytes) is present exactly when state is slotOccupied; this removes the
// need for a separate validity bit alongside the payload pointers.
type slotState uint8

const (
	slotEmpty slotState = iota
	slotOccupied
	slotTombstone
)

// slot is one cell of a sub-array. Transitions are empty->occupied,
// occupied->tombstone, tombstone->occupied; occupied->empty and
// tombstone->empty only happen via whole sub-array teardown (rebuild).
type slot struct {
	state slotState
	key   []byte
	value []byte
}

func (s *slot) clear() {
	s.state = slotEmpty
	s.key = nil
	s.value = nil
}

func (s *slot) occupy(key, value []byte) {
	s.state = slotOccupied
	s.key = key
	s.value = value
}

// take moves the slot's payload out and resets the slot to empty,
// without copying bytes, for use during rebuild.
func (s *slot) take() (key, value []byte) {
	key, value = s.key, s.value
	s.clear()
	return key, value
}
