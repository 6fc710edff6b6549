package elastichash

import (
	"bytes"
	"fmt"
)

const minTotalCapacity = 64

// Default tuning parameters.
const (
	defaultMinLevelSize   = 16
	defaultMaxLoad        = 0.90
	defaultTombstoneRatio = 0.15
)

// Option configures a Table at construction time.
type Option func(*Table)

// WithMinLevelSize overrides the minimum sub-array size used by the
// geometric layout builder. Default 16.
func WithMinLevelSize(n int) Option {
	return func(t *Table) {
		if n > 0 {
			t.minLevelSize = n
		}
	}
}

// WithMaxLoad overrides the load factor past which insert triggers a
// doubling rebuild. Default 0.90.
func WithMaxLoad(f float64) Option {
	return func(t *Table) {
		if f > 0 && f < 1 {
			t.maxLoad = f
		}
	}
}

// WithTombstoneRatio overrides the fraction of total capacity occupied
// by tombstones past which insert triggers a same-size compaction
// rebuild. Default 0.15.
func WithTombstoneRatio(f float64) Option {
	return func(t *Table) {
		if f > 0 && f < 1 {
			t.tombstoneRatio = f
		}
	}
}

// WithHasher overrides the default xxhash-backed hash function. Mainly
// useful for tests that want to force collisions or exercise specific
// probe sequences.
func WithHasher(h Hasher) Option {
	return func(t *Table) {
		if h != nil {
			t.hasher = h
		}
	}
}

// Table is the outer container: an ordered sequence of geometrically
// decreasing sub-arrays, a global live-entry count, and the rebuild
// policy parameters. It is single-owner, single-thread: no internal
// locking, no atomics, no suspension point.
type Table struct {
	levels []*subArray
	count  int

	minLevelSize   int
	maxLoad        float64
	tombstoneRatio float64
	hasher         Hasher
}

// New creates a table with the requested total capacity, floored to 64.
// Smaller requests are silently raised to the floor.
func New(requestedCapacity int, opts ...Option) *Table {
	t := &Table{
		minLevelSize:   defaultMinLevelSize,
		maxLoad:        defaultMaxLoad,
		tombstoneRatio: defaultTombstoneRatio,
		hasher:         defaultHasher,
	}
	for _, opt := range opts {
		opt(t)
	}

	capacity := requestedCapacity
	if capacity < minTotalCapacity {
		capacity = minTotalCapacity
	}
	t.levels = buildLevels(capacity, t.minLevelSize)
	return t
}

func buildLevels(capacity, minLevelSize int) []*subArray {
	sizes := geometricLayout(capacity, minLevelSize)
	levels := make([]*subArray, len(sizes))
	for i, c := range sizes {
		levels[i] = newSubArray(i, c)
	}
	return levels
}

// Capacity returns total_capacity: the sum of sub-array capacities.
func (t *Table) Capacity() int {
	total := 0
	for _, lvl := range t.levels {
		total += lvl.capacity()
	}
	return total
}

// Len returns the global live-entry count.
func (t *Table) Len() int {
	return t.count
}

// NumLevels returns the current number of sub-arrays.
func (t *Table) NumLevels() int {
	return len(t.levels)
}

// totalTombstones sums tombstone counts across all levels.
func (t *Table) totalTombstones() int {
	total := 0
	for _, lvl := range t.levels {
		total += lvl.tombstones
	}
	return total
}

// find walks levels low to high; within a level's probe budget, an
// occupied matching slot is a hit, an empty slot short-circuits
// the level (the key was never forced past it), and a tombstone keeps
// probing. Shared, unmodified, by Get/Delete/Insert's update path so a
// key can never be searched for fewer slots than it could have been
// inserted into.
func (t *Table) find(key []byte) (level, idx int, found bool) {
levelLoop:
	for li, lvl := range t.levels {
		c := lvl.capacity()
		if c == 0 {
			continue
		}
		h1, h2 := t.hasher(key, li)
		budget := lvl.probeBudget()
		for a := 0; a < budget; a++ {
			pos := int((h1 + uint64(a)*h2) % uint64(c))
			s := &lvl.slots[pos]
			switch s.state {
			case slotOccupied:
				if bytes.Equal(s.key, key) {
					return li, pos, true
				}
			case slotEmpty:
				continue levelLoop
			case slotTombstone:
				// keep probing
			}
		}
	}
	return 0, 0, false
}

// Get returns a borrowed view of the value stored for key. The returned
// slice aliases the table's internal storage and is only valid until the
// next mutation: callers needing persistence must copy out.
func (t *Table) Get(key []byte) ([]byte, bool) {
	li, idx, found := t.find(key)
	if !found {
		return nil, false
	}
	return t.levels[li].slots[idx].value, true
}

// Contains reports whether key is present.
func (t *Table) Contains(key []byte) bool {
	_, _, found := t.find(key)
	return found
}

// Insert replaces in place if key is present, otherwise checks
// load/tombstone thresholds, then cascade-inserts level by level,
// growing once on exhaustion.
func (t *Table) Insert(key, value []byte) error {
	if li, idx, found := t.find(key); found {
		t.levels[li].slots[idx].value = cloneBytes(value)
		return nil
	}

	if loadThresholdReached(t.count, t.Capacity(), t.maxLoad) {
		if err := t.rebuild(t.Capacity() * 2); err != nil {
			return fmt.Errorf("elastichash: grow on load threshold: %w", err)
		}
	} else if tombstoneThresholdReached(t.totalTombstones(), t.Capacity(), t.tombstoneRatio) {
		if err := t.rebuild(t.Capacity()); err != nil {
			return fmt.Errorf("elastichash: compaction rebuild: %w", err)
		}
	}

	keyCopy := cloneBytes(key)
	valueCopy := cloneBytes(value)

	if t.cascadeInsert(keyCopy, valueCopy) {
		return nil
	}

	// Exhaustion: grow and retry once. The rebuild guarantees headroom,
	// so a second exhaustion is a bug in the probe-budget/layout
	// invariants, not a runtime condition callers should expect to
	// handle.
	if err := t.rebuild(t.Capacity() * 2); err != nil {
		return fmt.Errorf("elastichash: grow on cascade exhaustion: %w", err)
	}
	if !t.cascadeInsert(keyCopy, valueCopy) {
		panic("elastichash: cascade insert failed immediately after a guaranteed-headroom rebuild")
	}
	return nil
}

// cascadeInsert attempts placement at level 0 first, then 1, 2, ... the
// discipline by which elastic hashing fills level 0 densely and lets
// later levels absorb the residue without ever reordering an existing
// entry.
func (t *Table) cascadeInsert(key, value []byte) bool {
	for li, lvl := range t.levels {
		c := lvl.capacity()
		if c == 0 {
			continue
		}
		h1, h2 := t.hasher(key, li)
		budget := lvl.probeBudget()
		for a := 0; a < budget; a++ {
			pos := int((h1 + uint64(a)*h2) % uint64(c))
			s := &lvl.slots[pos]
			switch s.state {
			case slotEmpty:
				s.occupy(key, value)
				lvl.live++
				t.count++
				return true
			case slotTombstone:
				s.occupy(key, value)
				lvl.tombstones--
				lvl.live++
				t.count++
				return true
			case slotOccupied:
				// skip, try next probe
			}
		}
	}
	return false
}

// Delete finds the key, then frees the slot's payload, marks it a
// tombstone, and adjusts counters. Tombstones accumulate until the next
// rebuild.
func (t *Table) Delete(key []byte) bool {
	li, idx, found := t.find(key)
	if !found {
		return false
	}
	lvl := t.levels[li]
	s := &lvl.slots[idx]
	s.key = nil
	s.value = nil
	s.state = slotTombstone
	lvl.live--
	lvl.tombstones++
	t.count--
	return true
}

// LevelStats exposes each sub-array's occupancy, in construction order.
func (t *Table) LevelStats() []LevelStat {
	out := make([]LevelStat, len(t.levels))
	for i, lvl := range t.levels {
		out[i] = newLevelStat(lvl)
	}
	return out
}

// Stats aggregates table-wide occupancy over LevelStats.
func (t *Table) Stats() Stats {
	capacity := t.Capacity()
	tombstones := t.totalTombstones()
	var load, tombRatio float64
	if capacity > 0 {
		load = float64(t.count) / float64(capacity)
		tombRatio = float64(tombstones) / float64(capacity)
	}
	return Stats{
		Count:          t.count,
		Capacity:       capacity,
		Tombstones:     tombstones,
		LoadFactor:     load,
		TombstoneRatio: tombRatio,
		Levels:         t.LevelStats(),
	}
}

// String renders a debug dump of per-level occupancy.
func (t *Table) String() string {
	s := fmt.Sprintf("Table: size=%d, capacity=%d, levels=%d\n", t.count, t.Capacity(), len(t.levels))
	for _, lvl := range t.LevelStats() {
		s += fmt.Sprintf("  level %d: capacity=%d live=%d tombstones=%d fill=%.3f\n",
			lvl.Level, lvl.Capacity, lvl.Live, lvl.Tombstones, lvl.FillRatio)
	}
	return s
}

func loadThresholdReached(count, capacity int, maxLoad float64) bool {
	return count >= int(float64(capacity)*maxLoad)
}

func tombstoneThresholdReached(tombstones, capacity int, ratio float64) bool {
	return tombstones >= int(float64(capacity)*ratio)
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
