package elastichash

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Hasher derives two independent 64-bit probe values for a (key, level)
// pair. h2 is guaranteed odd, so the double-hashing sequence
// (h1 + a*h2) mod capacity visits every slot when capacity is a power of
// two; for other capacities its period is capacity / gcd(h2, capacity).
type Hasher func(key []byte, level int) (h1, h2 uint64)

// defaultHasher seeds an xxhash digest with a level-derived salt so that
// two keys colliding at level L need not collide at level L+1 (the salt
// mixes the level with the golden-ratio constant), then derives a second
// value via an xorshift-multiply avalanche remix of the first.
func defaultHasher(key []byte, level int) (h1, h2 uint64) {
	var salt [8]byte
	binary.LittleEndian.PutUint64(salt[:], uint64(level)*0x9E3779B97F4A7C15+1)

	d := xxhash.New()
	d.Write(salt[:])
	d.Write(key)
	h1 = d.Sum64()

	h2 = h1 ^ (h1 >> 33)
	h2 *= 0xC2B2AE3D27D4EB4F
	h2 ^= h2 >> 29
	h2 |= 1

	return h1, h2
}
