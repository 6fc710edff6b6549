package elastichash

// geometricLayout partitions a total capacity N into a sequence of
// sub-array capacities, geometrically decreasing so that sum(capacities)
// == N exactly, capacities are non-increasing, and almost all entries
// live in one dense, cache-friendly level 0.
func geometricLayout(n, minLevelSize int) []int {
	if n < 1 {
		n = 1
	}
	if minLevelSize < 1 {
		minLevelSize = 1
	}

	var caps []int
	r := n
	for r > 2*minLevelSize {
		half := r - r/2
		caps = append(caps, half)
		r -= half
	}
	caps = append(caps, r)
	return caps
}
