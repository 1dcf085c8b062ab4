package policy

import "math/rand/v2"

// IntN must be safe for concurrent use.
type IntN func(n int) int

// #nosec G404 -- non-cryptographic random is acceptable for reviewer selection
var defaultIntN IntN = rand.IntN

// Sample picks up to k distinct elements of pool without modifying it.
func Sample[T any](pool []T, k int, intn IntN) []T {
	if k <= 0 || len(pool) == 0 {
		return nil
	}
	if intn == nil {
		intn = defaultIntN
	}

	rest := make([]T, len(pool))
	copy(rest, pool)

	if len(rest) <= k {
		return rest
	}

	out := make([]T, 0, k)
	for len(out) < k {
		idx := intn(len(rest))
		out = append(out, rest[idx])
		rest[idx] = rest[len(rest)-1]
		rest = rest[:len(rest)-1]
	}
	return out
}

func PickOne[T any](pool []T, intn IntN) (T, bool) {
	picked := Sample(pool, 1, intn)
	if len(picked) == 0 {
		var zero T
		return zero, false
	}
	return picked[0], true
}
