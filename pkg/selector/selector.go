// Package selector picks one item from a content pool reproducibly from a
// seed string alone. Selection is a pure hash-indexed lookup: same seed and
// same pool ordering yield the same pick in every process, forever. That is
// what makes "why was I shown this advice" answerable after the fact.
package selector

import "hash/fnv"

// Index maps a seed to a stable index in [0,n). It is the single hashing
// call site for content selection; every pool pick goes through it so the
// algorithm can never drift between callers. Returns -1 when n <= 0.
func Index(seed string, n int) int {
	if n <= 0 {
		return -1
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(seed))
	return int(h.Sum32() % uint32(n))
}

// Pick returns a pointer to the selected pool item, or nil for an empty
// pool. The pointer aliases the pool slice; pools are immutable by
// convention.
func Pick[T any](pool []T, seed string) *T {
	i := Index(seed, len(pool))
	if i < 0 {
		return nil
	}
	return &pool[i]
}
