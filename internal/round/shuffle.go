package round

import "math/rand/v2"

// Shuffle permutes vals in place with Fisher-Yates, uniform over all orderings.
func Shuffle(vals []int, rng *rand.Rand) {
	for i := len(vals) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		vals[i], vals[j] = vals[j], vals[i]
	}
}

// Sample returns n distinct elements of pool chosen uniformly without
// replacement. pool is permuted as a side effect.
func Sample(pool []int, n int, rng *rand.Rand) []int {
	if n > len(pool) {
		n = len(pool)
	}
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	out := make([]int, n)
	copy(out, pool[:n])
	return out
}
