package training

import (
	"math"
	"math/rand"
)

// split partitions row indices into train and test sets. The same
// seed and size always produce the same partition; at least one row
// lands on each side when n >= 2.
func split(n int, testRatio float64, seed int64) (train, test []int) {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic split for reproducibility
	perm := rng.Perm(n)

	nTest := int(math.Round(float64(n) * testRatio))
	if nTest < 1 {
		nTest = 1
	}
	if nTest >= n {
		nTest = n - 1
	}

	test = perm[:nTest]
	train = perm[nTest:]
	return train, test
}
