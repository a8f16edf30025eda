package assign

import (
	"context"
	"math/rand/v2"

	"github.com/matzehuels/giftring/pkg/constraint"
)

// RandomRing draws up to attempts uniformly random cyclic orderings of the
// participants and returns the first one whose every edge is legal, together
// with the number of orderings drawn. It returns a nil ring if none of them
// was legal.
//
// Ring position k gives to position k+1 and the last position gives to the
// first. Because rejection keeps every legal ring equally likely, the result
// is uniform over all valid single-cycle assignments.
//
// Complexity: O(attempts · n).
func RandomRing(g *constraint.Graph, rng *rand.Rand, attempts int) ([]int, int) {
	ring, tried, _ := randomRing(g, rng, attempts, newBudget(context.Background(), Limits{}))
	return ring, tried
}

func randomRing(g *constraint.Graph, rng *rand.Rand, attempts int, b *budget) ([]int, int, error) {
	n := g.Len()
	for tried := 1; tried <= attempts; tried++ {
		if err := b.check(); err != nil {
			return nil, tried - 1, err
		}
		ring := rng.Perm(n)
		if ringLegal(g, ring) {
			return ring, tried, nil
		}
	}
	return nil, attempts, nil
}

func ringLegal(g *constraint.Graph, ring []int) bool {
	for k, giver := range ring {
		if !g.Allowed(giver, ring[(k+1)%len(ring)]) {
			return false
		}
	}
	return true
}
