package assign

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/giftring/pkg/constraint"
)

// FindMatching finds an assignment made of one or more cycles, each of length
// two or more, by computing a perfect matching between givers and receivers
// of the legal gives-to graph. Self-assignment is excluded by the graph
// itself, so every perfect matching is a valid derangement.
//
// The result is a giver index → receiver index table. Givers are matched in a
// random order over shuffled receiver lists, so repeated calls explore
// different solutions; the result is not uniform over all derangements.
//
// It returns ErrNoMatching when no perfect matching exists.
//
// Complexity: O(n · E) with Kuhn's augmenting paths.
func FindMatching(ctx context.Context, g *constraint.Graph, rng *rand.Rand) ([]int, error) {
	next, _, err := findMatching(g, rng, newBudget(ctx, Limits{}))
	return next, err
}

// findMatching returns the matching, or on failure the Hall-deficient set of
// givers found by the failed augmentation: givers whose combined legal
// receivers are one fewer than their number.
func findMatching(g *constraint.Graph, rng *rand.Rand, b *budget) ([]int, []int, error) {
	n := g.Len()
	adj := make([][]int, n)
	for i := range n {
		adj[i] = g.Successors(i)
		rng.Shuffle(len(adj[i]), func(x, y int) { adj[i][x], adj[i][y] = adj[i][y], adj[i][x] })
	}

	giverOf := make([]int, n)
	for j := range giverOf {
		giverOf[j] = -1
	}

	var (
		seen    []bool
		reached []int
	)
	var augment func(u int) (bool, error)
	augment = func(u int) (bool, error) {
		if err := b.step(); err != nil {
			return false, err
		}
		reached = append(reached, u)
		for _, v := range adj[u] {
			if seen[v] {
				continue
			}
			seen[v] = true
			if giverOf[v] < 0 {
				giverOf[v] = u
				return true, nil
			}
			ok, err := augment(giverOf[v])
			if err != nil {
				return false, err
			}
			if ok {
				giverOf[v] = u
				return true, nil
			}
		}
		return false, nil
	}

	for _, giver := range rng.Perm(n) {
		seen = make([]bool, n)
		reached = reached[:0]
		ok, err := augment(giver)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			deficient := slices.Clone(reached)
			slices.Sort(deficient)
			return nil, deficient, ErrNoMatching
		}
	}

	next := make([]int, n)
	for receiver, giver := range giverOf {
		next[giver] = receiver
	}
	return next, nil, nil
}

// hasPerfectMatching runs findMatching on a budget that only observes the
// context, then charges the work to b.
func hasPerfectMatching(g *constraint.Graph, rng *rand.Rand, b *budget) ([]int, error) {
	mb := b.unbounded()
	_, deficient, err := findMatching(g, rng, mb)
	b.nodes = mb.nodes
	if errors.Is(err, ErrNoMatching) {
		return deficient, ErrNoMatching
	}
	return nil, err
}
